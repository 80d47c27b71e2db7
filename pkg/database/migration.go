package database

import (
	"github.com/sunrinpass/server/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Pass{},
	)
}
