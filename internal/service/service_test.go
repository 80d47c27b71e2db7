package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sunrinpass/server/config"
	"github.com/sunrinpass/server/internal/model"
)

// setupTestDB opens a shared in-memory database. A single open
// connection keeps all sessions on the same sqlite memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Pass{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "test"},
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Hour,
			RefreshTTL:    7 * 24 * time.Hour,
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string, isTeacher bool) *model.User {
	t.Helper()

	user := &model.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		IsTeacher: isTeacher,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
