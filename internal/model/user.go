package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity record synced from the upstream directory. The
// refresh token is stored only as a bcrypt hash; at most one value is
// live per user and issuing a new pair overwrites the previous hash.
type User struct {
	ID               string  `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string  `gorm:"uniqueIndex;not null" json:"email"`
	FirstName        string  `gorm:"column:first_name;not null" json:"firstName"`
	LastName         string  `gorm:"column:last_name;not null" json:"lastName"`
	IsTeacher        bool    `gorm:"column:is_teacher;not null" json:"isTeacher"`
	RefreshTokenHash *string `gorm:"column:refresh_token_hash" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
