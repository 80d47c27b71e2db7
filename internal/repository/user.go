package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sunrinpass/server/internal/model"
	"github.com/sunrinpass/server/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	start := time.Now()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateRefreshToken overwrites the stored refresh token hash. Writing a
// new hash implicitly invalidates whatever token hashed to the previous
// value; passing nil clears it.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID string, hash *string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", hash).Error
}

// ListTeachers returns the teacher directory ordered by name.
func (r *UserRepository) ListTeachers(ctx context.Context) ([]model.User, error) {
	var teachers []model.User
	err := r.db.WithContext(ctx).
		Where("is_teacher = ?", true).
		Order("last_name, first_name").
		Find(&teachers).Error
	return teachers, err
}
