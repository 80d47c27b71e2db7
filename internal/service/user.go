package service

import (
	"context"

	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/model"
	"github.com/sunrinpass/server/internal/repository"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

// ListTeachers backs the teacher picker shown when a student files a
// pass.
func (s *UserService) ListTeachers(ctx context.Context) ([]model.User, error) {
	teachers, err := s.users.ListTeachers(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return teachers, nil
}
