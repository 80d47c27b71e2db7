package service

import (
	"context"

	"github.com/sunrinpass/server/internal/dto"
	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/model"
	"github.com/sunrinpass/server/internal/repository"
	"github.com/sunrinpass/server/pkg/logger"
	"go.uber.org/zap"
)

// AuthService glues the upstream identity provider's validated profile
// to the local user record and to token issuance.
type AuthService struct {
	users  *repository.UserRepository
	tokens *TokenService
}

func NewAuthService(users *repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// ValidateUser upserts the user for a provider profile: known users get
// their name and teacher flag refreshed from the directory, unknown
// users are created.
func (s *AuthService) ValidateUser(ctx context.Context, profile dto.GoogleCallbackRequest) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}

		user = &model.User{
			Email:     profile.Email,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			IsTeacher: profile.IsTeacher,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}

		logger.GetLogger().Info("User created from provider profile",
			zap.String("user_id", user.ID),
			zap.Bool("is_teacher", user.IsTeacher),
		)
		return user, nil
	}

	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.IsTeacher = profile.IsTeacher
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return user, nil
}

// Login issues a token pair for an already validated user.
func (s *AuthService) Login(ctx context.Context, user *model.User) (TokenPair, error) {
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return TokenPair{}, err
	}

	logger.LogAuth(user.ID, "login", true)
	return pair, nil
}

// Refresh rotates a refresh token presented to the refresh endpoint.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken)
}

// CurrentUser resolves the authenticated identity to its user record.
func (s *AuthService) CurrentUser(ctx context.Context, identity Identity) (*model.User, error) {
	user, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}
