package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sunrinpass/server/config"
	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/internal/model"
	"github.com/sunrinpass/server/internal/repository"
	"github.com/sunrinpass/server/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrTokenExpired distinguishes an expired-but-well-formed token from
// every other verification failure; the session middleware only attempts
// a silent refresh on this error.
var ErrTokenExpired = errors.New("token expired")

// IdentityClaims is the signed payload carried by both token kinds.
type IdentityClaims struct {
	Email     string `json:"email"`
	IsTeacher bool   `json:"isTeacher"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID        string
	Email     string
	IsTeacher bool
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues, verifies and rotates the access/refresh token
// pair and owns their cookie representation.
type TokenService struct {
	users        *repository.UserRepository
	jwt          config.JWTConfig
	cookieDomain string
	secure       bool
}

func NewTokenService(users *repository.UserRepository, cfg *config.Config) *TokenService {
	return &TokenService{
		users:        users,
		jwt:          cfg.JWT,
		cookieDomain: cfg.Cookie.Domain,
		secure:       cfg.IsProduction(),
	}
}

func (s *TokenService) sign(user *model.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Email:     user.Email,
		IsTeacher: user.IsTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			// A jti keeps two tokens for the same user distinct even when
			// signed within the same second, so rotation always supersedes.
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// hashRefreshToken digests the token before bcrypt so the input stays
// under bcrypt's 72-byte limit regardless of JWT length.
func hashRefreshToken(token string) (string, error) {
	sum := sha256.Sum256([]byte(token))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func refreshTokenMatches(hash, token string) bool {
	sum := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hash), sum[:]) == nil
}

// Issue signs a fresh access/refresh pair for user and stores the
// refresh token's hash against the user record, superseding any
// previously issued refresh token.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (TokenPair, error) {
	access, err := s.sign(user, s.jwt.AccessSecret, s.jwt.AccessTTL)
	if err != nil {
		return TokenPair{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refresh, err := s.sign(user, s.jwt.RefreshSecret, s.jwt.RefreshTTL)
	if err != nil {
		return TokenPair{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hash, err := hashRefreshToken(refresh)
	if err != nil {
		return TokenPair{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &hash); err != nil {
		return TokenPair{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) verify(tokenStr, secret string) (*IdentityClaims, error) {
	var claims IdentityClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, apperrors.WrapError(apperrors.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrUnauthenticated
	}
	return &claims, nil
}

// VerifyAccess validates an access token. It returns ErrTokenExpired for
// an expired token and ErrUnauthenticated for every other failure.
func (s *TokenService) VerifyAccess(token string) (*IdentityClaims, error) {
	return s.verify(token, s.jwt.AccessSecret)
}

// Rotate verifies a refresh token against both its signature and the
// stored hash, then issues a fresh pair. The hash comparison is the sole
// replay defense: a token superseded by a later issue no longer matches
// and is rejected. Every failure is reported as ErrUnauthenticated.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*model.User, TokenPair, error) {
	claims, err := s.verify(refreshToken, s.jwt.RefreshSecret)
	if err != nil {
		return nil, TokenPair{}, apperrors.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, TokenPair{}, apperrors.ErrUnauthenticated
	}

	if user.RefreshTokenHash == nil || !refreshTokenMatches(*user.RefreshTokenHash, refreshToken) {
		logger.LogAuth(user.ID, "refresh_rotate", false,
			zap.String("reason", "stored hash mismatch"),
		)
		return nil, TokenPair{}, apperrors.ErrUnauthenticated
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, TokenPair{}, apperrors.ErrUnauthenticated
	}

	return user, pair, nil
}

func (s *TokenService) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.cookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *TokenService) AccessCookie(token string) *http.Cookie {
	return s.cookie(constants.CookieAccessToken, token, int(s.jwt.AccessTTL.Seconds()))
}

func (s *TokenService) RefreshCookie(token string) *http.Cookie {
	return s.cookie(constants.CookieRefreshToken, token, int(s.jwt.RefreshTTL.Seconds()))
}

// ClearCookies expires both credential cookies. The stored refresh hash
// is left in place; it stays valid until the next issue overwrites it,
// which is the accepted weakness of hash-overwrite invalidation.
func (s *TokenService) ClearCookies() []*http.Cookie {
	return []*http.Cookie{
		s.cookie(constants.CookieAccessToken, "", -1),
		s.cookie(constants.CookieRefreshToken, "", -1),
	}
}
