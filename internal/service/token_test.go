package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/repository"
)

func newTestTokenService(t *testing.T) (*TokenService, *repository.UserRepository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	return NewTokenService(users, testConfig()), users, db
}

func TestIssueStoresRefreshHash(t *testing.T) {
	tokens, users, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshTokenHash)
	assert.NotEqual(t, pair.RefreshToken, *stored.RefreshTokenHash)
	assert.True(t, refreshTokenMatches(*stored.RefreshTokenHash, pair.RefreshToken))
}

func TestVerifyAccess(t *testing.T) {
	tokens, _, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "teacher@sunrin.hs.kr", true)

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	claims, err := tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.True(t, claims.IsTeacher)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	// The two token kinds use distinct secrets, so a refresh token can
	// never stand in for an access token.
	tokens, _, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(pair.RefreshToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestVerifyAccessExpired(t *testing.T) {
	tokens, _, db := newTestTokenService(t)
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	expired, err := tokens.sign(user, tokens.jwt.AccessSecret, -time.Minute)
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAccessGarbage(t *testing.T) {
	tokens, _, _ := newTestTokenService(t)

	_, err := tokens.VerifyAccess("not.a.token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestRotateIssuesNewPair(t *testing.T) {
	tokens, _, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	rotatedUser, rotated, err := tokens.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, rotatedUser.ID)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	claims, err := tokens.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestRotateRejectsReplayedToken(t *testing.T) {
	tokens, _, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	_, _, err = tokens.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// The stored hash now belongs to the rotated token; the superseded
	// one must be rejected.
	_, _, err = tokens.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRotateRejectsForgedToken(t *testing.T) {
	tokens, _, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	// Well-formed but signed with the wrong secret.
	forged, err := tokens.sign(user, "wrong-secret", time.Hour)
	require.NoError(t, err)

	_, _, err = tokens.Rotate(ctx, forged)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRotateRejectsWhenNoHashStored(t *testing.T) {
	tokens, _, db := newTestTokenService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "student@sunrin.hs.kr", false)

	refresh, err := tokens.sign(user, tokens.jwt.RefreshSecret, time.Hour)
	require.NoError(t, err)

	// Signature checks out but the user never had a pair issued.
	_, _, err = tokens.Rotate(ctx, refresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestCookies(t *testing.T) {
	tokens, _, _ := newTestTokenService(t)

	access := tokens.AccessCookie("access-value")
	assert.Equal(t, "accessToken", access.Name)
	assert.Equal(t, "access-value", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), access.MaxAge)
	assert.False(t, access.Secure)

	refresh := tokens.RefreshCookie("refresh-value")
	assert.Equal(t, "refreshToken", refresh.Name)
	assert.Equal(t, int((7*24*time.Hour).Seconds()), refresh.MaxAge)

	cleared := tokens.ClearCookies()
	require.Len(t, cleared, 2)
	for _, cookie := range cleared {
		assert.Empty(t, cookie.Value)
		assert.Equal(t, -1, cookie.MaxAge)
	}
}

func TestHashRefreshTokenHandlesLongInput(t *testing.T) {
	// JWTs exceed bcrypt's 72-byte limit; the digest step keeps hashing
	// working for arbitrary lengths.
	long := make([]byte, 512)
	for i := range long {
		long[i] = byte('a' + i%26)
	}

	hash, err := hashRefreshToken(string(long))
	require.NoError(t, err)
	assert.True(t, refreshTokenMatches(hash, string(long)))
	assert.False(t, refreshTokenMatches(hash, string(long[:511])))
}
