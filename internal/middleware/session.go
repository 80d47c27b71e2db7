package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/internal/service"
	"github.com/sunrinpass/server/pkg/logger"
	"go.uber.org/zap"
)

// Permission is the declarative per-route access descriptor evaluated
// before the handler runs.
type Permission int

const (
	PermissionPublic Permission = iota
	PermissionAuthenticated
	PermissionTeacher
	PermissionStudent
)

// SessionMiddleware is the single authentication boundary. The silent
// refresh decision lives only here; no other component re-implements it.
type SessionMiddleware struct {
	tokens *service.TokenService
}

func NewSessionMiddleware(tokens *service.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// Require evaluates perm for every request on the route:
// public routes pass through; everything else needs a valid access
// token, with one silent rotation attempt when the token is merely
// expired and a refresh token is present. Any other failure clears both
// credential cookies and rejects with 401.
func (m *SessionMiddleware) Require(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if perm == PermissionPublic {
			c.Next()
			return
		}

		identity, err := m.authenticate(c)
		if err != nil {
			for _, cookie := range m.tokens.ClearCookies() {
				http.SetCookie(c.Writer, cookie)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse("Unauthorized", nil))
			return
		}

		if perm == PermissionTeacher && !identity.IsTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse("Teacher role required", nil))
			return
		}
		if perm == PermissionStudent && identity.IsTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse("Student role required", nil))
			return
		}

		c.Set(constants.CtxIdentity, identity)
		c.Next()
	}
}

func (m *SessionMiddleware) authenticate(c *gin.Context) (service.Identity, error) {
	access, err := c.Cookie(constants.CookieAccessToken)
	if err != nil {
		return service.Identity{}, err
	}

	claims, err := m.tokens.VerifyAccess(access)
	if err == nil {
		return service.Identity{
			ID:        claims.Subject,
			Email:     claims.Email,
			IsTeacher: claims.IsTeacher,
		}, nil
	}

	if !errors.Is(err, service.ErrTokenExpired) {
		return service.Identity{}, err
	}

	// Expired access token: one silent rotation attempt.
	refresh, cerr := c.Cookie(constants.CookieRefreshToken)
	if cerr != nil {
		return service.Identity{}, cerr
	}

	user, pair, rerr := m.tokens.Rotate(c.Request.Context(), refresh)
	if rerr != nil {
		return service.Identity{}, rerr
	}

	http.SetCookie(c.Writer, m.tokens.AccessCookie(pair.AccessToken))
	http.SetCookie(c.Writer, m.tokens.RefreshCookie(pair.RefreshToken))

	logger.GetLogger().Debug("Silent token refresh",
		zap.String("user_id", user.ID),
		zap.String("path", c.Request.URL.Path),
	)

	return service.Identity{
		ID:        user.ID,
		Email:     user.Email,
		IsTeacher: user.IsTeacher,
	}, nil
}

// IdentityFrom returns the authenticated identity set by Require.
func IdentityFrom(c *gin.Context) (service.Identity, bool) {
	value, exists := c.Get(constants.CtxIdentity)
	if !exists {
		return service.Identity{}, false
	}
	identity, ok := value.(service.Identity)
	return identity, ok
}
