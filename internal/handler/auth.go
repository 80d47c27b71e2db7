package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunrinpass/server/config"
	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/internal/dto"
	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/middleware"
	"github.com/sunrinpass/server/internal/service"
	"github.com/sunrinpass/server/internal/session"
	"github.com/sunrinpass/server/pkg/logger"
	"github.com/sunrinpass/server/pkg/validation"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
	states *session.Store
	google config.GoogleConfig
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, states *session.Store, google config.GoogleConfig) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		tokens: tokens,
		states: states,
		google: google,
	}
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, pair service.TokenPair) {
	http.SetCookie(c.Writer, h.tokens.AccessCookie(pair.AccessToken))
	http.SetCookie(c.Writer, h.tokens.RefreshCookie(pair.RefreshToken))
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	for _, cookie := range h.tokens.ClearCookies() {
		http.SetCookie(c.Writer, cookie)
	}
}

// GoogleLogin issues a single-use login state and redirects the browser
// to the provider's consent screen with the state attached.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()

	if err := h.states.Save(c.Request.Context(), state, "pending"); err != nil {
		logger.GetLogger().Error("Failed to store login state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Login unavailable", nil))
		return
	}

	params := url.Values{}
	params.Set("client_id", h.google.ClientID)
	params.Set("redirect_uri", h.google.CallbackURL)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("state", state)

	c.Redirect(http.StatusFound, h.google.AuthURL+"?"+params.Encode())
}

// GoogleCallback finishes the login: the state must match one issued by
// GoogleLogin and not yet consumed, then the provider profile is
// upserted and a cookie session established.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var req dto.GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	if _, err := h.states.Consume(c.Request.Context(), req.State); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unknown or already used login state", nil))
			return
		}
		logger.GetLogger().Error("Failed to consume login state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Login unavailable", nil))
		return
	}

	user, err := h.auth.ValidateUser(c.Request.Context(), req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Login failed", apperrors.GetErrorMessage(err)))
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), user)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Login failed", apperrors.GetErrorMessage(err)))
		return
	}

	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, dto.LoginResponse{User: dto.NewUserResponse(user)})
}

// Status returns the authenticated user's profile.
func (h *AuthHandler) Status(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), identity)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewUserResponse(user)))
}

// Refresh rotates the refresh token explicitly. The token comes from
// the refreshToken cookie, with a body fallback for non-browser
// clients. Any failure clears both cookies.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(constants.CookieRefreshToken)
	if err != nil || token == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			h.clearSessionCookies(c)
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
			return
		}
		token = req.RefreshToken
	}

	user, pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearSessionCookies(c)
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, dto.LoginResponse{User: dto.NewUserResponse(user)})
}

// Logout ends the cookie session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out"))
}
