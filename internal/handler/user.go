package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/internal/dto"
	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Teachers lists all teacher accounts for the pass request form.
func (h *UserHandler) Teachers(c *gin.Context) {
	teachers, err := h.users.ListTeachers(c.Request.Context())
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to list teachers", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewUserListResponse(teachers)))
}

// GetByID returns one user's public profile.
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user id", nil))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to fetch user", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewUserResponse(user)))
}
