package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/internal/dto"
	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/middleware"
	"github.com/sunrinpass/server/internal/service"
	"github.com/sunrinpass/server/pkg/validation"
)

type PassHandler struct {
	passes *service.PassService
}

func NewPassHandler(passes *service.PassService) *PassHandler {
	return &PassHandler{passes: passes}
}

// Create files a new pass request for the authenticated student.
func (h *PassHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	var req dto.CreatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	pass, err := h.passes.Create(c.Request.Context(), req, identity.ID)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to create pass", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(dto.NewPassResponse(pass)))
}

// MyPasses lists the student's active pass requests.
func (h *PassHandler) MyPasses(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	passes, err := h.passes.ListForStudent(c.Request.Context(), identity.ID)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to list passes", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewPassListResponse(passes)))
}

// Pending lists pass requests awaiting the authenticated teacher's
// decision.
func (h *PassHandler) Pending(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	passes, err := h.passes.ListForTeacher(c.Request.Context(), identity.ID)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to list pending passes", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewPassListResponse(passes)))
}

// Approve records the teacher's decision on a pending pass.
func (h *PassHandler) Approve(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid pass id", nil))
		return
	}

	var req dto.ApprovePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	pass, err := h.passes.Approve(c.Request.Context(), id, req, identity)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to decide pass", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewPassResponse(pass)))
}

// Verify redeems a scanned QR proof at the gate.
func (h *PassHandler) Verify(c *gin.Context) {
	var req dto.VerifyPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	result, err := h.passes.Verify(c.Request.Context(), req.ID, req.Hash)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to verify pass", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns one pass to its student or assigned teacher.
func (h *PassHandler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid pass id", nil))
		return
	}

	pass, err := h.passes.Get(c.Request.Context(), id, identity)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to fetch pass", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(dto.NewPassResponse(pass)))
}
