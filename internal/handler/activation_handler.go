package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/licensing-api/internal/service"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
)

// ActivationHandler exposes the student-facing activation endpoint. Responses
// keep the flat wire shape the activation clients already speak.
type ActivationHandler struct {
	requests *service.RequestService
}

// NewActivationHandler constructs ActivationHandler.
func NewActivationHandler(requests *service.RequestService) *ActivationHandler {
	return &ActivationHandler{requests: requests}
}

// Submit godoc
// @Summary Submit an activation request
// @Tags Activation
// @Accept json
// @Produce json
// @Param payload body service.SubmitRequest true "Activation payload"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]interface{}
// @Router /api/request-activation [post]
func (h *ActivationHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": "missing"})
		return
	}
	if req.StudentID == "" || req.HWID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": "missing"})
		return
	}

	if _, err := h.requests.Submit(c.Request.Context(), req); err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": "missing"})
			return
		}
		c.JSON(appErr.Status, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
