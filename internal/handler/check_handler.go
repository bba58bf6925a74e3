package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/licensing-api/internal/service"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
)

// CheckRequest is the typed payload of a runtime license check.
type CheckRequest struct {
	StudentID string `json:"student_id"`
	HWID      string `json:"hwid"`
}

// CheckHandler exposes the runtime eligibility check.
type CheckHandler struct {
	licenses *service.LicenseService
	metrics  *service.MetricsService
}

// NewCheckHandler constructs CheckHandler.
func NewCheckHandler(licenses *service.LicenseService, metrics *service.MetricsService) *CheckHandler {
	return &CheckHandler{licenses: licenses, metrics: metrics}
}

// Check godoc
// @Summary Check license state for a student and machine
// @Tags Activation
// @Accept json
// @Produce json
// @Param payload body CheckRequest true "Check payload"
// @Success 200 {object} models.CheckResult
// @Failure 400 {object} map[string]interface{}
// @Router /api/check [post]
func (h *CheckHandler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": "missing"})
		return
	}
	if req.StudentID == "" || req.HWID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": "missing"})
		return
	}

	result, err := h.licenses.Check(c.Request.Context(), req.StudentID, req.HWID)
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, gin.H{"ok": false})
		return
	}
	h.metrics.ObserveCheckResult(result.State, result.Reason)
	c.JSON(http.StatusOK, result)
}
