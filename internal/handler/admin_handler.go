package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/licensing-api/internal/models"
	"github.com/noah-isme/licensing-api/internal/service"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
	"github.com/noah-isme/licensing-api/pkg/response"
)

// ApproveRequest carries the grant length for an approval. A missing days
// field falls back to the configured default grant.
type ApproveRequest struct {
	Days *int `json:"days"`
}

// RejectRequest optionally overrides the admin note on rejection.
type RejectRequest struct {
	Note string `json:"note"`
}

// ExtendRequest carries the number of days to push an expiry forward.
type ExtendRequest struct {
	Days *int `json:"days"`
}

// AdminHandler exposes the admin surface. Access control sits in front of
// this API in an external gate.
type AdminHandler struct {
	requests       *service.RequestService
	licenses       *service.LicenseService
	exports        *service.ExportService
	exportsEnabled bool
	defaultDays    int
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(requests *service.RequestService, licenses *service.LicenseService, exports *service.ExportService, exportsEnabled bool, defaultDays int) *AdminHandler {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &AdminHandler{
		requests:       requests,
		licenses:       licenses,
		exports:        exports,
		exportsEnabled: exportsEnabled,
		defaultDays:    defaultDays,
	}
}

// ListRequests godoc
// @Summary List activation requests
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by status (pending/approved/rejected)"
// @Success 200 {object} response.Envelope
// @Router /admin/requests [get]
func (h *AdminHandler) ListRequests(c *gin.Context) {
	filter := models.RequestFilter{Status: c.Query("status")}
	requests, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// ListLicenses godoc
// @Summary List licenses
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/licenses [get]
func (h *AdminHandler) ListLicenses(c *gin.Context) {
	licenses, err := h.licenses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, licenses)
}

// Approve godoc
// @Summary Approve an activation request and issue a license
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param payload body ApproveRequest false "Grant length"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/requests/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request id"))
		return
	}
	var req ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	lic, err := h.licenses.Approve(c.Request.Context(), id, req.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lic)
}

// Reject godoc
// @Summary Reject an activation request
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param payload body RejectRequest false "Admin note"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/requests/{id}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request id"))
		return
	}
	var req RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	if err := h.requests.Reject(c.Request.Context(), id, req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Extend godoc
// @Summary Extend a license additively from its stored expiry
// @Tags Admin
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body ExtendRequest false "Extension length"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/licenses/{studentId}/extend [post]
func (h *AdminHandler) Extend(c *gin.Context) {
	studentID := c.Param("studentId")
	var req ExtendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	days := h.defaultDays
	if req.Days != nil {
		days = *req.Days
	}
	if err := h.licenses.Extend(c.Request.Context(), studentID, days); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Revoke godoc
// @Summary Revoke a student's license
// @Tags Admin
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 204
// @Router /admin/licenses/{studentId} [delete]
func (h *AdminHandler) Revoke(c *gin.Context) {
	if err := h.licenses.Revoke(c.Request.Context(), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the license table
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /admin/licenses/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports disabled"))
		return
	}
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	result, err := h.exports.Licenses(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
