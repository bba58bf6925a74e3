package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
	"github.com/noah-isme/licensing-api/internal/service"
	"github.com/noah-isme/licensing-api/pkg/config"
)

func newAdminHandler(requests *stubRequestRepo, licenses *stubLicenseRepo) *AdminHandler {
	requestSvc := service.NewRequestService(requests, validator.New(), zap.NewNop())
	licenseSvc := service.NewLicenseService(licenses, requests, nil,
		config.LicenseConfig{GraceDays: 7, DefaultGrantDays: 30}, zap.NewNop())
	exportSvc := service.NewExportService(licenses, nil, nil, zap.NewNop())
	return NewAdminHandler(requestSvc, licenseSvc, exportSvc, true, 30)
}

func TestAdminHandlerApprove(t *testing.T) {
	requests := &stubRequestRepo{requests: map[int64]models.ActivationRequest{
		1: {ID: 1, StudentID: "stu-1", HWID: "HW-abc", Status: models.RequestStatusPending},
	}}
	licenses := &stubLicenseRepo{}
	h := newAdminHandler(requests, licenses)

	w, c := postJSON(t, "/api/v1/admin/requests/1/approve", `{"days":30}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Approve(c)

	require.Equal(t, http.StatusOK, w.Code)
	lic, ok := licenses.licenses["stu-1"]
	require.True(t, ok)
	assert.Equal(t, "HW-abc", lic.HWID)
}

func TestAdminHandlerApproveMissingRequest(t *testing.T) {
	h := newAdminHandler(&stubRequestRepo{}, &stubLicenseRepo{})

	w, c := postJSON(t, "/api/v1/admin/requests/99/approve", `{"days":30}`)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	h.Approve(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandlerApproveBadID(t *testing.T) {
	h := newAdminHandler(&stubRequestRepo{}, &stubLicenseRepo{})

	w, c := postJSON(t, "/api/v1/admin/requests/abc/approve", `{"days":30}`)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Approve(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandlerReject(t *testing.T) {
	requests := &stubRequestRepo{requests: map[int64]models.ActivationRequest{
		1: {ID: 1, StudentID: "stu-1", HWID: "HW-abc", Status: models.RequestStatusPending},
	}}
	h := newAdminHandler(requests, &stubLicenseRepo{})

	w, c := postJSON(t, "/api/v1/admin/requests/1/reject", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Reject(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.RequestStatusRejected, requests.requests[1].Status)
	assert.Equal(t, "Rejected", requests.requests[1].AdminNote)
}

func TestAdminHandlerExtendMissingLicense(t *testing.T) {
	h := newAdminHandler(&stubRequestRepo{}, &stubLicenseRepo{})

	w, c := postJSON(t, "/api/v1/admin/licenses/ghost/extend", `{"days":10}`)
	c.Params = gin.Params{{Key: "studentId", Value: "ghost"}}
	h.Extend(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandlerExtend(t *testing.T) {
	licenses := &stubLicenseRepo{licenses: map[string]models.License{
		"stu-1": {StudentID: "stu-1", HWID: "HW-1", Expiry: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}}
	h := newAdminHandler(&stubRequestRepo{}, licenses)

	w, c := postJSON(t, "/api/v1/admin/licenses/stu-1/extend", `{"days":10}`)
	c.Params = gin.Params{{Key: "studentId", Value: "stu-1"}}
	h.Extend(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC), licenses.licenses["stu-1"].Expiry)
}

func TestAdminHandlerRevokeAbsentLicense(t *testing.T) {
	h := newAdminHandler(&stubRequestRepo{}, &stubLicenseRepo{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/admin/licenses/ghost", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "studentId", Value: "ghost"}}
	h.Revoke(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminHandlerListRequestsFilter(t *testing.T) {
	requests := &stubRequestRepo{requests: map[int64]models.ActivationRequest{
		1: {ID: 1, StudentID: "stu-1", HWID: "HW-1", Status: models.RequestStatusPending},
		2: {ID: 2, StudentID: "stu-2", HWID: "HW-2", Status: models.RequestStatusRejected},
	}}
	h := newAdminHandler(requests, &stubLicenseRepo{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/requests?status=pending", nil)
	c.Request = req
	h.ListRequests(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stu-1")
	assert.NotContains(t, w.Body.String(), "stu-2")
}

func TestAdminHandlerExportCSV(t *testing.T) {
	licenses := &stubLicenseRepo{licenses: map[string]models.License{
		"stu-1": {StudentID: "stu-1", HWID: "HW-1", Expiry: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)},
	}}
	h := newAdminHandler(&stubRequestRepo{}, licenses)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/licenses/export?format=csv", nil)
	c.Request = req
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "stu-1")
}
