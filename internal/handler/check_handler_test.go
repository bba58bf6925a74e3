package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
	"github.com/noah-isme/licensing-api/internal/service"
	"github.com/noah-isme/licensing-api/pkg/config"
)

type stubLicenseRepo struct {
	licenses map[string]models.License
}

func (m *stubLicenseRepo) FindByStudent(ctx context.Context, studentID string) (*models.License, error) {
	if lic, ok := m.licenses[studentID]; ok {
		return &lic, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubLicenseRepo) List(ctx context.Context) ([]models.License, error) {
	out := make([]models.License, 0, len(m.licenses))
	for _, lic := range m.licenses {
		out = append(out, lic)
	}
	return out, nil
}

func (m *stubLicenseRepo) ApproveTx(ctx context.Context, lic *models.License, requestID int64, note string) error {
	if m.licenses == nil {
		m.licenses = make(map[string]models.License)
	}
	m.licenses[lic.StudentID] = *lic
	return nil
}

func (m *stubLicenseRepo) Extend(ctx context.Context, studentID string, extraDays int) error {
	lic, ok := m.licenses[studentID]
	if !ok {
		return sql.ErrNoRows
	}
	lic.Expiry = lic.Expiry.AddDate(0, 0, extraDays)
	m.licenses[studentID] = lic
	return nil
}

func (m *stubLicenseRepo) Revoke(ctx context.Context, studentID string) error {
	delete(m.licenses, studentID)
	return nil
}

func newCheckHandler(licenses *stubLicenseRepo) *CheckHandler {
	svc := service.NewLicenseService(licenses, &stubRequestRepo{}, nil,
		config.LicenseConfig{GraceDays: 7, DefaultGrantDays: 30}, zap.NewNop())
	return NewCheckHandler(svc, service.NewMetricsService())
}

func TestCheckHandlerMissingFields(t *testing.T) {
	h := newCheckHandler(&stubLicenseRepo{})

	w, c := postJSON(t, "/api/check", `{"student_id":"stu-1"}`)
	h.Check(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"missing"}`, w.Body.String())
}

func TestCheckHandlerActive(t *testing.T) {
	expiry := time.Now().UTC().AddDate(0, 0, 10)
	h := newCheckHandler(&stubLicenseRepo{licenses: map[string]models.License{
		"stu-1": {StudentID: "stu-1", HWID: "HW-1", Expiry: expiry},
	}})

	w, c := postJSON(t, "/api/check", `{"student_id":"stu-1","hwid":"HW-1"}`)
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	var result models.CheckResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.OK)
	assert.Equal(t, models.LicenseStateActive, result.State)
	assert.Equal(t, expiry.Format(models.ExpiryDateFormat), result.Expiry)
}

func TestCheckHandlerNoLicense(t *testing.T) {
	h := newCheckHandler(&stubLicenseRepo{})

	w, c := postJSON(t, "/api/check", `{"student_id":"ghost","hwid":"HW-1"}`)
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":false,"state":"blocked","reason":"no-license"}`, w.Body.String())
}

func TestCheckHandlerHWIDMismatch(t *testing.T) {
	h := newCheckHandler(&stubLicenseRepo{licenses: map[string]models.License{
		"stu-1": {StudentID: "stu-1", HWID: "HW-bound", Expiry: time.Now().UTC().AddDate(1, 0, 0)},
	}})

	w, c := postJSON(t, "/api/check", `{"student_id":"stu-1","hwid":"HW-other"}`)
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	var result models.CheckResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.OK)
	assert.Equal(t, models.CheckReasonHWIDMismatch, result.Reason)
	assert.Equal(t, "HW-bound", result.BoundTo)
}
