package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
	"github.com/noah-isme/licensing-api/pkg/config"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
)

type licenseRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*models.License, error)
	List(ctx context.Context) ([]models.License, error)
	ApproveTx(ctx context.Context, lic *models.License, requestID int64, note string) error
	Extend(ctx context.Context, studentID string, extraDays int) error
	Revoke(ctx context.Context, studentID string) error
}

const checkCacheKeyFormat = "license:check:%s:%s"

// LicenseService owns the license lifecycle: the check state machine plus the
// admin approve/extend/revoke operations.
type LicenseService struct {
	licenses licenseRepository
	requests requestRepository
	cache    *CacheService
	cfg      config.LicenseConfig
	logger   *zap.Logger
	clock    func() time.Time
}

// NewLicenseService constructs the license service.
func NewLicenseService(licenses licenseRepository, requests requestRepository, cache *CacheService, cfg config.LicenseConfig, logger *zap.Logger) *LicenseService {
	if cfg.GraceDays < 0 {
		cfg.GraceDays = 0
	}
	if cfg.DefaultGrantDays <= 0 {
		cfg.DefaultGrantDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LicenseService{
		licenses: licenses,
		requests: requests,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
		clock:    time.Now,
	}
}

// Check reports whether the student's software may run on the given machine.
// The order is fixed: row existence, then hardware binding, then date math.
// A hardware mismatch is reported even for an expired license, because the
// identity binding is the stronger gate.
func (s *LicenseService) Check(ctx context.Context, studentID, hwid string) (*models.CheckResult, error) {
	cacheKey := fmt.Sprintf(checkCacheKeyFormat, studentID, hwid)
	if s.cache.Enabled() {
		var cached models.CheckResult
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	var result *models.CheckResult
	lic, err := s.licenses.FindByStudent(ctx, studentID)
	switch {
	case err == sql.ErrNoRows:
		result = &models.CheckResult{OK: false, State: models.LicenseStateBlocked, Reason: models.CheckReasonNoLicense}
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load license")
	default:
		result = s.evaluate(lic, hwid)
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, result, s.cfg.CheckCacheTTL)
	}
	return result, nil
}

func (s *LicenseService) evaluate(lic *models.License, hwid string) *models.CheckResult {
	if lic.HWID != hwid {
		return &models.CheckResult{
			OK:      false,
			State:   models.LicenseStateBlocked,
			Reason:  models.CheckReasonHWIDMismatch,
			BoundTo: lic.HWID,
		}
	}

	today := dateOnly(s.clock().UTC())
	expiry := dateOnly(lic.Expiry)
	graceEnd := expiry.AddDate(0, 0, s.cfg.GraceDays)

	switch {
	case !today.After(expiry):
		return &models.CheckResult{OK: true, State: models.LicenseStateActive, Expiry: lic.ExpiryDate()}
	case !today.After(graceEnd):
		return &models.CheckResult{OK: true, State: models.LicenseStateDue, Expiry: lic.ExpiryDate()}
	default:
		return &models.CheckResult{OK: false, State: models.LicenseStateBlocked, Expiry: lic.ExpiryDate()}
	}
}

// Approve issues or wholesale replaces the license for the request's student,
// binding it to the request's hardware ID. The license write and the request
// status flip commit together. A nil grantDays falls back to the configured
// default; non-positive values are accepted and yield an already-expired
// license.
func (s *LicenseService) Approve(ctx context.Context, requestID int64, grantDays *int) (*models.License, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load request")
	}

	days := s.cfg.DefaultGrantDays
	if grantDays != nil {
		days = *grantDays
	}

	now := s.clock().UTC()
	lic := &models.License{
		StudentID: req.StudentID,
		HWID:      req.HWID,
		Expiry:    dateOnly(now).AddDate(0, 0, days),
		CreatedAt: now,
	}
	note := fmt.Sprintf("Approved %dd", days)
	if err := s.licenses.ApproveTx(ctx, lic, requestID, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to approve request")
	}

	s.invalidateChecks(ctx, req.StudentID)
	s.logger.Info("license approved",
		zap.Int64("request_id", requestID),
		zap.String("student_id", req.StudentID),
		zap.String("expiry", lic.ExpiryDate()),
	)
	return lic, nil
}

// Extend pushes the stored expiry forward by extraDays. The new expiry is
// additive to the stored one, not to today, so extending an expired license
// may still land in the past.
func (s *LicenseService) Extend(ctx context.Context, studentID string, extraDays int) error {
	if err := s.licenses.Extend(ctx, studentID, extraDays); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "license not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to extend license")
	}
	s.invalidateChecks(ctx, studentID)
	s.logger.Info("license extended", zap.String("student_id", studentID), zap.Int("extra_days", extraDays))
	return nil
}

// Revoke deletes the student's license; revoking an absent license succeeds.
func (s *LicenseService) Revoke(ctx context.Context, studentID string) error {
	if err := s.licenses.Revoke(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to revoke license")
	}
	s.invalidateChecks(ctx, studentID)
	s.logger.Info("license revoked", zap.String("student_id", studentID))
	return nil
}

// List returns all licenses for the admin surface.
func (s *LicenseService) List(ctx context.Context) ([]models.License, error) {
	licenses, err := s.licenses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list licenses")
	}
	return licenses, nil
}

func (s *LicenseService) invalidateChecks(ctx context.Context, studentID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Invalidate(ctx, fmt.Sprintf(checkCacheKeyFormat, studentID, "*"))
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
