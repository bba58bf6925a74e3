package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, req *models.ActivationRequest) error
	List(ctx context.Context, filter models.RequestFilter) ([]models.ActivationRequest, error)
	FindByID(ctx context.Context, id int64) (*models.ActivationRequest, error)
	Decide(ctx context.Context, id int64, status, note string) error
}

// SubmitRequest holds the payload for a student activation submission.
type SubmitRequest struct {
	StudentID string `json:"student_id" form:"student_id" validate:"required"`
	HWID      string `json:"hwid" form:"hwid" validate:"required"`
	Contact   string `json:"contact" form:"contact"`
	UPITxn    string `json:"upi_txn" form:"upi_txn"`
}

// RequestService handles activation request use-cases.
type RequestService struct {
	repo      requestRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the request service.
func NewRequestService(repo requestRepository, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, validator: validate, logger: logger}
}

// Submit records a new pending activation request. Duplicate pending requests
// for the same student are allowed; the admin sorts them out.
func (s *RequestService) Submit(ctx context.Context, req SubmitRequest) (*models.ActivationRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing")
	}
	record := &models.ActivationRequest{
		StudentID: req.StudentID,
		HWID:      req.HWID,
		Contact:   req.Contact,
		UPITxn:    req.UPITxn,
		Status:    models.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to record activation request")
	}
	s.logger.Info("activation request submitted",
		zap.Int64("request_id", record.ID),
		zap.String("student_id", record.StudentID),
	)
	return record, nil
}

// List returns activation requests newest first.
func (s *RequestService) List(ctx context.Context, filter models.RequestFilter) ([]models.ActivationRequest, error) {
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list activation requests")
	}
	return requests, nil
}

// Reject marks a request rejected. Re-rejecting an already-decided request
// overwrites the earlier decision; the permissive behavior is intentional.
func (s *RequestService) Reject(ctx context.Context, id int64, note string) error {
	if note == "" {
		note = "Rejected"
	}
	if err := s.repo.Decide(ctx, id, models.RequestStatusRejected, note); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to reject request")
	}
	s.logger.Info("activation request rejected", zap.Int64("request_id", id))
	return nil
}
