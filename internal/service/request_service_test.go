package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
)

func TestRequestServiceSubmit(t *testing.T) {
	repo := &mockRequestRepo{}
	svc := NewRequestService(repo, validator.New(), zap.NewNop())

	record, err := svc.Submit(context.Background(), SubmitRequest{
		StudentID: "stu-1",
		HWID:      "HW-abc",
		Contact:   "mail@example.com",
		UPITxn:    "TXN123",
	})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, models.RequestStatusPending, record.Status)
	assert.Len(t, repo.requests, 1)
}

func TestRequestServiceSubmitMissingFields(t *testing.T) {
	svc := NewRequestService(&mockRequestRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), SubmitRequest{StudentID: "stu-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Submit(context.Background(), SubmitRequest{HWID: "HW-abc"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRequestServiceSubmitAllowsDuplicates(t *testing.T) {
	repo := &mockRequestRepo{}
	svc := NewRequestService(repo, validator.New(), zap.NewNop())

	payload := SubmitRequest{StudentID: "stu-1", HWID: "HW-abc"}
	_, err := svc.Submit(context.Background(), payload)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), payload)
	require.NoError(t, err)
	assert.Len(t, repo.requests, 2)
}

func TestRequestServiceReject(t *testing.T) {
	repo := &mockRequestRepo{requests: map[int64]models.ActivationRequest{
		3: {ID: 3, StudentID: "stu-1", HWID: "HW-abc", Status: models.RequestStatusPending},
	}}
	svc := NewRequestService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Reject(context.Background(), 3, ""))
	assert.Equal(t, models.RequestStatusRejected, repo.requests[3].Status)
	assert.Equal(t, "Rejected", repo.requests[3].AdminNote)
}

func TestRequestServiceRejectOverwritesPriorDecision(t *testing.T) {
	repo := &mockRequestRepo{requests: map[int64]models.ActivationRequest{
		3: {ID: 3, StudentID: "stu-1", HWID: "HW-abc", Status: models.RequestStatusApproved, AdminNote: "Approved 30d"},
	}}
	svc := NewRequestService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Reject(context.Background(), 3, "Chargeback"))
	assert.Equal(t, models.RequestStatusRejected, repo.requests[3].Status)
	assert.Equal(t, "Chargeback", repo.requests[3].AdminNote)
}

func TestRequestServiceRejectMissing(t *testing.T) {
	svc := NewRequestService(&mockRequestRepo{}, validator.New(), zap.NewNop())

	err := svc.Reject(context.Background(), 404, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
