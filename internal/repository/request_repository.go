package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/licensing-api/internal/models"
)

// RequestRepository manages persistence for activation requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new pending activation request and fills in its ID.
func (r *RequestRepository) Create(ctx context.Context, req *models.ActivationRequest) error {
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO activation_requests (student_id, hwid, contact, upi_txn, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		req.StudentID, req.HWID, req.Contact, req.UPITxn, req.Status, req.CreatedAt,
	).Scan(&req.ID); err != nil {
		return fmt.Errorf("create activation request: %w", err)
	}
	return nil
}

// List returns activation requests newest first, optionally narrowed by status.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.ActivationRequest, error) {
	query := `SELECT id, student_id, hwid, contact, upi_txn, status, admin_note, created_at
        FROM activation_requests`
	args := []interface{}{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	var requests []models.ActivationRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list activation requests: %w", err)
	}
	return requests, nil
}

// FindByID fetches a single activation request.
func (r *RequestRepository) FindByID(ctx context.Context, id int64) (*models.ActivationRequest, error) {
	const query = `SELECT id, student_id, hwid, contact, upi_txn, status, admin_note, created_at
        FROM activation_requests WHERE id = $1`
	var req models.ActivationRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// Decide overwrites the status and admin note of a request. Re-deciding an
// already-decided request is allowed and simply replaces the prior decision.
func (r *RequestRepository) Decide(ctx context.Context, id int64, status, note string) error {
	const query = `UPDATE activation_requests SET status = $2, admin_note = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, note)
	if err != nil {
		return fmt.Errorf("decide activation request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decide activation request: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
