package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/licensing-api/internal/models"
)

// LicenseRepository manages persistence for licenses.
type LicenseRepository struct {
	db *sqlx.DB
}

// NewLicenseRepository constructs a LicenseRepository.
func NewLicenseRepository(db *sqlx.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// FindByStudent fetches the license bound to a student, if any.
func (r *LicenseRepository) FindByStudent(ctx context.Context, studentID string) (*models.License, error) {
	const query = `SELECT student_id, hwid, expiry, created_at FROM licenses WHERE student_id = $1`
	var lic models.License
	if err := r.db.GetContext(ctx, &lic, query, studentID); err != nil {
		return nil, err
	}
	return &lic, nil
}

// List returns all licenses newest first.
func (r *LicenseRepository) List(ctx context.Context) ([]models.License, error) {
	const query = `SELECT student_id, hwid, expiry, created_at FROM licenses ORDER BY created_at DESC`
	var licenses []models.License
	if err := r.db.SelectContext(ctx, &licenses, query); err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	return licenses, nil
}

// ApproveTx replaces the student's license row and marks the source request
// approved in one transaction, so a concurrent check sees either both writes
// or neither. The upsert replaces the full row, rebinding the hardware ID.
func (r *LicenseRepository) ApproveTx(ctx context.Context, lic *models.License, requestID int64, note string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const upsert = `INSERT INTO licenses (student_id, hwid, expiry, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (student_id) DO UPDATE
        SET hwid = EXCLUDED.hwid, expiry = EXCLUDED.expiry, created_at = EXCLUDED.created_at`
	if _, err = tx.ExecContext(ctx, upsert, lic.StudentID, lic.HWID, lic.Expiry, lic.CreatedAt); err != nil {
		return fmt.Errorf("upsert license: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE activation_requests SET status = $2, admin_note = $3 WHERE id = $1`,
		requestID, models.RequestStatusApproved, note,
	); err != nil {
		return fmt.Errorf("approve activation request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit approve tx: %w", err)
	}
	return nil
}

// Extend pushes the stored expiry forward by extraDays. The arithmetic runs
// inside the UPDATE so concurrent extends cannot lose each other's days.
func (r *LicenseRepository) Extend(ctx context.Context, studentID string, extraDays int) error {
	const query = `UPDATE licenses SET expiry = expiry + $2 * INTERVAL '1 day' WHERE student_id = $1`
	res, err := r.db.ExecContext(ctx, query, studentID, extraDays)
	if err != nil {
		return fmt.Errorf("extend license: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("extend license: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Revoke deletes the student's license. Revoking an absent license is a no-op.
func (r *LicenseRepository) Revoke(ctx context.Context, studentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM licenses WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("revoke license: %w", err)
	}
	return nil
}
