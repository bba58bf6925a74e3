package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS activation_requests (
		id BIGSERIAL PRIMARY KEY,
		student_id TEXT NOT NULL,
		hwid TEXT NOT NULL,
		contact TEXT NOT NULL DEFAULT '',
		upi_txn TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		admin_note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS licenses (
		student_id TEXT PRIMARY KEY,
		hwid TEXT NOT NULL,
		expiry DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY,
		action TEXT NOT NULL,
		resource TEXT NOT NULL,
		resource_id TEXT,
		new_values JSONB,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activation_requests_created_at ON activation_requests (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_activation_requests_status ON activation_requests (status)`,
}

// EnsureSchema creates the licensing tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
