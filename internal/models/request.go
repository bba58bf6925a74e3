package models

import "time"

// Request status values. A request is created pending and flips exactly once
// in practice, though re-deciding is allowed and simply overwrites.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ActivationRequest is a student-submitted petition to bind a license to a
// machine. The UPI transaction reference is free text and never verified.
type ActivationRequest struct {
	ID        int64     `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	HWID      string    `db:"hwid" json:"hwid"`
	Contact   string    `db:"contact" json:"contact,omitempty"`
	UPITxn    string    `db:"upi_txn" json:"upi_txn,omitempty"`
	Status    string    `db:"status" json:"status"`
	AdminNote string    `db:"admin_note" json:"admin_note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RequestFilter narrows admin listings.
type RequestFilter struct {
	Status string
}
