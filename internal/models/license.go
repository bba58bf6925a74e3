package models

import "time"

// License states reported by a check.
const (
	LicenseStateActive  = "active"
	LicenseStateDue     = "due"
	LicenseStateBlocked = "blocked"
)

// Blocked reasons for checks that never reach date comparison.
const (
	CheckReasonNoLicense    = "no-license"
	CheckReasonHWIDMismatch = "hwid-mismatch"
)

// ExpiryDateFormat is the wire format for license expiry dates. Expiry is a
// calendar date with no time component; all comparisons happen in UTC.
const ExpiryDateFormat = "2006-01-02"

// License grants one student runtime eligibility on one machine until expiry.
// Approval replaces the whole row, including the hardware binding.
type License struct {
	StudentID string    `db:"student_id" json:"student_id"`
	HWID      string    `db:"hwid" json:"hwid"`
	Expiry    time.Time `db:"expiry" json:"expiry"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ExpiryDate renders the expiry in wire format.
func (l *License) ExpiryDate() string {
	return l.Expiry.Format(ExpiryDateFormat)
}

// CheckResult is the flat wire shape returned to activation clients. OK is
// true for active and due, false for every blocked variant.
type CheckResult struct {
	OK      bool   `json:"ok"`
	State   string `json:"state"`
	Expiry  string `json:"expiry,omitempty"`
	Reason  string `json:"reason,omitempty"`
	BoundTo string `json:"bound_to,omitempty"`
}
