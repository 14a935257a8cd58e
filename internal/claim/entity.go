// AngelaMos | 2026
// entity.go

package claim

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Claim snapshots the policy title at filing time so later catalog edits do
// not rewrite claim history.
type Claim struct {
	ID            string    `db:"id"`
	ApplicationID string    `db:"application_id"`
	PolicyID      string    `db:"policy_id"`
	PolicyTitle   string    `db:"policy_title"`
	CustomerEmail string    `db:"customer_email"`
	Reason        string    `db:"reason"`
	DocumentKey   string    `db:"document_key"`
	Status        Status    `db:"status"`
	SubmittedAt   time.Time `db:"submitted_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (c *Claim) OwnedBy(email string) bool {
	return strings.EqualFold(c.CustomerEmail, email)
}
