// AngelaMos | 2026
// entity.go

package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) Decision() bool {
	return s == StatusApproved || s == StatusRejected
}

type PaymentStatus string

const (
	PaymentUnset PaymentStatus = "unset"
	PaymentDue   PaymentStatus = "due"
	PaymentPaid  PaymentStatus = "paid"
)

// Application moves along two independent axes: the underwriting Status
// decided by an admin, and the PaymentStatus driven by the assigned agent
// and the customer. Assignment is orthogonal to both.
type Application struct {
	ID              string        `db:"id"`
	CustomerEmail   string        `db:"customer_email"`
	CustomerName    string        `db:"customer_name"`
	PolicyID        string        `db:"policy_id"`
	Status          Status        `db:"status"`
	AssignedAgent   *string       `db:"assigned_agent"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	ReviewSubmitted bool          `db:"review_submitted"`
	Details         core.JSONMap  `db:"details"`
	DecidedAt       *time.Time    `db:"decided_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

func (a *Application) OwnedBy(email string) bool {
	return strings.EqualFold(a.CustomerEmail, email)
}

func (a *Application) AssignedTo(email string) bool {
	return a.AssignedAgent != nil && strings.EqualFold(*a.AssignedAgent, email)
}

// ClaimEligible reports whether a claim may be filed against a.
func (a *Application) ClaimEligible() bool {
	return a.Status == StatusApproved && a.PaymentStatus == PaymentPaid
}

func (a *Application) checkDecision(allowRedecision bool) error {
	if a.Status != StatusPending && !allowRedecision {
		return fmt.Errorf(
			"application already %s: %w",
			a.Status,
			core.ErrConflict,
		)
	}
	return nil
}

func (a *Application) checkPaymentDue(agentEmail string) error {
	if !a.AssignedTo(agentEmail) {
		return fmt.Errorf("not the assigned agent: %w", core.ErrForbidden)
	}
	if a.Status != StatusApproved {
		return fmt.Errorf(
			"application is %s, not Approved: %w",
			a.Status,
			core.ErrPrecondition,
		)
	}
	if a.PaymentStatus == PaymentPaid {
		return fmt.Errorf("application already paid: %w", core.ErrPrecondition)
	}
	return nil
}

// checkPayable gates both opening a payment intent and recording payment.
// Rejected applications never move on the payment axis.
func (a *Application) checkPayable(customerEmail string) error {
	if !a.OwnedBy(customerEmail) {
		return fmt.Errorf("not the application owner: %w", core.ErrForbidden)
	}
	if a.Status != StatusApproved {
		return fmt.Errorf(
			"application is %s, not Approved: %w",
			a.Status,
			core.ErrPrecondition,
		)
	}
	return nil
}

// Payment is the append-only record of a completed charge.
type Payment struct {
	ID            string    `db:"id"             json:"id"`
	ApplicationID string    `db:"application_id" json:"application_id"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	PolicyID      string    `db:"policy_id"      json:"policy_id"`
	AmountCents   int64     `db:"amount_cents"   json:"amount_cents"`
	Currency      string    `db:"currency"       json:"currency"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}
