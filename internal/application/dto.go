// AngelaMos | 2026
// dto.go

package application

import (
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type SubmitRequest struct {
	PolicyID     string       `json:"policy_id"     validate:"required,uuid"`
	CustomerName string       `json:"customer_name" validate:"required,min=1,max=100"`
	Details      core.JSONMap `json:"details"`
}

type AssignAgentRequest struct {
	AgentEmail string `json:"agent_email" validate:"required,email,max=255"`
}

type DecideRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// PaymentInput is what the payment flow reports once the customer has
// completed the intent.
type PaymentInput struct {
	AmountCents   int64
	Currency      string
	TransactionID string
}

type ListParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ApplicationResponse struct {
	ID              string       `json:"id"`
	CustomerEmail   string       `json:"customer_email"`
	CustomerName    string       `json:"customer_name"`
	PolicyID        string       `json:"policy_id"`
	Status          Status       `json:"status"`
	AssignedAgent   *string      `json:"assigned_agent"`
	PaymentStatus   string       `json:"payment_status,omitempty"`
	ReviewSubmitted bool         `json:"review_submitted"`
	ClaimEligible   bool         `json:"claim_eligible"`
	Details         core.JSONMap `json:"details,omitempty"`
	DecidedAt       *time.Time   `json:"decided_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func ToApplicationResponse(a *Application) ApplicationResponse {
	payment := string(a.PaymentStatus)
	if a.PaymentStatus == PaymentUnset {
		payment = ""
	}
	return ApplicationResponse{
		ID:              a.ID,
		CustomerEmail:   a.CustomerEmail,
		CustomerName:    a.CustomerName,
		PolicyID:        a.PolicyID,
		Status:          a.Status,
		AssignedAgent:   a.AssignedAgent,
		PaymentStatus:   payment,
		ReviewSubmitted: a.ReviewSubmitted,
		ClaimEligible:   a.ClaimEligible(),
		Details:         a.Details,
		DecidedAt:       a.DecidedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func ToApplicationResponseList(apps []Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, ToApplicationResponse(&a))
	}
	return out
}
