// AngelaMos | 2026
// dto.go

package claim

import (
	"time"
)

type SubmitRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
	PolicyID      string `json:"policy_id"      validate:"required,uuid"`
	PolicyTitle   string `json:"policy_title"   validate:"required,max=200"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=255"`
	Reason        string `json:"reason"         validate:"required,max=2000"`
	DocumentKey   string `json:"document_key"   validate:"required,max=512"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Rejected"`
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

type ClaimResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	PolicyID      string    `json:"policy_id"`
	PolicyTitle   string    `json:"policy_title"`
	CustomerEmail string    `json:"customer_email"`
	Reason        string    `json:"reason"`
	DocumentKey   string    `json:"document_key"`
	Status        Status    `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToClaimResponse(c *Claim) ClaimResponse {
	return ClaimResponse{
		ID:            c.ID,
		ApplicationID: c.ApplicationID,
		PolicyID:      c.PolicyID,
		PolicyTitle:   c.PolicyTitle,
		CustomerEmail: c.CustomerEmail,
		Reason:        c.Reason,
		DocumentKey:   c.DocumentKey,
		Status:        c.Status,
		SubmittedAt:   c.SubmittedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func ToClaimResponseList(claims []Claim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(claims))
	for _, c := range claims {
		out = append(out, ToClaimResponse(&c))
	}
	return out
}
