// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

// IssueRequest carries the claimed identity. Role is accepted for client
// compatibility but the issued role always comes from storage.
type IssueRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Role  string `json:"role"  validate:"omitempty,oneof=customer agent admin"`
}

type IssueResponse struct {
	Success   bool      `json:"success"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MeResponse struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	Role       string `json:"role"`
	Registered bool   `json:"registered"`
}
