// AngelaMos | 2026
// entity.go

package agent

import (
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Application is a customer's request to be promoted to the agent role.
type Application struct {
	ID          string                 `db:"id"          json:"id"`
	Email       string                 `db:"email"       json:"email"`
	Name        string                 `db:"name"        json:"name"`
	Experience  string                 `db:"experience"  json:"experience"`
	Specialties core.JSONSlice[string] `db:"specialties" json:"specialties"`
	Status      Status                 `db:"status"      json:"status"`
	CreatedAt   time.Time              `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time              `db:"updated_at"  json:"updated_at"`
}

type ApplyRequest struct {
	Name        string   `json:"name"        validate:"required,min=1,max=100"`
	Experience  string   `json:"experience"  validate:"required,max=2000"`
	Specialties []string `json:"specialties" validate:"max=10,dive,min=1,max=60"`
}

type DecideRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

type ListParams struct {
	Page     int
	PageSize int
	Status   string
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
