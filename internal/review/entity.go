// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

type Review struct {
	ID        string    `db:"id"         json:"id"`
	UserEmail string    `db:"user_email" json:"user_email"`
	UserName  string    `db:"user_name"  json:"user_name"`
	PhotoURL  string    `db:"photo_url"  json:"photo_url,omitempty"`
	PolicyID  string    `db:"policy_id"  json:"policy_id"`
	Rating    int       `db:"rating"     json:"rating"`
	Comment   string    `db:"comment"    json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateRequest struct {
	PolicyID string `json:"policy_id" validate:"required,uuid"`
	UserName string `json:"user_name" validate:"required,min=1,max=100"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url,max=500"`
	Rating   int    `json:"rating"    validate:"required,min=1,max=5"`
	Comment  string `json:"comment"   validate:"required,min=1,max=2000"`
}

const (
	defaultListLimit = 10
	maxListLimit     = 50
)
