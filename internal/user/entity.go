// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type User struct {
	ID          string       `db:"id"`
	Email       string       `db:"email"`
	Name        string       `db:"name"`
	PhotoURL    string       `db:"photo_url"`
	Role        string       `db:"role"`
	Profile     core.JSONMap `db:"profile"`
	LastLoginAt *time.Time   `db:"last_login_at"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}
