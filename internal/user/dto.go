// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type CreateUserRequest struct {
	Email    string       `json:"email"     validate:"required,email,max=255"`
	Name     string       `json:"name"      validate:"required,min=1,max=100"`
	PhotoURL string       `json:"photo_url" validate:"omitempty,url,max=2048"`
	Profile  core.JSONMap `json:"profile"`
}

type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty"      validate:"omitempty,min=1,max=100"`
	PhotoURL *string      `json:"photo_url,omitempty" validate:"omitempty,url,max=2048"`
	Profile  core.JSONMap `json:"profile,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer agent admin"`
}

type UserResponse struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	Role        string       `json:"role"`
	Profile     core.JSONMap `json:"profile,omitempty"`
	LastLoginAt *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type RoleResponse struct {
	Role string `json:"role"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
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

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		PhotoURL:    u.PhotoURL,
		Role:        u.Role,
		Profile:     u.Profile,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
