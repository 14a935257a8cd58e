// AngelaMos | 2026
// dto.go

package policy

import (
	"time"
)

type ListParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Category string `json:"category"`
	Search   string `json:"search"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 9
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PolicyRequest struct {
	Title           string  `json:"title"             validate:"required,min=1,max=200"`
	Category        string  `json:"category"          validate:"required,min=1,max=100"`
	Description     string  `json:"description"       validate:"max=5000"`
	MinAge          int     `json:"min_age"           validate:"gte=0,lte=120"`
	MaxAge          int     `json:"max_age"           validate:"required,gtefield=MinAge,lte=120"`
	CoverageMin     int64   `json:"coverage_min"      validate:"gte=0"`
	CoverageMax     int64   `json:"coverage_max"      validate:"required,gtefield=CoverageMin"`
	DurationYears   []int   `json:"duration_years"    validate:"dive,gt=0,lte=60"`
	BasePremiumRate float64 `json:"base_premium_rate" validate:"gt=0"`
	ImageURL        string  `json:"image_url"         validate:"omitempty,url,max=2048"`
}

type QuoteRequest struct {
	PolicyID      string `json:"policy_id"      validate:"required,uuid"`
	Age           int    `json:"age"            validate:"required,gte=18,lte=100"`
	Coverage      int64  `json:"coverage"       validate:"required,gt=0"`
	DurationYears int    `json:"duration_years" validate:"required,gt=0,lte=60"`
	Smoker        bool   `json:"smoker"`
}

type PolicyResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	MinAge          int       `json:"min_age"`
	MaxAge          int       `json:"max_age"`
	CoverageMin     int64     `json:"coverage_min"`
	CoverageMax     int64     `json:"coverage_max"`
	DurationYears   []int     `json:"duration_years"`
	BasePremiumRate float64   `json:"base_premium_rate"`
	ImageURL        string    `json:"image_url,omitempty"`
	PurchaseCount   int64     `json:"purchase_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToPolicyResponse(p *Policy) PolicyResponse {
	terms := []int(p.DurationYears)
	if terms == nil {
		terms = []int{}
	}
	return PolicyResponse{
		ID:              p.ID,
		Title:           p.Title,
		Category:        p.Category,
		Description:     p.Description,
		MinAge:          p.MinAge,
		MaxAge:          p.MaxAge,
		CoverageMin:     p.CoverageMin,
		CoverageMax:     p.CoverageMax,
		DurationYears:   terms,
		BasePremiumRate: p.BasePremiumRate,
		ImageURL:        p.ImageURL,
		PurchaseCount:   p.PurchaseCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToPolicyResponseList(policies []Policy) []PolicyResponse {
	out := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, ToPolicyResponse(&p))
	}
	return out
}
