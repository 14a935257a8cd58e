// AngelaMos | 2026
// entity.go

package policy

import (
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

// DefaultTopLimit is how many policies the popularity ranking returns.
const DefaultTopLimit = 6

type Policy struct {
	ID              string              `db:"id"`
	Title           string              `db:"title"`
	Category        string              `db:"category"`
	Description     string              `db:"description"`
	MinAge          int                 `db:"min_age"`
	MaxAge          int                 `db:"max_age"`
	CoverageMin     int64               `db:"coverage_min"`
	CoverageMax     int64               `db:"coverage_max"`
	DurationYears   core.JSONSlice[int] `db:"duration_years"`
	BasePremiumRate float64             `db:"base_premium_rate"`
	ImageURL        string              `db:"image_url"`
	PurchaseCount   int64               `db:"purchase_count"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`
}

func (p *Policy) AcceptsAge(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}

func (p *Policy) AcceptsCoverage(amount int64) bool {
	return amount >= p.CoverageMin && amount <= p.CoverageMax
}

func (p *Policy) OffersTerm(years int) bool {
	if len(p.DurationYears) == 0 {
		return true
	}
	for _, y := range p.DurationYears {
		if y == years {
			return true
		}
	}
	return false
}

type Quote struct {
	ID             string    `db:"id"              json:"id"`
	CustomerEmail  string    `db:"customer_email"  json:"customer_email"`
	PolicyID       string    `db:"policy_id"       json:"policy_id"`
	Age            int       `db:"age"             json:"age"`
	Coverage       int64     `db:"coverage"        json:"coverage"`
	DurationYears  int       `db:"duration_years"  json:"duration_years"`
	Smoker         bool      `db:"smoker"          json:"smoker"`
	MonthlyPremium int64     `db:"monthly_premium" json:"monthly_premium"`
	AnnualPremium  int64     `db:"annual_premium"  json:"annual_premium"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}
