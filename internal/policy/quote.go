// AngelaMos | 2026
// quote.go

package policy

import (
	"math"
)

const (
	baseAge         = 30
	ageLoadPerYear  = 0.03
	smokerLoad      = 1.5
	baseTermYears   = 10
	termLoadPerYear = 0.01
	minTermFactor   = 0.9
	coverageUnit    = 1000
)

// EstimatePremium prices a quote from the policy's annual rate per 1000 of
// coverage. Ages above 30, smoking and longer terms each load the rate.
func EstimatePremium(
	p *Policy,
	age int,
	coverage int64,
	years int,
	smoker bool,
) (monthly, annual int64) {
	ageFactor := 1.0
	if age > baseAge {
		ageFactor += float64(age-baseAge) * ageLoadPerYear
	}

	smokerFactor := 1.0
	if smoker {
		smokerFactor = smokerLoad
	}

	termFactor := 1 + float64(years-baseTermYears)*termLoadPerYear
	if termFactor < minTermFactor {
		termFactor = minTermFactor
	}

	yearly := float64(coverage) / coverageUnit * p.BasePremiumRate *
		ageFactor * smokerFactor * termFactor

	annual = int64(math.Round(yearly))
	monthly = int64(math.Round(yearly / 12))
	return monthly, annual
}
