// AngelaMos | 2026
// dto.go

package payment

import (
	"github.com/carterperez-dev/lifesure-api/internal/application"
)

// maxAmountCents matches Stripe's per-charge ceiling for USD.
const maxAmountCents = 99999999

type IntentRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
	AmountCents   int64  `json:"amount_cents"   validate:"required,gte=50,lte=99999999"`
}

type IntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

type CompleteRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
	TransactionID string `json:"transaction_id" validate:"required,max=255"`
	AmountCents   int64  `json:"amount_cents"   validate:"required,gte=50,lte=99999999"`
}

type CompleteResponse struct {
	Application application.ApplicationResponse `json:"application"`
	Payment     *application.Payment            `json:"payment,omitempty"`
}
