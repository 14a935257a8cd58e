// AngelaMos | 2026
// gateway.go

package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type ChargeRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway opens a charge intent that the client confirms directly with the
// processor. Calls are never retried here.
type Gateway interface {
	CreateChargeIntent(ctx context.Context, req ChargeRequest) (*Intent, error)
}

type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	noRetries := &stripe.BackendConfig{MaxNetworkRetries: stripe.Int64(0)}

	api := client.New(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, noRetries),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, noRetries),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, noRetries),
	})

	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateChargeIntent(
	ctx context.Context,
	req ChargeRequest,
) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w: %w", core.ErrPaymentFailed, err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

var _ Gateway = (*StripeGateway)(nil)
