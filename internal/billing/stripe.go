package billing

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeProvider implements Provider using the Stripe Go SDK.
type StripeProvider struct{}

// NewStripeProvider configures the Stripe SDK with the given secret key and
// returns a provider. The SDK holds the key globally, so construct exactly
// one of these per process.
func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

// CreatePaymentIntent creates a Stripe payment intent for the given amount.
func (s *StripeProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}
