// Package billing abstracts payment providers behind a minimal interface so
// checkout logic does not depend on a concrete payment vendor.
package billing

import "context"

// Provider creates payment intents for orders. Amounts are integer cents.
type Provider interface {
	// CreatePaymentIntent registers a pending charge with the payment
	// provider and returns its id. The charge is confirmed client-side;
	// the server only records the reference.
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (string, error)
}
