package billing

import "context"

// MockProvider is a test double for Provider.
type MockProvider struct {
	CreatePaymentIntentFn func(ctx context.Context, amountCents int64, currency, description string) (string, error)
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (string, error) {
	if m.CreatePaymentIntentFn != nil {
		return m.CreatePaymentIntentFn(ctx, amountCents, currency, description)
	}
	return "pi_mock", nil
}
