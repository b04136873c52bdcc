package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/dukerupert/vanir/internal/domain"
)

// FallbackDiscountCode is accepted locally whenever the external
// validation provider cannot be reached.
const FallbackDiscountCode = "WELCOME10"

// fallbackDiscounts is the local table consulted on provider failure.
var fallbackDiscounts = map[string]int{
	FallbackDiscountCode: 10,
}

// DiscountValidator checks discount codes against an external provider,
// falling back to a fixed local table on any transport failure so a dead
// provider never blocks checkout. It does not apply discounts; the pricing
// engine receives only the validated percentage.
type DiscountValidator struct {
	client *http.Client
	url    string
	logger *slog.Logger
}

// NewDiscountValidator creates a validator for the given provider endpoint.
// The timeout bounds every validation call, including connection setup.
func NewDiscountValidator(providerURL string, timeout time.Duration, logger *slog.Logger) *DiscountValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscountValidator{
		client: &http.Client{Timeout: timeout},
		url:    providerURL,
		logger: logger,
	}
}

// providerResponse is the provider's wire shape. The percentage may be
// fractional on the wire; it is rounded to a whole percent and clamped to
// [0,100] before anything downstream sees it.
type providerResponse struct {
	Valid              bool    `json:"valid"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// Validate checks one code. An unknown code is a normal {Valid: false}
// outcome with a nil error; only a missing code is a validation error.
func (v *DiscountValidator) Validate(ctx context.Context, code string) (domain.DiscountResult, error) {
	if code == "" {
		return domain.DiscountResult{}, domain.Invalid("discount.validate", "discount code is required")
	}

	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return domain.DiscountResult{}, domain.Internal(err, "discount.validate", "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return domain.DiscountResult{}, domain.Internal(err, "discount.validate", "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("discount provider unreachable, using fallback table", "error", err)
		return v.fallback(code), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Warn("discount provider returned non-200, using fallback table",
			"status", resp.StatusCode)
		return v.fallback(code), nil
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		v.logger.Warn("discount provider returned malformed body, using fallback table", "error", err)
		return v.fallback(code), nil
	}

	if !pr.Valid {
		return domain.DiscountResult{Code: code}, nil
	}

	return domain.DiscountResult{
		Code:            code,
		Valid:           true,
		DiscountPercent: clampPercent(pr.DiscountPercentage),
	}, nil
}

func (v *DiscountValidator) fallback(code string) domain.DiscountResult {
	percent, ok := fallbackDiscounts[code]
	if !ok {
		return domain.DiscountResult{Code: code}
	}
	return domain.DiscountResult{Code: code, Valid: true, DiscountPercent: percent}
}

// clampPercent rounds a provider percentage to a whole percent inside
// [0,100]. The provider is untrusted input; the pricing engine is not.
func clampPercent(p float64) int {
	rounded := int(math.Round(p))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
