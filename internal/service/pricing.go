package service

import (
	"context"

	"github.com/dukerupert/vanir/internal/domain"
)

// ComputeTotals prices the user's current cart. discountPercent must be a
// pre-validated percentage in [0,100]; values outside that range are a
// caller bug and are rejected, not clamped. An empty (or unknown) cart is a
// valid zero-total result, not an error.
//
// All arithmetic is integer cents. The subtotal is an exact sum of line
// extensions, so it is independent of line order; rounding happens once,
// half-up, when the discount is applied. The computation reads the store
// and writes nothing: two calls over unchanged data return identical
// totals.
func (s *CartService) ComputeTotals(ctx context.Context, userID int64, discountPercent int) (domain.CartTotals, error) {
	if discountPercent < 0 || discountPercent > 100 {
		return domain.CartTotals{}, domain.Invalid("cart.totals", "discount percentage must be between 0 and 100")
	}

	lines, err := s.carts.CartLinesForUser(ctx, userID)
	if err != nil {
		return domain.CartTotals{}, domain.Internal(err, "cart.totals", "failed to load cart")
	}

	var subtotal int64
	for _, line := range lines {
		// Stored data violating the schema invariants must not turn into a
		// garbage total.
		if line.Quantity < 1 || line.UnitPriceCents < 0 {
			return domain.CartTotals{}, domain.DataIntegrity("cart.totals", "cart line has invalid quantity or price")
		}
		subtotal += int64(line.Quantity) * line.UnitPriceCents
	}

	if len(lines) == 0 {
		return domain.CartTotals{}, nil
	}

	total := halfUpDiv(subtotal*int64(100-discountPercent), 100)
	if total < 0 {
		total = 0
	}

	return domain.CartTotals{
		SubtotalCents:   subtotal,
		DiscountPercent: discountPercent,
		TotalCents:      total,
	}, nil
}

// halfUpDiv divides n by d rounding half away from zero toward +inf.
// Only defined for n >= 0, d > 0, which holds for all money paths here.
func halfUpDiv(n, d int64) int64 {
	return (n + d/2) / d
}
