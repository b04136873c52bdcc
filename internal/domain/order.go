package domain

import "time"

// Order is a completed checkout. TotalCents is the authoritative amount
// computed by the pricing engine at completion time.
type Order struct {
	ID              int64
	UserID          int64
	AddressID       int64
	SubtotalCents   int64
	DiscountPercent int
	TotalCents      int64
	PaymentRef      string
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is a price-snapshotted line copied from the cart when the
// order was placed.
type OrderItem struct {
	ID             int64
	OrderID        int64
	ProductID      int64
	Title          string
	Quantity       int32
	UnitPriceCents int64
}

// DiscountResult is the outcome of validating a discount code against
// the external provider (or the local fallback table).
type DiscountResult struct {
	Code            string
	Valid           bool
	DiscountPercent int
}
