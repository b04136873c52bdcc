package domain

// CartLine is one product entry in a user's cart. At most one line exists
// per (user, product) pair; adding the same product again increments the
// quantity. UnitPriceCents is the catalog price snapshot taken when the
// line was first added, not the live price.
type CartLine struct {
	ID             int64
	UserID         int64
	ProductID      int64
	Quantity       int32
	UnitPriceCents int64
	Title          string
	ThumbnailURL   string
}

// CartTotals is the computed price of a cart. It is never persisted;
// checkout stores the totals it was handed at order-creation time.
type CartTotals struct {
	SubtotalCents   int64
	DiscountPercent int
	TotalCents      int64
}

// WishlistItem is one saved product on a user's wishlist.
type WishlistItem struct {
	ID           int64
	UserID       int64
	ProductID    int64
	Title        string
	PriceCents   int64
	ThumbnailURL string
}
