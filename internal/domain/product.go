package domain

import "time"

// Product is a catalog entry. Hidden products are kept out of listings
// and cannot be added to carts or wishlists.
type Product struct {
	ID           int64
	Title        string
	Description  string
	PriceCents   int64
	ThumbnailURL string
	Hidden       bool
	CreatedAt    time.Time
}

// Review is a customer review of one product. A user may review a
// product at most once.
type Review struct {
	ID        int64
	ProductID int64
	UserID    int64
	Username  string
	Rating    int32
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
