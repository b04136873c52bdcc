package service

import (
	"context"

	"github.com/dukerupert/vanir/internal/domain"
)

// CartStore is the cart table collaborator.
type CartStore interface {
	UpsertCartLine(ctx context.Context, userID, productID int64, quantity int32, unitPriceCents int64) error
	CartLinesForUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	DeleteCartLine(ctx context.Context, userID, lineID int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) error
}

// ProductStore resolves catalog entries for price snapshots.
type ProductStore interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// CartService owns the cart invariant (one line per user and product) and
// the totals computation, so cart view and checkout can never disagree on
// what a cart costs. User ids passed in must come from a resolved
// authenticated identity, never from the client.
type CartService struct {
	carts    CartStore
	products ProductStore
}

// NewCartService creates a new CartService instance.
func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddOrIncrement puts a product in the user's cart. A line that already
// exists has its quantity increased atomically in the store; the unit price
// snapshot taken when the line was first added is kept, so a catalog price
// change never silently reprices items a user already added.
func (s *CartService) AddOrIncrement(ctx context.Context, userID, productID int64, quantity int32) error {
	if quantity < 1 {
		return domain.Invalid("cart.add", "quantity must be at least 1")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Internal(err, "cart.add", "failed to load product")
	}
	if product == nil || product.Hidden {
		return domain.NotFound("cart.add", "product")
	}

	if err := s.carts.UpsertCartLine(ctx, userID, productID, quantity, product.PriceCents); err != nil {
		return domain.Internal(err, "cart.add", "failed to save cart line")
	}

	return nil
}

// RemoveLine deletes one cart line. The store scopes the delete to the
// owner, so a line belonging to someone else reads as not found.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID int64) error {
	deleted, err := s.carts.DeleteCartLine(ctx, userID, lineID)
	if err != nil {
		return domain.Internal(err, "cart.remove", "failed to delete cart line")
	}
	if !deleted {
		return domain.NotFound("cart.remove", "cart item")
	}
	return nil
}

// Clear removes all lines for the user; used after checkout.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return domain.Internal(err, "cart.clear", "failed to clear cart")
	}
	return nil
}

// Lines returns the user's cart lines with display fields.
func (s *CartService) Lines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	lines, err := s.carts.CartLinesForUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "cart.lines", "failed to load cart")
	}
	return lines, nil
}
