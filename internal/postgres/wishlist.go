package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/vanir/internal/domain"
)

// AddWishlistItem saves a product to the user's wishlist. Returns
// ErrDuplicate when the product is already on it.
func (s *Store) AddWishlistItem(ctx context.Context, userID, productID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)`,
		userID, productID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// WishlistForUser returns the user's saved products with live catalog
// display fields.
func (s *Store) WishlistForUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT wi.id, wi.user_id, wi.product_id, p.title, p.price_cents, p.thumbnail_url
		 FROM wishlist_items wi
		 JOIN products p ON p.id = wi.product_id
		 WHERE wi.user_id = $1
		 ORDER BY wi.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Title,
			&item.PriceCents, &item.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}

	return items, nil
}

// DeleteWishlistItem removes one saved product, scoped to its owner.
func (s *Store) DeleteWishlistItem(ctx context.Context, userID, itemID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
