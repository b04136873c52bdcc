package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/vanir/internal/domain"
)

// UpsertCartLine inserts a cart line or, when the user already has the
// product, atomically increments the quantity in one statement. Two
// concurrent adds for the same (user, product) pair both land; neither
// update is lost. The stored unit price snapshot is deliberately left
// untouched on increment.
func (s *Store) UpsertCartLine(ctx context.Context, userID, productID int64, quantity int32, unitPriceCents int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, unit_price_cents)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity, unitPriceCents,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return nil
}

// CartLinesForUser returns the user's cart lines with denormalized
// product display fields. An unknown user simply has no lines.
func (s *Store) CartLinesForUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.unit_price_cents,
		        p.title, p.thumbnail_url
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity,
			&line.UnitPriceCents, &line.Title, &line.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart lines: %w", err)
	}

	return lines, nil
}

// DeleteCartLine removes one line, scoped to its owner. Reports whether a
// row was removed; a line belonging to another user is indistinguishable
// from an absent one.
func (s *Store) DeleteCartLine(ctx context.Context, userID, lineID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		lineID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete cart line: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearCart removes every line for the user; used after checkout.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
