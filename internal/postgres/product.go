package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ListProducts returns all products visible for sale, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, price_cents, thumbnail_url, hidden, created_at
		 FROM products
		 WHERE hidden = false
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.ThumbnailURL, &p.Hidden, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

// GetProduct looks a product up by id, hidden or not; callers decide
// whether hidden products may be shown. Returns (nil, nil) when absent.
func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, price_cents, thumbnail_url, hidden, created_at
		 FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.ThumbnailURL, &p.Hidden, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}
