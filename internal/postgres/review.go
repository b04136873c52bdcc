package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/jackc/pgx/v5"
)

// CreateReview inserts a review. Returns ErrDuplicate when the user has
// already reviewed the product.
func (s *Store) CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	var r domain.Review
	err := s.pool.QueryRow(ctx,
		`INSERT INTO reviews (product_id, user_id, rating, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, product_id, user_id, rating, body, created_at, updated_at`,
		review.ProductID, review.UserID, review.Rating, review.Body,
	).Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Body, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &r, nil
}

// ListReviewsForProduct returns a product's reviews with author usernames,
// newest first.
func (s *Store) ListReviewsForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.id, r.product_id, r.user_id, u.username, r.rating, r.body, r.created_at, r.updated_at
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC, r.id DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Username, &r.Rating,
			&r.Body, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}

	return reviews, nil
}

// GetReview returns (nil, nil) when no review matches.
func (s *Store) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	var r domain.Review
	err := s.pool.QueryRow(ctx,
		`SELECT id, product_id, user_id, rating, body, created_at, updated_at
		 FROM reviews WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Body, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &r, nil
}

// UpdateReview rewrites rating and body, scoped to the author. Reports
// whether a row was updated.
func (s *Store) UpdateReview(ctx context.Context, userID, reviewID int64, rating int32, body string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reviews SET rating = $1, body = $2, updated_at = now()
		 WHERE id = $3 AND user_id = $4`,
		rating, body, reviewID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteReview removes a review, scoped to the author.
func (s *Store) DeleteReview(ctx context.Context, userID, reviewID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`,
		reviewID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
