package service

import (
	"context"
	"errors"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/postgres"
)

// CatalogStore is the product, review, and wishlist table collaborator.
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error)
	ListReviewsForProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	GetReview(ctx context.Context, id int64) (*domain.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID int64, rating int32, body string) (bool, error)
	DeleteReview(ctx context.Context, userID, reviewID int64) (bool, error)
	AddWishlistItem(ctx context.Context, userID, productID int64) error
	WishlistForUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, userID, itemID int64) (bool, error)
}

// CatalogService serves the product catalog plus its satellite features,
// reviews and wishlists.
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// ListProducts returns the visible catalog, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to load products")
	}
	return products, nil
}

// GetProduct returns one visible product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, "catalog.get", "failed to load product")
	}
	if product == nil || product.Hidden {
		return nil, domain.NotFound("catalog.get", "product")
	}
	return product, nil
}

// CreateReview posts a review. Each user gets one review per product;
// a second attempt conflicts rather than overwriting.
func (s *CatalogService) CreateReview(ctx context.Context, userID, productID int64, rating int32, body string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.Invalid("review.create", "rating must be between 1 and 5")
	}
	if body == "" {
		return nil, domain.Invalid("review.create", "review body is required")
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, domain.Internal(err, "review.create", "failed to load product")
	}
	if product == nil || product.Hidden {
		return nil, domain.NotFound("review.create", "product")
	}

	review, err := s.store.CreateReview(ctx, domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Body:      body,
	})
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return nil, domain.Conflict("review.create", "you have already reviewed this product")
		}
		return nil, domain.Internal(err, "review.create", "failed to create review")
	}
	return review, nil
}

// ListReviews returns all reviews for a product, newest first.
func (s *CatalogService) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	reviews, err := s.store.ListReviewsForProduct(ctx, productID)
	if err != nil {
		return nil, domain.Internal(err, "review.list", "failed to load reviews")
	}
	return reviews, nil
}

// UpdateReview edits the user's own review. Editing someone else's review
// is forbidden, not merely missing, so the caller learns they are not the
// author.
func (s *CatalogService) UpdateReview(ctx context.Context, userID, reviewID int64, rating int32, body string) error {
	if rating < 1 || rating > 5 {
		return domain.Invalid("review.update", "rating must be between 1 and 5")
	}
	if body == "" {
		return domain.Invalid("review.update", "review body is required")
	}

	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return domain.Internal(err, "review.update", "failed to load review")
	}
	if review == nil {
		return domain.NotFound("review.update", "review")
	}
	if review.UserID != userID {
		return domain.Forbidden("review.update", "you can only edit your own reviews")
	}

	updated, err := s.store.UpdateReview(ctx, userID, reviewID, rating, body)
	if err != nil {
		return domain.Internal(err, "review.update", "failed to update review")
	}
	if !updated {
		return domain.NotFound("review.update", "review")
	}
	return nil
}

// DeleteReview removes the user's own review.
func (s *CatalogService) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return domain.Internal(err, "review.delete", "failed to load review")
	}
	if review == nil {
		return domain.NotFound("review.delete", "review")
	}
	if review.UserID != userID {
		return domain.Forbidden("review.delete", "you can only delete your own reviews")
	}

	deleted, err := s.store.DeleteReview(ctx, userID, reviewID)
	if err != nil {
		return domain.Internal(err, "review.delete", "failed to delete review")
	}
	if !deleted {
		return domain.NotFound("review.delete", "review")
	}
	return nil
}

// AddToWishlist saves a product to the user's wishlist. Adding the same
// product twice conflicts.
func (s *CatalogService) AddToWishlist(ctx context.Context, userID, productID int64) error {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return domain.Internal(err, "wishlist.add", "failed to load product")
	}
	if product == nil || product.Hidden {
		return domain.NotFound("wishlist.add", "product")
	}

	if err := s.store.AddWishlistItem(ctx, userID, productID); err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return domain.Conflict("wishlist.add", "product is already on your wishlist")
		}
		return domain.Internal(err, "wishlist.add", "failed to save wishlist item")
	}
	return nil
}

// Wishlist returns the user's saved products.
func (s *CatalogService) Wishlist(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	items, err := s.store.WishlistForUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "wishlist.list", "failed to load wishlist")
	}
	return items, nil
}

// RemoveFromWishlist deletes one wishlist item, scoped to its owner.
func (s *CatalogService) RemoveFromWishlist(ctx context.Context, userID, itemID int64) error {
	deleted, err := s.store.DeleteWishlistItem(ctx, userID, itemID)
	if err != nil {
		return domain.Internal(err, "wishlist.remove", "failed to delete wishlist item")
	}
	if !deleted {
		return domain.NotFound("wishlist.remove", "wishlist item")
	}
	return nil
}
