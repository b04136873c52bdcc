package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/service"
)

// CatalogHandler serves products, reviews, and wishlists.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// pathID parses the named path parameter as a positive integer id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Invalid("handler.path", "invalid id")
	}
	return id, nil
}

type productResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"priceCents"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		ThumbnailURL: p.ThumbnailURL,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	RespondJSON(w, http.StatusOK, out)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toProductResponse(*product))
}

type reviewRequest struct {
	Rating int32  `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"required,max=4000"`
}

type reviewResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Username  string    `json:"username"`
	Rating    int32     `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReviewResponse(rv domain.Review) reviewResponse {
	return reviewResponse{
		ID:        rv.ID,
		ProductID: rv.ProductID,
		Username:  rv.Username,
		Rating:    rv.Rating,
		Body:      rv.Body,
		CreatedAt: rv.CreatedAt,
	}
}

// ListReviews handles GET /products/{id}/reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	reviews, err := h.catalog.ListReviews(r.Context(), productID)
	if err != nil {
		RespondError(w, err)
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewResponse(rv))
	}
	RespondJSON(w, http.StatusOK, out)
}

// CreateReview handles POST /products/{id}/reviews
func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	var req reviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("review.create", "rating must be 1-5 and body is required"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	review, err := h.catalog.CreateReview(r.Context(), identity.UserID, productID, req.Rating, req.Body)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toReviewResponse(*review))
}

// UpdateReview handles PUT /reviews/{id}
func (h *CatalogHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	var req reviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("review.update", "rating must be 1-5 and body is required"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.catalog.UpdateReview(r.Context(), identity.UserID, reviewID, req.Rating, req.Body); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusOK, "review updated")
}

// DeleteReview handles DELETE /reviews/{id}
func (h *CatalogHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.catalog.DeleteReview(r.Context(), identity.UserID, reviewID); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type wishlistAddRequest struct {
	ProductID int64 `json:"productId" validate:"required,min=1"`
}

type wishlistItemResponse struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"productId"`
	Title        string `json:"title"`
	PriceCents   int64  `json:"priceCents"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Wishlist handles GET /wishlist
func (h *CatalogHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())
	items, err := h.catalog.Wishlist(r.Context(), identity.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}

	out := make([]wishlistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, wishlistItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Title:        item.Title,
			PriceCents:   item.PriceCents,
			ThumbnailURL: item.ThumbnailURL,
		})
	}
	RespondJSON(w, http.StatusOK, out)
}

// AddToWishlist handles POST /wishlist/add
func (h *CatalogHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistAddRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("wishlist.add", "productId is required"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.catalog.AddToWishlist(r.Context(), identity.UserID, req.ProductID); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusCreated, "added to wishlist")
}

// RemoveFromWishlist handles DELETE /wishlist/item/{id}
func (h *CatalogHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.catalog.RemoveFromWishlist(r.Context(), identity.UserID, itemID); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
