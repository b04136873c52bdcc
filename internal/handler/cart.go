package handler

import (
	"net/http"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/service"
)

// CartHandler serves the authenticated user's cart.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartLineResponse struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"productId"`
	Title          string `json:"title"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	LineTotalCents int64  `json:"lineTotalCents"`
	ThumbnailURL   string `json:"thumbnailUrl,omitempty"`
}

type cartResponse struct {
	Items           []cartLineResponse `json:"items"`
	SubtotalCents   int64              `json:"subtotalCents"`
	DiscountPercent int                `json:"discountPercent"`
	TotalCents      int64              `json:"totalCents"`
}

// View handles GET /cart. The response carries undiscounted totals; the
// discount endpoint reprices without mutating the cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())

	lines, err := h.carts.Lines(r.Context(), identity.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	totals, err := h.carts.ComputeTotals(r.Context(), identity.UserID, 0)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, toCartResponse(lines, totals))
}

func toCartResponse(lines []domain.CartLine, totals domain.CartTotals) cartResponse {
	resp := cartResponse{
		Items:           make([]cartLineResponse, 0, len(lines)),
		SubtotalCents:   totals.SubtotalCents,
		DiscountPercent: totals.DiscountPercent,
		TotalCents:      totals.TotalCents,
	}
	for _, line := range lines {
		resp.Items = append(resp.Items, cartLineResponse{
			ID:             line.ID,
			ProductID:      line.ProductID,
			Title:          line.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: int64(line.Quantity) * line.UnitPriceCents,
			ThumbnailURL:   line.ThumbnailURL,
		})
	}
	return resp
}

type cartAddRequest struct {
	ProductID int64 `json:"productId" validate:"required,min=1"`
	Quantity  int32 `json:"quantity" validate:"required,min=1"`
}

// Add handles POST /cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("cart.add", "productId and a quantity of at least 1 are required"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.carts.AddOrIncrement(r.Context(), identity.UserID, req.ProductID, req.Quantity); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusCreated, "added to cart")
}

// RemoveItem handles DELETE /cart/item/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.carts.RemoveLine(r.Context(), identity.UserID, lineID); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
