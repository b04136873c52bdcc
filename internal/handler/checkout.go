package handler

import (
	"net/http"
	"time"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/service"
)

// CheckoutHandler serves discount preview, addresses, order completion,
// and order history.
type CheckoutHandler struct {
	discounts *service.DiscountValidator
	checkout  *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(discounts *service.DiscountValidator, checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		discounts: discounts,
		checkout:  checkout,
	}
}

type discountApplyRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type discountApplyResponse struct {
	Code               string `json:"code"`
	Valid              bool   `json:"valid"`
	DiscountPercentage int    `json:"discountPercentage"`
}

// ApplyDiscount handles POST /discount/apply. It only reports whether the
// code is good and for how much; nothing is persisted, and checkout
// revalidates the code itself when the order is placed.
func (h *CheckoutHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountApplyRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("discount.apply", "code is required"))
		return
	}

	result, err := h.discounts.Validate(r.Context(), req.Code)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, discountApplyResponse{
		Code:               result.Code,
		Valid:              result.Valid,
		DiscountPercentage: result.DiscountPercent,
	})
}

type addressRequest struct {
	FullName   string `json:"fullName" validate:"required,max=128"`
	Street     string `json:"street" validate:"required,max=256"`
	City       string `json:"city" validate:"required,max=128"`
	PostalCode string `json:"postalCode" validate:"required,max=32"`
	Country    string `json:"country" validate:"required,max=64"`
}

// CreateAddress handles POST /checkout
func (h *CheckoutHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("checkout.address", "all address fields are required"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	id, err := h.checkout.CreateAddress(r.Context(), domain.Address{
		UserID:     identity.UserID,
		FullName:   req.FullName,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]int64{"addressId": id})
}

type completeOrderRequest struct {
	AddressID    int64  `json:"addressId" validate:"required,min=1"`
	DiscountCode string `json:"discountCode" validate:"max=64"`
}

type orderItemResponse struct {
	ProductID      int64  `json:"productId"`
	Title          string `json:"title"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	SubtotalCents   int64               `json:"subtotalCents"`
	DiscountPercent int                 `json:"discountPercent"`
	TotalCents      int64               `json:"totalCents"`
	PaymentRef      string              `json:"paymentRef,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	Items           []orderItemResponse `json:"items"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		SubtotalCents:   o.SubtotalCents,
		DiscountPercent: o.DiscountPercent,
		TotalCents:      o.TotalCents,
		PaymentRef:      o.PaymentRef,
		CreatedAt:       o.CreatedAt,
		Items:           make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:      item.ProductID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return resp
}

// CompleteOrder handles POST /order/complete
func (h *CheckoutHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	var req completeOrderRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("checkout.complete", "addressId is required"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	order, err := h.checkout.CompleteOrder(r.Context(), identity.UserID, req.AddressID, req.DiscountCode)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, toOrderResponse(*order))
}

// ListOrders handles GET /orders
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())
	orders, err := h.checkout.ListOrders(r.Context(), identity.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	RespondJSON(w, http.StatusOK, out)
}
