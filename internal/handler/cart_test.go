package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/service"
)

// stubCartStore implements service.CartStore for testing
type stubCartStore struct {
	upsertFunc func(ctx context.Context, userID, productID int64, quantity int32, unitPriceCents int64) error
	linesFunc  func(ctx context.Context, userID int64) ([]domain.CartLine, error)
	deleteFunc func(ctx context.Context, userID, lineID int64) (bool, error)
}

func (s *stubCartStore) UpsertCartLine(ctx context.Context, userID, productID int64, quantity int32, unitPriceCents int64) error {
	if s.upsertFunc != nil {
		return s.upsertFunc(ctx, userID, productID, quantity, unitPriceCents)
	}
	return nil
}

func (s *stubCartStore) CartLinesForUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	if s.linesFunc != nil {
		return s.linesFunc(ctx, userID)
	}
	return nil, nil
}

func (s *stubCartStore) DeleteCartLine(ctx context.Context, userID, lineID int64) (bool, error) {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, userID, lineID)
	}
	return false, nil
}

func (s *stubCartStore) ClearCart(ctx context.Context, userID int64) error {
	return nil
}

// stubProductStore implements service.ProductStore for testing
type stubProductStore struct {
	getFunc func(ctx context.Context, id int64) (*domain.Product, error)
}

func (s *stubProductStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, id)
	}
	return nil, nil
}

// asUser attaches an authenticated identity to the request context
func asUser(r *http.Request, userID int64) *http.Request {
	identity := domain.Identity{UserID: userID, Username: "tester", Authenticated: true}
	return r.WithContext(domain.WithIdentity(r.Context(), identity))
}

func TestCartHandler_View(t *testing.T) {
	tests := []struct {
		name           string
		lines          []domain.CartLine
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "cart with items includes totals",
			lines: []domain.CartLine{
				{ID: 1, ProductID: 10, Title: "Mug", Quantity: 2, UnitPriceCents: 2999},
				{ID: 2, ProductID: 11, Title: "Beans", Quantity: 1, UnitPriceCents: 1999},
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp struct {
					Success bool         `json:"success"`
					Data    cartResponse `json:"data"`
				}
				if err := json.Unmarshal([]byte(body), &resp); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if !resp.Success {
					t.Error("expected success true")
				}
				if resp.Data.SubtotalCents != 7997 {
					t.Errorf("expected subtotal 7997, got %d", resp.Data.SubtotalCents)
				}
				if resp.Data.TotalCents != 7997 {
					t.Errorf("expected total 7997, got %d", resp.Data.TotalCents)
				}
				if len(resp.Data.Items) != 2 {
					t.Errorf("expected 2 items, got %d", len(resp.Data.Items))
				}
				if resp.Data.Items[0].LineTotalCents != 5998 {
					t.Errorf("expected line total 5998, got %d", resp.Data.Items[0].LineTotalCents)
				}
			},
		},
		{
			name:           "empty cart is an empty list, not an error",
			lines:          nil,
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				if !strings.Contains(body, `"items":[]`) {
					t.Errorf("expected empty items array, got %s", body)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := &stubCartStore{
				linesFunc: func(ctx context.Context, userID int64) ([]domain.CartLine, error) {
					return tt.lines, nil
				},
			}
			h := NewCartHandler(service.NewCartService(carts, &stubProductStore{}))

			req := asUser(httptest.NewRequest(http.MethodGet, "/cart", nil), 1)
			w := httptest.NewRecorder()
			h.View(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body.String())
			}
		})
	}
}

func TestCartHandler_Add(t *testing.T) {
	catalog := &stubProductStore{
		getFunc: func(ctx context.Context, id int64) (*domain.Product, error) {
			if id == 10 {
				return &domain.Product{ID: 10, Title: "Mug", PriceCents: 1250}, nil
			}
			return nil, nil
		},
	}

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid add",
			body:           `{"productId": 10, "quantity": 2}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown product",
			body:           `{"productId": 99, "quantity": 1}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "zero quantity",
			body:           `{"productId": 10, "quantity": 0}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"productId": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field rejected",
			body:           `{"productId": 10, "quantity": 1, "price": 1}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCartHandler(service.NewCartService(&stubCartStore{}, catalog))

			req := asUser(httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(tt.body)), 1)
			w := httptest.NewRecorder()
			h.Add(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus >= 400 && !strings.Contains(w.Body.String(), `"success":false`) {
				t.Errorf("expected error envelope, got %s", w.Body.String())
			}
		})
	}
}

func TestCartHandler_RemoveItem(t *testing.T) {
	carts := &stubCartStore{
		deleteFunc: func(ctx context.Context, userID, lineID int64) (bool, error) {
			return userID == 1 && lineID == 5, nil
		},
	}
	h := NewCartHandler(service.NewCartService(carts, &stubProductStore{}))

	tests := []struct {
		name           string
		userID         int64
		lineID         string
		expectedStatus int
	}{
		{"own line deleted", 1, "5", http.StatusNoContent},
		{"someone else's line missing", 2, "5", http.StatusNotFound},
		{"unknown line missing", 1, "99", http.StatusNotFound},
		{"garbage id rejected", 1, "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest(http.MethodDelete, "/cart/item/"+tt.lineID, nil), tt.userID)
			req.SetPathValue("id", tt.lineID)
			w := httptest.NewRecorder()
			h.RemoveItem(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
