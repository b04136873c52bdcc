package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/vanir/internal/billing"
	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/email"
)

// OrderStore is the order and address table collaborator.
type OrderStore interface {
	CreateAddress(ctx context.Context, addr domain.Address) (int64, error)
	GetAddress(ctx context.Context, userID, addressID int64) (*domain.Address, error)
	CreateOrder(ctx context.Context, order domain.Order) (int64, error)
	ListOrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

// EmailSender sends transactional email for completed orders.
type EmailSender interface {
	SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error
}

// CheckoutService turns a priced cart into an order. It composes the cart
// service (for lines and totals), the discount validator, the payment
// provider, and the order store; it owns no pricing rules of its own.
type CheckoutService struct {
	carts     *CartService
	discounts *DiscountValidator
	orders    OrderStore
	users     UserLookup
	payments  billing.Provider
	email     EmailSender
	logger    *slog.Logger
}

// NewCheckoutService creates a new CheckoutService instance. email may be
// nil when no SMTP host is configured; confirmations are then skipped.
func NewCheckoutService(carts *CartService, discounts *DiscountValidator, orders OrderStore, users UserLookup, payments billing.Provider, email EmailSender, logger *slog.Logger) *CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutService{
		carts:     carts,
		discounts: discounts,
		orders:    orders,
		users:     users,
		payments:  payments,
		email:     email,
		logger:    logger,
	}
}

// CreateAddress stores a shipping address for the user.
func (s *CheckoutService) CreateAddress(ctx context.Context, addr domain.Address) (int64, error) {
	if addr.FullName == "" || addr.Street == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return 0, domain.Invalid("checkout.address", "all address fields are required")
	}
	id, err := s.orders.CreateAddress(ctx, addr)
	if err != nil {
		return 0, domain.Internal(err, "checkout.address", "failed to save address")
	}
	return id, nil
}

// CompleteOrder places an order for the user's current cart.
//
// The discount code is optional; an invalid or unverifiable code completes
// the order at full price rather than failing it. The cart is cleared after
// the order is committed, and the confirmation email goes out in the
// background so a slow SMTP server never delays the checkout response.
func (s *CheckoutService) CompleteOrder(ctx context.Context, userID, addressID int64, discountCode string) (*domain.Order, error) {
	addr, err := s.orders.GetAddress(ctx, userID, addressID)
	if err != nil {
		return nil, domain.Internal(err, "checkout.complete", "failed to load address")
	}
	if addr == nil {
		return nil, domain.Invalid("checkout.complete", "address not found")
	}

	discountPercent := 0
	if discountCode != "" {
		result, err := s.discounts.Validate(ctx, discountCode)
		if err != nil {
			return nil, err
		}
		if result.Valid {
			discountPercent = result.DiscountPercent
		}
	}

	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.Invalid("checkout.complete", "cart is empty")
	}

	totals, err := s.carts.ComputeTotals(ctx, userID, discountPercent)
	if err != nil {
		return nil, err
	}

	paymentRef, err := s.payments.CreatePaymentIntent(ctx, totals.TotalCents, "usd",
		fmt.Sprintf("order for user %d", userID))
	if err != nil {
		return nil, domain.Internal(err, "checkout.complete", "failed to create payment intent")
	}

	order := domain.Order{
		UserID:          userID,
		AddressID:       addressID,
		SubtotalCents:   totals.SubtotalCents,
		DiscountPercent: totals.DiscountPercent,
		TotalCents:      totals.TotalCents,
		PaymentRef:      paymentRef,
	}
	for _, line := range lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      line.ProductID,
			Title:          line.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, domain.Internal(err, "checkout.complete", "failed to create order")
	}
	order.ID = orderID

	// The order exists at this point; a failed cart clear is an annoyance,
	// not a reason to report checkout failure.
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("failed to clear cart after checkout", "user_id", userID, "error", err)
	}

	s.sendConfirmation(userID, order)

	return &order, nil
}

// ListOrders returns the user's order history.
func (s *CheckoutService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersForUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "checkout.orders", "failed to load orders")
	}
	return orders, nil
}

// sendConfirmation emails the order summary without blocking the caller.
// It uses a fresh context so cancellation of the request does not abort
// the send.
func (s *CheckoutService) sendConfirmation(userID int64, order domain.Order) {
	if s.email == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.users.GetUserByID(ctx, userID)
		if err != nil || user == nil {
			s.logger.Error("failed to load user for order confirmation",
				"user_id", userID, "order_id", order.ID, "error", err)
			return
		}

		data := email.OrderConfirmationEmail{
			Email:    user.Email,
			Username: user.Username,
			OrderID:  order.ID,
			Subtotal: formatCents(order.SubtotalCents),
			Total:    formatCents(order.TotalCents),
		}
		if order.DiscountPercent > 0 {
			data.Discount = fmt.Sprintf("%d%%", order.DiscountPercent)
		}
		for _, item := range order.Items {
			data.Items = append(data.Items, email.OrderConfirmationItem{
				Title:     item.Title,
				Quantity:  item.Quantity,
				UnitPrice: formatCents(item.UnitPriceCents),
			})
		}

		if err := s.email.SendOrderConfirmation(ctx, data); err != nil {
			s.logger.Error("failed to send order confirmation",
				"user_id", userID, "order_id", order.ID, "error", err)
		}
	}()
}

// formatCents renders integer cents as a dollar display string.
func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
