package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/jackc/pgx/v5"
)

// CreateAddress stores a shipping address for the user and returns its id.
func (s *Store) CreateAddress(ctx context.Context, addr domain.Address) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO addresses (user_id, full_name, street, city, postal_code, country)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		addr.UserID, addr.FullName, addr.Street, addr.City, addr.PostalCode, addr.Country,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create address: %w", err)
	}
	return id, nil
}

// GetAddress loads an address scoped to its owner. Returns (nil, nil) when
// absent or owned by someone else.
func (s *Store) GetAddress(ctx context.Context, userID, addressID int64) (*domain.Address, error) {
	var addr domain.Address
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, full_name, street, city, postal_code, country, created_at
		 FROM addresses WHERE id = $1 AND user_id = $2`,
		addressID, userID,
	).Scan(&addr.ID, &addr.UserID, &addr.FullName, &addr.Street, &addr.City,
		&addr.PostalCode, &addr.Country, &addr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &addr, nil
}

// CreateOrder persists the order header and its price-snapshotted items in
// one transaction and returns the new order id.
func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, address_id, subtotal_cents, discount_percent, total_cents, payment_ref)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		order.UserID, order.AddressID, order.SubtotalCents, order.DiscountPercent,
		order.TotalCents, order.PaymentRef,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, title, quantity, unit_price_cents)
			 VALUES ($1, $2, $3, $4, $5)`,
			orderID, item.ProductID, item.Title, item.Quantity, item.UnitPriceCents,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	return orderID, nil
}

// ListOrdersForUser returns the user's order history with items, newest
// order first.
func (s *Store) ListOrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, address_id, subtotal_cents, discount_percent, total_cents, payment_ref, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.AddressID, &o.SubtotalCents,
			&o.DiscountPercent, &o.TotalCents, &o.PaymentRef, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	for i := range orders {
		items, err := s.listOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (s *Store) listOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, order_id, product_id, title, quantity, unit_price_cents
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Title,
			&item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return items, nil
}
