package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Order statuses mirror the storefront lifecycle.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Delivery types supported at checkout.
const (
	DeliveryTypeNormal = "normal"
	DeliveryTypeChapel = "chapel"
)

// Order is a placed order with its line items denormalised as JSON.
type Order struct {
	ID               pgtype.UUID
	UserID           pgtype.UUID
	Status           string
	DeliveryType     string
	TotalCents       int64
	TotalWeightGrams int32
	Items            []byte
	CreatedAt        pgtype.Timestamptz
}

// CreateOrderParams captures the fields persisted at checkout.
type CreateOrderParams struct {
	UserID           pgtype.UUID
	Status           string
	DeliveryType     string
	TotalCents       int64
	TotalWeightGrams int32
	Items            []byte
}

const orderColumns = `id, user_id, status, delivery_type, total_cents, total_weight_grams, items, created_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.DeliveryType,
		&o.TotalCents, &o.TotalWeightGrams, &o.Items, &o.CreatedAt)
	return o, err
}

// CreateOrder inserts a new order.
func (s *Store) CreateOrder(ctx context.Context, p CreateOrderParams) (Order, error) {
	return scanOrder(s.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, status, delivery_type, total_cents, total_weight_grams, items)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+orderColumns,
		p.UserID, p.Status, p.DeliveryType, p.TotalCents, p.TotalWeightGrams, p.Items))
}

// ListOrdersForUser returns the user's orders newest first.
func (s *Store) ListOrdersForUser(ctx context.Context, userID pgtype.UUID, limit, offset int32) ([]Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountOrdersForUser returns the number of orders the user has placed.
func (s *Store) CountOrdersForUser(ctx context.Context, userID pgtype.UUID) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// GetOrderForUser fetches a single order scoped to its owner.
func (s *Store) GetOrderForUser(ctx context.Context, id, userID pgtype.UUID) (Order, error) {
	return scanOrder(s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID))
}

// UpdateOrderStatus sets the status of an order and returns the updated row.
func (s *Store) UpdateOrderStatus(ctx context.Context, id pgtype.UUID, status string) (Order, error) {
	return scanOrder(s.db.QueryRow(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns, id, status))
}
