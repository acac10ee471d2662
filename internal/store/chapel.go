package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Chapel delivery statuses managed by the admin panel.
const (
	ChapelStatusPending   = "pending"
	ChapelStatusConfirmed = "confirmed"
	ChapelStatusDelivered = "delivered"
	ChapelStatusCancelled = "cancelled"
)

// ChapelDelivery records a Sunday hand-off booked at checkout.
type ChapelDelivery struct {
	ID               pgtype.UUID
	OrderID          pgtype.UUID
	UserID           pgtype.UUID
	UserName         string
	UserEmail        string
	UserPhone        pgtype.Text
	DeliveryDate     pgtype.Date
	ChapelName       string
	ChapelCEP        string
	TotalWeightGrams int32
	Items            []byte
	Status           string
	AdminNotes       pgtype.Text
	CreatedAt        pgtype.Timestamptz
}

// CreateChapelDeliveryParams captures the fields persisted when an order
// selects chapel delivery.
type CreateChapelDeliveryParams struct {
	OrderID          pgtype.UUID
	UserID           pgtype.UUID
	UserName         string
	UserEmail        string
	UserPhone        pgtype.Text
	DeliveryDate     pgtype.Date
	ChapelName       string
	ChapelCEP        string
	TotalWeightGrams int32
	Items            []byte
}

const chapelColumns = `id, order_id, user_id, user_name, user_email, user_phone, delivery_date,
chapel_name, chapel_cep, total_weight_grams, items, status, admin_notes, created_at`

func scanChapelDelivery(row interface{ Scan(dest ...any) error }) (ChapelDelivery, error) {
	var d ChapelDelivery
	err := row.Scan(&d.ID, &d.OrderID, &d.UserID, &d.UserName, &d.UserEmail, &d.UserPhone,
		&d.DeliveryDate, &d.ChapelName, &d.ChapelCEP, &d.TotalWeightGrams, &d.Items,
		&d.Status, &d.AdminNotes, &d.CreatedAt)
	return d, err
}

// CreateChapelDelivery inserts a chapel delivery record in pending state.
func (s *Store) CreateChapelDelivery(ctx context.Context, p CreateChapelDeliveryParams) (ChapelDelivery, error) {
	return scanChapelDelivery(s.db.QueryRow(ctx,
		`INSERT INTO chapel_deliveries
		 (order_id, user_id, user_name, user_email, user_phone, delivery_date,
		  chapel_name, chapel_cep, total_weight_grams, items, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
		 RETURNING `+chapelColumns,
		p.OrderID, p.UserID, p.UserName, p.UserEmail, p.UserPhone, p.DeliveryDate,
		p.ChapelName, p.ChapelCEP, p.TotalWeightGrams, p.Items))
}

// ListChapelDeliveries returns all bookings ordered by delivery date, the
// order the admin panel works through them.
func (s *Store) ListChapelDeliveries(ctx context.Context, limit, offset int32) ([]ChapelDelivery, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+chapelColumns+` FROM chapel_deliveries ORDER BY delivery_date, created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ChapelDelivery
	for rows.Next() {
		d, err := scanChapelDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountChapelDeliveries returns the total number of bookings.
func (s *Store) CountChapelDeliveries(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM chapel_deliveries`).Scan(&total)
	return total, err
}

// UpdateChapelDeliveryStatus sets the status and admin notes of a booking.
func (s *Store) UpdateChapelDeliveryStatus(ctx context.Context, id pgtype.UUID, status string, notes pgtype.Text) (ChapelDelivery, error) {
	return scanChapelDelivery(s.db.QueryRow(ctx,
		`UPDATE chapel_deliveries SET status = $2, admin_notes = $3 WHERE id = $1 RETURNING `+chapelColumns,
		id, status, notes))
}
