package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// CartLine is a cart item joined with the spice it references.
type CartLine struct {
	ItemID          pgtype.UUID
	SpiceID         pgtype.UUID
	Name            string
	Quantity        int32
	UnitPriceCents  int64
	UnitWeightGrams int32
	ImageURL        pgtype.Text
}

const cartLineQuery = `
SELECT ci.id, ci.spice_id, s.name, ci.quantity, s.price_cents, s.weight_grams, s.image_url
FROM cart_items ci
JOIN spices s ON s.id = ci.spice_id
WHERE ci.user_id = $1
ORDER BY ci.created_at`

// ListCartLines returns the user's cart with current catalog prices and weights.
func (s *Store) ListCartLines(ctx context.Context, userID pgtype.UUID) ([]CartLine, error) {
	rows, err := s.db.Query(ctx, cartLineQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ItemID, &l.SpiceID, &l.Name, &l.Quantity,
			&l.UnitPriceCents, &l.UnitWeightGrams, &l.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpsertCartItem adds quantity to an existing line or inserts a new one.
func (s *Store) UpsertCartItem(ctx context.Context, userID, spiceID pgtype.UUID, quantity int32) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := s.db.QueryRow(ctx,
		`INSERT INTO cart_items (user_id, spice_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, spice_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
		 RETURNING id`,
		userID, spiceID, quantity).Scan(&id)
	return id, err
}

// SetCartItemQuantity replaces the quantity of a cart line owned by the user.
func (s *Store) SetCartItemQuantity(ctx context.Context, userID, itemID pgtype.UUID, quantity int32) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $3, updated_at = now() WHERE id = $2 AND user_id = $1`,
		userID, itemID, quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteCartItem removes a single cart line owned by the user.
func (s *Store) DeleteCartItem(ctx context.Context, userID, itemID pgtype.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $2 AND user_id = $1`, userID, itemID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ClearCart removes every cart line for the user.
func (s *Store) ClearCart(ctx context.Context, userID pgtype.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
