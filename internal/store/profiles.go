package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Profile mirrors the editable slice of the identity provider's user record.
type Profile struct {
	UserID    pgtype.UUID
	FullName  pgtype.Text
	Phone     pgtype.Text
	UpdatedAt pgtype.Timestamptz
}

// GetProfile fetches the profile row for a user.
func (s *Store) GetProfile(ctx context.Context, userID pgtype.UUID) (Profile, error) {
	var p Profile
	err := s.db.QueryRow(ctx,
		`SELECT user_id, full_name, phone, updated_at FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.UserID, &p.FullName, &p.Phone, &p.UpdatedAt)
	return p, err
}

// UpsertProfile creates or updates the profile row for a user.
func (s *Store) UpsertProfile(ctx context.Context, userID pgtype.UUID, fullName, phone pgtype.Text) (Profile, error) {
	var p Profile
	err := s.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, full_name, phone)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id)
		 DO UPDATE SET full_name = EXCLUDED.full_name, phone = EXCLUDED.phone, updated_at = now()
		 RETURNING user_id, full_name, phone, updated_at`,
		userID, fullName, phone).Scan(&p.UserID, &p.FullName, &p.Phone, &p.UpdatedAt)
	return p, err
}
