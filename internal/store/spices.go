package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Spice is a catalog row.
type Spice struct {
	ID                 pgtype.UUID
	Name               string
	Description        pgtype.Text
	PriceCents         int64
	WeightGrams        int32
	PackageWeightGrams int32
	ImageURL           pgtype.Text
	Active             bool
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

// SpiceParams captures the writable fields of a spice.
type SpiceParams struct {
	Name               string
	Description        pgtype.Text
	PriceCents         int64
	WeightGrams        int32
	PackageWeightGrams int32
	ImageURL           pgtype.Text
	Active             bool
}

const spiceColumns = `id, name, description, price_cents, weight_grams, package_weight_grams, image_url, active, created_at, updated_at`

func scanSpice(row interface{ Scan(dest ...any) error }) (Spice, error) {
	var s Spice
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PriceCents, &s.WeightGrams,
		&s.PackageWeightGrams, &s.ImageURL, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ListSpices returns active catalog rows ordered by name.
func (s *Store) ListSpices(ctx context.Context, limit, offset int32) ([]Spice, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+spiceColumns+` FROM spices WHERE active ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Spice
	for rows.Next() {
		sp, err := scanSpice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// CountSpices returns the number of active catalog rows.
func (s *Store) CountSpices(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM spices WHERE active`).Scan(&total)
	return total, err
}

// GetSpice fetches a single spice by identifier.
func (s *Store) GetSpice(ctx context.Context, id pgtype.UUID) (Spice, error) {
	return scanSpice(s.db.QueryRow(ctx,
		`SELECT `+spiceColumns+` FROM spices WHERE id = $1`, id))
}

// CreateSpice inserts a catalog row.
func (s *Store) CreateSpice(ctx context.Context, p SpiceParams) (Spice, error) {
	return scanSpice(s.db.QueryRow(ctx,
		`INSERT INTO spices (name, description, price_cents, weight_grams, package_weight_grams, image_url, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+spiceColumns,
		p.Name, p.Description, p.PriceCents, p.WeightGrams, p.PackageWeightGrams, p.ImageURL, p.Active))
}

// UpdateSpice replaces the writable fields of a catalog row.
func (s *Store) UpdateSpice(ctx context.Context, id pgtype.UUID, p SpiceParams) (Spice, error) {
	return scanSpice(s.db.QueryRow(ctx,
		`UPDATE spices
		 SET name = $2, description = $3, price_cents = $4, weight_grams = $5,
		     package_weight_grams = $6, image_url = $7, active = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+spiceColumns,
		id, p.Name, p.Description, p.PriceCents, p.WeightGrams, p.PackageWeightGrams, p.ImageURL, p.Active))
}

// DeleteSpice removes a catalog row.
func (s *Store) DeleteSpice(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM spices WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
