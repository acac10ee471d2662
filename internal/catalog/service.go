// Package catalog manages the spice listing: public browsing plus the
// admin CRUD used by the shop volunteers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

// ErrNotFound is returned when no spice matches the given identifier.
var ErrNotFound = common.NewAppError("SPICE_NOT_FOUND", "spice not found", http.StatusNotFound, nil)

type queryProvider interface {
	ListSpices(ctx context.Context, limit, offset int32) ([]store.Spice, error)
	CountSpices(ctx context.Context) (int64, error)
	GetSpice(ctx context.Context, id pgtype.UUID) (store.Spice, error)
	CreateSpice(ctx context.Context, p store.SpiceParams) (store.Spice, error)
	UpdateSpice(ctx context.Context, id pgtype.UUID, p store.SpiceParams) (store.Spice, error)
	DeleteSpice(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Spice is the public catalog payload.
type Spice struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	PriceCents         int64  `json:"priceCents"`
	WeightGrams        int32  `json:"weightGrams"`
	PackageWeightGrams int32  `json:"packageWeightGrams"`
	ImageURL           string `json:"imageUrl,omitempty"`
	Active             bool   `json:"active"`
}

// ListResult carries one page of spices plus pagination data.
type ListResult struct {
	Items []Spice
	Total int64
	Page  int
	Limit int
}

// Service orchestrates spice queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service with sane pagination defaults.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = 20
	}
	if s.maxLimit <= 0 {
		s.maxLimit = 100
	}
	return s
}

// ParseListParams reads page and limit from query values, clamping to the
// configured bounds.
func (s *Service) ParseListParams(values url.Values) (page, limit int) {
	page = 1
	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	limit = s.defaultLimit
	if raw := values.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return page, limit
}

// List returns one page of active spices, served from cache when possible.
func (s *Service) List(ctx context.Context, page, limit int) (ListResult, error) {
	key := fmt.Sprintf("catalog:spices:v%d:p%d:l%d", s.cache.Version(ctx), page, limit)

	var cached ListResult
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	offset := (page - 1) * limit
	rows, err := s.queries.ListSpices(ctx, int32(limit), int32(offset))
	if err != nil {
		return ListResult{}, fmt.Errorf("list spices: %w", err)
	}
	total, err := s.queries.CountSpices(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count spices: %w", err)
	}

	result := ListResult{Items: make([]Spice, 0, len(rows)), Total: total, Page: page, Limit: limit}
	for _, row := range rows {
		result.Items = append(result.Items, toDTO(row))
	}

	_ = s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// Get fetches one spice by its string UUID.
func (s *Service) Get(ctx context.Context, id string) (Spice, error) {
	uid, err := store.ToUUID(id)
	if err != nil {
		return Spice{}, ErrNotFound
	}
	row, err := s.queries.GetSpice(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spice{}, ErrNotFound
		}
		return Spice{}, fmt.Errorf("get spice: %w", err)
	}
	return toDTO(row), nil
}

// SpiceForm is the admin create/update payload.
type SpiceForm struct {
	Name               string `json:"name" validate:"required,min=2,max=120"`
	Description        string `json:"description" validate:"max=2000"`
	PriceCents         int64  `json:"priceCents" validate:"required,gt=0"`
	WeightGrams        int32  `json:"weightGrams" validate:"required,gt=0"`
	PackageWeightGrams int32  `json:"packageWeightGrams" validate:"gte=0"`
	ImageURL           string `json:"imageUrl" validate:"omitempty,url"`
	Active             bool   `json:"active"`
}

func (f SpiceForm) toParams() store.SpiceParams {
	// An omitted package weight falls back to the product weight.
	packageWeight := f.PackageWeightGrams
	if packageWeight <= 0 {
		packageWeight = f.WeightGrams
	}
	return store.SpiceParams{
		Name:               f.Name,
		Description:        store.ToText(f.Description),
		PriceCents:         f.PriceCents,
		WeightGrams:        f.WeightGrams,
		PackageWeightGrams: packageWeight,
		ImageURL:           store.ToText(f.ImageURL),
		Active:             f.Active,
	}
}

// Create inserts a spice and invalidates cached listings.
func (s *Service) Create(ctx context.Context, form SpiceForm) (Spice, error) {
	row, err := s.queries.CreateSpice(ctx, form.toParams())
	if err != nil {
		return Spice{}, fmt.Errorf("create spice: %w", err)
	}
	s.cache.BumpVersion(ctx)
	return toDTO(row), nil
}

// Update replaces a spice's fields and invalidates cached listings.
func (s *Service) Update(ctx context.Context, id string, form SpiceForm) (Spice, error) {
	uid, err := store.ToUUID(id)
	if err != nil {
		return Spice{}, ErrNotFound
	}
	row, err := s.queries.UpdateSpice(ctx, uid, form.toParams())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spice{}, ErrNotFound
		}
		return Spice{}, fmt.Errorf("update spice: %w", err)
	}
	s.cache.BumpVersion(ctx)
	return toDTO(row), nil
}

// Delete removes a spice and invalidates cached listings.
func (s *Service) Delete(ctx context.Context, id string) error {
	uid, err := store.ToUUID(id)
	if err != nil {
		return ErrNotFound
	}
	affected, err := s.queries.DeleteSpice(ctx, uid)
	if err != nil {
		return fmt.Errorf("delete spice: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.cache.BumpVersion(ctx)
	return nil
}

func toDTO(row store.Spice) Spice {
	return Spice{
		ID:                 store.UUIDString(row.ID),
		Name:               row.Name,
		Description:        store.TextString(row.Description),
		PriceCents:         row.PriceCents,
		WeightGrams:        row.WeightGrams,
		PackageWeightGrams: row.PackageWeightGrams,
		ImageURL:           store.TextString(row.ImageURL),
		Active:             row.Active,
	}
}
