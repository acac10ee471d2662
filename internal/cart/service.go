// Package cart manages the authenticated user's shopping cart.
package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sabordafe/backend-loja/internal/chapel"
	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

// Service errors rendered by the handler layer.
var (
	ErrItemNotFound  = common.NewAppError("CART_ITEM_NOT_FOUND", "cart item not found", http.StatusNotFound, nil)
	ErrSpiceNotFound = common.NewAppError("SPICE_NOT_FOUND", "spice not found", http.StatusNotFound, nil)
	ErrSpiceInactive = common.NewAppError("SPICE_INACTIVE", "spice is not available", http.StatusConflict, nil)
	ErrBadQuantity   = common.NewAppError("INVALID_QUANTITY", "quantity must be between 1 and 99", http.StatusUnprocessableEntity, nil)
)

const maxQuantity = 99

type queryProvider interface {
	GetSpice(ctx context.Context, id pgtype.UUID) (store.Spice, error)
	ListCartLines(ctx context.Context, userID pgtype.UUID) ([]store.CartLine, error)
	UpsertCartItem(ctx context.Context, userID, spiceID pgtype.UUID, quantity int32) (pgtype.UUID, error)
	SetCartItemQuantity(ctx context.Context, userID, itemID pgtype.UUID, quantity int32) (int64, error)
	DeleteCartItem(ctx context.Context, userID, itemID pgtype.UUID) (int64, error)
	ClearCart(ctx context.Context, userID pgtype.UUID) error
}

// Item is one cart line in API responses.
type Item struct {
	ID              string `json:"id"`
	SpiceID         string `json:"spiceId"`
	Name            string `json:"name"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int64  `json:"unitPriceCents"`
	UnitWeightGrams int32  `json:"unitWeightGrams"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

// Summary is the full cart payload, including the totals the storefront
// shows next to the chapel delivery option.
type Summary struct {
	Items                []Item `json:"items"`
	TotalCents           int64  `json:"totalCents"`
	TotalWeightGrams     int    `json:"totalWeightGrams"`
	ChapelEligible       bool   `json:"chapelEligible"`
	ChapelMaxWeightGrams int    `json:"chapelMaxWeightGrams"`
}

// Service orchestrates cart reads and writes.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) *Service {
	return &Service{queries: queries}
}

// Get returns the user's cart summary.
func (s *Service) Get(ctx context.Context, userID string) (Summary, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse user id: %w", err)
	}
	lines, err := s.queries.ListCartLines(ctx, uid)
	if err != nil {
		return Summary{}, fmt.Errorf("list cart: %w", err)
	}
	return buildSummary(lines), nil
}

func buildSummary(lines []store.CartLine) Summary {
	summary := Summary{Items: make([]Item, 0, len(lines)), ChapelMaxWeightGrams: chapel.MaxWeightGrams}
	chapelLines := make([]chapel.Line, 0, len(lines))
	for _, l := range lines {
		summary.Items = append(summary.Items, Item{
			ID:              store.UUIDString(l.ItemID),
			SpiceID:         store.UUIDString(l.SpiceID),
			Name:            l.Name,
			Quantity:        l.Quantity,
			UnitPriceCents:  l.UnitPriceCents,
			UnitWeightGrams: l.UnitWeightGrams,
			ImageURL:        store.TextString(l.ImageURL),
		})
		summary.TotalCents += l.UnitPriceCents * int64(l.Quantity)
		chapelLines = append(chapelLines, chapel.Line{
			Quantity:        int(l.Quantity),
			UnitWeightGrams: int(l.UnitWeightGrams),
		})
	}
	eligibility := chapel.Evaluate(chapelLines, false, timeNow())
	summary.TotalWeightGrams = eligibility.TotalWeightGrams
	summary.ChapelEligible = eligibility.Eligible
	return summary
}

// Add puts quantity units of a spice into the cart, merging with an
// existing line for the same spice.
func (s *Service) Add(ctx context.Context, userID, spiceID string, quantity int32) (Summary, error) {
	if quantity < 1 || quantity > maxQuantity {
		return Summary{}, ErrBadQuantity
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse user id: %w", err)
	}
	sid, err := store.ToUUID(spiceID)
	if err != nil {
		return Summary{}, ErrSpiceNotFound
	}

	spice, err := s.queries.GetSpice(ctx, sid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, ErrSpiceNotFound
		}
		return Summary{}, fmt.Errorf("get spice: %w", err)
	}
	if !spice.Active {
		return Summary{}, ErrSpiceInactive
	}

	if _, err := s.queries.UpsertCartItem(ctx, uid, sid, quantity); err != nil {
		return Summary{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return s.Get(ctx, userID)
}

// UpdateQuantity sets the quantity of an existing cart line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int32) (Summary, error) {
	if quantity < 1 || quantity > maxQuantity {
		return Summary{}, ErrBadQuantity
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse user id: %w", err)
	}
	iid, err := store.ToUUID(itemID)
	if err != nil {
		return Summary{}, ErrItemNotFound
	}
	affected, err := s.queries.SetCartItemQuantity(ctx, uid, iid, quantity)
	if err != nil {
		return Summary{}, fmt.Errorf("set cart quantity: %w", err)
	}
	if affected == 0 {
		return Summary{}, ErrItemNotFound
	}
	return s.Get(ctx, userID)
}

// Remove deletes one cart line.
func (s *Service) Remove(ctx context.Context, userID, itemID string) (Summary, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse user id: %w", err)
	}
	iid, err := store.ToUUID(itemID)
	if err != nil {
		return Summary{}, ErrItemNotFound
	}
	affected, err := s.queries.DeleteCartItem(ctx, uid, iid)
	if err != nil {
		return Summary{}, fmt.Errorf("delete cart item: %w", err)
	}
	if affected == 0 {
		return Summary{}, ErrItemNotFound
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	if err := s.queries.ClearCart(ctx, uid); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
