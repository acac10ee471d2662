// Package user manages the customer profile stored alongside orders. The
// identity provider owns credentials; this only keeps contact details.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

type queryProvider interface {
	GetProfile(ctx context.Context, userID pgtype.UUID) (store.Profile, error)
	UpsertProfile(ctx context.Context, userID pgtype.UUID, fullName, phone pgtype.Text) (store.Profile, error)
}

// Profile is the API payload for the customer's saved contact details.
type Profile struct {
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Service reads and writes customer profiles.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) *Service {
	return &Service{queries: queries}
}

// Get returns the caller's profile, falling back to the token claims when
// the customer has never saved one.
func (s *Service) Get(ctx context.Context, identity common.Identity) (Profile, error) {
	uid, err := store.ToUUID(identity.UserID)
	if err != nil {
		return Profile{}, fmt.Errorf("parse user id: %w", err)
	}
	out := Profile{
		UserID:   identity.UserID,
		Email:    identity.Email,
		FullName: identity.Name,
		Phone:    identity.Phone,
	}
	row, err := s.queries.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, nil
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if name := store.TextString(row.FullName); name != "" {
		out.FullName = name
	}
	if phone := store.TextString(row.Phone); phone != "" {
		out.Phone = phone
	}
	return out, nil
}

// UpdateForm is the profile update payload.
type UpdateForm struct {
	FullName string `json:"fullName" validate:"required,min=2,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// Update saves the caller's contact details.
func (s *Service) Update(ctx context.Context, identity common.Identity, form UpdateForm) (Profile, error) {
	uid, err := store.ToUUID(identity.UserID)
	if err != nil {
		return Profile{}, fmt.Errorf("parse user id: %w", err)
	}
	row, err := s.queries.UpsertProfile(ctx, uid, store.ToText(form.FullName), store.ToText(form.Phone))
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return Profile{
		UserID:   identity.UserID,
		Email:    identity.Email,
		FullName: store.TextString(row.FullName),
		Phone:    store.TextString(row.Phone),
	}, nil
}
