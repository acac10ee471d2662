package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

type fakeQueries struct {
	profiles map[pgtype.UUID]store.Profile
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{profiles: map[pgtype.UUID]store.Profile{}}
}

func (f *fakeQueries) GetProfile(_ context.Context, userID pgtype.UUID) (store.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return store.Profile{}, pgx.ErrNoRows
}

func (f *fakeQueries) UpsertProfile(_ context.Context, userID pgtype.UUID, fullName, phone pgtype.Text) (store.Profile, error) {
	p := store.Profile{UserID: userID, FullName: fullName, Phone: phone}
	f.profiles[userID] = p
	return p, nil
}

func TestGetFallsBackToClaims(t *testing.T) {
	svc := NewService(newFakeQueries())
	identity := common.Identity{UserID: uuid.NewString(), Email: "maria@example.com", Name: "Maria Silva", Phone: "+55 11 91234-5678"}

	profile, err := svc.Get(context.Background(), identity)
	require.NoError(t, err)
	require.Equal(t, "Maria Silva", profile.FullName)
	require.Equal(t, "+55 11 91234-5678", profile.Phone)
}

func TestUpdateThenGetPrefersSavedProfile(t *testing.T) {
	svc := NewService(newFakeQueries())
	identity := common.Identity{UserID: uuid.NewString(), Email: "maria@example.com", Name: "Maria Silva"}

	updated, err := svc.Update(context.Background(), identity, UpdateForm{FullName: "Maria S. Oliveira", Phone: "+55 11 95555-1111"})
	require.NoError(t, err)
	require.Equal(t, "Maria S. Oliveira", updated.FullName)

	got, err := svc.Get(context.Background(), identity)
	require.NoError(t, err)
	require.Equal(t, "Maria S. Oliveira", got.FullName)
	require.Equal(t, "+55 11 95555-1111", got.Phone)
	require.Equal(t, "maria@example.com", got.Email)
}
