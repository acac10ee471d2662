package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/store"
)

type fakeQueries struct {
	spices map[pgtype.UUID]store.Spice
	lines  map[pgtype.UUID][]store.CartLine // keyed by user
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		spices: map[pgtype.UUID]store.Spice{},
		lines:  map[pgtype.UUID][]store.CartLine{},
	}
}

func (f *fakeQueries) GetSpice(_ context.Context, id pgtype.UUID) (store.Spice, error) {
	if s, ok := f.spices[id]; ok {
		return s, nil
	}
	return store.Spice{}, pgx.ErrNoRows
}

func (f *fakeQueries) ListCartLines(_ context.Context, userID pgtype.UUID) ([]store.CartLine, error) {
	return f.lines[userID], nil
}

func (f *fakeQueries) UpsertCartItem(_ context.Context, userID, spiceID pgtype.UUID, quantity int32) (pgtype.UUID, error) {
	for i, l := range f.lines[userID] {
		if l.SpiceID == spiceID {
			f.lines[userID][i].Quantity += quantity
			return l.ItemID, nil
		}
	}
	spice := f.spices[spiceID]
	itemID, _ := store.ToUUID(uuid.NewString())
	f.lines[userID] = append(f.lines[userID], store.CartLine{
		ItemID:          itemID,
		SpiceID:         spiceID,
		Name:            spice.Name,
		Quantity:        quantity,
		UnitPriceCents:  spice.PriceCents,
		UnitWeightGrams: spice.WeightGrams,
	})
	return itemID, nil
}

func (f *fakeQueries) SetCartItemQuantity(_ context.Context, userID, itemID pgtype.UUID, quantity int32) (int64, error) {
	for i, l := range f.lines[userID] {
		if l.ItemID == itemID {
			f.lines[userID][i].Quantity = quantity
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeQueries) DeleteCartItem(_ context.Context, userID, itemID pgtype.UUID) (int64, error) {
	for i, l := range f.lines[userID] {
		if l.ItemID == itemID {
			f.lines[userID] = append(f.lines[userID][:i], f.lines[userID][i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeQueries) ClearCart(_ context.Context, userID pgtype.UUID) error {
	delete(f.lines, userID)
	return nil
}

func (f *fakeQueries) addSpice(t *testing.T, name string, price int64, weight int32, active bool) string {
	t.Helper()
	id, err := store.ToUUID(uuid.NewString())
	require.NoError(t, err)
	f.spices[id] = store.Spice{ID: id, Name: name, PriceCents: price, WeightGrams: weight, Active: active}
	return store.UUIDString(id)
}

func TestAddAndGet(t *testing.T) {
	q := newFakeQueries()
	spiceID := q.addSpice(t, "Pimenta do Reino", 1890, 100, true)
	svc := NewService(q)
	userID := uuid.NewString()
	ctx := context.Background()

	summary, err := svc.Add(ctx, userID, spiceID, 2)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	require.EqualValues(t, 2, summary.Items[0].Quantity)
	require.EqualValues(t, 3780, summary.TotalCents)
	require.Equal(t, 200, summary.TotalWeightGrams)
	require.True(t, summary.ChapelEligible)

	// Adding the same spice merges into the existing line.
	summary, err = svc.Add(ctx, userID, spiceID, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	require.EqualValues(t, 3, summary.Items[0].Quantity)
}

func TestAddRejectsBadInput(t *testing.T) {
	q := newFakeQueries()
	activeID := q.addSpice(t, "Cúrcuma", 990, 60, true)
	inactiveID := q.addSpice(t, "Descontinuada", 500, 50, false)
	svc := NewService(q)
	userID := uuid.NewString()
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, activeID, 0)
	require.ErrorIs(t, err, ErrBadQuantity)

	_, err = svc.Add(ctx, userID, activeID, 100)
	require.ErrorIs(t, err, ErrBadQuantity)

	_, err = svc.Add(ctx, userID, uuid.NewString(), 1)
	require.ErrorIs(t, err, ErrSpiceNotFound)

	_, err = svc.Add(ctx, userID, inactiveID, 1)
	require.ErrorIs(t, err, ErrSpiceInactive)
}

func TestChapelEligibilityFlag(t *testing.T) {
	q := newFakeQueries()
	heavyID := q.addSpice(t, "Sal Grosso", 790, 1000, true)
	svc := NewService(q)
	userID := uuid.NewString()
	ctx := context.Background()

	summary, err := svc.Add(ctx, userID, heavyID, 5)
	require.NoError(t, err)
	require.Equal(t, 5000, summary.TotalWeightGrams)
	require.True(t, summary.ChapelEligible)

	summary, err = svc.Add(ctx, userID, heavyID, 1)
	require.NoError(t, err)
	require.Equal(t, 6000, summary.TotalWeightGrams)
	require.False(t, summary.ChapelEligible)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	q := newFakeQueries()
	spiceID := q.addSpice(t, "Orégano", 690, 30, true)
	svc := NewService(q)
	userID := uuid.NewString()
	ctx := context.Background()

	summary, err := svc.Add(ctx, userID, spiceID, 1)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	summary, err = svc.UpdateQuantity(ctx, userID, itemID, 4)
	require.NoError(t, err)
	require.EqualValues(t, 4, summary.Items[0].Quantity)

	_, err = svc.UpdateQuantity(ctx, userID, uuid.NewString(), 2)
	require.ErrorIs(t, err, ErrItemNotFound)

	summary, err = svc.Remove(ctx, userID, itemID)
	require.NoError(t, err)
	require.Empty(t, summary.Items)

	_, err = svc.Remove(ctx, userID, itemID)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestClear(t *testing.T) {
	q := newFakeQueries()
	spiceID := q.addSpice(t, "Alecrim", 590, 20, true)
	svc := NewService(q)
	userID := uuid.NewString()
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, spiceID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, userID))

	summary, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, summary.Items)
	require.Zero(t, summary.TotalCents)
}
