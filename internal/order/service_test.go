package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/store"
)

type fakeQueries struct {
	orders []store.Order
}

func (f *fakeQueries) ListOrdersForUser(_ context.Context, userID pgtype.UUID, limit, offset int32) ([]store.Order, error) {
	var mine []store.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	if int(offset) >= len(mine) {
		return nil, nil
	}
	end := int(offset + limit)
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (f *fakeQueries) CountOrdersForUser(_ context.Context, userID pgtype.UUID) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeQueries) GetOrderForUser(_ context.Context, id, userID pgtype.UUID) (store.Order, error) {
	for _, o := range f.orders {
		if o.ID == id && o.UserID == userID {
			return o, nil
		}
	}
	return store.Order{}, pgx.ErrNoRows
}

func (f *fakeQueries) UpdateOrderStatus(_ context.Context, id pgtype.UUID, status string) (store.Order, error) {
	for i, o := range f.orders {
		if o.ID == id {
			f.orders[i].Status = status
			return f.orders[i], nil
		}
	}
	return store.Order{}, pgx.ErrNoRows
}

func newOrderRow(t *testing.T, userID pgtype.UUID, deliveryType string, totalCents int64) store.Order {
	t.Helper()
	id, err := store.ToUUID(uuid.NewString())
	require.NoError(t, err)
	items, err := json.Marshal([]Item{{SpiceID: uuid.NewString(), Name: "Páprica", Quantity: 1, UnitPriceCents: totalCents, UnitWeightGrams: 80}})
	require.NoError(t, err)
	return store.Order{
		ID:           id,
		UserID:       userID,
		Status:       store.OrderStatusPending,
		DeliveryType: deliveryType,
		TotalCents:   totalCents,
		Items:        items,
		CreatedAt:    pgtype.Timestamptz{Time: time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC), Valid: true},
	}
}

func testUser(t *testing.T) (pgtype.UUID, string) {
	t.Helper()
	raw := uuid.NewString()
	id, err := store.ToUUID(raw)
	require.NoError(t, err)
	return id, raw
}

func TestListScopedToUser(t *testing.T) {
	uid, userID := testUser(t)
	other, _ := testUser(t)
	q := &fakeQueries{orders: []store.Order{
		newOrderRow(t, uid, store.DeliveryTypeNormal, 1590),
		newOrderRow(t, other, store.DeliveryTypeNormal, 990),
	}}
	svc := NewService(q)

	result, err := svc.List(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.EqualValues(t, 1, result.Total)
	require.Equal(t, "2026-08-20T09:00:00Z", result.Items[0].CreatedAt)
	require.Len(t, result.Items[0].Items, 1)
}

func TestGetOtherUsersOrderIsHidden(t *testing.T) {
	uid, _ := testUser(t)
	_, stranger := testUser(t)
	row := newOrderRow(t, uid, store.DeliveryTypeChapel, 2490)
	svc := NewService(&fakeQueries{orders: []store.Order{row}})

	_, err := svc.Get(context.Background(), stranger, store.UUIDString(row.ID))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	uid, _ := testUser(t)
	row := newOrderRow(t, uid, store.DeliveryTypeNormal, 1590)
	q := &fakeQueries{orders: []store.Order{row}}
	svc := NewService(q)
	id := store.UUIDString(row.ID)

	updated, err := svc.UpdateStatus(context.Background(), id, store.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), id, "teleported")
	require.ErrorIs(t, err, ErrBadStatus)

	_, err = svc.UpdateStatus(context.Background(), uuid.NewString(), store.OrderStatusShipped)
	require.ErrorIs(t, err, ErrNotFound)
}
