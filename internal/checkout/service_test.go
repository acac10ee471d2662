package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

type fakeQueries struct {
	lines      []store.CartLine
	profile    store.Profile
	hasProfile bool

	orders     []store.CreateOrderParams
	deliveries []store.CreateChapelDeliveryParams
	cleared    bool
	committed  bool
}

func (f *fakeQueries) ListCartLines(context.Context, pgtype.UUID) ([]store.CartLine, error) {
	return f.lines, nil
}

func (f *fakeQueries) GetProfile(context.Context, pgtype.UUID) (store.Profile, error) {
	if !f.hasProfile {
		return store.Profile{}, pgx.ErrNoRows
	}
	return f.profile, nil
}

func (f *fakeQueries) CreateOrder(_ context.Context, p store.CreateOrderParams) (store.Order, error) {
	f.orders = append(f.orders, p)
	id, _ := store.ToUUID(uuid.NewString())
	return store.Order{
		ID:               id,
		UserID:           p.UserID,
		Status:           p.Status,
		DeliveryType:     p.DeliveryType,
		TotalCents:       p.TotalCents,
		TotalWeightGrams: p.TotalWeightGrams,
		Items:            p.Items,
	}, nil
}

func (f *fakeQueries) CreateChapelDelivery(_ context.Context, p store.CreateChapelDeliveryParams) (store.ChapelDelivery, error) {
	f.deliveries = append(f.deliveries, p)
	id, _ := store.ToUUID(uuid.NewString())
	return store.ChapelDelivery{
		ID:           id,
		OrderID:      p.OrderID,
		UserID:       p.UserID,
		UserName:     p.UserName,
		UserEmail:    p.UserEmail,
		UserPhone:    p.UserPhone,
		DeliveryDate: p.DeliveryDate,
		ChapelName:   p.ChapelName,
		ChapelCEP:    p.ChapelCEP,
		Status:       store.ChapelStatusPending,
	}, nil
}

func (f *fakeQueries) ClearCart(context.Context, pgtype.UUID) error {
	f.cleared = true
	return nil
}

// newTestService runs the transaction body directly against the fake,
// recording whether it would have committed.
func newTestService(q *fakeQueries, now time.Time) *Service {
	return &Service{
		reader: q,
		now:    func() time.Time { return now },
		runTx: func(ctx context.Context, fn func(querier) error) error {
			if err := fn(q); err != nil {
				return err
			}
			q.committed = true
			return nil
		},
	}
}

func cartLine(t *testing.T, name string, qty int32, priceCents int64, weightGrams int32) store.CartLine {
	t.Helper()
	itemID, err := store.ToUUID(uuid.NewString())
	require.NoError(t, err)
	spiceID, err := store.ToUUID(uuid.NewString())
	require.NoError(t, err)
	return store.CartLine{
		ItemID:          itemID,
		SpiceID:         spiceID,
		Name:            name,
		Quantity:        qty,
		UnitPriceCents:  priceCents,
		UnitWeightGrams: weightGrams,
	}
}

func testIdentity() common.Identity {
	return common.Identity{
		UserID: uuid.NewString(),
		Email:  "maria@example.com",
		Name:   "Maria Silva",
		Phone:  "+55 11 91234-5678",
	}
}

// 2026-08-24 is a Monday; the chapel window lands on 2026-09-06.
var monday = time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)

func TestCreateNormalOrder(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{
		cartLine(t, "Páprica", 2, 1590, 80),
		cartLine(t, "Cominho", 1, 990, 50),
	}}
	svc := newTestService(q, monday)

	out, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "normal"})
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusPending, out.Status)
	require.Equal(t, "normal", out.DeliveryType)
	require.EqualValues(t, 2*1590+990, out.TotalCents)
	require.Equal(t, 210, out.TotalWeightGrams)
	require.Nil(t, out.Chapel)
	require.True(t, q.cleared)
	require.True(t, q.committed)
	require.Empty(t, q.deliveries)

	var items []OrderItem
	require.NoError(t, json.Unmarshal(q.orders[0].Items, &items))
	require.Len(t, items, 2)
	require.Equal(t, "Páprica", items[0].Name)
}

func TestCreateChapelOrder(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Sal Grosso", 4, 790, 1000)}}
	svc := newTestService(q, monday)

	out, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "chapel"})
	require.NoError(t, err)
	require.NotNil(t, out.Chapel)
	require.Equal(t, "2026-09-06", out.Chapel.DeliveryDate)
	require.Equal(t, "A Igreja de Jesus Cristo dos Santos dos Últimos Dias", out.Chapel.ChapelName)
	require.Equal(t, "04678-000", out.Chapel.ChapelCEP)

	require.Len(t, q.deliveries, 1)
	booked := q.deliveries[0]
	require.Equal(t, "Maria Silva", booked.UserName)
	require.Equal(t, "maria@example.com", booked.UserEmail)
	require.EqualValues(t, 4000, booked.TotalWeightGrams)
	require.True(t, q.cleared)
}

func TestCreateChapelAtExactCap(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Sal Grosso", 5, 790, 1000)}}
	svc := newTestService(q, monday)

	out, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "chapel"})
	require.NoError(t, err)
	require.Equal(t, 5000, out.TotalWeightGrams)
	require.NotNil(t, out.Chapel)
}

func TestCreateChapelOverCapIsRejected(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{
		cartLine(t, "Sal Grosso", 5, 790, 1000),
		cartLine(t, "Orégano", 1, 690, 1),
	}}
	svc := newTestService(q, monday)

	_, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "chapel"})
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CHAPEL_WEIGHT_EXCEEDED", appErr.Code)

	// Nothing written, nothing cleared.
	require.Empty(t, q.orders)
	require.Empty(t, q.deliveries)
	require.False(t, q.cleared)
	require.False(t, q.committed)
}

func TestCreateOverCapStillAllowsNormal(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Sal Grosso", 6, 790, 1000)}}
	svc := newTestService(q, monday)

	out, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "normal"})
	require.NoError(t, err)
	require.Equal(t, 6000, out.TotalWeightGrams)
	require.Nil(t, out.Chapel)
}

func TestCreateEmptyCart(t *testing.T) {
	svc := newTestService(&fakeQueries{}, monday)

	_, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "normal"})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateBadDeliveryType(t *testing.T) {
	svc := newTestService(&fakeQueries{}, monday)

	_, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "pigeon"})
	require.ErrorIs(t, err, ErrBadType)
}

func TestChapelContactFallsBackToProfile(t *testing.T) {
	q := &fakeQueries{
		lines:      []store.CartLine{cartLine(t, "Canela", 1, 1290, 60)},
		hasProfile: true,
		profile: store.Profile{
			FullName: store.ToText("João Pereira"),
			Phone:    store.ToText("+55 11 98888-0000"),
		},
	}
	svc := newTestService(q, monday)

	identity := common.Identity{UserID: uuid.NewString(), Email: "joao@example.com"}
	_, err := svc.Create(context.Background(), identity, Input{DeliveryType: "chapel"})
	require.NoError(t, err)
	require.Len(t, q.deliveries, 1)
	require.Equal(t, "João Pereira", q.deliveries[0].UserName)
	require.Equal(t, "+55 11 98888-0000", store.TextString(q.deliveries[0].UserPhone))
}

func TestPreviewWindow(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Sal Grosso", 6, 790, 1000)}}
	svc := newTestService(q, monday)

	window, err := svc.PreviewWindow(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.Equal(t, "2026-09-06", window.DeliveryDate)
	require.False(t, window.Eligible)
	require.Equal(t, 6000, window.TotalWeightGrams)
	require.Equal(t, 5000, window.MaxWeightGrams)
}

func TestPreviewWindowEmptyCart(t *testing.T) {
	svc := newTestService(&fakeQueries{}, monday)

	window, err := svc.PreviewWindow(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.True(t, window.Eligible)
	require.Zero(t, window.TotalWeightGrams)
}

func TestCreateSnapshotFreezesPrices(t *testing.T) {
	line := cartLine(t, "Açafrão", 3, 2490, 40)
	q := &fakeQueries{lines: []store.CartLine{line}}
	svc := newTestService(q, monday)

	_, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "normal"})
	require.NoError(t, err)

	var items []OrderItem
	require.NoError(t, json.Unmarshal(q.orders[0].Items, &items))
	require.EqualValues(t, 2490, items[0].UnitPriceCents)
	require.EqualValues(t, 40, items[0].UnitWeightGrams)
	require.Equal(t, store.UUIDString(line.SpiceID), items[0].SpiceID)
}

func TestRunTxErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	svc := &Service{
		now:   func() time.Time { return monday },
		runTx: func(context.Context, func(querier) error) error { return boom },
	}

	_, err := svc.Create(context.Background(), testIdentity(), Input{DeliveryType: "normal"})
	require.ErrorIs(t, err, boom)
}
