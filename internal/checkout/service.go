// Package checkout turns the cart into an order, booking the Sunday chapel
// hand-off when requested and allowed.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sabordafe/backend-loja/internal/chapel"
	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/obs"
	"github.com/sabordafe/backend-loja/internal/store"
)

// Service errors rendered by the handler layer.
var (
	ErrEmptyCart = common.NewAppError("CART_EMPTY", "cart is empty", http.StatusConflict, nil)
	ErrBadType   = common.NewAppError("INVALID_DELIVERY_TYPE", "deliveryType must be normal or chapel", http.StatusUnprocessableEntity, nil)
)

// querier is the slice of the store used inside the checkout transaction.
type querier interface {
	ListCartLines(ctx context.Context, userID pgtype.UUID) ([]store.CartLine, error)
	GetProfile(ctx context.Context, userID pgtype.UUID) (store.Profile, error)
	CreateOrder(ctx context.Context, p store.CreateOrderParams) (store.Order, error)
	CreateChapelDelivery(ctx context.Context, p store.CreateChapelDeliveryParams) (store.ChapelDelivery, error)
	ClearCart(ctx context.Context, userID pgtype.UUID) error
}

type txRunner func(ctx context.Context, fn func(q querier) error) error

// Input is the checkout request payload.
type Input struct {
	DeliveryType string `json:"deliveryType" validate:"required,oneof=normal chapel"`
}

// OrderItem is one line of the order snapshot persisted as JSON. Prices
// and weights are frozen at checkout time.
type OrderItem struct {
	SpiceID         string `json:"spiceId"`
	Name            string `json:"name"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int64  `json:"unitPriceCents"`
	UnitWeightGrams int32  `json:"unitWeightGrams"`
}

// ChapelBooking is the chapel section of the checkout response.
type ChapelBooking struct {
	ID           string `json:"id"`
	DeliveryDate string `json:"deliveryDate"`
	ChapelName   string `json:"chapelName"`
	ChapelCEP    string `json:"chapelCep"`
}

// Output is the checkout response payload.
type Output struct {
	OrderID          string         `json:"orderId"`
	Status           string         `json:"status"`
	DeliveryType     string         `json:"deliveryType"`
	TotalCents       int64          `json:"totalCents"`
	TotalWeightGrams int            `json:"totalWeightGrams"`
	Chapel           *ChapelBooking `json:"chapel,omitempty"`
}

// Window is the chapel preview shown on the checkout form before the order
// is placed.
type Window struct {
	DeliveryDate     string `json:"deliveryDate"`
	Eligible         bool   `json:"eligible"`
	TotalWeightGrams int    `json:"totalWeightGrams"`
	MaxWeightGrams   int    `json:"maxWeightGrams"`
	ChapelName       string `json:"chapelName"`
	ChapelCEP        string `json:"chapelCep"`
}

// Service places orders inside a single database transaction.
type Service struct {
	runTx  txRunner
	reader querier
	now    func() time.Time
}

// NewService wires the production transaction runner over pool and st.
func NewService(pool *pgxpool.Pool, st *store.Store) *Service {
	return &Service{
		reader: st,
		now:    time.Now,
		runTx: func(ctx context.Context, fn func(q querier) error) error {
			tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
			if err != nil {
				return err
			}
			defer func() {
				_ = tx.Rollback(ctx)
			}()
			if err := fn(st.WithTx(tx)); err != nil {
				return err
			}
			return tx.Commit(ctx)
		},
	}
}

// chapelWeightError builds the rejection returned when a chapel order
// exceeds the cap. Checkout never falls back to normal delivery on its
// own; the customer must change the selection.
func chapelWeightError(totalGrams int) *common.AppError {
	return &common.AppError{
		Code:       "CHAPEL_WEIGHT_EXCEEDED",
		Message:    "order is too heavy for chapel delivery",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"totalWeightGrams": totalGrams,
			"maxWeightGrams":   chapel.MaxWeightGrams,
		},
	}
}

// Create places an order for the identified user.
func (s *Service) Create(ctx context.Context, identity common.Identity, in Input) (Output, error) {
	if in.DeliveryType != store.DeliveryTypeNormal && in.DeliveryType != store.DeliveryTypeChapel {
		return Output{}, ErrBadType
	}
	uid, err := store.ToUUID(identity.UserID)
	if err != nil {
		return Output{}, fmt.Errorf("parse user id: %w", err)
	}

	var out Output
	err = s.runTx(ctx, func(q querier) error {
		lines, err := q.ListCartLines(ctx, uid)
		if err != nil {
			return fmt.Errorf("list cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		items := make([]OrderItem, 0, len(lines))
		chapelLines := make([]chapel.Line, 0, len(lines))
		var totalCents int64
		for _, l := range lines {
			items = append(items, OrderItem{
				SpiceID:         store.UUIDString(l.SpiceID),
				Name:            l.Name,
				Quantity:        l.Quantity,
				UnitPriceCents:  l.UnitPriceCents,
				UnitWeightGrams: l.UnitWeightGrams,
			})
			totalCents += l.UnitPriceCents * int64(l.Quantity)
			chapelLines = append(chapelLines, chapel.Line{
				Quantity:        int(l.Quantity),
				UnitWeightGrams: int(l.UnitWeightGrams),
			})
		}

		wantChapel := in.DeliveryType == store.DeliveryTypeChapel
		eligibility := chapel.Evaluate(chapelLines, wantChapel, s.now())
		if wantChapel && !eligibility.Eligible {
			countBooking("rejected_weight")
			return chapelWeightError(eligibility.TotalWeightGrams)
		}

		snapshot, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("marshal order items: %w", err)
		}

		order, err := q.CreateOrder(ctx, store.CreateOrderParams{
			UserID:           uid,
			Status:           store.OrderStatusPending,
			DeliveryType:     in.DeliveryType,
			TotalCents:       totalCents,
			TotalWeightGrams: int32(eligibility.TotalWeightGrams),
			Items:            snapshot,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		out = Output{
			OrderID:          store.UUIDString(order.ID),
			Status:           order.Status,
			DeliveryType:     order.DeliveryType,
			TotalCents:       order.TotalCents,
			TotalWeightGrams: eligibility.TotalWeightGrams,
		}

		if wantChapel {
			booking, err := s.bookChapel(ctx, q, uid, identity, order, eligibility, snapshot)
			if err != nil {
				return err
			}
			out.Chapel = booking
		}

		if err := q.ClearCart(ctx, uid); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		countOrder(in.DeliveryType, "error")
		return Output{}, err
	}

	countOrder(in.DeliveryType, "ok")
	if out.Chapel != nil {
		countBooking("ok")
	}
	return out, nil
}

func (s *Service) bookChapel(ctx context.Context, q querier, uid pgtype.UUID, identity common.Identity,
	order store.Order, eligibility chapel.Eligibility, snapshot []byte) (*ChapelBooking, error) {

	name, phone := identity.Name, identity.Phone
	if name == "" || phone == "" {
		// The token may omit profile fields; the saved profile fills them.
		if profile, err := q.GetProfile(ctx, uid); err == nil {
			if name == "" {
				name = store.TextString(profile.FullName)
			}
			if phone == "" {
				phone = store.TextString(profile.Phone)
			}
		}
	}

	delivery, err := q.CreateChapelDelivery(ctx, store.CreateChapelDeliveryParams{
		OrderID:          order.ID,
		UserID:           uid,
		UserName:         name,
		UserEmail:        identity.Email,
		UserPhone:        store.ToText(phone),
		DeliveryDate:     pgtype.Date{Time: *eligibility.DeliveryDate, Valid: true},
		ChapelName:       chapel.Name,
		ChapelCEP:        chapel.CEP,
		TotalWeightGrams: int32(eligibility.TotalWeightGrams),
		Items:            snapshot,
	})
	if err != nil {
		return nil, fmt.Errorf("create chapel delivery: %w", err)
	}
	return &ChapelBooking{
		ID:           store.UUIDString(delivery.ID),
		DeliveryDate: delivery.DeliveryDate.Time.Format("2006-01-02"),
		ChapelName:   delivery.ChapelName,
		ChapelCEP:    delivery.ChapelCEP,
	}, nil
}

// PreviewWindow computes the chapel option as the checkout form would show
// it for the current cart.
func (s *Service) PreviewWindow(ctx context.Context, userID string) (Window, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Window{}, fmt.Errorf("parse user id: %w", err)
	}

	lines, err := s.reader.ListCartLines(ctx, uid)
	if err != nil {
		return Window{}, fmt.Errorf("list cart: %w", err)
	}
	chapelLines := make([]chapel.Line, 0, len(lines))
	for _, l := range lines {
		chapelLines = append(chapelLines, chapel.Line{
			Quantity:        int(l.Quantity),
			UnitWeightGrams: int(l.UnitWeightGrams),
		})
	}
	eligibility := chapel.Evaluate(chapelLines, true, s.now())
	return Window{
		DeliveryDate:     chapel.NextDeliveryDate(s.now()).Format("2006-01-02"),
		Eligible:         eligibility.Eligible,
		TotalWeightGrams: eligibility.TotalWeightGrams,
		MaxWeightGrams:   chapel.MaxWeightGrams,
		ChapelName:       chapel.Name,
		ChapelCEP:        chapel.CEP,
	}, nil
}

func countOrder(deliveryType, result string) {
	if obs.OrdersPlacedTotal == nil {
		return
	}
	obs.OrdersPlacedTotal.WithLabelValues(deliveryType, result).Inc()
}

func countBooking(result string) {
	if obs.ChapelBookingsTotal == nil {
		return
	}
	obs.ChapelBookingsTotal.WithLabelValues(result).Inc()
}
