// Package order serves order history and the admin status workflow.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

// Service errors rendered by the handler layer.
var (
	ErrNotFound  = common.NewAppError("ORDER_NOT_FOUND", "order not found", http.StatusNotFound, nil)
	ErrBadStatus = common.NewAppError("INVALID_STATUS", "unknown order status", http.StatusUnprocessableEntity, nil)
)

var validStatuses = map[string]bool{
	store.OrderStatusPending:   true,
	store.OrderStatusConfirmed: true,
	store.OrderStatusPreparing: true,
	store.OrderStatusShipped:   true,
	store.OrderStatusDelivered: true,
	store.OrderStatusCancelled: true,
}

type queryProvider interface {
	ListOrdersForUser(ctx context.Context, userID pgtype.UUID, limit, offset int32) ([]store.Order, error)
	CountOrdersForUser(ctx context.Context, userID pgtype.UUID) (int64, error)
	GetOrderForUser(ctx context.Context, id, userID pgtype.UUID) (store.Order, error)
	UpdateOrderStatus(ctx context.Context, id pgtype.UUID, status string) (store.Order, error)
}

// Item is one snapshot line inside an order payload.
type Item struct {
	SpiceID         string `json:"spiceId"`
	Name            string `json:"name"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int64  `json:"unitPriceCents"`
	UnitWeightGrams int32  `json:"unitWeightGrams"`
}

// Order is the API payload for a placed order.
type Order struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DeliveryType     string `json:"deliveryType"`
	TotalCents       int64  `json:"totalCents"`
	TotalWeightGrams int32  `json:"totalWeightGrams"`
	Items            []Item `json:"items"`
	CreatedAt        string `json:"createdAt"`
}

// ListResult is one page of orders.
type ListResult struct {
	Items []Order
	Total int64
	Page  int
	Limit int
}

// Service reads orders scoped to their owner; status changes come from the
// admin surface only.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) *Service {
	return &Service{queries: queries}
}

// List returns the user's orders, newest first.
func (s *Service) List(ctx context.Context, userID string, page, limit int) (ListResult, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return ListResult{}, fmt.Errorf("parse user id: %w", err)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	rows, err := s.queries.ListOrdersForUser(ctx, uid, int32(limit), int32((page-1)*limit))
	if err != nil {
		return ListResult{}, fmt.Errorf("list orders: %w", err)
	}
	total, err := s.queries.CountOrdersForUser(ctx, uid)
	if err != nil {
		return ListResult{}, fmt.Errorf("count orders: %w", err)
	}
	result := ListResult{Items: make([]Order, 0, len(rows)), Total: total, Page: page, Limit: limit}
	for _, row := range rows {
		result.Items = append(result.Items, toDTO(row))
	}
	return result, nil
}

// Get fetches one of the user's orders.
func (s *Service) Get(ctx context.Context, userID, orderID string) (Order, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Order{}, fmt.Errorf("parse user id: %w", err)
	}
	oid, err := store.ToUUID(orderID)
	if err != nil {
		return Order{}, ErrNotFound
	}
	row, err := s.queries.GetOrderForUser(ctx, oid, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return toDTO(row), nil
}

// UpdateStatus moves an order to a new status. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (Order, error) {
	if !validStatuses[status] {
		return Order{}, ErrBadStatus
	}
	oid, err := store.ToUUID(orderID)
	if err != nil {
		return Order{}, ErrNotFound
	}
	row, err := s.queries.UpdateOrderStatus(ctx, oid, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	return toDTO(row), nil
}

func toDTO(row store.Order) Order {
	out := Order{
		ID:               store.UUIDString(row.ID),
		Status:           row.Status,
		DeliveryType:     row.DeliveryType,
		TotalCents:       row.TotalCents,
		TotalWeightGrams: row.TotalWeightGrams,
		Items:            []Item{},
	}
	if row.CreatedAt.Valid {
		out.CreatedAt = row.CreatedAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if len(row.Items) > 0 {
		// Snapshot rows were written by checkout; a decode failure means a
		// corrupted row, not a client error.
		_ = json.Unmarshal(row.Items, &out.Items)
	}
	return out
}
