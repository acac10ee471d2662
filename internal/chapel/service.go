package chapel

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
	ErrNotFound  = common.NewAppError("CHAPEL_DELIVERY_NOT_FOUND", "chapel delivery not found", http.StatusNotFound, nil)
	ErrBadStatus = common.NewAppError("INVALID_STATUS", "unknown chapel delivery status", http.StatusUnprocessableEntity, nil)
)

var validStatuses = map[string]bool{
	store.ChapelStatusPending:   true,
	store.ChapelStatusConfirmed: true,
	store.ChapelStatusDelivered: true,
	store.ChapelStatusCancelled: true,
}

type queryProvider interface {
	ListChapelDeliveries(ctx context.Context, limit, offset int32) ([]store.ChapelDelivery, error)
	CountChapelDeliveries(ctx context.Context) (int64, error)
	UpdateChapelDeliveryStatus(ctx context.Context, id pgtype.UUID, status string, notes pgtype.Text) (store.ChapelDelivery, error)
}

// DeliveryItem is one snapshot line inside a booking payload.
type DeliveryItem struct {
	SpiceID         string `json:"spiceId"`
	Name            string `json:"name"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int64  `json:"unitPriceCents"`
	UnitWeightGrams int32  `json:"unitWeightGrams"`
}

// Delivery is the admin payload for one Sunday hand-off booking.
type Delivery struct {
	ID               string         `json:"id"`
	OrderID          string         `json:"orderId"`
	UserName         string         `json:"userName"`
	UserEmail        string         `json:"userEmail"`
	UserPhone        string         `json:"userPhone,omitempty"`
	DeliveryDate     string         `json:"deliveryDate"`
	ChapelName       string         `json:"chapelName"`
	ChapelCEP        string         `json:"chapelCep"`
	TotalWeightGrams int32          `json:"totalWeightGrams"`
	Items            []DeliveryItem `json:"items"`
	Status           string         `json:"status"`
	AdminNotes       string         `json:"adminNotes,omitempty"`
}

// ListResult is one page of bookings.
type ListResult struct {
	Items []Delivery
	Total int64
	Page  int
	Limit int
}

// Service backs the admin panel the volunteers use to prepare each
// Sunday's hand-offs.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) *Service {
	return &Service{queries: queries}
}

// List returns bookings ordered by delivery date.
func (s *Service) List(ctx context.Context, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	rows, err := s.queries.ListChapelDeliveries(ctx, int32(limit), int32((page-1)*limit))
	if err != nil {
		return ListResult{}, fmt.Errorf("list chapel deliveries: %w", err)
	}
	total, err := s.queries.CountChapelDeliveries(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count chapel deliveries: %w", err)
	}
	result := ListResult{Items: make([]Delivery, 0, len(rows)), Total: total, Page: page, Limit: limit}
	for _, row := range rows {
		result.Items = append(result.Items, toDTO(row))
	}
	return result, nil
}

// UpdateStatus moves a booking to a new status, optionally replacing the
// admin notes.
func (s *Service) UpdateStatus(ctx context.Context, id, status, notes string) (Delivery, error) {
	if !validStatuses[status] {
		return Delivery{}, ErrBadStatus
	}
	uid, err := store.ToUUID(id)
	if err != nil {
		return Delivery{}, ErrNotFound
	}
	row, err := s.queries.UpdateChapelDeliveryStatus(ctx, uid, status, store.ToText(notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Delivery{}, ErrNotFound
		}
		return Delivery{}, fmt.Errorf("update chapel delivery status: %w", err)
	}
	return toDTO(row), nil
}

func toDTO(row store.ChapelDelivery) Delivery {
	out := Delivery{
		ID:               store.UUIDString(row.ID),
		OrderID:          store.UUIDString(row.OrderID),
		UserName:         row.UserName,
		UserEmail:        row.UserEmail,
		UserPhone:        store.TextString(row.UserPhone),
		ChapelName:       row.ChapelName,
		ChapelCEP:        row.ChapelCEP,
		TotalWeightGrams: row.TotalWeightGrams,
		Items:            []DeliveryItem{},
		Status:           row.Status,
		AdminNotes:       store.TextString(row.AdminNotes),
	}
	if row.DeliveryDate.Valid {
		out.DeliveryDate = row.DeliveryDate.Time.Format("2006-01-02")
	}
	if len(row.Items) > 0 {
		_ = json.Unmarshal(row.Items, &out.Items)
	}
	return out
}
