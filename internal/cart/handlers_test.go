package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/common"
)

func authedRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := common.WithIdentity(req.Context(), common.Identity{UserID: userID})
	return req.WithContext(ctx)
}

func TestHandlerAddAndGet(t *testing.T) {
	q := newFakeQueries()
	spiceID := q.addSpice(t, "Noz-moscada", 2190, 30, true)
	h := NewHandler(NewService(q))
	userID := uuid.NewString()

	rec := httptest.NewRecorder()
	h.Add(rec, authedRequest(http.MethodPost, "/api/v1/cart/items",
		`{"spiceId":"`+spiceID+`","quantity":2}`, userID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/api/v1/cart", "", userID))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	require.EqualValues(t, 4380, body.Data.TotalCents)
}

func TestHandlerRequiresIdentity(t *testing.T) {
	h := NewHandler(NewService(newFakeQueries()))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerUpdateQuantity(t *testing.T) {
	q := newFakeQueries()
	spiceID := q.addSpice(t, "Gengibre", 1290, 80, true)
	svc := NewService(q)
	h := NewHandler(svc)
	userID := uuid.NewString()

	summary, err := svc.Add(context.Background(), userID, spiceID, 1)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+itemID, `{"quantity":3}`, userID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("itemID", itemID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.UpdateQuantity(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 3, body.Data.Items[0].Quantity)
}

func TestHandlerAddBadBody(t *testing.T) {
	h := NewHandler(NewService(newFakeQueries()))
	rec := httptest.NewRecorder()
	h.Add(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", "{", uuid.NewString()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_BODY")
}
