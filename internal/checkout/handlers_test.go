package checkout

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/store"
)

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	identity := common.Identity{UserID: uuid.NewString(), Email: "maria@example.com", Name: "Maria Silva"}
	return req.WithContext(common.WithIdentity(req.Context(), identity))
}

func TestCreateHandler(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Páprica", 1, 1590, 80)}}
	h := NewHandler(newTestService(q, monday))

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", `{"deliveryType":"normal"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestCreateHandlerRejectsOverweightChapel(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Sal Grosso", 6, 790, 1000)}}
	h := NewHandler(newTestService(q, monday))

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", `{"deliveryType":"chapel"}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "CHAPEL_WEIGHT_EXCEEDED")
	require.Contains(t, rec.Body.String(), "maxWeightGrams")
}

func TestCreateHandlerValidation(t *testing.T) {
	h := NewHandler(newTestService(&fakeQueries{}, monday))

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", `{}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_FAILED")

	rec = httptest.NewRecorder()
	h.Create(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", "{"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHandlerUnauthenticated(t *testing.T) {
	h := NewHandler(newTestService(&fakeQueries{}, monday))

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"deliveryType":"normal"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChapelWindowHandler(t *testing.T) {
	q := &fakeQueries{lines: []store.CartLine{cartLine(t, "Cominho", 2, 990, 50)}}
	h := NewHandler(newTestService(q, monday))

	rec := httptest.NewRecorder()
	h.ChapelWindow(rec, authedRequest(t, http.MethodGet, "/api/v1/checkout/chapel-window", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"deliveryDate":"2026-09-06"`)
	require.Contains(t, rec.Body.String(), `"eligible":true`)
}
