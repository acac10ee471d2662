package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sabordafe/backend-loja/internal/common"
)

// AdminHandler exposes the order status workflow for administrators.
type AdminHandler struct {
	service *Service
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Mount registers the admin order routes on r.
func (h *AdminHandler) Mount(r chi.Router) {
	r.Patch("/orders/{orderID}/status", h.UpdateStatus)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/v1/admin/orders/{orderID}/status.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": order})
}
