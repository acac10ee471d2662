package chapel

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sabordafe/backend-loja/internal/common"
)

// AdminHandler exposes the chapel delivery panel for administrators.
type AdminHandler struct {
	service *Service
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Mount registers the admin chapel routes on r.
func (h *AdminHandler) Mount(r chi.Router) {
	r.Get("/chapel-deliveries", h.List)
	r.Patch("/chapel-deliveries/{deliveryID}/status", h.UpdateStatus)
}

// List handles GET /api/v1/admin/chapel-deliveries.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: int(result.Total)},
	})
}

type statusRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

// UpdateStatus handles PUT /api/v1/admin/chapel-deliveries/{deliveryID}/status.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	delivery, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "deliveryID"), req.Status, req.AdminNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": delivery})
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
