package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sabordafe/backend-loja/internal/common"
)

// AdminHandler exposes the spice CRUD used by shop administrators.
type AdminHandler struct {
	service  *Service
	validate *validator.Validate
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service, validate: validator.New()}
}

// Mount registers the admin catalog routes on r.
func (h *AdminHandler) Mount(r chi.Router) {
	r.Post("/spices", h.Create)
	r.Put("/spices/{id}", h.Update)
	r.Delete("/spices/{id}", h.Delete)
}

func (h *AdminHandler) decodeForm(w http.ResponseWriter, r *http.Request) (SpiceForm, bool) {
	var form SpiceForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return SpiceForm{}, false
	}
	if err := h.validate.Struct(form); err != nil {
		details := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "spice payload failed validation", details)
		return SpiceForm{}, false
	}
	return form, true
}

// Create handles POST /api/v1/admin/spices.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	spice, err := h.service.Create(r.Context(), form)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": spice})
}

// Update handles PUT /api/v1/admin/spices/{id}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	spice, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": spice})
}

// Delete handles DELETE /api/v1/admin/spices/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"deleted": true}})
}
