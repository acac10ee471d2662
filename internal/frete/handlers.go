package frete

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sabordafe/backend-loja/internal/cep"
	"github.com/sabordafe/backend-loja/internal/common"
	"github.com/sabordafe/backend-loja/internal/obs"
)

// Handler serves the public shipping estimate endpoint.
type Handler struct {
	resolver cep.Resolver
	log      zerolog.Logger
}

func NewHandler(resolver cep.Resolver, log zerolog.Logger) *Handler {
	return &Handler{resolver: resolver, log: log}
}

// Mount registers the estimate route on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/frete", h.Estimate)
}

type estimateResponse struct {
	Served             bool    `json:"served"`
	DistanceKm         float64 `json:"distanceKm,omitempty"`
	EstimatedTime      string  `json:"estimatedTime,omitempty"`
	Neighborhood       string  `json:"neighborhood,omitempty"`
	City               string  `json:"city,omitempty"`
	State              string  `json:"state,omitempty"`
	OriginNeighborhood string  `json:"originNeighborhood,omitempty"`
	OriginCEP          string  `json:"originCep,omitempty"`
	Message            string  `json:"message,omitempty"`
}

// Estimate handles GET /frete?cep=. Invalid input and unknown codes are
// client errors; an address outside São Paulo is a successful response
// with served=false.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	code, err := cep.Normalize(r.URL.Query().Get("cep"))
	if err != nil {
		countEstimate("invalid_cep")
		common.JSONError(w, http.StatusBadRequest, "INVALID_CEP", "Por favor, digite um CEP válido com 8 dígitos.", nil)
		return
	}

	addr, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		countEstimate("lookup_failed")
		h.log.Error().Err(err).Str("cep", code).Msg("cep lookup failed")
		common.JSONError(w, http.StatusBadGateway, "LOOKUP_FAILED", "Erro ao calcular o frete. Tente novamente.", nil)
		return
	}
	if !addr.Found {
		countEstimate("not_found")
		common.JSONError(w, http.StatusNotFound, "CEP_NOT_FOUND", "CEP não encontrado. Verifique se está correto.", nil)
		return
	}

	res := Quote(addr)
	if !res.Served {
		countEstimate("out_of_area")
		common.JSON(w, http.StatusOK, map[string]any{"data": estimateResponse{
			Served:  false,
			City:    res.City,
			State:   res.State,
			Message: "Área não atendida. No momento entregamos apenas na cidade de São Paulo - SP.",
		}})
		return
	}

	countEstimate("ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": estimateResponse{
		Served:             true,
		DistanceKm:         res.Estimate.DistanceKm,
		EstimatedTime:      res.Estimate.EstimatedTime,
		Neighborhood:       res.Estimate.Neighborhood,
		City:               res.Estimate.City,
		State:              res.Estimate.State,
		OriginNeighborhood: OriginNeighborhood,
		OriginCEP:          OriginCEP,
	}})
}

func countEstimate(outcome string) {
	if obs.FreteEstimatesTotal == nil {
		return
	}
	obs.FreteEstimatesTotal.WithLabelValues(outcome).Inc()
}
