// Package frete estimates delivery distance and travel time inside the city
// of São Paulo, starting from the shop's base in Campo Grande.
package frete

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sabordafe/backend-loja/internal/cep"
)

// Delivery origin and service area.
const (
	OriginCEP          = "04678-000"
	OriginNeighborhood = "Campo Grande"
	ServicedCity       = "São Paulo"
	ServicedState      = "SP"
)

const (
	// averageSpeedKmh reflects typical São Paulo traffic.
	averageSpeedKmh   = 20.0
	defaultDistanceKm = 20.0
)

// Estimate is a successful in-area shipping quote.
type Estimate struct {
	DistanceKm    float64
	EstimatedTime string
	Neighborhood  string
	City          string
	State         string
}

// Result distinguishes an address we deliver to from one we do not; an
// out-of-area address is a normal outcome, not an error.
type Result struct {
	Served   bool
	City     string
	State    string
	Estimate Estimate
}

// Quote computes a shipping estimate for a resolved address. The caller
// must only pass addresses with Found set; unfound codes have no city to
// check against.
func Quote(addr cep.Address) Result {
	if addr.City != ServicedCity || addr.State != ServicedState {
		return Result{Served: false, City: addr.City, State: addr.State}
	}

	distance := distanceKm(addr.Neighborhood, addr.CEP)
	hours := distance / averageSpeedKmh

	neighborhood := addr.Neighborhood
	if neighborhood == "" {
		neighborhood = "Centro"
	}

	return Result{
		Served: true,
		City:   addr.City,
		State:  addr.State,
		Estimate: Estimate{
			DistanceKm:    math.Round(distance*10) / 10,
			EstimatedTime: FormatTravelTime(hours),
			Neighborhood:  neighborhood,
			City:          addr.City,
			State:         addr.State,
		},
	}
}

// distanceKm prefers the per-neighborhood table and falls back to a region
// estimate from the first three digits of the code.
func distanceKm(neighborhood, code string) float64 {
	if neighborhood != "" {
		if km, ok := neighborhoodKm[neighborhood]; ok {
			return km
		}
	}
	if len(code) < 3 {
		return defaultDistanceKm
	}
	prefix, err := strconv.Atoi(code[:3])
	if err != nil {
		return defaultDistanceKm
	}
	for _, b := range prefixBands {
		if prefix >= b.lo && prefix <= b.hi {
			return b.km
		}
	}
	return defaultDistanceKm
}

// FormatTravelTime renders a duration in hours as a human label in
// Portuguese: "45 minutos", "1 hora", "2 horas", "1h 30min".
func FormatTravelTime(hours float64) string {
	if hours < 1 {
		return fmt.Sprintf("%d minutos", int(math.Round(hours*60)))
	}
	h := int(math.Floor(hours))
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 0 {
		suffix := "hora"
		if h > 1 {
			suffix = "horas"
		}
		return fmt.Sprintf("%d %s", h, suffix)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}
