package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts orders placed by delivery type and outcome.
	OrdersPlacedTotal *prometheus.CounterVec
	// ChapelBookingsTotal counts chapel delivery bookings by outcome.
	ChapelBookingsTotal *prometheus.CounterVec
	// FreteEstimatesTotal counts shipping estimate requests by outcome.
	FreteEstimatesTotal *prometheus.CounterVec
	// CEPLookupLatency records postal code lookup latency in milliseconds.
	CEPLookupLatency *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of order placement outcomes by delivery type.",
		}, []string{"delivery_type", "result"})
		ChapelBookingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chapel_bookings_total",
			Help:      "Count of chapel delivery booking outcomes.",
		}, []string{"result"})
		FreteEstimatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frete_estimates_total",
			Help:      "Count of shipping estimate requests by outcome.",
		}, []string{"outcome"})
		CEPLookupLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cep_lookup_duration_ms",
			Help:      "Latency for postal code lookups in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"source"})

		mustRegisterCollector(reg, OrdersPlacedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersPlacedTotal = v
			}
		})
		mustRegisterCollector(reg, ChapelBookingsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ChapelBookingsTotal = v
			}
		})
		mustRegisterCollector(reg, FreteEstimatesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				FreteEstimatesTotal = v
			}
		})
		mustRegisterCollector(reg, CEPLookupLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				CEPLookupLatency = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
