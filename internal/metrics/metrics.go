// Package metrics bundles the Prometheus collectors for the storefront.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors on a dedicated registry.
type Metrics struct {
	Registry          *prometheus.Registry
	PageRenders       *prometheus.CounterVec
	CompareToggles    prometheus.Counter
	CompareRejections prometheus.Counter
	CartMutations     prometheus.Counter
	UnparsablePrices  prometheus.Counter
}

// New constructs and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pageRenders := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_page_renders_total",
			Help: "Full page and fragment renders by view.",
		},
		[]string{"view"},
	)
	compareToggles := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_compare_toggles_total",
			Help: "Compare-set toggle operations applied.",
		},
	)
	compareRejections := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_compare_rejections_total",
			Help: "Compare-set inserts rejected at capacity.",
		},
	)
	cartMutations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_cart_mutations_total",
			Help: "Cart toggle and clear operations applied.",
		},
	)
	unparsablePrices := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_unparsable_prices_total",
			Help: "Cart total computations that skipped an unparsable price.",
		},
	)

	registry.MustRegister(pageRenders, compareToggles, compareRejections, cartMutations, unparsablePrices)

	return &Metrics{
		Registry:          registry,
		PageRenders:       pageRenders,
		CompareToggles:    compareToggles,
		CompareRejections: compareRejections,
		CartMutations:     cartMutations,
		UnparsablePrices:  unparsablePrices,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
