package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "playbook"

var (
	quotesCalculated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "quotes_calculated_total",
		Help:      "Quotes calculated, by tour type.",
	}, []string{"tour_type"})

	recommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "recommendations_total",
		Help:      "Recommendations served, by strategy.",
	}, []string{"strategy"})

	persistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "persistence_failures_total",
		Help:      "Non-fatal failures reading or writing agent lists.",
	}, []string{"list", "operation"})

	productsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "products_ingested_total",
		Help:      "Products written to the product store.",
	})

	catalogRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_refreshes_total",
		Help:      "Catalog snapshot rebuilds, by result.",
	}, []string{"result"})

	sourceLoadSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_source_load_seconds",
		Help:      "Time to load one catalog source during a refresh.",
		Buckets:   []float64{.005, .025, .1, .5, 1, 2.5, 5, 10},
	}, []string{"source"})
)
