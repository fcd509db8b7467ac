package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
)

var (
	// Syncs counts product list refreshes by result.
	Syncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_syncs_total",
		Help: "The total number of product list refreshes",
	}, []string{"result"})

	// Writes counts create, update and delete attempts by operation and result.
	Writes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_writes_total",
		Help: "The total number of product writes sent to the catalog API",
	}, []string{"operation", "result"})

	// ValidationFailures counts drafts rejected before any request was sent.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_draft_validation_failures_total",
		Help: "The total number of drafts rejected by client-side validation",
	})

	// CatalogRequestDuration observes latency of calls to the catalog API.
	CatalogRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_catalog_request_duration_seconds",
		Help:    "Latency of requests to the catalog API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	// SessionsActive is the number of console sessions held in memory.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_console_sessions_active",
		Help: "The number of console sessions held in memory",
	})

	// SessionsEvicted counts sessions dropped after being idle too long.
	SessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_console_sessions_evicted_total",
		Help: "The total number of idle console sessions evicted",
	})
)
