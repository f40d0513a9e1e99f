// Package metrics holds the Prometheus collectors shared by the bot runtime and
// the small HTTP listener that exposes them.
package metrics

import (
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	once sync.Once

	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mastersbot_updates_total",
			Help: "Telegram updates received, by kind (message, callback, command, photo, document).",
		},
		[]string{"kind"},
	)

	handlerOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mastersbot_handler_outcomes_total",
			Help: "Routed updates by handler and outcome (handled, ignored, rejected, fail).",
		},
		[]string{"handler", "outcome"},
	)

	handlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mastersbot_handler_duration_seconds",
			Help:    "Time spent handling one update.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"handler"},
	)

	broadcastDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mastersbot_broadcast_deliveries_total",
			Help: "Broadcast deliveries by result (ok, fail).",
		},
		[]string{"result"},
	)

	importRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mastersbot_import_rows_total",
			Help: "Spreadsheet rows processed by result (inserted, error).",
		},
		[]string{"result"},
	)

	providersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mastersbot_providers_created_total",
			Help: "Providers stored, by source (dialogue, import).",
		},
		[]string{"source"},
	)
)

// MustRegister registers all collectors with the default registry. Safe to call repeatedly.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			updatesTotal, handlerOutcomes, handlerDuration,
			broadcastDeliveries, importRows, providersCreated,
		)
	})
}

func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}

func IncUpdate(kind string) {
	updatesTotal.WithLabelValues(norm(kind)).Inc()
}

// ObserveHandler records one routed update.
func ObserveHandler(handler, outcome string, took time.Duration) {
	h := norm(handler)
	handlerOutcomes.WithLabelValues(h, norm(outcome)).Inc()
	handlerDuration.WithLabelValues(h).Observe(took.Seconds())
}

func ObserveBroadcast(delivered, failed int) {
	broadcastDeliveries.WithLabelValues("ok").Add(float64(delivered))
	broadcastDeliveries.WithLabelValues("fail").Add(float64(failed))
}

func ObserveImport(inserted, rowErrors int) {
	importRows.WithLabelValues("inserted").Add(float64(inserted))
	importRows.WithLabelValues("error").Add(float64(rowErrors))
}

func AddProvidersCreated(source string, n int) {
	if n <= 0 {
		return
	}
	providersCreated.WithLabelValues(norm(source)).Add(float64(n))
}

// RegisterDBStats exposes the connection pool statistics of db under the
// given database name. Registering the same name twice is not an error.
func RegisterDBStats(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		return nil
	}
	return err
}
