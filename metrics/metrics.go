package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsCreatedTotal counts persisted reports by issue type.
	ReportsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "reports_created_total",
		Help:      "Total number of reports persisted, labeled by issue type.",
	}, []string{"issue_type"})

	// ClassificationTotal counts classifier calls by outcome.
	// Outcomes: ok, fallback (call failed), unconfigured (no endpoint).
	ClassificationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "classification_total",
		Help:      "Total number of classification attempts, labeled by outcome.",
	}, []string{"outcome"})

	// ClassificationDurationSeconds is the wall time of the classifier call.
	ClassificationDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "classification_duration_seconds",
		Help:      "Time spent waiting for the external classifier.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// StatusUpdatesTotal counts admin status mutations by new status.
	StatusUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "admin",
		Name:      "status_updates_total",
		Help:      "Total number of report status updates, labeled by new status.",
	}, []string{"status"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsCreatedTotal,
			ClassificationTotal,
			ClassificationDurationSeconds,
			StatusUpdatesTotal,
		)
	})
}
