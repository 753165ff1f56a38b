package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/platform/logger"
)

// Manager holds the service's custom Prometheus metrics.
type Manager struct {
	Registry *prometheus.Registry

	CampgroundsCreatedTotal prometheus.Counter
	CampgroundsUpdatedTotal prometheus.Counter
	CampgroundsDeletedTotal prometheus.Counter
	ReviewsCreatedTotal     prometheus.Counter
	ReviewsDeletedTotal     prometheus.Counter

	// AssetDeleteFailuresTotal counts object-storage deletions that the
	// best-effort cascade could not complete.
	AssetDeleteFailuresTotal prometheus.Counter

	OperationErrorsTotal *prometheus.CounterVec
	OperationLatency     *prometheus.HistogramVec
}

// NewManager initializes and registers the custom metrics on a dedicated
// registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	m := &Manager{
		Registry: registry,
		CampgroundsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "campgrounds_created_total",
			Help:      "Total number of campgrounds created.",
		}),
		CampgroundsUpdatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "campgrounds_updated_total",
			Help:      "Total number of campgrounds updated.",
		}),
		CampgroundsDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "campgrounds_deleted_total",
			Help:      "Total number of campgrounds deleted.",
		}),
		ReviewsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created.",
		}),
		ReviewsDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "reviews_deleted_total",
			Help:      "Total number of reviews deleted.",
		}),
		AssetDeleteFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "asset_delete_failures_total",
			Help:      "Total number of object-storage deletions that failed and await reconciliation.",
		}),
		OperationErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "operation_errors_total",
			Help:      "Total number of failed operations by name and error kind.",
		}, []string{"operation", "error_kind"}),
		OperationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "operation_latency_seconds",
			Help:      "Latency of core operations by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(
		m.CampgroundsCreatedTotal,
		m.CampgroundsUpdatedTotal,
		m.CampgroundsDeletedTotal,
		m.ReviewsCreatedTotal,
		m.ReviewsDeletedTotal,
		m.AssetDeleteFailuresTotal,
		m.OperationErrorsTotal,
		m.OperationLatency,
	)
	return m
}

// ObserveSince records the latency of an operation started at the given time.
func (m *Manager) ObserveSince(operation string, start time.Time) {
	m.OperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// StartMetricsServer serves the registry on /metrics. It blocks until the
// server stops.
func StartMetricsServer(port string, log *logger.Logger, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("Prometheus metrics server listening", zap.String("port", port))
	return srv.ListenAndServe()
}
