package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the allocation engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runDuration     prometheus.Observer
	runsTotal       prometheus.Counter
	sessionsTotal   *prometheus.CounterVec
	optimizerFixes  prometheus.Counter
	floorExchanges  prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_run_duration_seconds",
		Help:    "Duration of allocation engine runs",
		Buckets: prometheus.DefBuckets,
	})

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_runs_total",
		Help: "Total allocation runs executed",
	})

	sessionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_sessions_total",
		Help: "Sessions processed per run, by outcome",
	}, []string{"outcome"})

	optimizerFixes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_optimizer_fixes_total",
		Help: "Groups repaired by the optimizer pass",
	})

	floorExchanges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_floor_exchanges_total",
		Help: "Room swaps performed by the floor-exchange pass",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runDuration, runsTotal, sessionsTotal, optimizerFixes, floorExchanges, dbQueryDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runDuration:     runDuration,
		runsTotal:       runsTotal,
		sessionsTotal:   sessionsTotal,
		optimizerFixes:  optimizerFixes,
		floorExchanges:  floorExchanges,
		dbQueryDuration: dbQueryDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveRun records the outcome counters of one allocation run.
func (m *MetricsService) ObserveRun(run *models.AllocationRun, duration time.Duration) {
	if m == nil || run == nil {
		return
	}
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
	m.sessionsTotal.WithLabelValues("assigned").Add(float64(run.Assigned))
	m.sessionsTotal.WithLabelValues("unresolved").Add(float64(run.UnresolvedCount))
	m.sessionsTotal.WithLabelValues("virtual").Add(float64(run.Virtual))
	m.sessionsTotal.WithLabelValues("lab").Add(float64(run.Lab))
	m.optimizerFixes.Add(float64(run.OptimizerFixes))
	m.floorExchanges.Add(float64(run.FloorExchanges))
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}
