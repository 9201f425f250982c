package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the spreadsheet pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	rowsParsed      prometheus.Counter
	rowsSkipped     *prometheus.CounterVec
	updatesApplied  prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	rowsParsed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rota_rows_parsed_total",
		Help: "Total spreadsheet rows successfully parsed into entries",
	})

	rowsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rota_rows_skipped_total",
		Help: "Total spreadsheet rows skipped during reconciliation",
	}, []string{"reason"})

	updatesApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rota_availability_updates_total",
		Help: "Total availability updates applied to workers",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, rowsParsed, rowsSkipped, updatesApplied, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		rowsParsed:      rowsParsed,
		rowsSkipped:     rowsSkipped,
		updatesApplied:  updatesApplied,
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

// ObserveRowsParsed counts rows the extractor turned into entries.
func (m *MetricsService) ObserveRowsParsed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsParsed.Add(float64(n))
}

// ObserveRowSkipped counts a skipped row with its reason.
func (m *MetricsService) ObserveRowSkipped(reason string) {
	if m == nil {
		return
	}
	m.rowsSkipped.WithLabelValues(reason).Inc()
}

// ObserveUpdatesApplied counts applied availability updates.
func (m *MetricsService) ObserveUpdatesApplied(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.updatesApplied.Add(float64(n))
}
