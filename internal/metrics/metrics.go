package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsearch_fetches_total",
			Help: "Total number of page fetches executed",
		},
		[]string{"host", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gsearch_fetch_duration_seconds",
			Help:    "Duration of page fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)

	FetchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsearch_fetch_bytes_total",
			Help: "Total bytes downloaded across all fetches",
		},
		[]string{"host"},
	)

	SearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gsearch_searches_total",
			Help: "Total number of search calls issued",
		},
	)

	ResultsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsearch_results_dropped_total",
			Help: "Candidates dropped before emission",
		},
		[]string{"reason"}, // "missing_fields" or "fetch_failed"
	)

	BlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsearch_blocked_total",
			Help: "Fetches that hit a search engine interstitial",
		},
		[]string{"source"},
	)
)

// RecordFetch updates the fetch metrics for one completed request.
// An errored fetch (no HTTP response) records status "error".
func RecordFetch(host string, statusCode int, d time.Duration, bytes int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}

	FetchesTotal.WithLabelValues(host, status).Inc()
	FetchDuration.WithLabelValues(host).Observe(d.Seconds())
	FetchBytesTotal.WithLabelValues(host).Add(float64(bytes))
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
