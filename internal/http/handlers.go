package http

import (
	"fmt"
	"net/http"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# TYPE tracker_http_requests_total counter\n")
	fmt.Fprintf(w, "tracker_http_requests_total %d\n", s.metrics.requestsTotal.Load())
	fmt.Fprintf(w, "# TYPE tracker_http_errors_total counter\n")
	fmt.Fprintf(w, "tracker_http_errors_total %d\n", s.metrics.errorsTotal.Load())
	fmt.Fprintf(w, "# TYPE tracker_http_rate_limited_total counter\n")
	fmt.Fprintf(w, "tracker_http_rate_limited_total %d\n", s.metrics.rateLimited.Load())
	fmt.Fprintf(w, "# TYPE tracker_stats_cache_hits_total counter\n")
	fmt.Fprintf(w, "tracker_stats_cache_hits_total %d\n", s.metrics.statsCacheHits.Load())
	fmt.Fprintf(w, "# TYPE tracker_stats_cache_misses_total counter\n")
	fmt.Fprintf(w, "tracker_stats_cache_misses_total %d\n", s.metrics.statsCacheMiss.Load())
}
