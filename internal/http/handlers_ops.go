package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"tracker/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the stores and reports each check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	pingers := map[string]store.Pinger{}
	if p, ok := s.txs.(store.Pinger); ok {
		pingers["transactions"] = p
	}
	for name, p := range s.checks {
		pingers[name] = p
	}
	names := make([]string, 0, len(pingers))
	for name := range pingers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := pingers[name].Ping(ctx); err != nil {
			checks[name] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	stats := s.summaries.Stats()
	checks["cache"] = map[string]any{
		"summary_entries": stats.Size,
		"status":          "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.GetMetrics().ClientCount,
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	cacheStats := s.summaries.Stats()

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	metric("http_request_duration_avg_ms", "gauge", "Average response time in milliseconds", traceMetrics.AverageResponseTime.Milliseconds())
	metric("transactions_created_total", "counter", "Transactions created through this server", s.created.Load())
	metric("transactions_deleted_total", "counter", "Transactions removed through this server", s.deleted.Load())
	metric("summary_cache_hits_total", "counter", "Summary cache hits", cacheStats.Hits)
	metric("summary_cache_misses_total", "counter", "Summary cache misses", cacheStats.Misses)
	metric("summary_cache_entries", "gauge", "Current summary cache entries", cacheStats.Size)
	metric("rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Clients tracked by the rate limiter", rateLimitMetrics.ClientCount)
	metric("uptime_seconds", "gauge", "Seconds since the server started", int64(time.Since(s.started).Seconds()))
}
