package api

import (
    "net/http"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "monsoonplan/internal/metrics"
)

// Routes returns the full handler tree with middleware applied.
func (s *Server) Routes() http.Handler {
    mux := http.NewServeMux()

    // Weather planning
    mux.HandleFunc("/weather/monsoon-risk", s.MonsoonRiskHandler)
    mux.HandleFunc("/weather/schedule-optimization", s.ScheduleOptimizationHandler)
    mux.HandleFunc("/weather/current", s.CurrentHandler)
    mux.HandleFunc("/weather/forecast", s.ForecastHandler)
    mux.HandleFunc("/weather/regions", s.RegionsHandler)

    // Alerts
    mux.HandleFunc("/weather/alerts/stream", s.AlertStreamHandler)
    mux.HandleFunc("/weather/alerts/ws", s.AlertWSHandler)

    // Health and ops
    mux.HandleFunc("/healthz", s.HealthHandler)
    mux.HandleFunc("/readyz", s.ReadyHandler)
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
    mux.HandleFunc("/debug/info", s.DebugInfoHandler)
    mux.HandleFunc("/openapi.yaml", s.OpenAPIHandler)
    mux.HandleFunc("/docs", s.DocsHandler)

    // Same tree under /api
    mux.Handle("/api/", http.StripPrefix("/api", mux))
    mux.HandleFunc("/", s.NotFoundHandler)

    return withRequestID(s.withObservability(s.withCORS(s.withRateLimit(mux))))
}
