package api

import (
    "net/http"
    "time"

    "monsoonplan/internal/buildinfo"
)

// DebugInfoHandler handles GET /debug/info. Secrets are reported only as presence flags.
func (s *Server) DebugInfoHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodGet) { return }
    cfg := s.Cfg
    writeJSON(w, http.StatusOK, map[string]any{
        "build": buildinfo.Info(),
        "time":  time.Now().UTC().Format(time.RFC3339),
        "config": map[string]any{
            "port":           cfg.Server.Port,
            "allow_origins":  cfg.Server.AllowOrigins,
            "rate_rps":       cfg.Limits.RPS,
            "rate_burst":     cfg.Limits.Burst,
            "cache_ttl":      cfg.Redis.CacheTTL.String(),
            "alerts_enabled": cfg.Alerts.Enabled,
            "log_level":      cfg.Log.Level,
            "has_database":   cfg.DB.URL != "",
            "has_redis":      cfg.Redis.URL != "",
            "has_webhook":    cfg.Alerts.WebhookURL != "",
        },
    })
}
