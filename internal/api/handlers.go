package api

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "monsoonplan/internal/metrics"
    "monsoonplan/internal/model"
    "monsoonplan/internal/store"
    "monsoonplan/internal/weather"
)

const defaultForecastDays = 7

// MonsoonRiskHandler handles POST /weather/monsoon-risk
func (s *Server) MonsoonRiskHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodPost) { return }
    var req model.RiskAssessmentRequest
    if !decodeJSON(w, r, &req) { return }
    if err := validateRiskRequest(&req); err != nil {
        writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
        return
    }
    a, err := s.Weather.AssessMonsoonRisk(r.Context(), req)
    if err != nil {
        s.storeError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, a)

    if a.RiskLevel == model.RiskHigh {
        s.publish(a.State, AlertRiskHigh, map[string]any{
            "state":              a.State,
            "project_type":       a.ProjectType,
            "overall_risk_score": a.OverallRiskScore,
            "avoid_work_days":    a.AvoidWorkDays,
        })
    }
}

// ScheduleOptimizationHandler handles POST /weather/schedule-optimization
func (s *Server) ScheduleOptimizationHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodPost) { return }
    var req model.ScheduleRequest
    if !decodeJSON(w, r, &req) { return }
    if err := validateScheduleRequest(&req); err != nil {
        writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
        return
    }
    resp, err := s.Weather.OptimizeSchedule(r.Context(), req)
    if err != nil {
        s.storeError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, resp)

    var failed []string
    for _, res := range resp.OptimizedSchedule {
        if !res.Scheduled() { failed = append(failed, res.TaskName) }
    }
    if len(failed) > 0 {
        s.publish(resp.State, AlertUnschedulable, map[string]any{"state": resp.State, "tasks": failed})
    }
}

// CurrentHandler handles GET /weather/current?state=
func (s *Server) CurrentHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodGet) { return }
    state := stateParam(r)
    cur, err := s.Weather.Current(r.Context(), state)
    if err != nil {
        s.storeError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{
        "state":        state,
        "current":      cur,
        "last_updated": time.Now().UTC().Format(time.RFC3339),
    })
}

// ForecastHandler handles GET /weather/forecast?state=&days=
func (s *Server) ForecastHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodGet) { return }
    state := stateParam(r)
    days := defaultForecastDays
    if v := r.URL.Query().Get("days"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 0 {
            writeError(w, http.StatusBadRequest, "Invalid request", "days must be a non-negative integer")
            return
        }
        days = n
    }
    forecast, err := s.Weather.Forecast(r.Context(), state, days)
    if err != nil {
        s.storeError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{
        "state":        state,
        "forecast":     forecast,
        "generated_at": time.Now().UTC().Format(time.RFC3339),
    })
}

// RegionsHandler handles GET /weather/regions
func (s *Server) RegionsHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodGet) { return }
    regions, err := s.Weather.Regions(r.Context())
    if err != nil {
        s.storeError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"regions": regions})
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    // Check Postgres/Redis connectivity when the store supports it
    type pinger interface{ Ping(ctx context.Context) error }
    if p, ok := s.Store.(pinger); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
        defer cancel()
        if err := p.Ping(ctx); err != nil {
            writeError(w, http.StatusServiceUnavailable, "Not ready", err.Error())
            return
        }
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
    writeError(w, http.StatusNotFound, "Not found", "")
}

func stateParam(r *http.Request) string {
    if v := r.URL.Query().Get("state"); v != "" {
        return v
    }
    return weather.DefaultRegion
}

// storeError maps a forecast lookup failure onto a response.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
    if errors.Is(err, store.ErrNotFound) {
        writeError(w, http.StatusNotFound, "State not found", "")
        return
    }
    s.Log.Error("forecast lookup failed",
        zap.String("path", r.URL.Path),
        zap.String("request_id", requestIDFrom(r.Context())),
        zap.Error(err))
    writeError(w, http.StatusInternalServerError, "Forecast unavailable", "")
}

// publish hands an alert to the broker. It never fails the request.
func (s *Server) publish(region, typ string, data map[string]any) {
    if !s.Cfg.Alerts.Enabled || s.Broker == nil { return }
    s.Broker.Publish(region, AlertEvent{ID: uuid.NewString(), Type: typ, At: time.Now().UTC(), Data: data})
    metrics.AlertsPublished.WithLabelValues(typ).Inc()
    if s.Pub != nil {
        if err := s.Pub.Emit(context.Background(), region, typ, data); err != nil {
            s.Log.Warn("enqueue alert webhook", zap.String("type", typ), zap.Error(err))
        }
    }
}
