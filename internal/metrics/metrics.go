package metrics

import (
    "sync"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the API
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )

    // RiskAssessments counts monsoon risk assessments by state and resulting level
    RiskAssessments = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "risk_assessments_total", Help: "Monsoon risk assessments by state and risk level."},
        []string{"state", "level"},
    )
    // ScheduleTasks counts scheduled vs unschedulable tasks
    ScheduleTasks = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "schedule_tasks_total", Help: "Tasks processed by the schedule optimizer by outcome."},
        []string{"state", "outcome"},
    )
    // ForecastCache counts forecast cache lookups by result (hit, miss, error)
    ForecastCache = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "forecast_cache_total", Help: "Forecast cache lookups by result."},
        []string{"result"},
    )
    // AlertsPublished counts alert events handed to the broker
    AlertsPublished = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "alerts_published_total", Help: "Weather alerts published by type."},
        []string{"type"},
    )
    // WebhookDeliveries counts outbound alert webhook attempts by outcome (delivered, retry, failed)
    WebhookDeliveries = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Alert webhook delivery attempts by outcome."},
        []string{"outcome"},
    )
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(RiskAssessments)
        Registry.MustRegister(ScheduleTasks)
        Registry.MustRegister(ForecastCache)
        Registry.MustRegister(AlertsPublished)
        Registry.MustRegister(WebhookDeliveries)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
