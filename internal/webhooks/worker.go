package webhooks

import (
    "bytes"
    "context"
    "net/http"
    "sync"
    "time"

    "go.uber.org/zap"

    "monsoonplan/internal/metrics"
)

type Worker struct {
    Queue       Queue
    HTTP        *http.Client
    MaxAttempts int
    Interval    time.Duration
    Log         *zap.Logger

    stop chan struct{}
    wg   sync.WaitGroup
}

func NewWorker(q Queue, maxAttempts int, log *zap.Logger) *Worker {
    if maxAttempts <= 0 { maxAttempts = 10 }
    if log == nil { log = zap.NewNop() }
    return &Worker{Queue: q, HTTP: &http.Client{Timeout: 5 * time.Second}, MaxAttempts: maxAttempts, Interval: time.Second, Log: log}
}

func (w *Worker) Start() {
    w.stop = make(chan struct{})
    w.wg.Add(1)
    go func() {
        defer w.wg.Done()
        ticker := time.NewTicker(w.Interval)
        defer ticker.Stop()
        for {
            select {
            case <-w.stop:
                return
            case <-ticker.C:
                w.processOnce()
            }
        }
    }()
}

// Stop ends the polling loop and waits for an in-flight batch to finish.
func (w *Worker) Stop() {
    if w.stop == nil { return }
    close(w.stop)
    w.wg.Wait()
    w.stop = nil
}

func (w *Worker) processOnce() {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    items, err := w.Queue.FetchDue(ctx, 50)
    if err != nil {
        w.Log.Warn("fetch webhook deliveries", zap.Error(err))
        return
    }
    for _, it := range items {
        success := false
        next := time.Now().Add(nextBackoff(it.Attempts))
        req, err := http.NewRequestWithContext(ctx, http.MethodPost, it.URL, bytes.NewReader(it.Payload))
        if err != nil {
            _ = w.Queue.Fail(ctx, it.ID, err.Error(), 0, 0)
            metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
            continue
        }
        req.Header.Set("Content-Type", "application/json")
        req.Header.Set("X-Event-Type", it.EventType)
        if it.Secret != "" {
            req.Header.Set("X-Signature", SignHMAC(it.Secret, it.Payload))
        }
        start := time.Now()
        resp, err := w.HTTP.Do(req)
        latency := int(time.Since(start).Milliseconds())
        code := 0
        if err == nil && resp != nil {
            code = resp.StatusCode
            if resp.Body != nil { _ = resp.Body.Close() }
            if code >= 200 && code < 300 { success = true }
        }
        lastErr := ""
        if !success && err != nil { lastErr = err.Error() }
        if !success && it.Attempts+1 >= w.MaxAttempts {
            w.Log.Warn("webhook delivery failed", zap.String("id", it.ID), zap.String("url", it.URL), zap.Int("code", code), zap.String("error", lastErr))
            _ = w.Queue.Fail(ctx, it.ID, lastErr, code, latency)
            metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
            continue
        }
        _ = w.Queue.Mark(ctx, it.ID, success, &next, lastErr, code, latency)
        if success {
            metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
        } else {
            metrics.WebhookDeliveries.WithLabelValues("retry").Inc()
        }
    }
}

func nextBackoff(attempts int) time.Duration {
    if attempts < 0 { attempts = 0 }
    if attempts > 10 { attempts = 10 }
    base := time.Second * time.Duration(1<<attempts)
    if base > time.Hour { base = time.Hour }
    return base
}
