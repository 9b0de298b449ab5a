package api

import (
    "bufio"
    "context"
    "errors"
    "net"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "monsoonplan/internal/metrics"
)

type ctxKeyRequestID struct{}

func requestIDFrom(ctx context.Context) string {
    id, _ := ctx.Value(ctxKeyRequestID{}).(string)
    return id
}

// statusRecorder captures the status code while keeping streaming and
// hijacking available to SSE and WebSocket handlers.
type statusRecorder struct {
    http.ResponseWriter
    status int
}

func (r *statusRecorder) WriteHeader(code int) {
    if r.status == 0 { r.status = code }
    r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
    if r.status == 0 { r.status = http.StatusOK }
    return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
    if f, ok := r.ResponseWriter.(http.Flusher); ok { f.Flush() }
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
    h, ok := r.ResponseWriter.(http.Hijacker)
    if !ok { return nil, nil, errors.New("hijack not supported") }
    if r.status == 0 { r.status = http.StatusSwitchingProtocols }
    return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (r *statusRecorder) code() int {
    if r.status == 0 { return http.StatusOK }
    return r.status
}

// withRequestID propagates X-Request-Id, minting one when absent.
func withRequestID(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        id := r.Header.Get("X-Request-Id")
        if id == "" { id = uuid.NewString() }
        w.Header().Set("X-Request-Id", id)
        next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID{}, id)))
    })
}

// withObservability logs each request and records the HTTP metrics. The path
// label is the matched route pattern so query strings and unknown paths do
// not explode label cardinality.
func (s *Server) withObservability(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        rec := &statusRecorder{ResponseWriter: w}
        next.ServeHTTP(rec, r)
        dur := time.Since(start)

        path := r.Pattern
        if path == "" { path = "unmatched" }
        status := strconv.Itoa(rec.code())
        metrics.HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
        metrics.HTTPDuration.WithLabelValues(r.Method, path, status).Observe(dur.Seconds())

        s.Log.Info("http request",
            zap.String("method", r.Method),
            zap.String("path", r.URL.Path),
            zap.Int("status", rec.code()),
            zap.Duration("duration", dur),
            zap.String("remote", r.RemoteAddr),
            zap.String("request_id", requestIDFrom(r.Context())))
    })
}

// withCORS applies the configured origin allow-list and answers preflights.
func (s *Server) withCORS(next http.Handler) http.Handler {
    allowAll := false
    allowed := map[string]bool{}
    for _, o := range s.Cfg.Server.AllowOrigins {
        if o == "*" { allowAll = true }
        allowed[o] = true
    }
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        origin := r.Header.Get("Origin")
        if origin != "" {
            switch {
            case allowAll:
                w.Header().Set("Access-Control-Allow-Origin", "*")
            case allowed[origin]:
                w.Header().Set("Access-Control-Allow-Origin", origin)
                w.Header().Add("Vary", "Origin")
            }
        }
        if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
            w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
            w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
            w.Header().Set("Access-Control-Max-Age", "600")
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
    rps   rate.Limit
    burst int

    mu      sync.Mutex
    clients map[string]*limiterEntry
    sweep   time.Time
}

type limiterEntry struct {
    lim  *rate.Limiter
    seen time.Time
}

const limiterIdle = 3 * time.Minute

// newClientLimiter returns nil when rps is not positive, which disables limiting.
func newClientLimiter(rps float64, burst int) *clientLimiter {
    if rps <= 0 { return nil }
    if burst <= 0 { burst = 1 }
    return &clientLimiter{rps: rate.Limit(rps), burst: burst, clients: map[string]*limiterEntry{}}
}

func (l *clientLimiter) allow(key string, now time.Time) bool {
    l.mu.Lock()
    defer l.mu.Unlock()
    if now.Sub(l.sweep) > limiterIdle {
        for k, e := range l.clients {
            if now.Sub(e.seen) > limiterIdle { delete(l.clients, k) }
        }
        l.sweep = now
    }
    e := l.clients[key]
    if e == nil {
        e = &limiterEntry{lim: rate.NewLimiter(l.rps, l.burst)}
        l.clients[key] = e
    }
    e.seen = now
    return e.lim.AllowN(now, 1)
}

func clientKey(r *http.Request) string {
    if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
        return strings.TrimSpace(strings.Split(fwd, ",")[0])
    }
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil { return r.RemoteAddr }
    return host
}

// withRateLimit answers 429 once a client exceeds its bucket. Probes are exempt.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
    if s.limiter == nil { return next }
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case "/healthz", "/readyz", "/metrics":
            next.ServeHTTP(w, r)
            return
        }
        if !s.limiter.allow(clientKey(r), time.Now()) {
            w.Header().Set("Retry-After", "1")
            writeError(w, http.StatusTooManyRequests, "Too many requests", "")
            return
        }
        next.ServeHTTP(w, r)
    })
}
