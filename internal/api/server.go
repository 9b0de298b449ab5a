package api

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    redis "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "monsoonplan/internal/config"
    "monsoonplan/internal/metrics"
    "monsoonplan/internal/store"
    "monsoonplan/internal/weather"
    "monsoonplan/internal/webhooks"
)

type Server struct {
    Weather *weather.Service
    Store   store.ForecastStore
    Broker  EventBroker
    Log     *zap.Logger
    Cfg     config.Config
    Pub     *webhooks.Publisher
    Worker  *webhooks.Worker

    limiter *clientLimiter
    closers []func() error
}

// New wires a Server around an existing store and broker.
func New(cfg config.Config, log *zap.Logger, st store.ForecastStore, broker EventBroker) *Server {
    if log == nil { log = zap.NewNop() }
    if broker == nil { broker = NewBroker() }
    metrics.RegisterDefault()
    s := &Server{
        Weather: weather.NewService(st),
        Store:   st,
        Broker:  broker,
        Log:     log,
        Cfg:     cfg,
        limiter: newClientLimiter(cfg.Limits.RPS, cfg.Limits.Burst),
    }
    if cfg.Alerts.Enabled && cfg.Alerts.WebhookURL != "" {
        q := webhooks.NewMemoryQueue()
        s.Pub = webhooks.NewPublisher(q, webhooks.Target{URL: cfg.Alerts.WebhookURL, Secret: cfg.Alerts.WebhookSecret})
        s.Worker = webhooks.NewWorker(q, cfg.Alerts.WebhookMaxAttempts, log.Named("webhooks"))
    }
    return s
}

// Start launches background delivery of alert webhooks, if configured.
func (s *Server) Start() {
    if s.Worker != nil { s.Worker.Start() }
}

// NewServer builds the store and broker from cfg. Without a database URL the
// built-in forecast table is served; a Redis URL adds the read-through cache
// and switches alerts to Redis pub/sub.
func NewServer(cfg config.Config, log *zap.Logger) (*Server, error) {
    if log == nil { log = zap.NewNop() }
    var closers []func() error

    var st store.ForecastStore
    if strings.TrimSpace(cfg.DB.URL) == "" {
        st = store.NewMemory()
    } else {
        pg, err := store.NewPostgres(cfg.DB.URL)
        if err != nil {
            return nil, fmt.Errorf("open postgres: %w", err)
        }
        closers = append(closers, pg.Close)
        ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
        defer cancel()
        if cfg.DB.Migrate {
            if err := pg.Migrate(ctx); err != nil {
                _ = pg.Close()
                return nil, fmt.Errorf("migrate: %w", err)
            }
        }
        if cfg.DB.Seed {
            if err := pg.Seed(ctx, store.SeedForecasts()); err != nil {
                _ = pg.Close()
                return nil, fmt.Errorf("seed: %w", err)
            }
        }
        st = pg
    }

    var broker EventBroker
    if cfg.Redis.URL != "" {
        rdb, err := store.NewRedisClient(cfg.Redis.URL)
        if err != nil {
            log.Warn("redis disabled", zap.Error(err))
            broker = NewBroker()
        } else {
            closers = append(closers, rdb.Close)
            st = store.NewCache(st, rdb, cfg.Redis.CacheTTL.Duration, log.Named("cache"))
            broker = NewRedisBroker(rdb, log.Named("broker"))
        }
    } else {
        broker = NewBroker()
    }

    s := New(cfg, log, st, broker)
    s.closers = closers
    return s, nil
}

// Close stops the webhook worker and releases the database pool and Redis client.
func (s *Server) Close() error {
    if s.Worker != nil { s.Worker.Stop() }
    var errs []error
    for i := len(s.closers) - 1; i >= 0; i-- {
        if err := s.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
            errs = append(errs, err)
        }
    }
    s.closers = nil
    return errors.Join(errs...)
}
