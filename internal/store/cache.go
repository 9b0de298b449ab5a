package store

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    redis "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "monsoonplan/internal/metrics"
    "monsoonplan/internal/model"
)

// Cache is a read-through Redis cache in front of another ForecastStore.
// Redis failures degrade to the underlying store; unknown regions are never cached.
type Cache struct {
    next   ForecastStore
    rdb    *redis.Client
    ttl    time.Duration
    prefix string
    log    *zap.Logger
}

func NewCache(next ForecastStore, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
    if log == nil { log = zap.NewNop() }
    if ttl <= 0 { ttl = 10 * time.Minute }
    return &Cache{next: next, rdb: rdb, ttl: ttl, prefix: "monsoonplan:", log: log}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, err }
    return redis.NewClient(opt), nil
}

func (c *Cache) key(kind, region string) string { return c.prefix + kind + ":" + region }

func (c *Cache) Regions(ctx context.Context) ([]string, error) {
    var out []string
    err := c.readThrough(ctx, c.key("regions", "all"), &out, func() (any, error) { return c.next.Regions(ctx) })
    return out, err
}

func (c *Cache) Forecast(ctx context.Context, region string) ([]model.ForecastDay, error) {
    var out []model.ForecastDay
    err := c.readThrough(ctx, c.key("forecast", region), &out, func() (any, error) { return c.next.Forecast(ctx, region) })
    return out, err
}

func (c *Cache) Current(ctx context.Context, region string) (model.CurrentConditions, error) {
    var out model.CurrentConditions
    err := c.readThrough(ctx, c.key("current", region), &out, func() (any, error) { return c.next.Current(ctx, region) })
    return out, err
}

// Ping checks Redis and, when supported, the underlying store.
func (c *Cache) Ping(ctx context.Context) error {
    if err := c.rdb.Ping(ctx).Err(); err != nil { return err }
    type pinger interface{ Ping(ctx context.Context) error }
    if p, ok := c.next.(pinger); ok { return p.Ping(ctx) }
    return nil
}

// readThrough decodes a cached value into dst, or loads, stores and decodes it.
func (c *Cache) readThrough(ctx context.Context, key string, dst any, load func() (any, error)) error {
    b, err := c.rdb.Get(ctx, key).Bytes()
    switch {
    case err == nil:
        if jerr := json.Unmarshal(b, dst); jerr == nil {
            metrics.ForecastCache.WithLabelValues("hit").Inc()
            return nil
        }
        c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
        metrics.ForecastCache.WithLabelValues("error").Inc()
    case errors.Is(err, redis.Nil):
        metrics.ForecastCache.WithLabelValues("miss").Inc()
    default:
        c.log.Warn("forecast cache unavailable", zap.String("key", key), zap.Error(err))
        metrics.ForecastCache.WithLabelValues("error").Inc()
    }

    v, err := load()
    if err != nil { return err }
    b, err = json.Marshal(v)
    if err != nil { return err }
    if serr := c.rdb.Set(ctx, key, b, c.ttl).Err(); serr != nil {
        c.log.Warn("forecast cache write failed", zap.String("key", key), zap.Error(serr))
    }
    return json.Unmarshal(b, dst)
}
