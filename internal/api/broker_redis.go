package api

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    redis "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
)

// RedisBroker implements EventBroker over Redis Pub/Sub so every replica sees
// alerts raised by any other.
type RedisBroker struct {
    rdb *redis.Client
    log *zap.Logger

    mu   sync.Mutex
    subs map[chan AlertEvent]*redis.PubSub
}

func NewRedisBroker(rdb *redis.Client, log *zap.Logger) *RedisBroker {
    if log == nil { log = zap.NewNop() }
    return &RedisBroker{rdb: rdb, log: log, subs: map[chan AlertEvent]*redis.PubSub{}}
}

func (b *RedisBroker) Subscribe(region string) chan AlertEvent {
    ch := make(chan AlertEvent, 16)
    ctx := context.Background()
    ps := b.rdb.Subscribe(ctx, b.chanName(region))
    // wait for the subscription confirmation so no publish is missed
    if _, err := ps.Receive(ctx); err != nil {
        b.log.Warn("redis subscribe", zap.String("region", region), zap.Error(err))
    }
    b.mu.Lock()
    b.subs[ch] = ps
    b.mu.Unlock()
    go func() {
        defer close(ch)
        for msg := range ps.Channel() {
            var evt AlertEvent
            if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
                b.log.Warn("bad alert payload", zap.Error(err))
                continue
            }
            select { case ch <- evt: default: }
        }
    }()
    return ch
}

// Unsubscribe closes the underlying PubSub; the forwarding goroutine then closes ch.
func (b *RedisBroker) Unsubscribe(region string, ch chan AlertEvent) {
    b.mu.Lock()
    ps, ok := b.subs[ch]
    delete(b.subs, ch)
    b.mu.Unlock()
    if ok { _ = ps.Close() }
}

func (b *RedisBroker) Publish(region string, evt AlertEvent) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    data, err := json.Marshal(evt)
    if err != nil {
        b.log.Error("marshal alert", zap.Error(err))
        return
    }
    if err := b.rdb.Publish(ctx, b.chanName(region), data).Err(); err != nil {
        b.log.Warn("redis publish", zap.String("region", region), zap.Error(err))
    }
}

func (b *RedisBroker) chanName(region string) string { return "monsoonplan:alerts:" + region }
