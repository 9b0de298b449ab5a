package webhooks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Delivery statuses.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

type Delivery struct {
	ID            string
	EventType     string
	URL           string
	Secret        string
	Payload       []byte
	Status        string
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	ResponseCode  int
	LatencyMs     int
}

// Queue holds pending webhook deliveries.
type Queue interface {
	Enqueue(ctx context.Context, eventType, url, secret string, payload []byte) (string, error)
	FetchDue(ctx context.Context, limit int) ([]Delivery, error)
	Mark(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error
	Fail(ctx context.Context, id string, lastError string, responseCode, latencyMs int) error
}

var ErrUnknownDelivery = errors.New("unknown delivery")

// MemoryQueue is a process-local Queue. Deliveries are lost on restart.
type MemoryQueue struct {
	mu    sync.Mutex
	items map[string]*Delivery
	now   func() time.Time
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{items: map[string]*Delivery{}, now: time.Now}
}

func (q *MemoryQueue) Enqueue(_ context.Context, eventType, url, secret string, payload []byte) (string, error) {
	id := "whd_" + uuid.NewString()
	q.mu.Lock()
	q.items[id] = &Delivery{
		ID: id, EventType: eventType, URL: url, Secret: secret,
		Payload: append([]byte(nil), payload...), Status: StatusPending, NextAttemptAt: q.now(),
	}
	q.mu.Unlock()
	return id, nil
}

// FetchDue returns pending deliveries whose next attempt is due, oldest first.
func (q *MemoryQueue) FetchDue(_ context.Context, limit int) ([]Delivery, error) {
	now := q.now()
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Delivery
	for _, d := range q.items {
		if d.Status == StatusPending && !d.NextAttemptAt.After(now) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextAttemptAt.Before(out[j].NextAttemptAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (q *MemoryQueue) Mark(_ context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	d, ok := q.items[id]
	if !ok {
		return ErrUnknownDelivery
	}
	d.Attempts++
	d.LastError, d.ResponseCode, d.LatencyMs = lastError, responseCode, latencyMs
	if success {
		// delivered items are dropped; the queue only tracks outstanding work
		delete(q.items, id)
		return nil
	}
	if nextAttemptAt != nil {
		d.NextAttemptAt = *nextAttemptAt
	}
	return nil
}

func (q *MemoryQueue) Fail(_ context.Context, id string, lastError string, responseCode, latencyMs int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	d, ok := q.items[id]
	if !ok {
		return ErrUnknownDelivery
	}
	d.Attempts++
	d.Status = StatusFailed
	d.LastError, d.ResponseCode, d.LatencyMs = lastError, responseCode, latencyMs
	return nil
}

// Get returns a copy of a tracked delivery.
func (q *MemoryQueue) Get(id string) (Delivery, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	d, ok := q.items[id]
	if !ok {
		return Delivery{}, false
	}
	return *d, true
}
