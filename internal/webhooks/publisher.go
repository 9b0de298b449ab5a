package webhooks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Target is an endpoint that receives alert events.
type Target struct {
	URL    string
	Secret string
}

type Publisher struct {
	Queue   Queue
	Targets []Target
}

func NewPublisher(q Queue, targets ...Target) *Publisher {
	return &Publisher{Queue: q, Targets: targets}
}

// Emit enqueues one delivery of the event per target. Delivery happens on the Worker.
func (p *Publisher) Emit(ctx context.Context, region, eventType string, data any) error {
	if len(p.Targets) == 0 {
		return nil
	}
	payload := map[string]any{
		"id":    "evt_" + uuid.NewString(),
		"type":  eventType,
		"state": region,
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"data":  data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	for _, t := range p.Targets {
		if _, err := p.Queue.Enqueue(ctx, eventType, t.URL, t.Secret, body); err != nil {
			return err
		}
	}
	return nil
}
