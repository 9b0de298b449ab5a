package api

import (
    "sync"
    "time"
)

// AlertEvent is one message on a region's alert channel.
type AlertEvent struct {
    ID   string         `json:"id"`
    Type string         `json:"type"`
    At   time.Time      `json:"at"`
    Data map[string]any `json:"data"`
}

// Alert types.
const (
    AlertRiskHigh      = "monsoon.risk.high"
    AlertUnschedulable = "schedule.unschedulable"
)

// EventBroker fans alert events out to subscribers of a region.
type EventBroker interface {
    Subscribe(region string) chan AlertEvent
    Unsubscribe(region string, ch chan AlertEvent)
    Publish(region string, evt AlertEvent)
}

// Broker is the in-process EventBroker. Slow subscribers drop events.
type Broker struct {
    mu   sync.Mutex
    subs map[string]map[chan AlertEvent]struct{} // region -> set of channels
}

func NewBroker() *Broker {
    return &Broker{subs: map[string]map[chan AlertEvent]struct{}{}}
}

func (b *Broker) Subscribe(region string) chan AlertEvent {
    ch := make(chan AlertEvent, 8)
    b.mu.Lock()
    if b.subs[region] == nil { b.subs[region] = map[chan AlertEvent]struct{}{} }
    b.subs[region][ch] = struct{}{}
    b.mu.Unlock()
    return ch
}

func (b *Broker) Unsubscribe(region string, ch chan AlertEvent) {
    b.mu.Lock()
    defer b.mu.Unlock()
    m := b.subs[region]
    if _, ok := m[ch]; !ok {
        return
    }
    delete(m, ch)
    if len(m) == 0 { delete(b.subs, region) }
    close(ch)
}

func (b *Broker) Publish(region string, evt AlertEvent) {
    b.mu.Lock()
    for ch := range b.subs[region] {
        select { case ch <- evt: default: }
    }
    b.mu.Unlock()
}

// Subscribers returns the number of live subscriptions for a region.
func (b *Broker) Subscribers(region string) int {
    b.mu.Lock()
    defer b.mu.Unlock()
    return len(b.subs[region])
}
