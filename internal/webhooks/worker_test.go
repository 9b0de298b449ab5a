package webhooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordQueue struct {
	*MemoryQueue
	mu    sync.Mutex
	marks []MarkRec
	fails []FailRec
}
type MarkRec struct {
	ID            string
	Success       bool
	Code, Latency int
	LastErr       string
}
type FailRec struct {
	ID            string
	Code, Latency int
	LastErr       string
}

func (r *recordQueue) Mark(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error {
	r.mu.Lock()
	r.marks = append(r.marks, MarkRec{ID: id, Success: success, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.MemoryQueue.Mark(ctx, id, success, nextAttemptAt, lastError, responseCode, latencyMs)
}
func (r *recordQueue) Fail(ctx context.Context, id string, lastError string, responseCode, latencyMs int) error {
	r.mu.Lock()
	r.fails = append(r.fails, FailRec{ID: id, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.MemoryQueue.Fail(ctx, id, lastError, responseCode, latencyMs)
}

func TestWorkerProcessOnce_SuccessAndSignature(t *testing.T) {
	var gotSig, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotType = r.Header.Get("X-Event-Type")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	rq := &recordQueue{MemoryQueue: NewMemoryQueue()}
	w := NewWorker(rq, 3, zap.NewNop())
	w.HTTP = srv.Client()
	body := []byte(`{"id":"evt1"}`)
	id, err := rq.Enqueue(context.Background(), "monsoon.risk.high", srv.URL, "secret", body)
	if err != nil || id == "" {
		t.Fatalf("enqueue failed: %v", err)
	}

	w.processOnce()

	if !VerifyHMAC("secret", body, gotSig) || gotType != "monsoon.risk.high" {
		t.Fatalf("missing signature/type headers: sig=%q type=%q", gotSig, gotType)
	}
	if len(rq.marks) == 0 || !rq.marks[0].Success {
		t.Fatalf("expected mark success, got: %+v", rq.marks)
	}
	if _, ok := rq.Get(id); ok {
		t.Fatal("delivered item should leave the queue")
	}
}

func TestWorkerProcessOnce_RetryThenFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }))
	defer srv.Close()
	rq := &recordQueue{MemoryQueue: NewMemoryQueue()}
	w := NewWorker(rq, 2, nil)
	w.HTTP = srv.Client()
	id, _ := rq.Enqueue(context.Background(), "schedule.unschedulable", srv.URL, "", []byte(`{}`))

	w.processOnce()
	if len(rq.marks) != 1 || rq.marks[0].Success || rq.marks[0].Code != 500 {
		t.Fatalf("expected a retry mark, got: %+v", rq.marks)
	}
	d, _ := rq.Get(id)
	if d.Status != StatusPending || !d.NextAttemptAt.After(time.Now()) {
		t.Fatalf("retry not scheduled: %+v", d)
	}

	// pretend the backoff elapsed
	rq.now = func() time.Time { return time.Now().Add(time.Hour) }
	w.processOnce()
	if len(rq.fails) != 1 {
		t.Fatalf("expected fail recorded, got %+v", rq.fails)
	}
	d, _ = rq.Get(id)
	if d.Status != StatusFailed || d.Attempts != 2 {
		t.Fatalf("delivery: %+v", d)
	}
}

func TestPublisherEmitEnqueuesPerTarget(t *testing.T) {
	q := NewMemoryQueue()
	p := NewPublisher(q, Target{URL: "http://a.example/hook"}, Target{URL: "http://b.example/hook", Secret: "s"})
	if err := p.Emit(context.Background(), "KL", "monsoon.risk.high", map[string]any{"overall_risk_score": 2.7}); err != nil {
		t.Fatal(err)
	}
	due, _ := q.FetchDue(context.Background(), 0)
	if len(due) != 2 {
		t.Fatalf("due: got %d", len(due))
	}
	var evt map[string]any
	if err := json.Unmarshal(due[0].Payload, &evt); err != nil {
		t.Fatal(err)
	}
	if evt["type"] != "monsoon.risk.high" || evt["state"] != "KL" {
		t.Fatalf("payload: %v", evt)
	}

	if err := NewPublisher(q).Emit(context.Background(), "KL", "x", nil); err != nil {
		t.Fatal(err)
	}
}

func TestNextBackoffCapped(t *testing.T) {
	if nextBackoff(0) != time.Second || nextBackoff(3) != 8*time.Second {
		t.Fatal("unexpected backoff")
	}
	if nextBackoff(50) != 1024*time.Second {
		t.Fatalf("cap: got %v", nextBackoff(50))
	}
}

func TestWorkerStartStop(t *testing.T) {
	w := NewWorker(NewMemoryQueue(), 1, nil)
	w.Interval = 10 * time.Millisecond
	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()
	w.Stop()
}
