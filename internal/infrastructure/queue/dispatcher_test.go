package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

type recorder struct {
	mu     sync.Mutex
	byCode map[string][]domain.EventType
	err    error
}

func newRecorder() *recorder { return &recorder{byCode: map[string][]domain.EventType{}} }

func (r *recorder) Publish(_ context.Context, ev domain.LifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode[ev.TrackingID] = append(r.byCode[ev.TrackingID], ev.Type)
	return r.err
}

func TestDispatcher_PreservesPerCodeOrder(t *testing.T) {
	rec := newRecorder()
	d := NewDispatcher(4, rec, zerolog.Nop())
	d.Start()

	order := []domain.EventType{domain.EventOfferCreated, domain.EventOfferAccepted, domain.EventDispatchSubmitted}
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("REQ%d", i)
		for _, typ := range order {
			if err := d.Publish(context.Background(), domain.LifecycleEvent{Type: typ, TrackingID: code}); err != nil {
				t.Fatalf("publish: %v", err)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if len(rec.byCode) != 20 {
		t.Fatalf("expected 20 codes, got %d", len(rec.byCode))
	}
	for code, got := range rec.byCode {
		if fmt.Sprint(got) != fmt.Sprint(order) {
			t.Errorf("%s: expected %v, got %v", code, order, got)
		}
	}
}

func TestDispatcher_DeliveryErrorsDoNotStopWorkers(t *testing.T) {
	rec := newRecorder()
	rec.err = errors.New("broker down")
	d := NewDispatcher(1, rec, zerolog.Nop())
	d.Start()

	for i := 0; i < 3; i++ {
		_ = d.Publish(context.Background(), domain.LifecycleEvent{Type: domain.EventOfferCreated, TrackingID: "REQ1"})
	}
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if len(rec.byCode["REQ1"]) != 3 {
		t.Errorf("expected 3 delivery attempts, got %d", len(rec.byCode["REQ1"]))
	}
}

func TestDispatcher_PublishAfterStop(t *testing.T) {
	d := NewDispatcher(2, newRecorder(), zerolog.Nop())
	d.Start()
	_ = d.Stop(context.Background())
	_ = d.Stop(context.Background())

	err := d.Publish(context.Background(), domain.LifecycleEvent{TrackingID: "REQ1"})
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newRecorder(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("REQ123") != d.shardIndex("REQ123") {
		t.Error("shard index must be deterministic")
	}
}
