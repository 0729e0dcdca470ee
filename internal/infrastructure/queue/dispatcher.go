// Package queue delivers lifecycle events in the background.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

const (
	defaultWorkers  = 8
	channelBuffer   = 256
	deliveryTimeout = 10 * time.Second
)

// ErrStopped is returned by Publish after Stop.
var ErrStopped = errors.New("event dispatcher stopped")

var _ ports.EventPublisher = (*Dispatcher)(nil)

// Dispatcher routes lifecycle events to a fixed set of workers using
// consistent hashing on the tracking code, so events of one request are
// delivered in the order they were published.
type Dispatcher struct {
	workers []chan domain.LifecycleEvent
	next    ports.EventPublisher
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers that
// hand events to next. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, next ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.LifecycleEvent, numWorkers),
		next:    next,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LifecycleEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Publish enqueues the event on the worker owning its tracking code. It
// blocks while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Publish(ctx context.Context, ev domain.LifecycleEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.workers[d.shardIndex(ev.TrackingID)] <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new events and waits for queued ones to be delivered or ctx
// to be done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a tracking code deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.LifecycleEvent) {
	defer d.wg.Done()
	for ev := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if err := d.next.Publish(ctx, ev); err != nil {
			d.log.Error().Err(err).
				Str("tracking_id", ev.TrackingID).
				Str("event", string(ev.Type)).
				Int("worker_id", id).
				Msg("event delivery failed")
		}
		cancel()
	}
}
