package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

type countingPublisher struct {
	calls int
	err   error
}

func (c *countingPublisher) Publish(context.Context, domain.LifecycleEvent) error {
	c.calls++
	return c.err
}

func TestFanout_DeliversToEveryPublisher(t *testing.T) {
	broken := &countingPublisher{err: errors.New("broker down")}
	audit := &countingPublisher{}

	err := Fanout{broken, audit}.Publish(context.Background(), domain.LifecycleEvent{Type: domain.EventOfferCreated})

	assert.ErrorIs(t, err, broken.err)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, audit.calls)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, Fanout{}.Publish(context.Background(), domain.LifecycleEvent{}))
}
