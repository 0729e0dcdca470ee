// Package events composes lifecycle event publishers.
package events

import (
	"context"
	"errors"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

// Fanout delivers each event to every publisher, even when one of them
// fails, and joins the failures.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, ev domain.LifecycleEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
