package ports

import (
	"context"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// EventPublisher hands lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LifecycleEvent) error
}
