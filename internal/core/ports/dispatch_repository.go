package ports

import (
	"context"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// DispatchRepository stores at most one dispatch record per tracking code.
type DispatchRepository interface {
	// Create fails with domain.ErrDispatchExists when a record already exists.
	Create(ctx context.Context, d *domain.Dispatch) error
	Find(ctx context.Context, trackingID string) (*domain.Dispatch, error)
}
