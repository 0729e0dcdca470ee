package ports

import (
	"context"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// RequestRegistry is the external request board. Find returns
// domain.ErrRequestNotFound when the code is unknown; any other error is
// treated as the registry being unavailable.
type RequestRegistry interface {
	Find(ctx context.Context, trackingID string) (*domain.TrackingRequest, error)
	// AdvanceStatus moves the request forward to status. A request already at
	// or beyond status is left untouched.
	AdvanceStatus(ctx context.Context, trackingID string, status domain.RequestStatus) error
}

// DriverRegistry is the external driver directory. Find returns
// domain.ErrDriverNotFound for unknown or inactive drivers.
type DriverRegistry interface {
	Find(ctx context.Context, driverID string) (*domain.Driver, error)
}
