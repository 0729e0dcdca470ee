package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

const defaultLookupTimeout = 2 * time.Second

// RegistryGateway performs read-only lookups against the request board and
// the driver directory. Each call is bounded by the lookup timeout; anything
// other than a clean "not found" is reported as domain.ErrUnavailable.
type RegistryGateway struct {
	requests ports.RequestRegistry
	drivers  ports.DriverRegistry
	timeout  time.Duration
	log      zerolog.Logger
}

// NewRegistryGateway returns a gateway. A non-positive timeout falls back to
// defaultLookupTimeout.
func NewRegistryGateway(
	requests ports.RequestRegistry,
	drivers ports.DriverRegistry,
	timeout time.Duration,
	log zerolog.Logger,
) *RegistryGateway {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &RegistryGateway{requests: requests, drivers: drivers, timeout: timeout, log: log}
}

// FindRequest resolves a tracking code on the request board.
func (g *RegistryGateway) FindRequest(ctx context.Context, trackingID string) (*domain.TrackingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := g.requests.Find(ctx, trackingID)
	if err != nil {
		return nil, g.classify(err, "request registry", trackingID)
	}
	return req, nil
}

// FindDriver resolves a driver in the driver directory.
func (g *RegistryGateway) FindDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	drv, err := g.drivers.Find(ctx, driverID)
	if err != nil {
		return nil, g.classify(err, "driver registry", driverID)
	}
	return drv, nil
}

// AdvanceRequest asks the request board to move a request forward.
func (g *RegistryGateway) AdvanceRequest(ctx context.Context, trackingID string, status domain.RequestStatus) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.requests.AdvanceStatus(ctx, trackingID, status); err != nil {
		return fmt.Errorf("advance %s to %s: %w", trackingID, status, err)
	}
	return nil
}

func (g *RegistryGateway) classify(err error, registry, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", err, id)
	}
	g.log.Warn().Err(err).
		Str("registry", registry).
		Str("id", id).
		Bool("timeout", errors.Is(err, context.DeadlineExceeded)).
		Msg("registry lookup failed")
	return fmt.Errorf("%w: %s did not respond, retry later", domain.ErrUnavailable, registry)
}
