package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/memory"
)

type slowDrivers struct{ delay time.Duration }

func (s slowDrivers) Find(ctx context.Context, driverID string) (*domain.Driver, error) {
	select {
	case <-time.After(s.delay):
		return &domain.Driver{DriverID: driverID, Active: true}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestRegistryGateway_NotFoundKeepsKind(t *testing.T) {
	g := NewRegistryGateway(memory.NewRequestRegistry(), memory.NewDriverRegistry(), time.Second, zerolog.Nop())

	_, err := g.FindRequest(context.Background(), "REQ123")
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected request not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "REQ123") {
		t.Errorf("expected tracking id in message, got %q", err.Error())
	}

	_, err = g.FindDriver(context.Background(), "DRV1")
	if !errors.Is(err, domain.ErrDriverNotFound) {
		t.Fatalf("expected driver not found, got %v", err)
	}
}

func TestRegistryGateway_TimeoutIsUnavailable(t *testing.T) {
	g := NewRegistryGateway(memory.NewRequestRegistry(), slowDrivers{delay: time.Second}, 10*time.Millisecond, zerolog.Nop())

	start := time.Now()
	_, err := g.FindDriver(context.Background(), "DRV1")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause should not leak to callers: %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("lookup was not bounded by the timeout")
	}
}

func TestRegistryGateway_DefaultTimeout(t *testing.T) {
	g := NewRegistryGateway(memory.NewRequestRegistry(), memory.NewDriverRegistry(), 0, zerolog.Nop())
	if g.timeout != defaultLookupTimeout {
		t.Errorf("expected default timeout, got %v", g.timeout)
	}
}
