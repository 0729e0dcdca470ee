package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// RequestRegistry is an in-process request board.
type RequestRegistry struct {
	mu       sync.RWMutex
	requests map[string]domain.TrackingRequest
}

func NewRequestRegistry(requests ...domain.TrackingRequest) *RequestRegistry {
	r := &RequestRegistry{requests: make(map[string]domain.TrackingRequest, len(requests))}
	for _, req := range requests {
		r.Put(req)
	}
	return r
}

// Put inserts or replaces a request.
func (r *RequestRegistry) Put(req domain.TrackingRequest) {
	if req.Status == "" {
		req.Status = domain.RequestOpen
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.requests[req.TrackingID] = req
	r.mu.Unlock()
}

func (r *RequestRegistry) Find(ctx context.Context, trackingID string) (*domain.TrackingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[trackingID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return &req, nil
}

func (r *RequestRegistry) AdvanceStatus(ctx context.Context, trackingID string, status domain.RequestStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[trackingID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.Status.CanTransitionTo(status) {
		req.Status = status
		r.requests[trackingID] = req
	}
	return nil
}

// DriverRegistry is an in-process driver directory.
type DriverRegistry struct {
	mu      sync.RWMutex
	drivers map[string]domain.Driver
}

func NewDriverRegistry(drivers ...domain.Driver) *DriverRegistry {
	r := &DriverRegistry{drivers: make(map[string]domain.Driver, len(drivers))}
	for _, d := range drivers {
		r.Put(d)
	}
	return r
}

// Put inserts or replaces a driver.
func (r *DriverRegistry) Put(d domain.Driver) {
	r.mu.Lock()
	r.drivers[d.DriverID] = d
	r.mu.Unlock()
}

func (r *DriverRegistry) Find(ctx context.Context, driverID string) (*domain.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[driverID]
	if !ok || !d.Active {
		return nil, domain.ErrDriverNotFound
	}
	return &d, nil
}

// ParseRequestSeed reads a comma separated list of "ID" or "ID:STATUS".
func ParseRequestSeed(s string) ([]domain.TrackingRequest, error) {
	var out []domain.TrackingRequest
	for _, item := range splitList(s) {
		id, status, _ := strings.Cut(item, ":")
		req := domain.TrackingRequest{TrackingID: strings.TrimSpace(id), Status: domain.RequestOpen}
		if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
			req.Status = domain.RequestStatus(status)
		}
		switch req.Status {
		case domain.RequestOpen, domain.RequestOffered, domain.RequestAccepted, domain.RequestDispatched:
		default:
			return nil, fmt.Errorf("seed request %q: unknown status %q", id, status)
		}
		if req.TrackingID == "" {
			return nil, fmt.Errorf("seed request %q: empty tracking id", item)
		}
		out = append(out, req)
	}
	return out, nil
}

// ParseDriverSeed reads a comma separated list of "ID:NAME:PHONE".
// Seeded drivers are active.
func ParseDriverSeed(s string) ([]domain.Driver, error) {
	var out []domain.Driver
	for _, item := range splitList(s) {
		parts := strings.Split(item, ":")
		if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("seed driver %q: want ID:NAME:PHONE", item)
		}
		out = append(out, domain.Driver{
			DriverID: strings.TrimSpace(parts[0]),
			Name:     strings.TrimSpace(parts[1]),
			Phone:    strings.TrimSpace(parts[2]),
			Active:   true,
		})
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
