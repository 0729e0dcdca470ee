package memory

import (
	"context"
	"sync"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// DispatchStore keeps at most one dispatch per tracking code.
type DispatchStore struct {
	mu    sync.RWMutex
	items map[string]domain.Dispatch
}

func NewDispatchStore() *DispatchStore {
	return &DispatchStore{items: make(map[string]domain.Dispatch)}
}

func (s *DispatchStore) Create(ctx context.Context, d *domain.Dispatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[d.TrackingID]; exists {
		return domain.ErrDispatchExists
	}
	s.items[d.TrackingID] = *d
	return nil
}

func (s *DispatchStore) Find(ctx context.Context, trackingID string) (*domain.Dispatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.items[trackingID]
	if !ok {
		return nil, domain.ErrDispatchNotFound
	}
	return &d, nil
}
