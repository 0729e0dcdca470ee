// Package memory holds process-local implementations of the stores and
// registries, used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

type board struct {
	offers   []domain.Offer
	accepted int // index into offers, -1 when none
}

// OfferStore keeps every offer board in a mutex-guarded map.
type OfferStore struct {
	mu     sync.RWMutex
	boards map[string]*board
}

func NewOfferStore() *OfferStore {
	return &OfferStore{boards: make(map[string]*board)}
}

func (s *OfferStore) List(ctx context.Context, trackingID string) ([]domain.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[trackingID]
	if !ok {
		return []domain.Offer{}, nil
	}
	out := make([]domain.Offer, len(b.offers))
	copy(out, b.offers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *OfferStore) Append(ctx context.Context, offer *domain.Offer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[offer.TrackingID]
	if !ok {
		b = &board{accepted: -1}
		s.boards[offer.TrackingID] = b
	}
	if b.accepted >= 0 {
		return domain.ErrRequestNotEligible
	}
	for _, o := range b.offers {
		if o.DriverID == offer.DriverID && o.Status.IsActive() {
			return domain.ErrDuplicateOffer
		}
	}
	b.offers = append(b.offers, *offer)
	return nil
}

func (s *OfferStore) Accept(ctx context.Context, trackingID, driverID string, at time.Time) (*domain.Offer, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[trackingID]
	if !ok {
		return nil, false, domain.ErrOfferNotFound
	}
	if b.accepted >= 0 {
		winner := b.offers[b.accepted]
		if winner.DriverID == driverID {
			return &winner, true, nil
		}
		return nil, false, domain.ErrOfferAlreadyAccepted
	}

	idx := -1
	for i, o := range b.offers {
		if o.DriverID == driverID && o.Status == domain.OfferPending {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, domain.ErrOfferNotFound
	}

	for i := range b.offers {
		switch {
		case i == idx:
			b.offers[i].Status = domain.OfferAccepted
			b.offers[i].UpdatedAt = at
		case b.offers[i].Status == domain.OfferPending:
			b.offers[i].Status = domain.OfferRejected
			b.offers[i].UpdatedAt = at
		}
	}
	b.accepted = idx

	winner := b.offers[idx]
	return &winner, false, nil
}

func (s *OfferStore) FindAccepted(ctx context.Context, trackingID string) (*domain.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[trackingID]
	if !ok || b.accepted < 0 {
		return nil, domain.ErrNoAcceptedOffer
	}
	winner := b.offers[b.accepted]
	return &winner, nil
}
