package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

var t0 = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newOffer(trackingID, driverID string, at time.Time) *domain.Offer {
	return &domain.Offer{
		ID:          trackingID + "-" + driverID,
		TrackingID:  trackingID,
		DriverID:    driverID,
		DriverName:  "Driver " + driverID,
		DriverPhone: "+966500000000",
		Price:       1000,
		Status:      domain.OfferPending,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestOfferStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()

	offers, err := s.List(ctx, "REQ123")
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)

	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV2", t0.Add(time.Minute))))
	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV1", t0)))
	require.NoError(t, s.Append(ctx, newOffer("REQ999", "DRV1", t0)))

	offers, err = s.List(ctx, "REQ123")
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "DRV1", offers[0].DriverID)
	assert.Equal(t, "DRV2", offers[1].DriverID)
}

func TestOfferStore_AppendRejectsDuplicateActiveOffer(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()

	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV1", t0)))
	err := s.Append(ctx, newOffer("REQ123", "DRV1", t0))
	require.ErrorIs(t, err, domain.ErrDuplicateOffer)
	assert.ErrorIs(t, err, domain.ErrConflict)

	offers, _ := s.List(ctx, "REQ123")
	assert.Len(t, offers, 1)
}

func TestOfferStore_AcceptRejectsSiblings(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()
	for i, drv := range []string{"DRV1", "DRV2", "DRV3"} {
		require.NoError(t, s.Append(ctx, newOffer("REQ123", drv, t0.Add(time.Duration(i)*time.Second))))
	}

	at := t0.Add(time.Hour)
	won, replay, err := s.Accept(ctx, "REQ123", "DRV2", at)
	require.NoError(t, err)
	assert.False(t, replay)
	assert.Equal(t, domain.OfferAccepted, won.Status)
	assert.Equal(t, at, won.UpdatedAt)

	offers, _ := s.List(ctx, "REQ123")
	statuses := map[string]domain.OfferStatus{}
	for _, o := range offers {
		statuses[o.DriverID] = o.Status
	}
	assert.Equal(t, map[string]domain.OfferStatus{
		"DRV1": domain.OfferRejected,
		"DRV2": domain.OfferAccepted,
		"DRV3": domain.OfferRejected,
	}, statuses)

	accepted, err := s.FindAccepted(ctx, "REQ123")
	require.NoError(t, err)
	assert.Equal(t, "DRV2", accepted.DriverID)
}

func TestOfferStore_AcceptIsIdempotentForSamePair(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()
	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV1", t0)))
	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV2", t0)))

	_, _, err := s.Accept(ctx, "REQ123", "DRV1", t0.Add(time.Minute))
	require.NoError(t, err)

	again, replay, err := s.Accept(ctx, "REQ123", "DRV1", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, replay)
	assert.Equal(t, t0.Add(time.Minute), again.UpdatedAt)

	_, _, err = s.Accept(ctx, "REQ123", "DRV2", t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrOfferAlreadyAccepted)
}

func TestOfferStore_AcceptWithoutPendingOffer(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()

	_, _, err := s.Accept(ctx, "REQ123", "DRV1", t0)
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)

	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV1", t0)))
	_, _, err = s.Accept(ctx, "REQ123", "DRV9", t0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.FindAccepted(ctx, "REQ123")
	assert.ErrorIs(t, err, domain.ErrNoAcceptedOffer)
}

func TestOfferStore_AppendAfterAccept(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()
	require.NoError(t, s.Append(ctx, newOffer("REQ123", "DRV1", t0)))
	_, _, err := s.Accept(ctx, "REQ123", "DRV1", t0)
	require.NoError(t, err)

	err = s.Append(ctx, newOffer("REQ123", "DRV2", t0))
	assert.ErrorIs(t, err, domain.ErrRequestNotEligible)
}

func TestOfferStore_ConcurrentAcceptHasSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := NewOfferStore()
	const n = 20
	for i := 0; i < n; i++ {
		require.NoError(t, s.Append(ctx, newOffer("REQ123", fmt.Sprintf("DRV%d", i), t0)))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(drv string) {
			defer wg.Done()
			_, replay, err := s.Accept(ctx, "REQ123", drv, t0)
			if err == nil && !replay {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(fmt.Sprintf("DRV%d", i))
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	offers, _ := s.List(ctx, "REQ123")
	accepted := 0
	for _, o := range offers {
		if o.Status == domain.OfferAccepted {
			accepted++
		} else {
			assert.Equal(t, domain.OfferRejected, o.Status)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestOfferStore_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOfferStore().List(ctx, "REQ123")
	assert.ErrorIs(t, err, context.Canceled)
}
