package ports

import (
	"context"
	"time"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// OfferRepository stores the offers placed against each tracking request.
// Every method is atomic with respect to the tracking code it touches.
type OfferRepository interface {
	// List returns the offers for trackingID ordered by creation time.
	// A code with no offers yields an empty slice and no error.
	List(ctx context.Context, trackingID string) ([]domain.Offer, error)

	// Append stores a new PENDING offer. It fails with domain.ErrDuplicateOffer
	// when the driver already holds a non-rejected offer for the code, and with
	// domain.ErrRequestNotEligible when an offer has already been accepted.
	Append(ctx context.Context, offer *domain.Offer) error

	// Accept marks the driver's PENDING offer as ACCEPTED and every sibling
	// PENDING offer as REJECTED in one step. Accepting the pair that is already
	// ACCEPTED returns it unchanged with replay=true.
	Accept(ctx context.Context, trackingID, driverID string, at time.Time) (offer *domain.Offer, replay bool, err error)

	// FindAccepted returns the ACCEPTED offer, or domain.ErrNoAcceptedOffer.
	FindAccepted(ctx context.Context, trackingID string) (*domain.Offer, error)
}
