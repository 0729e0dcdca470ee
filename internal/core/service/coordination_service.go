package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
	"github.com/99minutos/dispatch-coordinator/internal/core/validation"
)

const defaultLockTimeout = 5 * time.Second

var _ ports.CoordinationService = (*CoordinationService)(nil)

// CoordinationDeps groups the collaborators of CoordinationService.
// Events is optional.
type CoordinationDeps struct {
	Registry    *RegistryGateway
	Offers      ports.OfferRepository
	Dispatches  ports.DispatchRepository
	Locker      ports.Locker
	Events      ports.EventPublisher
	LockTimeout time.Duration
}

// CoordinationService runs the offer/accept/dispatch lifecycle of a tracking
// request. Every operation validates first, then resolves the registries, and
// only then mutates a store under the per-tracking-code lock.
type CoordinationService struct {
	validator   *validation.Validator
	registry    *RegistryGateway
	offers      ports.OfferRepository
	dispatches  ports.DispatchRepository
	locker      ports.Locker
	events      ports.EventPublisher
	lockTimeout time.Duration
	log         zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewCoordinationService(deps CoordinationDeps, log zerolog.Logger) *CoordinationService {
	lockTimeout := deps.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &CoordinationService{
		validator:   validation.New(),
		registry:    deps.Registry,
		offers:      deps.Offers,
		dispatches:  deps.Dispatches,
		locker:      deps.Locker,
		events:      deps.Events,
		lockTimeout: lockTimeout,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// ListOffers returns every offer placed on a known tracking request.
func (s *CoordinationService) ListOffers(ctx context.Context, trackingID string) ([]domain.Offer, error) {
	trackingID = strings.TrimSpace(trackingID)
	if err := s.validator.ValidateTrackingID(trackingID); err != nil {
		return nil, err
	}
	if _, err := s.registry.FindRequest(ctx, trackingID); err != nil {
		return nil, err
	}

	offers, err := s.offers.List(ctx, trackingID)
	if err != nil {
		return nil, storeErr("list offers", err, trackingID)
	}
	if offers == nil {
		offers = []domain.Offer{}
	}
	return offers, nil
}

// CreateOffer records a new PENDING bid from a known driver on an open request.
func (s *CoordinationService) CreateOffer(ctx context.Context, in ports.CreateOfferInput) (*ports.OfferResult, error) {
	in.TrackingID = strings.TrimSpace(in.TrackingID)
	in.DriverID = strings.TrimSpace(in.DriverID)
	in.DriverName = strings.TrimSpace(in.DriverName)
	in.DriverPhone = strings.TrimSpace(in.DriverPhone)

	// 1. Validation always precedes lookups.
	if err := s.validator.ValidateOfferInput(in); err != nil {
		return nil, err
	}

	// 2. Request first, then driver.
	req, err := s.registry.FindRequest(ctx, in.TrackingID)
	if err != nil {
		return nil, err
	}
	if !req.Status.AcceptsOffers() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrRequestNotEligible, in.TrackingID, req.Status)
	}
	if _, err := s.registry.FindDriver(ctx, in.DriverID); err != nil {
		return nil, err
	}

	// 3. Append under the tracking-code lock.
	now := s.now()
	offer := &domain.Offer{
		ID:          s.newID(),
		TrackingID:  in.TrackingID,
		DriverID:    in.DriverID,
		DriverName:  in.DriverName,
		DriverPhone: in.DriverPhone,
		Price:       *in.Price,
		Rating:      in.Rating,
		Status:      domain.OfferPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.withLock(ctx, in.TrackingID, func() error {
		if err := s.offers.Append(ctx, offer); err != nil {
			return storeErr("append offer", err, fmt.Sprintf("driver %s on %s", in.DriverID, in.TrackingID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Follow-ups never undo the committed offer.
	if req.Status == domain.RequestOpen {
		s.advance(ctx, in.TrackingID, domain.RequestOffered)
	}
	s.publish(ctx, domain.LifecycleEvent{
		Type:       domain.EventOfferCreated,
		TrackingID: in.TrackingID,
		DriverID:   in.DriverID,
		OccurredAt: now,
		Offer:      offer,
	})

	s.log.Info().
		Str("tracking_id", in.TrackingID).
		Str("driver_id", in.DriverID).
		Float64("price", offer.Price).
		Msg("offer created")

	return &ports.OfferResult{Offer: offer, Message: "offer submitted successfully"}, nil
}

// AcceptOffer selects the driver's offer as the single winner for the request.
// Accepting the already-accepted pair again succeeds without touching the
// offers and without publishing an event.
func (s *CoordinationService) AcceptOffer(ctx context.Context, in ports.AcceptOfferInput) (*ports.OfferResult, error) {
	in.TrackingID = strings.TrimSpace(in.TrackingID)
	in.DriverID = strings.TrimSpace(in.DriverID)

	if err := s.validator.ValidateAcceptInput(in); err != nil {
		return nil, err
	}
	if _, err := s.registry.FindRequest(ctx, in.TrackingID); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		offer  *domain.Offer
		replay bool
	)
	err := s.withLock(ctx, in.TrackingID, func() error {
		var err error
		offer, replay, err = s.offers.Accept(ctx, in.TrackingID, in.DriverID, now)
		if err != nil {
			return storeErr("accept offer", err, fmt.Sprintf("driver %s on %s", in.DriverID, in.TrackingID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replay {
		// Retries the status move in case the first accept's advance failed.
		s.advance(ctx, in.TrackingID, domain.RequestAccepted)
		s.log.Debug().Str("tracking_id", in.TrackingID).Str("driver_id", in.DriverID).Msg("accept replayed")
		return &ports.OfferResult{Offer: offer, Message: "offer already accepted", Replayed: true}, nil
	}

	s.advance(ctx, in.TrackingID, domain.RequestAccepted)
	s.publish(ctx, domain.LifecycleEvent{
		Type:       domain.EventOfferAccepted,
		TrackingID: in.TrackingID,
		DriverID:   in.DriverID,
		OccurredAt: now,
		Offer:      offer,
	})

	s.log.Info().
		Str("tracking_id", in.TrackingID).
		Str("driver_id", in.DriverID).
		Float64("price", offer.Price).
		Msg("offer accepted")

	return &ports.OfferResult{Offer: offer, Message: "offer accepted successfully"}, nil
}

// SubmitDispatch stores the vehicle details for a request with an accepted offer.
func (s *CoordinationService) SubmitDispatch(ctx context.Context, in ports.SubmitDispatchInput) (*ports.DispatchResult, error) {
	in.TrackingID = strings.TrimSpace(in.TrackingID)
	in.DriverID = strings.TrimSpace(in.DriverID)
	in.ETA = strings.TrimSpace(in.ETA)
	in.Date = strings.TrimSpace(in.Date)
	in.TimeWindow = strings.TrimSpace(in.TimeWindow)
	in.PlateNumber = strings.TrimSpace(in.PlateNumber)
	in.VehicleColor = strings.TrimSpace(in.VehicleColor)
	in.VehicleType = strings.TrimSpace(in.VehicleType)

	if err := s.validator.ValidateDispatchInput(in); err != nil {
		return nil, err
	}
	eta, err := validation.ParseTimestamp(in.ETA)
	if err != nil {
		return nil, fmt.Errorf("%w: eta %s", domain.ErrValidation, err.Error())
	}

	if _, err := s.registry.FindRequest(ctx, in.TrackingID); err != nil {
		return nil, err
	}

	now := s.now()
	var dispatch *domain.Dispatch
	err = s.withLock(ctx, in.TrackingID, func() error {
		accepted, err := s.offers.FindAccepted(ctx, in.TrackingID)
		if err != nil {
			return storeErr("find accepted offer", err, in.TrackingID)
		}
		if in.DriverID != "" && in.DriverID != accepted.DriverID {
			return fmt.Errorf("%w: %s", domain.ErrDispatchDriverMismatch, in.TrackingID)
		}

		dispatch = &domain.Dispatch{
			TrackingID:   in.TrackingID,
			DriverID:     accepted.DriverID,
			ETA:          eta,
			Date:         in.Date,
			TimeWindow:   in.TimeWindow,
			PlateNumber:  in.PlateNumber,
			VehicleColor: in.VehicleColor,
			VehicleType:  in.VehicleType,
			Notes:        strings.TrimSpace(in.Notes),
			SubmittedAt:  now,
		}
		if err := s.dispatches.Create(ctx, dispatch); err != nil {
			return storeErr("create dispatch", err, in.TrackingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.advance(ctx, in.TrackingID, domain.RequestDispatched)
	s.publish(ctx, domain.LifecycleEvent{
		Type:       domain.EventDispatchSubmitted,
		TrackingID: in.TrackingID,
		DriverID:   dispatch.DriverID,
		OccurredAt: now,
		Dispatch:   dispatch,
	})

	s.log.Info().
		Str("tracking_id", in.TrackingID).
		Str("driver_id", dispatch.DriverID).
		Str("plate_number", dispatch.PlateNumber).
		Msg("dispatch submitted")

	return &ports.DispatchResult{Dispatch: dispatch, Message: "dispatch details saved successfully"}, nil
}

// GetDispatch returns the dispatch record of a known tracking request.
func (s *CoordinationService) GetDispatch(ctx context.Context, trackingID string) (*domain.Dispatch, error) {
	trackingID = strings.TrimSpace(trackingID)
	if err := s.validator.ValidateTrackingID(trackingID); err != nil {
		return nil, err
	}
	if _, err := s.registry.FindRequest(ctx, trackingID); err != nil {
		return nil, err
	}

	d, err := s.dispatches.Find(ctx, trackingID)
	if err != nil {
		return nil, storeErr("find dispatch", err, trackingID)
	}
	return d, nil
}

// withLock runs fn while holding the lock for trackingID. Only acquisition is
// bounded by lockTimeout.
func (s *CoordinationService) withLock(ctx context.Context, trackingID string, fn func() error) error {
	acquireCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	unlock, err := s.locker.Lock(acquireCtx, "tracking:"+trackingID)
	if err != nil {
		s.log.Warn().Err(err).Str("tracking_id", trackingID).Msg("lock not acquired")
		return fmt.Errorf("%w: tracking request %s is busy, retry later", domain.ErrUnavailable, trackingID)
	}
	defer unlock()

	return fn()
}

func (s *CoordinationService) advance(ctx context.Context, trackingID string, status domain.RequestStatus) {
	if err := s.registry.AdvanceRequest(ctx, trackingID, status); err != nil {
		s.log.Warn().Err(err).Str("tracking_id", trackingID).Str("status", string(status)).Msg("failed to advance request status")
	}
}

func (s *CoordinationService) publish(ctx context.Context, ev domain.LifecycleEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("tracking_id", ev.TrackingID).Str("event", string(ev.Type)).Msg("failed to publish lifecycle event")
	}
}

// storeErr keeps domain errors readable for the caller and tags
// infrastructure failures with the operation that hit them.
func storeErr(op string, err error, subject string) error {
	if domain.IsDomainError(err) {
		return fmt.Errorf("%w: %s", err, subject)
	}
	return fmt.Errorf("%s: %w", op, err)
}
