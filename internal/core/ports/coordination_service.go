package ports

import (
	"context"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// CreateOfferInput carries a driver's bid. Price and Rating are pointers so a
// missing value can be told apart from zero.
type CreateOfferInput struct {
	TrackingID  string   `name:"trackingId"  validate:"required,trackingid"`
	DriverID    string   `name:"driverId"    validate:"required"`
	DriverName  string   `name:"driverName"  validate:"required"`
	DriverPhone string   `name:"driverPhone" validate:"required,phone"`
	Price       *float64 `name:"price"       validate:"required,gt=0"`
	Rating      *float64 `name:"rating"      validate:"omitempty,gte=0,lte=5"`
}

// AcceptOfferInput selects the winning offer for a tracking request.
type AcceptOfferInput struct {
	TrackingID string `name:"trackingId" validate:"required,trackingid"`
	DriverID   string `name:"driverId"   validate:"required"`
}

// SubmitDispatchInput carries the vehicle details of the accepted driver.
// DriverID is optional; when set it must match the accepted driver.
type SubmitDispatchInput struct {
	TrackingID   string `name:"trackingId"   validate:"required,trackingid"`
	DriverID     string `name:"driverId"`
	ETA          string `name:"eta"          validate:"required,iso8601"`
	Date         string `name:"date"         validate:"required"`
	TimeWindow   string `name:"timeWindow"   validate:"required"`
	PlateNumber  string `name:"plateNumber"  validate:"required"`
	VehicleColor string `name:"vehicleColor" validate:"required"`
	VehicleType  string `name:"vehicleType"  validate:"required"`
	Notes        string `name:"notes"`
}

// OfferResult is returned by the mutating offer operations.
type OfferResult struct {
	Offer   *domain.Offer
	Message string
	// Replayed is true when AcceptOffer matched an offer that was already accepted.
	Replayed bool
}

// DispatchResult is returned by SubmitDispatch.
type DispatchResult struct {
	Dispatch *domain.Dispatch
	Message  string
}

// CoordinationService defines the use-case operations of the dispatch core.
type CoordinationService interface {
	ListOffers(ctx context.Context, trackingID string) ([]domain.Offer, error)
	CreateOffer(ctx context.Context, input CreateOfferInput) (*OfferResult, error)
	AcceptOffer(ctx context.Context, input AcceptOfferInput) (*OfferResult, error)
	SubmitDispatch(ctx context.Context, input SubmitDispatchInput) (*DispatchResult, error)
	GetDispatch(ctx context.Context, trackingID string) (*domain.Dispatch, error)
}
