package domain

import "time"

// OfferStatus represents the state of a driver's bid.
type OfferStatus string

const (
	OfferPending  OfferStatus = "PENDING"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferRejected OfferStatus = "REJECTED"
)

// IsActive reports whether the offer still blocks the driver from bidding again.
func (s OfferStatus) IsActive() bool {
	return s == OfferPending || s == OfferAccepted
}

// Driver is a record from the external driver directory.
type Driver struct {
	DriverID string `json:"driver_id" bson:"driver_id"`
	Name     string `json:"name" bson:"name"`
	Phone    string `json:"phone" bson:"phone"`
	Active   bool   `json:"active" bson:"active"`
}

// Offer is a driver's price bid against a tracking request.
type Offer struct {
	ID          string      `json:"id" bson:"id"`
	TrackingID  string      `json:"tracking_id" bson:"tracking_id"`
	DriverID    string      `json:"driver_id" bson:"driver_id"`
	DriverName  string      `json:"driver_name" bson:"driver_name"`
	DriverPhone string      `json:"driver_phone" bson:"driver_phone"`
	Price       float64     `json:"price" bson:"price"`
	Rating      *float64    `json:"rating,omitempty" bson:"rating,omitempty"`
	Status      OfferStatus `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// Dispatch holds the vehicle details the accepted driver submits.
type Dispatch struct {
	TrackingID   string    `json:"tracking_id" bson:"_id"`
	DriverID     string    `json:"driver_id" bson:"driver_id"`
	ETA          time.Time `json:"eta" bson:"eta"`
	Date         string    `json:"date" bson:"date"`
	TimeWindow   string    `json:"time_window" bson:"time_window"`
	PlateNumber  string    `json:"plate_number" bson:"plate_number"`
	VehicleColor string    `json:"vehicle_color" bson:"vehicle_color"`
	VehicleType  string    `json:"vehicle_type" bson:"vehicle_type"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at" bson:"submitted_at"`
}

// EventType names a lifecycle event emitted after a committed mutation.
type EventType string

const (
	EventOfferCreated      EventType = "offer.created"
	EventOfferAccepted     EventType = "offer.accepted"
	EventDispatchSubmitted EventType = "dispatch.submitted"
)

// LifecycleEvent is published to downstream consumers once a mutation succeeds.
type LifecycleEvent struct {
	Type       EventType `json:"type"`
	TrackingID string    `json:"tracking_id"`
	DriverID   string    `json:"driver_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Offer      *Offer    `json:"offer,omitempty"`
	Dispatch   *Dispatch `json:"dispatch,omitempty"`
}
