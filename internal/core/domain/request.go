package domain

import "time"

// RequestStatus represents the lifecycle state of a transport request.
type RequestStatus string

const (
	RequestOpen       RequestStatus = "OPEN"
	RequestOffered    RequestStatus = "OFFERED"
	RequestAccepted   RequestStatus = "ACCEPTED"
	RequestDispatched RequestStatus = "DISPATCHED"
)

// validTransitions defines the allowed forward moves. A request never regresses.
var validTransitions = map[RequestStatus][]RequestStatus{
	RequestOpen:     {RequestOffered, RequestAccepted, RequestDispatched},
	RequestOffered:  {RequestAccepted, RequestDispatched},
	RequestAccepted: {RequestDispatched},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsOffers reports whether drivers may still bid on a request in this status.
func (s RequestStatus) AcceptsOffers() bool {
	return s == RequestOpen || s == RequestOffered
}

// Predecessors returns every status that may advance to s.
func (s RequestStatus) Predecessors() []RequestStatus {
	var out []RequestStatus
	for from := range validTransitions {
		if from.CanTransitionTo(s) {
			out = append(out, from)
		}
	}
	return out
}

// TrackingRequest is a transport request published on the external request board.
type TrackingRequest struct {
	TrackingID  string        `json:"tracking_id" bson:"tracking_id"`
	Status      RequestStatus `json:"status" bson:"status"`
	RequesterID string        `json:"requester_id,omitempty" bson:"requester_id,omitempty"`
	Origin      string        `json:"origin,omitempty" bson:"origin,omitempty"`
	Destination string        `json:"destination,omitempty" bson:"destination,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}
