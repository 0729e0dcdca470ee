package handler

import "time"

// errorResponse is the envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"   example:"validation failed: price must be greater than 0"`
}

// --- Request types ---

// Price and rating are pointers so a missing value is told apart from zero.
type createOfferRequest struct {
	TrackingID  string   `json:"trackingId"  example:"REQ123"`
	DriverID    string   `json:"driverId"    example:"DRV1"`
	DriverName  string   `json:"driverName"  example:"Ali"`
	DriverPhone string   `json:"driverPhone" example:"+966500000000"`
	Price       *float64 `json:"price"       example:"1500"`
	Rating      *float64 `json:"rating,omitempty" example:"4.8"`
}

type acceptOfferRequest struct {
	TrackingID string `json:"trackingId" example:"REQ123"`
	DriverID   string `json:"driverId"   example:"DRV1"`
}

type submitDispatchRequest struct {
	TrackingID   string `json:"trackingId"   example:"REQ123"`
	DriverID     string `json:"driverId,omitempty" example:"DRV1"`
	ETA          string `json:"eta"          example:"2026-10-18T15:30:00Z"`
	Date         string `json:"date"         example:"2026-10-18"`
	TimeWindow   string `json:"timeWindow"   example:"15:00-17:00"`
	PlateNumber  string `json:"plateNumber"  example:"ABC-1234"`
	VehicleColor string `json:"vehicleColor" example:"white"`
	VehicleType  string `json:"vehicleType"  example:"flatbed"`
	Notes        string `json:"notes,omitempty"`
}

// --- Response types ---

type offerResponse struct {
	ID          string    `json:"id"`
	TrackingID  string    `json:"trackingId"`
	DriverID    string    `json:"driverId"`
	DriverName  string    `json:"driverName"`
	DriverPhone string    `json:"driverPhone"`
	Price       float64   `json:"price"`
	Rating      *float64  `json:"rating,omitempty"`
	Status      string    `json:"status" example:"PENDING"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type dispatchResponse struct {
	TrackingID   string    `json:"trackingId"`
	DriverID     string    `json:"driverId"`
	ETA          time.Time `json:"eta"`
	Date         string    `json:"date"`
	TimeWindow   string    `json:"timeWindow"`
	PlateNumber  string    `json:"plateNumber"`
	VehicleColor string    `json:"vehicleColor"`
	VehicleType  string    `json:"vehicleType"`
	Notes        string    `json:"notes,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

type listOffersResponse struct {
	Success bool            `json:"success"`
	Offers  []offerResponse `json:"offers"`
}

type offerEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Offer   offerResponse `json:"offer"`
}

type dispatchEnvelope struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Dispatch dispatchResponse `json:"dispatch"`
}
