package handler

import (
	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

// --- Request → Service input ---

func toCreateOfferInput(req createOfferRequest) ports.CreateOfferInput {
	return ports.CreateOfferInput{
		TrackingID:  req.TrackingID,
		DriverID:    req.DriverID,
		DriverName:  req.DriverName,
		DriverPhone: req.DriverPhone,
		Price:       req.Price,
		Rating:      req.Rating,
	}
}

func toAcceptOfferInput(req acceptOfferRequest) ports.AcceptOfferInput {
	return ports.AcceptOfferInput{
		TrackingID: req.TrackingID,
		DriverID:   req.DriverID,
	}
}

func toSubmitDispatchInput(req submitDispatchRequest) ports.SubmitDispatchInput {
	return ports.SubmitDispatchInput{
		TrackingID:   req.TrackingID,
		DriverID:     req.DriverID,
		ETA:          req.ETA,
		Date:         req.Date,
		TimeWindow:   req.TimeWindow,
		PlateNumber:  req.PlateNumber,
		VehicleColor: req.VehicleColor,
		VehicleType:  req.VehicleType,
		Notes:        req.Notes,
	}
}

// --- Service result → HTTP response ---

func toOfferResponse(o *domain.Offer) offerResponse {
	return offerResponse{
		ID:          o.ID,
		TrackingID:  o.TrackingID,
		DriverID:    o.DriverID,
		DriverName:  o.DriverName,
		DriverPhone: o.DriverPhone,
		Price:       o.Price,
		Rating:      o.Rating,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.UTC(),
		UpdatedAt:   o.UpdatedAt.UTC(),
	}
}

func toOfferResponses(offers []domain.Offer) []offerResponse {
	out := make([]offerResponse, 0, len(offers))
	for i := range offers {
		out = append(out, toOfferResponse(&offers[i]))
	}
	return out
}

func toDispatchResponse(d *domain.Dispatch) dispatchResponse {
	return dispatchResponse{
		TrackingID:   d.TrackingID,
		DriverID:     d.DriverID,
		ETA:          d.ETA.UTC(),
		Date:         d.Date,
		TimeWindow:   d.TimeWindow,
		PlateNumber:  d.PlateNumber,
		VehicleColor: d.VehicleColor,
		VehicleType:  d.VehicleType,
		Notes:        d.Notes,
		SubmittedAt:  d.SubmittedAt.UTC(),
	}
}
