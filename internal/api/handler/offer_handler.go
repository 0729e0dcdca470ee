package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/dispatch-coordinator/internal/api/metrics"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

// OfferHandler handles the offer endpoints of a tracking request.
type OfferHandler struct {
	service ports.CoordinationService
}

func NewOfferHandler(service ports.CoordinationService) *OfferHandler {
	return &OfferHandler{service: service}
}

// List handles GET /api/transport/offers.
//
// @Summary      List the offers of a tracking request
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        trackingId  query     string  true  "Tracking code (e.g. REQ123)"
// @Success      200         {object}  listOffersResponse
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      503         {object}  errorResponse
// @Router       /api/transport/offers [get]
func (h *OfferHandler) List(c echo.Context) error {
	offers, err := h.service.ListOffers(c.Request().Context(), c.QueryParam("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listOffersResponse{Success: true, Offers: toOfferResponses(offers)})
}

// Create handles POST /api/transport/offers.
//
// @Summary      Submit a driver offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfferRequest  true  "Offer"
// @Success      200   {object}  offerEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/transport/offers [post]
func (h *OfferHandler) Create(c echo.Context) error {
	var req createOfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	driverID, err := actingDriver(c, req.DriverID)
	if err != nil {
		return err
	}
	req.DriverID = driverID

	res, err := h.service.CreateOffer(c.Request().Context(), toCreateOfferInput(req))
	if err != nil {
		return err
	}

	metrics.OffersCreatedTotal.Inc()
	metrics.OfferPrice.Observe(res.Offer.Price)

	return c.JSON(http.StatusOK, offerEnvelope{
		Success: true,
		Message: res.Message,
		Offer:   toOfferResponse(res.Offer),
	})
}

// Accept handles PATCH /api/transport/offers.
//
// @Summary      Accept one offer of a tracking request
// @Description  Marks the driver's offer ACCEPTED and every other pending offer REJECTED. Repeating the call for the accepted driver succeeds without changes.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      acceptOfferRequest  true  "Offer to accept"
// @Success      200   {object}  offerEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/transport/offers [patch]
func (h *OfferHandler) Accept(c echo.Context) error {
	var req acceptOfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.AcceptOffer(c.Request().Context(), toAcceptOfferInput(req))
	if err != nil {
		return err
	}

	result := "accepted"
	if res.Replayed {
		result = "replayed"
	}
	metrics.OffersAcceptedTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, offerEnvelope{
		Success: true,
		Message: res.Message,
		Offer:   toOfferResponse(res.Offer),
	})
}
