package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/dispatch-coordinator/internal/api/metrics"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

// DispatchHandler handles the dispatch endpoints of a tracking request.
type DispatchHandler struct {
	service ports.CoordinationService
}

func NewDispatchHandler(service ports.CoordinationService) *DispatchHandler {
	return &DispatchHandler{service: service}
}

// Submit handles POST /api/transport/dispatch.
//
// @Summary      Submit vehicle details for an accepted offer
// @Tags         dispatch
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitDispatchRequest  true  "Dispatch details"
// @Success      200   {object}  dispatchEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/transport/dispatch [post]
func (h *DispatchHandler) Submit(c echo.Context) error {
	var req submitDispatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	driverID, err := actingDriver(c, req.DriverID)
	if err != nil {
		return err
	}
	req.DriverID = driverID

	res, err := h.service.SubmitDispatch(c.Request().Context(), toSubmitDispatchInput(req))
	if err != nil {
		return err
	}

	metrics.DispatchesSubmittedTotal.Inc()

	return c.JSON(http.StatusOK, dispatchEnvelope{
		Success:  true,
		Message:  res.Message,
		Dispatch: toDispatchResponse(res.Dispatch),
	})
}

// Get handles GET /api/transport/dispatch.
//
// @Summary      Get the dispatch details of a tracking request
// @Tags         dispatch
// @Produce      json
// @Security     BearerAuth
// @Param        trackingId  query     string  true  "Tracking code (e.g. REQ123)"
// @Success      200         {object}  dispatchEnvelope
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      503         {object}  errorResponse
// @Router       /api/transport/dispatch [get]
func (h *DispatchHandler) Get(c echo.Context) error {
	d, err := h.service.GetDispatch(c.Request().Context(), c.QueryParam("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dispatchEnvelope{Success: true, Dispatch: toDispatchResponse(d)})
}
