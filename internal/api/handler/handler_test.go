package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/dispatch-coordinator/internal/api/middleware"
	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

type stubService struct {
	listFn     func(ctx context.Context, trackingID string) ([]domain.Offer, error)
	createFn   func(ctx context.Context, in ports.CreateOfferInput) (*ports.OfferResult, error)
	acceptFn   func(ctx context.Context, in ports.AcceptOfferInput) (*ports.OfferResult, error)
	dispatchFn func(ctx context.Context, in ports.SubmitDispatchInput) (*ports.DispatchResult, error)
	getFn      func(ctx context.Context, trackingID string) (*domain.Dispatch, error)
}

func (s *stubService) ListOffers(ctx context.Context, trackingID string) ([]domain.Offer, error) {
	return s.listFn(ctx, trackingID)
}

func (s *stubService) CreateOffer(ctx context.Context, in ports.CreateOfferInput) (*ports.OfferResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubService) AcceptOffer(ctx context.Context, in ports.AcceptOfferInput) (*ports.OfferResult, error) {
	return s.acceptFn(ctx, in)
}

func (s *stubService) SubmitDispatch(ctx context.Context, in ports.SubmitDispatchInput) (*ports.DispatchResult, error) {
	return s.dispatchFn(ctx, in)
}

func (s *stubService) GetDispatch(ctx context.Context, trackingID string) (*domain.Dispatch, error) {
	return s.getFn(ctx, trackingID)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

var at = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func TestOfferHandler_List(t *testing.T) {
	stub := &stubService{
		listFn: func(_ context.Context, trackingID string) ([]domain.Offer, error) {
			if trackingID != "REQ123" {
				t.Fatalf("unexpected tracking id %q", trackingID)
			}
			return []domain.Offer{
				{ID: "o1", TrackingID: "REQ123", DriverID: "DRV1", Price: 1500, Status: domain.OfferPending, CreatedAt: at},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/transport/offers?trackingId=REQ123", "")

	if err := NewOfferHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success, got %v", resp)
	}
	offers, ok := resp["offers"].([]any)
	if !ok || len(offers) != 1 {
		t.Fatalf("expected one offer, got %v", resp["offers"])
	}
	offer := offers[0].(map[string]any)
	if offer["driverId"] != "DRV1" || offer["status"] != "PENDING" || offer["trackingId"] != "REQ123" {
		t.Errorf("unexpected offer payload %v", offer)
	}
	if _, present := offer["rating"]; present {
		t.Errorf("absent rating must be omitted")
	}
}

func TestOfferHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubService{listFn: func(context.Context, string) ([]domain.Offer, error) { return []domain.Offer{}, nil }}
	c, rec := newContext(http.MethodGet, "/api/transport/offers?trackingId=REQ123", "")

	if err := NewOfferHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"offers":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestOfferHandler_Create(t *testing.T) {
	stub := &stubService{
		createFn: func(_ context.Context, in ports.CreateOfferInput) (*ports.OfferResult, error) {
			if in.TrackingID != "REQ123" || in.DriverID != "DRV1" || in.Price == nil || *in.Price != 1500 || in.Rating != nil {
				t.Fatalf("unexpected input %+v", in)
			}
			return &ports.OfferResult{
				Offer:   &domain.Offer{ID: "o1", TrackingID: in.TrackingID, DriverID: in.DriverID, Price: *in.Price, Status: domain.OfferPending},
				Message: "offer submitted successfully",
			}, nil
		},
	}
	body := `{"trackingId":"REQ123","driverId":"DRV1","driverName":"Ali","driverPhone":"+966500000000","price":1500}`
	c, rec := newContext(http.MethodPost, "/api/transport/offers", body)

	if err := NewOfferHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["message"] != "offer submitted successfully" {
		t.Errorf("unexpected message %v", resp["message"])
	}
	if resp["offer"].(map[string]any)["price"] != 1500.0 {
		t.Errorf("unexpected offer %v", resp["offer"])
	}
}

func TestOfferHandler_Create_NonNumericPrice(t *testing.T) {
	stub := &stubService{createFn: func(context.Context, ports.CreateOfferInput) (*ports.OfferResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	c, _ := newContext(http.MethodPost, "/api/transport/offers", `{"trackingId":"REQ123","price":"abc"}`)

	err := NewOfferHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "price must be a number") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestOfferHandler_Create_DriverActsForItself(t *testing.T) {
	var got string
	stub := &stubService{createFn: func(_ context.Context, in ports.CreateOfferInput) (*ports.OfferResult, error) {
		got = in.DriverID
		return &ports.OfferResult{Offer: &domain.Offer{DriverID: in.DriverID}}, nil
	}}
	h := NewOfferHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/transport/offers", `{"trackingId":"REQ123","price":10}`)
	c.Set(middleware.ContextRole, domain.RoleDriver)
	c.Set(middleware.ContextSubject, "DRV7")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "DRV7" {
		t.Errorf("expected driver id from token, got %q", got)
	}

	c, _ = newContext(http.MethodPost, "/api/transport/offers", `{"trackingId":"REQ123","driverId":"DRV1","price":10}`)
	c.Set(middleware.ContextRole, domain.RoleDriver)
	c.Set(middleware.ContextSubject, "DRV7")
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestOfferHandler_Accept(t *testing.T) {
	stub := &stubService{acceptFn: func(_ context.Context, in ports.AcceptOfferInput) (*ports.OfferResult, error) {
		return &ports.OfferResult{
			Offer:    &domain.Offer{TrackingID: in.TrackingID, DriverID: in.DriverID, Status: domain.OfferAccepted},
			Message:  "offer already accepted",
			Replayed: true,
		}, nil
	}}
	c, rec := newContext(http.MethodPatch, "/api/transport/offers", `{"trackingId":"REQ123","driverId":"DRV1"}`)

	if err := NewOfferHandler(stub).Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["offer"].(map[string]any)["status"] != "ACCEPTED" || resp["message"] != "offer already accepted" {
		t.Errorf("unexpected payload %v", resp)
	}
}

func TestOfferHandler_PropagatesServiceErrors(t *testing.T) {
	stub := &stubService{acceptFn: func(context.Context, ports.AcceptOfferInput) (*ports.OfferResult, error) {
		return nil, domain.ErrOfferAlreadyAccepted
	}}
	c, _ := newContext(http.MethodPatch, "/api/transport/offers", `{"trackingId":"REQ123","driverId":"DRV2"}`)

	if err := NewOfferHandler(stub).Accept(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDispatchHandler_Submit(t *testing.T) {
	stub := &stubService{dispatchFn: func(_ context.Context, in ports.SubmitDispatchInput) (*ports.DispatchResult, error) {
		if in.ETA != "2026-10-18T15:30:00Z" || in.PlateNumber != "ABC-1234" {
			t.Fatalf("unexpected input %+v", in)
		}
		return &ports.DispatchResult{
			Dispatch: &domain.Dispatch{
				TrackingID:  in.TrackingID,
				DriverID:    "DRV1",
				ETA:         time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC),
				PlateNumber: in.PlateNumber,
			},
			Message: "dispatch details saved successfully",
		}, nil
	}}
	body := `{"trackingId":"REQ123","eta":"2026-10-18T15:30:00Z","date":"2026-10-18","timeWindow":"15:00-17:00","plateNumber":"ABC-1234","vehicleColor":"white","vehicleType":"flatbed"}`
	c, rec := newContext(http.MethodPost, "/api/transport/dispatch", body)

	if err := NewDispatchHandler(stub).Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	d := resp["dispatch"].(map[string]any)
	if d["plateNumber"] != "ABC-1234" || d["eta"] != "2026-10-18T15:30:00Z" {
		t.Errorf("unexpected dispatch payload %v", d)
	}
}

func TestDispatchHandler_Get(t *testing.T) {
	stub := &stubService{getFn: func(_ context.Context, trackingID string) (*domain.Dispatch, error) {
		if trackingID == "REQ123" {
			return &domain.Dispatch{TrackingID: trackingID, DriverID: "DRV1"}, nil
		}
		return nil, domain.ErrDispatchNotFound
	}}
	h := NewDispatchHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/transport/dispatch?trackingId=REQ123", "")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, present := decode(t, rec)["message"]; present {
		t.Errorf("message must be omitted on reads")
	}

	c, _ = newContext(http.MethodGet, "/api/transport/dispatch?trackingId=REQ9", "")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
