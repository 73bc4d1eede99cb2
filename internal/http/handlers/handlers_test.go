// README: Handler tests covering the search endpoint and booking authorization.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"transferhub/internal/http/handlers"
	httpmiddleware "transferhub/internal/http/middleware"
	"transferhub/internal/infra"
	"transferhub/internal/maps"
	"transferhub/internal/modules/booking"
	"transferhub/internal/modules/pricing"
	"transferhub/internal/modules/quote"
	"transferhub/internal/modules/zone"
	"transferhub/internal/types"
)

type fakeZones struct{ zones []zone.Record }

func (f *fakeZones) List(_ context.Context) ([]zone.Record, error) { return f.zones, nil }

type fakeCatalog struct{ offerings []pricing.VehicleOffering }

func (f *fakeCatalog) ListOfferingsByZone(_ context.Context, _ types.ID) ([]pricing.VehicleOffering, error) {
	return f.offerings, nil
}

func (f *fakeCatalog) SurgeFor(_ context.Context, _, _ types.ID, _ time.Time) (*pricing.SurgeCharge, error) {
	return nil, nil
}

func (f *fakeCatalog) MarginFor(_ context.Context, _ types.ID) (float64, error) { return 0, nil }

type fakeRoads struct{ miles float64 }

func (f *fakeRoads) Distance(_ context.Context, _, _ types.Point) (maps.Leg, error) {
	return maps.Leg{Miles: f.miles, DurationText: "30 mins"}, nil
}

type noopConverter struct{}

func (noopConverter) Convert(_ context.Context, amount float64, _, _ string) float64 { return amount }

// squareZone is a 2x2 degree box around the origin.
func squareZone(id, name string, radiusKm float64) zone.Record {
	geom, _ := json.Marshal([][][2]float64{{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}})
	return zone.Record{ID: types.ID(id), Name: name, RadiusKm: radiusKm, Geometry: geom}
}

func newQuoteRouter(zones []zone.Record, offerings []pricing.VehicleOffering) *gin.Engine {
	gin.SetMode(gin.TestMode)
	roads := &fakeRoads{miles: 12}
	svc := quote.NewService(
		&fakeZones{zones: zones},
		zone.NewResolver(roads),
		&fakeCatalog{offerings: offerings},
		pricing.NewEngine(noopConverter{}),
		roads,
		nil,
	)
	r := gin.New()
	h := handlers.NewQuoteHandler(svc)
	r.POST("/api/quotes/search", h.Search)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearch_ReturnsPricedQuotes(t *testing.T) {
	r := newQuoteRouter(
		[]zone.Record{squareZone("z1", "Metro", 30)},
		[]pricing.VehicleOffering{{
			ID:         "off1",
			ZoneID:     "z1",
			SupplierID: "sup1",
			BasePrice:  100,
			Currency:   "USD",
			Passengers: 3,
		}},
	)
	w := doJSON(r, http.MethodPost, "/api/quotes/search", map[string]any{
		"pickup_lat":  0.2,
		"pickup_lng":  0.2,
		"dropoff_lat": 0.5,
		"dropoff_lng": 0.5,
		"pickup_at":   "2026-06-01T14:00:00Z",
		"currency":    "USD",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ZoneName string `json:"zone_name"`
		Quotes   []struct {
			OfferingID string  `json:"offering_id"`
			Total      float64 `json:"total"`
			Currency   string  `json:"currency"`
		} `json:"quotes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.ZoneName != "Metro" {
		t.Errorf("expected zone Metro, got %q", resp.ZoneName)
	}
	if len(resp.Quotes) != 1 || resp.Quotes[0].Total != 100 || resp.Quotes[0].Currency != "USD" {
		t.Errorf("unexpected quotes: %+v", resp.Quotes)
	}
}

func TestSearch_NoCoverageIs404(t *testing.T) {
	r := newQuoteRouter([]zone.Record{squareZone("z1", "Metro", 30)}, nil)
	w := doJSON(r, http.MethodPost, "/api/quotes/search", map[string]any{
		"pickup_lat":  40.0,
		"pickup_lng":  40.0,
		"dropoff_lat": 41.0,
		"dropoff_lng": 41.0,
		"pickup_at":   "2026-06-01T14:00:00Z",
		"currency":    "USD",
	}, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSearch_BadPickupTimeIs400(t *testing.T) {
	r := newQuoteRouter([]zone.Record{squareZone("z1", "Metro", 30)}, nil)
	w := doJSON(r, http.MethodPost, "/api/quotes/search", map[string]any{
		"pickup_lat": 0.2,
		"pickup_lng": 0.2,
		"pickup_at":  "tomorrow at noon",
		"currency":   "USD",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// stubTokenVerifier is a test double for infra.TokenVerifier.
type stubTokenVerifier struct {
	token *infra.FirebaseToken
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.FirebaseToken, error) {
	return s.token, s.err
}

func makeVerifier(uid, role string) *stubTokenVerifier {
	claims := map[string]interface{}{}
	if role != "" {
		claims["role"] = role
	}
	return &stubTokenVerifier{token: &infra.FirebaseToken{UID: uid, Claims: claims}}
}

// buildBookingRouter wires the auth middleware and the booking handler. A nil
// store is safe for these tests because every request is rejected before the
// service touches persistence.
func buildBookingRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := booking.NewService(nil)
	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))
	h := handlers.NewBookingHandler(svc)
	r.POST("/api/bookings", h.Create)
	r.POST("/api/bookings/:id/confirm", h.Confirm)
	r.POST("/api/bookings/:id/assign", h.Assign)
	r.POST("/api/bookings/:id/depart", h.Depart)
	return r
}

func TestBookingCreate_Unauthenticated(t *testing.T) {
	r := buildBookingRouter(&stubTokenVerifier{err: context.DeadlineExceeded})
	w := doJSON(r, http.MethodPost, "/api/bookings", map[string]any{
		"offering_id": "off1",
	}, "Bearer badtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestBookingCreate_BadPickupTime(t *testing.T) {
	r := buildBookingRouter(makeVerifier("acct1", ""))
	w := doJSON(r, http.MethodPost, "/api/bookings", map[string]any{
		"offering_id": "off1",
		"pickup_at":   "not-a-time",
	}, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestConfirm_RequiresSupplierRole(t *testing.T) {
	r := buildBookingRouter(makeVerifier("acct1", ""))
	w := doJSON(r, http.MethodPost, "/api/bookings/b1/confirm", nil, "Bearer sometoken")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAssign_RequiresSupplierRole(t *testing.T) {
	r := buildBookingRouter(makeVerifier("drv1", "driver"))
	w := doJSON(r, http.MethodPost, "/api/bookings/b1/assign", map[string]any{
		"driver_id": "drv1",
	}, "Bearer sometoken")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestDepart_RequiresDriverRole(t *testing.T) {
	r := buildBookingRouter(makeVerifier("sup1", "supplier"))
	w := doJSON(r, http.MethodPost, "/api/bookings/b1/depart", nil, "Bearer sometoken")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
