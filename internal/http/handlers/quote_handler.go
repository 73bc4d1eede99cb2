// README: Quote search handler.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transferhub/internal/modules/pricing"
	"transferhub/internal/modules/quote"
	"transferhub/internal/types"
)

type QuoteHandler struct {
	quotes *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: svc}
}

type quoteSearchReq struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
	PickupAt   string  `json:"pickup_at"`
	ReturnAt   string  `json:"return_at"`
	Currency   string  `json:"currency"`
}

type quoteView struct {
	OfferingID  types.ID `json:"offering_id"`
	SupplierID  types.ID `json:"supplier_id"`
	VehicleType string   `json:"vehicle_type"`
	Brand       string   `json:"brand,omitempty"`
	Model       string   `json:"model,omitempty"`
	Passengers  int      `json:"passengers"`
	HandBags    int      `json:"hand_bags"`
	CheckBags   int      `json:"check_bags"`
	Total       float64  `json:"total"`
	Currency    string   `json:"currency"`
}

type supplierOfferView struct {
	Supplier    string  `json:"supplier"`
	VehicleType string  `json:"vehicle_type"`
	Passengers  int     `json:"passengers"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
}

type quoteSearchResp struct {
	ZoneName       string              `json:"zone_name"`
	RoadMiles      float64             `json:"road_miles"`
	StraightMiles  float64             `json:"straight_miles"`
	DurationText   string              `json:"duration_text,omitempty"`
	Quotes         []quoteView         `json:"quotes"`
	SupplierOffers []supplierOfferView `json:"supplier_offers"`
}

// Search handles POST /api/quotes/search.
func (h *QuoteHandler) Search(c *gin.Context) {
	var req quoteSearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	pickupAt, err := time.Parse(time.RFC3339, req.PickupAt)
	if err != nil {
		writeError(c, http.StatusBadRequest, "pickup_at must be RFC 3339")
		return
	}
	var returnAt *time.Time
	if req.ReturnAt != "" {
		t, err := time.Parse(time.RFC3339, req.ReturnAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "return_at must be RFC 3339")
			return
		}
		returnAt = &t
	}

	result, err := h.quotes.Search(c.Request.Context(), quote.SearchRequest{
		Pickup:         types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:        types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		PickupAt:       pickupAt,
		ReturnAt:       returnAt,
		TargetCurrency: req.Currency,
	})
	if err != nil {
		writeSearchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toSearchResp(result))
}

func toSearchResp(r quote.SearchResult) quoteSearchResp {
	resp := quoteSearchResp{
		ZoneName:       r.ZoneName,
		RoadMiles:      r.RoadMiles,
		StraightMiles:  r.StraightMiles,
		DurationText:   r.DurationText,
		Quotes:         make([]quoteView, 0, len(r.Quotes)),
		SupplierOffers: make([]supplierOfferView, 0, len(r.SupplierOffers)),
	}
	for _, q := range r.Quotes {
		resp.Quotes = append(resp.Quotes, toQuoteView(q))
	}
	for _, o := range r.SupplierOffers {
		resp.SupplierOffers = append(resp.SupplierOffers, supplierOfferView{
			Supplier:    o.Supplier,
			VehicleType: o.VehicleType,
			Passengers:  o.Passengers,
			Total:       o.Total.Amount,
			Currency:    o.Total.Currency,
		})
	}
	return resp
}

func toQuoteView(q pricing.Quote) quoteView {
	return quoteView{
		OfferingID:  q.OfferingID,
		SupplierID:  q.SupplierID,
		VehicleType: q.VehicleType,
		Brand:       q.Brand,
		Model:       q.Model,
		Passengers:  q.Passengers,
		HandBags:    q.HandBags,
		CheckBags:   q.CheckBags,
		Total:       q.Total.Amount,
		Currency:    q.Total.Currency,
	}
}
