// README: Booking handlers for the reservation lifecycle.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transferhub/internal/http/middleware"
	"transferhub/internal/modules/booking"
	"transferhub/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type createBookingReq struct {
	OfferingID string  `json:"offering_id"`
	SupplierID string  `json:"supplier_id"`
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
	PickupAt   string  `json:"pickup_at"`
	ReturnAt   string  `json:"return_at"`
	ZoneName   string  `json:"zone_name"`
	RoadMiles  float64 `json:"road_miles"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency"`
}

type bookingView struct {
	ID        types.ID       `json:"booking_id"`
	Status    booking.Status `json:"status"`
	DriverID  *types.ID      `json:"driver_id,omitempty"`
	PickupAt  time.Time      `json:"pickup_at"`
	ReturnAt  *time.Time     `json:"return_at,omitempty"`
	ZoneName  string         `json:"zone_name"`
	RoadMiles float64        `json:"road_miles"`
	Total     float64        `json:"total"`
	Currency  string         `json:"currency"`
	CreatedAt time.Time      `json:"created_at"`
}

func toBookingView(b *booking.Booking) bookingView {
	return bookingView{
		ID:        b.ID,
		Status:    b.Status,
		DriverID:  b.DriverID,
		PickupAt:  b.PickupAt,
		ReturnAt:  b.ReturnAt,
		ZoneName:  b.ZoneName,
		RoadMiles: b.RoadMiles,
		Total:     b.Total.Amount,
		Currency:  b.Total.Currency,
		CreatedAt: b.CreatedAt,
	}
}

// Create handles POST /api/bookings. The caller books a previously quoted
// offering; the priced total arrives as a snapshot and is never recomputed.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
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

	id, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		AccountID:  types.ID(middleware.CallerUID(c)),
		OfferingID: types.ID(req.OfferingID),
		SupplierID: types.ID(req.SupplierID),
		Pickup:     types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:    types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		PickupAt:   pickupAt,
		ReturnAt:   returnAt,
		ZoneName:   req.ZoneName,
		RoadMiles:  req.RoadMiles,
		Total:      types.Money{Amount: req.Total, Currency: req.Currency},
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"booking_id": id, "status": booking.StatusRequested})
}

// Get handles GET /api/bookings/:id. Accounts can only read their own
// bookings; supplier and driver roles can read any.
func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing booking id")
		return
	}
	b, err := h.bookings.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	role := middleware.CallerRole(c)
	if role != "supplier" && role != "driver" && b.AccountID != types.ID(middleware.CallerUID(c)) {
		writeError(c, http.StatusForbidden, "not your booking")
		return
	}
	writeJSON(c, http.StatusOK, toBookingView(b))
}

// List handles GET /api/bookings and returns the caller's own bookings.
func (h *BookingHandler) List(c *gin.Context) {
	items, err := h.bookings.ListByAccount(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	views := make([]bookingView, 0, len(items))
	for i := range items {
		views = append(views, toBookingView(&items[i]))
	}
	writeJSON(c, http.StatusOK, map[string]any{"bookings": views})
}

// Confirm handles POST /api/bookings/:id/confirm (supplier only).
func (h *BookingHandler) Confirm(c *gin.Context) {
	if middleware.CallerRole(c) != "supplier" {
		writeError(c, http.StatusForbidden, "supplier role required")
		return
	}
	err := h.bookings.Confirm(c.Request.Context(), booking.ConfirmCommand{
		BookingID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusConfirmed})
}

type assignBookingReq struct {
	DriverID string `json:"driver_id"`
}

// Assign handles POST /api/bookings/:id/assign (supplier only).
func (h *BookingHandler) Assign(c *gin.Context) {
	if middleware.CallerRole(c) != "supplier" {
		writeError(c, http.StatusForbidden, "supplier role required")
		return
	}
	var req assignBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.bookings.Assign(c.Request.Context(), booking.AssignCommand{
		BookingID: types.ID(c.Param("id")),
		DriverID:  types.ID(req.DriverID),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusAssigned})
}

// Depart handles POST /api/bookings/:id/depart (driver only).
func (h *BookingHandler) Depart(c *gin.Context) {
	if middleware.CallerRole(c) != "driver" {
		writeError(c, http.StatusForbidden, "driver role required")
		return
	}
	err := h.bookings.Depart(c.Request.Context(), booking.DepartCommand{
		BookingID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusEnRoute})
}

// Complete handles POST /api/bookings/:id/complete (driver only).
func (h *BookingHandler) Complete(c *gin.Context) {
	if middleware.CallerRole(c) != "driver" {
		writeError(c, http.StatusForbidden, "driver role required")
		return
	}
	err := h.bookings.Complete(c.Request.Context(), booking.CompleteCommand{
		BookingID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusCompleted})
}

type cancelBookingReq struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/bookings/:id/cancel. Accounts can only cancel
// their own bookings.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id := types.ID(c.Param("id"))
	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	actorType := "account"
	role := middleware.CallerRole(c)
	if role == "supplier" {
		actorType = "supplier"
	} else if b.AccountID != types.ID(middleware.CallerUID(c)) {
		writeError(c, http.StatusForbidden, "not your booking")
		return
	}

	var req cancelBookingReq
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "user_cancel"
	}
	err = h.bookings.Cancel(c.Request.Context(), booking.CancelCommand{
		BookingID: id,
		ActorType: actorType,
		Reason:    req.Reason,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusCancelled})
}
