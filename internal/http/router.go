// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transferhub/internal/http/handlers"
	"transferhub/internal/http/middleware"
	"transferhub/internal/infra"
	"transferhub/internal/modules/booking"
	"transferhub/internal/modules/quote"
	"transferhub/internal/service"
)

type RouterDeps struct {
	Quotes    *quote.Service
	Bookings  *booking.Service
	Concierge *service.Concierge
	Verifier  infra.TokenVerifier
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	r.POST("/api/quotes/search", quoteHandler.Search)

	if deps.Concierge != nil {
		conciergeHandler := handlers.NewConciergeHandler(deps.Concierge)
		r.POST("/api/concierge/message", conciergeHandler.Message)
	}

	bookingHandler := handlers.NewBookingHandler(deps.Bookings)
	authed := r.Group("/api/bookings", middleware.Auth(deps.Verifier))
	authed.POST("", bookingHandler.Create)
	authed.GET("", bookingHandler.List)
	authed.GET("/:id", bookingHandler.Get)
	authed.POST("/:id/confirm", bookingHandler.Confirm)
	authed.POST("/:id/assign", bookingHandler.Assign)
	authed.POST("/:id/depart", bookingHandler.Depart)
	authed.POST("/:id/complete", bookingHandler.Complete)
	authed.POST("/:id/cancel", bookingHandler.Cancel)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
