// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"transferhub/internal/ai"
	"transferhub/internal/config"
	"transferhub/internal/currency"
	httptransport "transferhub/internal/http"
	"transferhub/internal/infra"
	"transferhub/internal/maps"
	"transferhub/internal/modules/booking"
	"transferhub/internal/modules/pricing"
	"transferhub/internal/modules/quote"
	"transferhub/internal/modules/zone"
	"transferhub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("THUB_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.Timeout)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	rates := currency.NewExchangeRateAPI(cfg.FX.APIKey, cfg.FX.Timeout)
	rateCache := currency.NewRedisCache(redisClient, cfg.FX.CacheTTL)
	converter := currency.NewConverter(rates, rateCache)

	zoneStore := zone.NewStore(dbPool)
	resolver := zone.NewResolver(routeSvc)

	pricingStore := pricing.NewStore(dbPool)
	engine := pricing.NewEngine(converter)

	quoteSvc := quote.NewService(zoneStore, resolver, pricingStore, engine, routeSvc, nil)

	bookingStore := booking.NewPgStore(dbPool)
	bookingSvc := booking.NewService(bookingStore)

	var concierge *service.Concierge
	if cfg.AI.GeminiKey != "" {
		parser, err := ai.NewGeminiParser(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer parser.Close()
		concierge = service.NewConcierge(parser, placesSvc, quoteSvc, cfg.FX.DefaultCurrency)
	} else {
		log.Println("GEMINI_API_KEY not set; concierge endpoint disabled")
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Quotes:    quoteSvc,
		Bookings:  bookingSvc,
		Concierge: concierge,
		Verifier:  verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
