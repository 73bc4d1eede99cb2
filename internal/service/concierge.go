package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"transferhub/internal/ai"
	"transferhub/internal/maps"
	"transferhub/internal/modules/quote"
)

// Geocoder resolves a free-text place description to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (maps.Place, error)
}

// QuoteSearcher runs a priced search for a structured request.
type QuoteSearcher interface {
	Search(ctx context.Context, req quote.SearchRequest) (quote.SearchResult, error)
}

// Concierge turns free-text transfer requests into priced quote searches:
// intent parsing, geocoding both endpoints, then a regular search.
type Concierge struct {
	parser          ai.IntentParser
	geocoder        Geocoder
	quotes          QuoteSearcher
	defaultCurrency string
}

func NewConcierge(parser ai.IntentParser, geocoder Geocoder, quotes QuoteSearcher, defaultCurrency string) *Concierge {
	return &Concierge{
		parser:          parser,
		geocoder:        geocoder,
		quotes:          quotes,
		defaultCurrency: defaultCurrency,
	}
}

// Response is what the concierge hands back: the assistant's reply plus the
// search result when the message yielded a complete request.
type Response struct {
	Reply  string
	Intent string
	Result *quote.SearchResult
}

// Handle processes one user message.
func (c *Concierge) Handle(ctx context.Context, message string) (Response, error) {
	intent, err := c.parser.ParseTransferIntent(ctx, message, map[string]string{
		"current_time":     time.Now().Format("2006-01-02T15:04:05"),
		"default_currency": c.defaultCurrency,
	})
	if err != nil {
		return Response{}, fmt.Errorf("intent parsing failed: %w", err)
	}

	resp := Response{Reply: intent.Reply, Intent: intent.Intent}
	if intent.Intent == "chat" || intent.PickupQuery == nil || intent.DropoffQuery == nil || intent.PickupISOTime == nil {
		return resp, nil
	}

	pickupAt, err := time.Parse("2006-01-02T15:04:05", *intent.PickupISOTime)
	if err != nil {
		log.Printf("concierge: unparseable pickup time %q: %v", *intent.PickupISOTime, err)
		return resp, nil
	}
	var returnAt *time.Time
	if intent.ReturnISOTime != nil {
		if t, err := time.Parse("2006-01-02T15:04:05", *intent.ReturnISOTime); err == nil {
			returnAt = &t
		}
	}

	pickup, err := c.geocoder.Geocode(ctx, *intent.PickupQuery)
	if err != nil {
		return Response{}, fmt.Errorf("could not locate pickup %q: %w", *intent.PickupQuery, err)
	}
	dropoff, err := c.geocoder.Geocode(ctx, *intent.DropoffQuery)
	if err != nil {
		return Response{}, fmt.Errorf("could not locate dropoff %q: %w", *intent.DropoffQuery, err)
	}

	currency := intent.Currency
	if currency == "" {
		currency = c.defaultCurrency
	}

	result, err := c.quotes.Search(ctx, quote.SearchRequest{
		Pickup:         pickup.Location,
		Dropoff:        dropoff.Location,
		PickupAt:       pickupAt,
		ReturnAt:       returnAt,
		TargetCurrency: currency,
	})
	if err != nil {
		return Response{}, err
	}
	resp.Result = &result
	return resp, nil
}
