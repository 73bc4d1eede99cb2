// Package currency converts monetary amounts between currencies.
//
// The converter is deliberately fail-open: a booking must still display a
// price, so on provider failure or a missing rate the original amount is
// returned unconverted. Resolved rates are kept in an injected cache for the
// life of the process; freshness is achieved by restart, not expiry.
package currency

import (
	"context"
	"errors"
	"log"
)

// ErrUnavailable means the rate provider could not supply a rate for a pair.
var ErrUnavailable = errors.New("exchange rate unavailable")

// RateProvider fetches the conversion rate from one currency to another.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Converter converts amounts using a RateProvider behind a RateCache.
type Converter struct {
	provider RateProvider
	cache    RateCache
}

// NewConverter wires a provider with a cache. A nil cache disables caching.
func NewConverter(provider RateProvider, cache RateCache) *Converter {
	return &Converter{provider: provider, cache: cache}
}

// Convert returns amount expressed in the target currency. Equal currencies
// short-circuit without touching the provider or the cache. On any provider
// failure the amount comes back unchanged.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) float64 {
	if from == to {
		return amount
	}

	if c.cache != nil {
		if rate, ok := c.cache.Get(ctx, from, to); ok {
			return amount * rate
		}
	}

	rate, err := c.provider.Rate(ctx, from, to)
	if err != nil {
		log.Printf("currency: rate %s->%s unavailable, returning unconverted amount: %v", from, to, err)
		return amount
	}

	if c.cache != nil {
		c.cache.Set(ctx, from, to, rate)
	}
	return amount * rate
}
