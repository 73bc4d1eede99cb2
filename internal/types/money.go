// README: Common money value object used across modules.
package types

import "math"

// Money is a monetary amount in a named currency. Amounts are kept unrounded
// while a price is being composed; Round2 is applied once at output.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a copy with the amount rounded to two decimal places.
func (m Money) Rounded() Money {
	return Money{Amount: Round2(m.Amount), Currency: m.Currency}
}
