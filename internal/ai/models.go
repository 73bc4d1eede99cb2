package ai

// IntentResult captures the structured output from the model.
type IntentResult struct {
	// Intent describes the user's primary goal: "quote", "booking" or "chat".
	Intent string `json:"intent"`

	// PickupQuery and DropoffQuery are free-text place descriptions to be
	// geocoded. Nullable because a "chat" intent has neither.
	PickupQuery  *string `json:"pickup_query,omitempty"`
	DropoffQuery *string `json:"dropoff_query,omitempty"`

	// PickupISOTime is the absolute outbound timestamp (YYYY-MM-DDTHH:mm:ss)
	// resolved from the user's relative wording and the current context.
	PickupISOTime *string `json:"pickup_iso_time,omitempty"`

	// ReturnISOTime is set only when the user asked for a round trip.
	ReturnISOTime *string `json:"return_iso_time,omitempty"`

	// Currency is the ISO 4217 code the user wants prices in, or empty to
	// use the account default.
	Currency string `json:"currency,omitempty"`

	// Passengers is how many seats the user needs, 0 when unstated.
	Passengers int `json:"passengers,omitempty"`

	// Reply is a short, polite response shown to the user.
	Reply string `json:"reply"`
}
