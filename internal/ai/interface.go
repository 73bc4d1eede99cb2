package ai

import (
	"context"
)

// IntentParser extracts a structured transfer request from natural language.
// The interface allows swapping providers (Gemini, OpenAI, ...) later.
type IntentParser interface {
	// ParseTransferIntent analyzes the user's message and extracts pickup,
	// dropoff, times and currency. contextMap carries dynamic information
	// like "current_time" and "default_currency".
	ParseTransferIntent(ctx context.Context, userMessage string, currentContext map[string]string) (*IntentResult, error)
}
