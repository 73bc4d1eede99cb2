package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiParser implements IntentParser using Google's Gemini models.
type GeminiParser struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiParser initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiParser(ctx context.Context, apiKey string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiParser{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiParser) Close() {
	p.client.Close()
}

// ParseTransferIntent analyzes user input to extract a transfer request.
func (p *GeminiParser) ParseTransferIntent(ctx context.Context, userMessage string, currentContext map[string]string) (*IntentResult, error) {
	systemPrompt := buildSystemPrompt(currentContext)
	fullPrompt := fmt.Sprintf("%s\n\nUser Message: %s", systemPrompt, userMessage)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// JSON mode should already strip markdown fences; clean up anyway.
	cleanJSON := cleanJSONString(responseText.String())

	var result IntentResult
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	return &result, nil
}

// buildSystemPrompt constructs the instructions for the model.
func buildSystemPrompt(ctxMap map[string]string) string {
	currentTime := ctxMap["current_time"]
	defaultCurrency := ctxMap["default_currency"]
	if currentTime == "" {
		currentTime = "UNKNOWN_TIME"
	}
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}

	return fmt.Sprintf(`You are the booking assistant of a private airport-transfer marketplace.
Extract the transfer request from the user's message.

Current time: %s
Default currency: %s

Respond with a single JSON object:
{
  "intent": "quote" | "booking" | "chat",
  "pickup_query": string or null,   // free-text pickup place, suitable for geocoding
  "dropoff_query": string or null,  // free-text dropoff place
  "pickup_iso_time": string or null, // absolute time YYYY-MM-DDTHH:mm:ss resolved from relative wording
  "return_iso_time": string or null, // only for round trips
  "currency": string,                // ISO 4217 code, or "" for the default
  "passengers": number,              // 0 when unstated
  "reply": string                    // one short sentence for the user
}

Rules:
- Resolve relative times ("tomorrow 9am") against the current time.
- If either place is missing for a quote, use intent "chat" and ask for it in reply.
- Never invent places or times the user did not state.`, currentTime, defaultCurrency)
}

// cleanJSONString strips markdown code fences if present.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
