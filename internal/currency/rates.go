package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type exchangeRateAPIResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"conversion_rates"`
}

// ExchangeRateAPI fetches live rates from exchangerate-api.com.
type ExchangeRateAPI struct {
	apiKey string
	client *http.Client
}

// NewExchangeRateAPI creates a provider with the given API key. Requests are
// bounded by timeout so a slow upstream degrades into the fail-open path.
func NewExchangeRateAPI(apiKey string, timeout time.Duration) *ExchangeRateAPI {
	return &ExchangeRateAPI{
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Rate fetches the from->to conversion rate.
func (p *ExchangeRateAPI) Rate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("https://v6.exchangerate-api.com/v6/%s/latest/%s", p.apiKey, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var rateResp exchangeRateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateResp); err != nil {
		return 0, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if rateResp.Result != "success" {
		return 0, fmt.Errorf("%w: provider returned failure result", ErrUnavailable)
	}

	rate, ok := rateResp.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s", ErrUnavailable, to)
	}
	return rate, nil
}
