package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/osse101/zombie-showcase-server/internal/domain"
)

// RatesClient fetches the current exchange-rate table from the third-party
// currency API. The API returns an array of tables; only the first is used.
type RatesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRatesClient creates a client for the exchange-rate API.
func NewRatesClient(baseURL string) *RatesClient {
	return &RatesClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

type ratesTable struct {
	Rates []ratePayload `json:"rates"`
}

type ratePayload struct {
	Currency string  `json:"currency"`
	Code     string  `json:"code"`
	Ask      float64 `json:"ask"`
	Bid      float64 `json:"bid"`
}

// FetchRates returns the current rate table. Each rate's document id is its
// currency code, so rates can later be fetched by code directly.
func (c *RatesClient) FetchRates(ctx context.Context) ([]*domain.CurrencyRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var tables []ratesTable
	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("decode rates response: empty table list")
	}

	rates := make([]*domain.CurrencyRate, 0, len(tables[0].Rates))
	for _, p := range tables[0].Rates {
		rate := &domain.CurrencyRate{
			Currency: p.Currency,
			Code:     p.Code,
			Ask:      p.Ask,
			Bid:      p.Bid,
		}
		rate.ID = p.Code
		rates = append(rates, rate)
	}
	return rates, nil
}
