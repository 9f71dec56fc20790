package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/osse101/zombie-showcase-server/internal/domain"
)

const clientTimeout = 10 * time.Second

// ItemsClient fetches the current item catalog snapshot from the third-party
// item API.
type ItemsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewItemsClient creates a client for the item catalog API.
func NewItemsClient(baseURL string) *ItemsClient {
	return &ItemsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

type itemsResponse struct {
	Items []itemPayload `json:"items"`
}

type itemPayload struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// FetchItems returns the full catalog as reported by the upstream API.
func (c *ItemsClient) FetchItems(ctx context.Context) ([]*domain.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build items request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch items: unexpected status %d", resp.StatusCode)
	}

	var payload itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode items response: %w", err)
	}

	items := make([]*domain.Item, 0, len(payload.Items))
	for _, p := range payload.Items {
		item := &domain.Item{Name: p.Name, Price: p.Price}
		item.ID = p.ID
		items = append(items, item)
	}
	return items, nil
}
