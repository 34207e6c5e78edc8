// Package rainfall fetches the current rain rate at a coordinate from the
// weather endpoint. The ponding engine consumes it through domain.RainLookup.
package rainfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
)

// Client calls the rain-rate endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a rain-rate client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// RainRate returns the rain rate in mm/h at a coordinate. Failures propagate
// to the caller; the ponding engine does not retry.
func (c *Client) RainRate(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', 6, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rain rate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("rain rate API error: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		RainMmH float64 `json:"rain_mm_h"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return payload.RainMmH, nil
}

// Lookup adapts the client to the function type the ponding engine takes.
func (c *Client) Lookup() domain.RainLookup {
	return c.RainRate
}
