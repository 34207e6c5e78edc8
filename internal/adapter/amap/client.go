// Package amap implements domain.Geocoder against the AMap (Gaode)
// reverse-geocoding API.
package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/observability"
)

// Client calls the AMap regeo endpoint.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an AMap reverse-geocoding client.
func NewClient(key string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://restapi.amap.com/v3/geocode/regeo",
		logger:  logger,
		metrics: metrics,
	}
}

// ReverseGeocode converts coordinates to place details.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	// AMap uses lon,lat order.
	params := url.Values{
		"key":        {c.key},
		"location":   {fmt.Sprintf("%.6f,%.6f", lon, lat)},
		"radius":     {"100"},
		"extensions": {"base"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("regeo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("amap API error: status %d: %s", resp.StatusCode, body)
	}

	var amapResp response
	if err := json.NewDecoder(resp.Body).Decode(&amapResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if amapResp.Status != "1" {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("amap API error: %s", amapResp.Info)
	}

	if amapResp.Regeocode.FormattedAddress == "" {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.GeocodingResult{}, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	comp := amapResp.Regeocode.AddressComponent
	return domain.GeocodingResult{
		FormattedAddress: string(amapResp.Regeocode.FormattedAddress),
		Province:         string(comp.Province),
		City:             string(comp.City),
		District:         string(comp.District),
		Town:             string(comp.Township),
	}, nil
}

// AMap API response types.

type response struct {
	Status    string    `json:"status"` // "1" means success
	Info      string    `json:"info"`
	Regeocode regeocode `json:"regeocode"`
}

type regeocode struct {
	FormattedAddress flexString       `json:"formatted_address"`
	AddressComponent addressComponent `json:"addressComponent"`
}

type addressComponent struct {
	Province flexString `json:"province"`
	City     flexString `json:"city"`
	District flexString `json:"district"`
	Township flexString `json:"township"`
}

// flexString tolerates AMap's habit of returning [] instead of "" for
// absent fields.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = flexString(v)
	return nil
}
