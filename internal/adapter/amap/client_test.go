package amap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/field-report-alerts/internal/observability"
)

const (
	testKey           = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		key:        testKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "119.514156,32.200085", r.URL.Query().Get("location"), "lon,lat order")
		assert.Equal(t, "100", r.URL.Query().Get("radius"))
		assert.Equal(t, "base", r.URL.Query().Get("extensions"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"status": "1",
			"info": "OK",
			"regeocode": {
				"formatted_address": "江苏省镇江市京口区学府路",
				"addressComponent": {
					"province": "江苏省",
					"city": "镇江市",
					"district": "京口区",
					"township": "学府路街道"
				}
			}
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 32.200085, 119.514156)
	require.NoError(t, err)

	assert.Equal(t, "江苏省镇江市京口区学府路", result.FormattedAddress)
	assert.Equal(t, "江苏省", result.Province)
	assert.Equal(t, "镇江市", result.City)
	assert.Equal(t, "京口区", result.District)
	assert.Equal(t, "学府路街道", result.Town)
}

func TestClient_ReverseGeocode_EmptyArrayFields(t *testing.T) {
	// Municipalities come back with "city": [] instead of a string.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"status": "1",
			"info": "OK",
			"regeocode": {
				"formatted_address": "上海市黄浦区人民大道",
				"addressComponent": {
					"province": "上海市",
					"city": [],
					"district": "黄浦区",
					"township": []
				}
			}
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 31.2304, 121.4737)
	require.NoError(t, err)

	assert.Equal(t, "上海市黄浦区人民大道", result.FormattedAddress)
	assert.Empty(t, result.City)
	assert.Empty(t, result.Town)
}

func TestClient_ReverseGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"status": "1", "info": "OK", "regeocode": {"formatted_address": []}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.FormattedAddress)
}

func TestClient_ReverseGeocode_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"status": "0", "info": "INVALID_USER_KEY"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ReverseGeocode(context.Background(), 32.2, 119.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_USER_KEY")
}

func TestClient_ReverseGeocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ReverseGeocode(context.Background(), 32.2, 119.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_ReverseGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.ReverseGeocode(context.Background(), 32.2, 119.5)
	require.Error(t, err)
}
