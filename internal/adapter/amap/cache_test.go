package amap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	reverseCalls int
	result       domain.GeocodingResult
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.reverseCalls++
	return m.result, nil
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{FormattedAddress: "江苏省镇江市京口区"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	r1, err := cached.ReverseGeocode(context.Background(), 32.200085, 119.514156)
	require.NoError(t, err)
	assert.Equal(t, "江苏省镇江市京口区", r1.FormattedAddress)

	_, err = cached.ReverseGeocode(context.Background(), 32.200085, 119.514156)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reverseCalls, "should only call inner once")
}

func TestCachedGeocoder_DifferentCoordinatesMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{FormattedAddress: "somewhere"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 32.2, 119.5)
	_, _ = cached.ReverseGeocode(context.Background(), 32.3, 119.5)

	assert.Equal(t, 2, inner.reverseCalls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 32.2, 119.5)
	_, _ = cached.ReverseGeocode(context.Background(), 32.2, 119.5)

	assert.Equal(t, 2, inner.reverseCalls, "empty responses can be retried")
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.FormattedAddress)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})
	c.put("c", domain.GeocodingResult{FormattedAddress: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result.FormattedAddress)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.FormattedAddress)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	// Access "a" to promote it
	c.get("a")

	// Inserting "c" should evict "b" (LRU), not "a"
	c.put("c", domain.GeocodingResult{FormattedAddress: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A1"})
	c.put("a", domain.GeocodingResult{FormattedAddress: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.FormattedAddress)
}
