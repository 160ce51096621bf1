package nominatim

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/scene-card-service/internal/domain"
	"github.com/couchcryptid/scene-card-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.PlaceLabels
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.PlaceLabels, error) {
	m.calls++
	return m.result, m.err
}

func newCached(inner domain.Geocoder, maxEntries int) *CachedGeocoder {
	return NewCachedGeocoder(inner, maxEntries, observability.NewMetricsForTesting())
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.PlaceLabels{DisplayName: "Paris, France", City: "Paris"},
	}
	cached := newCached(inner, 10)

	r1, err := cached.ReverseGeocode(context.Background(), 48.85837, 2.29448)
	require.NoError(t, err)
	assert.Equal(t, "Paris", r1.City)

	r2, err := cached.ReverseGeocode(context.Background(), 48.85837, 2.29448)
	require.NoError(t, err)
	assert.Equal(t, "Paris", r2.City)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_NearbyCoordinatesShareEntry(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.PlaceLabels{DisplayName: "Paris, France"},
	}
	cached := newCached(inner, 10)

	// Both round to the same 4-decimal key.
	_, err := cached.ReverseGeocode(context.Background(), 48.858370, 2.294480)
	require.NoError(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 48.858412, 2.294451)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.PlaceLabels{DisplayName: "Somewhere"},
	}
	cached := newCached(inner, 10)

	_, _ = cached.ReverseGeocode(context.Background(), 48.85837, 2.29448)
	_, _ = cached.ReverseGeocode(context.Background(), 40.74844, -73.98565)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := newCached(inner, 10)

	_, err := cached.ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "empty results should be retried")
}

func TestCachedGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("upstream down")}
	cached := newCached(inner, 10)

	_, err := cached.ReverseGeocode(context.Background(), 48.85837, 2.29448)
	require.Error(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 48.85837, 2.29448)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.PlaceLabels{City: "A"})
	c.put("b", domain.PlaceLabels{City: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.City)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PlaceLabels{City: "A"})
	c.put("b", domain.PlaceLabels{City: "B"})
	c.put("c", domain.PlaceLabels{City: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result.City)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.City)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PlaceLabels{City: "A"})
	c.put("b", domain.PlaceLabels{City: "B"})

	// Access "a" to promote it
	c.get("a")

	// Insert "c" — should evict "b" (LRU), not "a"
	c.put("c", domain.PlaceLabels{City: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PlaceLabels{City: "A1"})
	c.put("a", domain.PlaceLabels{City: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.City)
}
