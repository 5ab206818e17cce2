package usgs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

// countingFetcher serves canned samples and counts upstream calls.
type countingFetcher struct {
	currentCalls int
	historyCalls int
	err          error
}

func (f *countingFetcher) FetchCurrent(context.Context) (domain.Sample, error) {
	f.currentCalls++
	if f.err != nil {
		return domain.Sample{}, f.err
	}
	return domain.Sample{Time: time.Unix(0, 0).UTC(), Value: 903.5}, nil
}

func (f *countingFetcher) FetchDailyHistory(_ context.Context, days int) ([]domain.Sample, error) {
	f.historyCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Sample{{Time: time.Unix(0, 0).UTC(), Value: float64(days)}}, nil
}

func newTestCachedFetcher(inner domain.GaugeFetcher, maxEntries int, ttl time.Duration) (*CachedFetcher, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC))
	c := NewCachedFetcher(inner, maxEntries, ttl, observability.NewMetricsForTesting())
	c.clock = clock
	return c, clock
}

func TestCachedFetcher_CurrentHitWithinTTL(t *testing.T) {
	inner := &countingFetcher{}
	cached, _ := newTestCachedFetcher(inner, 10, 5*time.Minute)

	first, err := cached.FetchCurrent(context.Background())
	require.NoError(t, err)
	second, err := cached.FetchCurrent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.currentCalls)

	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.USGSCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.USGSCache.WithLabelValues("hit")))
}

func TestCachedFetcher_ExpiresAfterTTL(t *testing.T) {
	inner := &countingFetcher{}
	cached, clock := newTestCachedFetcher(inner, 10, 5*time.Minute)

	_, err := cached.FetchCurrent(context.Background())
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)

	_, err = cached.FetchCurrent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.currentCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.USGSCache.WithLabelValues("expired")))
}

func TestCachedFetcher_HistoryKeyedByDays(t *testing.T) {
	inner := &countingFetcher{}
	cached, _ := newTestCachedFetcher(inner, 10, 5*time.Minute)

	thirty, err := cached.FetchDailyHistory(context.Background(), 30)
	require.NoError(t, err)
	ninety, err := cached.FetchDailyHistory(context.Background(), 90)
	require.NoError(t, err)

	assert.Equal(t, 30.0, thirty[0].Value)
	assert.Equal(t, 90.0, ninety[0].Value)
	assert.Equal(t, 2, inner.historyCalls)

	again, err := cached.FetchDailyHistory(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, again[0].Value)
	assert.Equal(t, 2, inner.historyCalls)
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	inner := &countingFetcher{err: errors.New("upstream down")}
	cached, _ := newTestCachedFetcher(inner, 10, 5*time.Minute)

	_, err := cached.FetchCurrent(context.Background())
	require.Error(t, err)

	inner.err = nil
	sample, err := cached.FetchCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 903.5, sample.Value)
	assert.Equal(t, 2, inner.currentCalls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache(2)
	now := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)

	cache.put("a", []domain.Sample{{Value: 1}}, expires)
	cache.put("b", []domain.Sample{{Value: 2}}, expires)

	// Touch "a" so "b" becomes the eviction candidate.
	_, state := cache.get("a", now)
	require.Equal(t, "hit", state)

	cache.put("c", []domain.Sample{{Value: 3}}, expires)

	_, state = cache.get("b", now)
	assert.Equal(t, "miss", state)
	_, state = cache.get("a", now)
	assert.Equal(t, "hit", state)
	_, state = cache.get("c", now)
	assert.Equal(t, "hit", state)
}

func TestLRUCache_ExpiredEntryEvictedOnLookup(t *testing.T) {
	cache := newLRUCache(10)
	now := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

	cache.put("a", []domain.Sample{{Value: 1}}, now.Add(time.Minute))

	_, state := cache.get("a", now.Add(time.Minute))
	assert.Equal(t, "expired", state)

	// Gone entirely after the expiry eviction.
	_, state = cache.get("a", now.Add(time.Minute))
	assert.Equal(t, "miss", state)
}

func TestLRUCache_PutUpdatesExistingKey(t *testing.T) {
	cache := newLRUCache(2)
	now := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

	cache.put("a", []domain.Sample{{Value: 1}}, now.Add(time.Minute))
	cache.put("a", []domain.Sample{{Value: 2}}, now.Add(time.Hour))

	samples, state := cache.get("a", now.Add(30*time.Minute))
	require.Equal(t, "hit", state)
	assert.Equal(t, 2.0, samples[0].Value)
}
