package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(t *testing.T, stamp string, value float64) Sample {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	return Sample{Time: ts, Value: value}
}

func TestBucketSamples_TwelveHourPeriods(t *testing.T) {
	samples := []Sample{
		sampleAt(t, "2024-04-26T01:00:00Z", 10),
		sampleAt(t, "2024-04-26T05:00:00Z", 20),
		sampleAt(t, "2024-04-26T14:00:00Z", 30),
	}

	buckets := BucketSamples(samples, 12*time.Hour)

	require.Len(t, buckets, 2)

	assert.Equal(t, time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC), buckets[0].PeriodStart)
	assert.Equal(t, 15.0, buckets[0].Average)
	assert.Equal(t, "Apr 26 AM", buckets[0].Label)

	assert.Equal(t, time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC), buckets[1].PeriodStart)
	assert.Equal(t, 30.0, buckets[1].Average)
	assert.Equal(t, "Apr 26 PM", buckets[1].Label)
}

func TestBucketSamples_Empty(t *testing.T) {
	assert.Empty(t, BucketSamples(nil, 12*time.Hour))
	assert.Empty(t, BucketSamples([]Sample{}, 12*time.Hour))
}

func TestBucketSamples_CalendarAlignedNotSampleAligned(t *testing.T) {
	// A single sample at 11:59 belongs to the period starting at 00:00,
	// not to one starting at the sample's own timestamp.
	buckets := BucketSamples([]Sample{sampleAt(t, "2024-04-26T11:59:00Z", 907.5)}, 12*time.Hour)

	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC), buckets[0].PeriodStart)
	assert.Equal(t, 907.5, buckets[0].Average)
}

func TestBucketSamples_EmptyPeriodsOmitted(t *testing.T) {
	// Two days apart: the periods in between carry no samples and must not
	// appear zero-filled.
	samples := []Sample{
		sampleAt(t, "2024-04-26T01:00:00Z", 10),
		sampleAt(t, "2024-04-28T01:00:00Z", 20),
	}

	buckets := BucketSamples(samples, 12*time.Hour)

	require.Len(t, buckets, 2)
	assert.Equal(t, time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC), buckets[0].PeriodStart)
	assert.Equal(t, time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), buckets[1].PeriodStart)
}

func TestBucketSamples_UnsortedInput(t *testing.T) {
	// Callers are supposed to pass ascending samples; an out-of-order slice
	// must still bucket correctly thanks to the defensive sort.
	samples := []Sample{
		sampleAt(t, "2024-04-26T14:00:00Z", 30),
		sampleAt(t, "2024-04-26T01:00:00Z", 10),
		sampleAt(t, "2024-04-26T05:00:00Z", 20),
	}

	buckets := BucketSamples(samples, 12*time.Hour)

	require.Len(t, buckets, 2)
	assert.Equal(t, 15.0, buckets[0].Average)
	assert.Equal(t, 30.0, buckets[1].Average)
}

func TestBucketSamples_TrailingPartialPeriodFlushed(t *testing.T) {
	samples := []Sample{
		sampleAt(t, "2024-04-26T01:00:00Z", 10),
		sampleAt(t, "2024-04-26T13:00:00Z", 20),
		sampleAt(t, "2024-04-26T13:05:00Z", 40),
	}

	buckets := BucketSamples(samples, 12*time.Hour)

	require.Len(t, buckets, 2)
	assert.Equal(t, 30.0, buckets[1].Average)
}

func TestBucketSamples_DefaultWidthFallback(t *testing.T) {
	buckets := BucketSamples([]Sample{sampleAt(t, "2024-04-26T14:00:00Z", 30)}, 0)

	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC), buckets[0].PeriodStart)
}

func TestBucketSamples_HourWidth(t *testing.T) {
	samples := []Sample{
		sampleAt(t, "2024-04-26T09:10:00Z", 1),
		sampleAt(t, "2024-04-26T09:50:00Z", 3),
		sampleAt(t, "2024-04-26T10:20:00Z", 5),
	}

	buckets := BucketSamples(samples, time.Hour)

	require.Len(t, buckets, 2)
	assert.Equal(t, time.Date(2024, 4, 26, 9, 0, 0, 0, time.UTC), buckets[0].PeriodStart)
	assert.Equal(t, 2.0, buckets[0].Average)
	assert.Equal(t, 5.0, buckets[1].Average)
}
