package domain

import (
	"context"
	"sort"
	"time"
)

// DefaultBucketWidth is the period width used to compress the gauge's
// irregular readings for charting: two points per calendar day.
const DefaultBucketWidth = 12 * time.Hour

// Sample is one timestamped gauge reading.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// TimeBucket is a fixed-width, calendar-aligned period summarizing the
// samples that fell inside it.
type TimeBucket struct {
	PeriodStart time.Time `json:"period_start"`
	Label       string    `json:"label"`
	Average     float64   `json:"average"`
}

// GaugeFetcher supplies water-level samples from the upstream gauge service.
type GaugeFetcher interface {
	// FetchCurrent returns the most recent instantaneous reading.
	FetchCurrent(ctx context.Context) (Sample, error)

	// FetchDailyHistory returns daily readings for the trailing number of
	// days, oldest first.
	FetchDailyHistory(ctx context.Context, days int) ([]Sample, error)
}

// BucketSamples compresses irregular samples into fixed-width periods whose
// boundaries are calendar-aligned in UTC: with the default 12h width they
// fall at 00:00 and 12:00 of each day, never at the first sample. A sample
// belongs to the latest boundary at or before its timestamp.
//
// Each bucket's Average is the arithmetic mean of its samples; periods with
// no samples are omitted rather than zero-filled, and the trailing partial
// period is flushed. Callers should pass samples already sorted ascending,
// but the input is re-sorted on a copy, so out-of-order input still buckets
// correctly.
//
// A non-positive width falls back to DefaultBucketWidth.
func BucketSamples(samples []Sample, width time.Duration) []TimeBucket {
	if width <= 0 {
		width = DefaultBucketWidth
	}
	if len(samples) == 0 {
		return []TimeBucket{}
	}

	sorted := append([]Sample{}, samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	buckets := make([]TimeBucket, 0, len(sorted))
	var (
		periodStart time.Time
		sum         float64
		count       int
	)

	flush := func() {
		if count == 0 {
			return
		}
		buckets = append(buckets, TimeBucket{
			PeriodStart: periodStart,
			Label:       periodLabel(periodStart),
			Average:     sum / float64(count),
		})
		sum, count = 0, 0
	}

	for _, s := range sorted {
		start := s.Time.UTC().Truncate(width)
		if count == 0 || !start.Equal(periodStart) {
			flush()
			periodStart = start
		}
		sum += s.Value
		count++
	}
	flush()

	return buckets
}

// periodLabel renders a display label keyed off which half of the day the
// period starts in. Purely cosmetic; consumers chart PeriodStart.
func periodLabel(start time.Time) string {
	half := "AM"
	if start.Hour() >= 12 {
		half = "PM"
	}
	return start.Format("Jan 2") + " " + half
}
