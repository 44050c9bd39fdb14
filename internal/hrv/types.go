// Package hrv implements the heart-rate-variability analysis core:
// RR-interval extraction, time-domain and frequency-domain metrics,
// multi-resolution bucketing and pattern detection. The package performs
// no I/O; data fetching belongs to callers.
package hrv

import (
	"fmt"
	"time"
)

// Sample is a single raw heart-rate measurement in beats per minute.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// RRInterval is one validated beat-to-beat interval. Timestamp marks the
// end of the interval.
type RRInterval struct {
	Timestamp  time.Time
	DurationMS float64
}

// Range identifies one of the supported analysis ranges.
type Range string

const (
	Range1D  Range = "1d"
	Range7D  Range = "7d"
	Range30D Range = "30d"
	Range6M  Range = "6m"
)

// Granularity is the bucket size of a range.
type Granularity string

const (
	GranularityHourly Granularity = "hourly"
	GranularityDaily  Granularity = "daily"
	GranularityWeekly Granularity = "weekly"
)

// RangeSpec describes how a range is partitioned into buckets.
type RangeSpec struct {
	BucketCount int
	Granularity Granularity
}

var rangeSpecs = map[Range]RangeSpec{
	Range1D:  {BucketCount: 24, Granularity: GranularityHourly},
	Range7D:  {BucketCount: 7, Granularity: GranularityDaily},
	Range30D: {BucketCount: 30, Granularity: GranularityDaily},
	Range6M:  {BucketCount: 26, Granularity: GranularityWeekly},
}

// ParseRange validates a range string against the closed set of
// supported values.
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if _, ok := rangeSpecs[r]; !ok {
		return "", fmt.Errorf("unsupported range %q (expected one of 1d, 7d, 30d, 6m)", s)
	}
	return r, nil
}

// Spec returns the bucket layout for the range.
func (r Range) Spec() RangeSpec {
	return rangeSpecs[r]
}

// Duration returns the bucket width of the granularity. Weekly buckets
// have a constant width because they are aligned to UTC week starts.
func (g Granularity) Duration() time.Duration {
	switch g {
	case GranularityHourly:
		return time.Hour
	case GranularityDaily:
		return 24 * time.Hour
	case GranularityWeekly:
		return 7 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// Truncate aligns t down to the nearest bucket boundary in UTC.
// Weeks start on Monday 00:00 UTC.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case GranularityHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case GranularityDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Monday = 1 ... Sunday = 0 in time.Weekday terms
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return t.Truncate(time.Hour)
	}
}

// BucketMetrics holds the HRV metrics of one time bucket. Metric fields
// are nil when the bucket lacked sufficient data for that metric.
type BucketMetrics struct {
	BucketStart time.Time
	BucketEnd   time.Time
	RMSSD       *float64
	SDNN        *float64
	MeanHR      *float64
	LFHFRatio   *float64
}

// SummaryMetrics aggregates bucket metrics across the full range as the
// arithmetic mean of non-nil bucket values.
type SummaryMetrics struct {
	RMSSDMean     *float64
	SDNNMean      *float64
	MeanHR        *float64
	LFHFRatioMean *float64
}

// AnalysisResult is the complete outcome of one analysis request. It is
// built per request and never persisted.
type AnalysisResult struct {
	UserID      string
	Range       Range
	GeneratedAt time.Time
	Summary     SummaryMetrics
	Series      []BucketMetrics
	Patterns    PatternReport
}

// Summarize computes SummaryMetrics over the non-nil values of a bucket
// series. Fields stay nil when no bucket contributed.
func Summarize(series []BucketMetrics) SummaryMetrics {
	return SummaryMetrics{
		RMSSDMean:     meanOf(series, func(b BucketMetrics) *float64 { return b.RMSSD }),
		SDNNMean:      meanOf(series, func(b BucketMetrics) *float64 { return b.SDNN }),
		MeanHR:        meanOf(series, func(b BucketMetrics) *float64 { return b.MeanHR }),
		LFHFRatioMean: meanOf(series, func(b BucketMetrics) *float64 { return b.LFHFRatio }),
	}
}

func meanOf(series []BucketMetrics, pick func(BucketMetrics) *float64) *float64 {
	sum := 0.0
	n := 0
	for _, b := range series {
		if v := pick(b); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func ptr(v float64) *float64 { return &v }
