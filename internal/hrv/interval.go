package hrv

import (
	"errors"
	"sort"
)

// Physiologically plausible RR window in milliseconds. Values outside are
// treated as sensor noise and dropped, not clamped.
const (
	MinPlausibleRRMS = 300.0
	MaxPlausibleRRMS = 2000.0
)

// ErrNoData reports that the store returned zero raw samples for the
// entire requested range, distinguishing "no device data" from
// noisy-but-present data.
var ErrNoData = errors.New("no heart-rate samples in range")

// ExtractIntervals converts raw heart-rate samples into validated RR
// intervals. Each sample's BPM value maps to one interval of
// 60000/bpm milliseconds ending at the sample timestamp. Samples are
// re-sorted because upstream ordering is not guaranteed.
// Fewer than two plausible intervals yields an empty slice,
// which downstream stages treat as insufficient data rather than an
// error.
func ExtractIntervals(samples []Sample) ([]RRInterval, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	ordered := make([]Sample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	intervals := make([]RRInterval, 0, len(ordered))
	for _, s := range ordered {
		if s.Value <= 0 {
			continue
		}
		rr := 60000.0 / s.Value
		if rr < MinPlausibleRRMS || rr > MaxPlausibleRRMS {
			continue
		}
		intervals = append(intervals, RRInterval{
			Timestamp:  s.Timestamp.UTC(),
			DurationMS: rr,
		})
	}

	if len(intervals) < 2 {
		return []RRInterval{}, nil
	}
	return intervals, nil
}
