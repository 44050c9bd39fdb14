package hrv

import (
	"errors"
	"testing"
	"time"
)

func TestExtractIntervals_NoSamples(t *testing.T) {
	_, err := ExtractIntervals(nil)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
}

func TestExtractIntervals_BPMConversion(t *testing.T) {
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: base, Value: 60},                       // 1000 ms
		{Timestamp: base.Add(time.Second), Value: 75},      // 800 ms
		{Timestamp: base.Add(2 * time.Second), Value: 120}, // 500 ms
	}

	intervals, err := ExtractIntervals(samples)
	if err != nil {
		t.Fatalf("ExtractIntervals failed: %v", err)
	}
	if len(intervals) != 3 {
		t.Fatalf("Expected 3 intervals, got %d", len(intervals))
	}

	want := []float64{1000, 800, 500}
	for i, w := range want {
		if !approxEqual(intervals[i].DurationMS, w, 1e-9) {
			t.Errorf("Interval %d: expected %.1f ms, got %.1f ms", i, w, intervals[i].DurationMS)
		}
	}
}

func TestExtractIntervals_DropsImplausibleValues(t *testing.T) {
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: base, Value: 75},
		{Timestamp: base.Add(time.Second), Value: 20},       // 3000 ms, too slow
		{Timestamp: base.Add(2 * time.Second), Value: 250},  // 240 ms, too fast
		{Timestamp: base.Add(3 * time.Second), Value: -5},   // invalid
		{Timestamp: base.Add(4 * time.Second), Value: 80},
	}

	intervals, err := ExtractIntervals(samples)
	if err != nil {
		t.Fatalf("ExtractIntervals failed: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("Expected 2 plausible intervals, got %d", len(intervals))
	}
}

func TestExtractIntervals_FewerThanTwoValid(t *testing.T) {
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: base, Value: 75},
		{Timestamp: base.Add(time.Second), Value: 10}, // dropped
	}

	intervals, err := ExtractIntervals(samples)
	if err != nil {
		t.Fatalf("Noisy data must not be an error, got %v", err)
	}
	if len(intervals) != 0 {
		t.Errorf("Expected empty result below two valid intervals, got %d", len(intervals))
	}
}

func TestExtractIntervals_SortsOutOfOrderSamples(t *testing.T) {
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: base.Add(2 * time.Second), Value: 80},
		{Timestamp: base, Value: 60},
		{Timestamp: base.Add(time.Second), Value: 70},
	}

	intervals, err := ExtractIntervals(samples)
	if err != nil {
		t.Fatalf("ExtractIntervals failed: %v", err)
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Timestamp.Before(intervals[i-1].Timestamp) {
			t.Fatal("Intervals must be ordered by timestamp")
		}
	}
}
