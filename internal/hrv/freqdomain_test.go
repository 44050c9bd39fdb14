package hrv

import (
	"math"
	"testing"
	"time"
)

// modulatedSequence builds an RR tachogram of roughly spanSec seconds
// whose durations oscillate around 800 ms at the given frequency.
func modulatedSequence(modFreqHz, spanSec float64) []RRInterval {
	var intervals []RRInterval
	t := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	elapsed := 0.0
	for elapsed < spanSec {
		rr := 800.0 + 50.0*math.Sin(2.0*math.Pi*modFreqHz*elapsed)
		elapsed += rr / 1000.0
		t = t.Add(time.Duration(rr * float64(time.Millisecond)))
		intervals = append(intervals, RRInterval{Timestamp: t, DurationMS: rr})
	}
	return intervals
}

func TestComputeLFHF_BelowMinimumCoverage(t *testing.T) {
	cfg := DefaultSpectralConfig()
	rr := modulatedSequence(0.1, 60) // one minute, below the 2 min floor
	if ratio := ComputeLFHF(rr, cfg); ratio != nil {
		t.Errorf("Expected nil ratio below minimum coverage, got %v", *ratio)
	}
}

func TestComputeLFHF_TooFewIntervals(t *testing.T) {
	cfg := DefaultSpectralConfig()
	if ratio := ComputeLFHF(rrSequence(800), cfg); ratio != nil {
		t.Errorf("Expected nil ratio for single interval, got %v", *ratio)
	}
}

func TestComputeLFHF_LFDominatedSignal(t *testing.T) {
	cfg := DefaultSpectralConfig()
	rr := modulatedSequence(0.1, 300) // 0.1 Hz sits in the LF band

	ratio := ComputeLFHF(rr, cfg)
	if ratio == nil {
		t.Fatal("Expected a ratio for 5 minutes of data")
	}
	if *ratio <= 1.0 {
		t.Errorf("LF-modulated signal should yield ratio > 1, got %.4f", *ratio)
	}
}

func TestComputeLFHF_HFDominatedSignal(t *testing.T) {
	cfg := DefaultSpectralConfig()
	rr := modulatedSequence(0.3, 300) // 0.3 Hz sits in the HF band

	ratio := ComputeLFHF(rr, cfg)
	if ratio == nil {
		t.Fatal("Expected a ratio for 5 minutes of data")
	}
	if *ratio >= 1.0 {
		t.Errorf("HF-modulated signal should yield ratio < 1, got %.4f", *ratio)
	}
}

func TestComputeLFHF_Deterministic(t *testing.T) {
	cfg := DefaultSpectralConfig()
	rr := modulatedSequence(0.12, 300)

	first := ComputeLFHF(rr, cfg)
	second := ComputeLFHF(rr, cfg)
	if first == nil || second == nil {
		t.Fatal("Expected ratios for both runs")
	}
	if *first != *second {
		t.Errorf("Identical input must produce identical ratios: %.10f vs %.10f", *first, *second)
	}
}

func TestResample_UniformGridLength(t *testing.T) {
	rr := modulatedSequence(0.1, 300)
	signal := resample(rr, 4.0)

	span := rr[len(rr)-1].Timestamp.Sub(rr[0].Timestamp).Seconds()
	want := int(span/0.25) + 1
	if len(signal) != want {
		t.Errorf("Expected %d resampled points, got %d", want, len(signal))
	}
}

func TestRemoveMean_ZeroMeanOutput(t *testing.T) {
	signal := []float64{790, 800, 810, 805, 795}
	removeMean(signal)

	sum := 0.0
	for _, v := range signal {
		sum += v
	}
	if !approxEqual(sum, 0, 1e-9) {
		t.Errorf("Expected zero-mean signal, residual sum %v", sum)
	}
}

func TestBandPower_IgnoresOutOfBandBins(t *testing.T) {
	// df = 1/64 Hz as with 256 points at 4 Hz
	df := 4.0 / 256.0
	psd := make([]float64, 129)
	for i := range psd {
		psd[i] = 1.0
	}

	lf := bandPower(psd, df, 0.04, 0.15)
	hf := bandPower(psd, df, 0.15, 0.40)

	// flat spectrum: band power proportional to band width
	if !approxEqual(lf/hf, (0.15-0.04)/(0.40-0.15), 0.2) {
		t.Errorf("Flat spectrum band powers should track band widths, got lf=%v hf=%v", lf, hf)
	}
}
