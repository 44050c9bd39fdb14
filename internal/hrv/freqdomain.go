package hrv

import (
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SpectralConfig fixes the parameters of the Welch estimator. The values
// are configuration, not request input: identical RR sequences must
// always produce identical ratios.
type SpectralConfig struct {
	// SampleRateHz is the uniform resampling rate for the RR series.
	SampleRateHz float64
	// SegmentLength is the Welch segment size in resampled points.
	SegmentLength int
	// OverlapFraction is the fraction of a segment shared with its
	// successor.
	OverlapFraction float64
	// MinCoverage is the minimum RR time span required before a ratio
	// is considered statistically meaningful.
	MinCoverage time.Duration
	// Band edges in Hz.
	LFLow, LFHigh float64
	HFLow, HFHigh float64
}

// DefaultSpectralConfig returns the standard short-term HRV estimator:
// 4 Hz resampling, 256-point (64 s) Hann segments with 50% overlap,
// LF 0.04-0.15 Hz, HF 0.15-0.40 Hz, two minutes minimum coverage.
func DefaultSpectralConfig() SpectralConfig {
	return SpectralConfig{
		SampleRateHz:    4.0,
		SegmentLength:   256,
		OverlapFraction: 0.5,
		MinCoverage:     2 * time.Minute,
		LFLow:           0.04,
		LFHigh:          0.15,
		HFLow:           0.15,
		HFHigh:          0.40,
	}
}

// ComputeLFHF estimates the LF/HF power ratio of an ordered RR-interval
// sequence. The irregular series is linearly interpolated onto a uniform
// grid, mean-removed, and run through Welch's method with Hann windows.
// Returns nil when the sequence covers less than MinCoverage, when no
// full segment fits, or when HF power is zero.
func ComputeLFHF(rr []RRInterval, cfg SpectralConfig) *float64 {
	if len(rr) < 2 {
		return nil
	}
	span := rr[len(rr)-1].Timestamp.Sub(rr[0].Timestamp)
	if span < cfg.MinCoverage {
		return nil
	}

	signal := resample(rr, cfg.SampleRateHz)
	if len(signal) < cfg.SegmentLength {
		return nil
	}
	removeMean(signal)

	psd := welchPSD(signal, cfg)
	if psd == nil {
		return nil
	}

	n := cfg.SegmentLength
	df := cfg.SampleRateHz / float64(n)
	lf := bandPower(psd, df, cfg.LFLow, cfg.LFHigh)
	hf := bandPower(psd, df, cfg.HFLow, cfg.HFHigh)
	if hf <= 0 {
		return nil
	}
	return ptr(lf / hf)
}

// resample interpolates the RR tachogram onto a uniform time grid.
// Interval timestamps become the x axis (seconds from the first beat)
// and durations the y axis.
func resample(rr []RRInterval, rateHz float64) []float64 {
	t0 := rr[0].Timestamp
	span := rr[len(rr)-1].Timestamp.Sub(t0).Seconds()
	dt := 1.0 / rateHz
	n := int(span/dt) + 1

	out := make([]float64, 0, n)
	seg := 0
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		for seg < len(rr)-2 && rr[seg+1].Timestamp.Sub(t0).Seconds() < t {
			seg++
		}
		x0 := rr[seg].Timestamp.Sub(t0).Seconds()
		x1 := rr[seg+1].Timestamp.Sub(t0).Seconds()
		y0 := rr[seg].DurationMS
		y1 := rr[seg+1].DurationMS
		if x1 == x0 {
			out = append(out, y0)
			continue
		}
		frac := (t - x0) / (x1 - x0)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out = append(out, y0+frac*(y1-y0))
	}
	return out
}

func removeMean(signal []float64) {
	sum := 0.0
	for _, v := range signal {
		sum += v
	}
	mean := sum / float64(len(signal))
	for i := range signal {
		signal[i] -= mean
	}
}

// welchPSD averages Hann-windowed periodograms over overlapping segments.
// The result is a one-sided density of SegmentLength/2+1 bins.
func welchPSD(signal []float64, cfg SpectralConfig) []float64 {
	n := cfg.SegmentLength
	step := int(float64(n) * (1.0 - cfg.OverlapFraction))
	if step < 1 {
		step = 1
	}

	window := hannWindow(n)
	windowPower := 0.0
	for _, w := range window {
		windowPower += w * w
	}

	fft := fourier.NewFFT(n)
	bins := n/2 + 1
	psd := make([]float64, bins)
	segments := 0

	buf := make([]float64, n)
	for start := 0; start+n <= len(signal); start += step {
		for i := 0; i < n; i++ {
			buf[i] = signal[start+i] * window[i]
		}
		coeffs := fft.Coefficients(nil, buf)
		for k, c := range coeffs {
			p := cmplx.Abs(c)
			p = p * p / (cfg.SampleRateHz * windowPower)
			// one-sided: double everything except DC and Nyquist
			if k != 0 && k != bins-1 {
				p *= 2
			}
			psd[k] += p
		}
		segments++
	}

	if segments == 0 {
		return nil
	}
	for k := range psd {
		psd[k] /= float64(segments)
	}
	return psd
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// bandPower integrates the density over [low, high) by summing bins.
func bandPower(psd []float64, df, low, high float64) float64 {
	power := 0.0
	for k, p := range psd {
		f := float64(k) * df
		if f >= low && f < high {
			power += p * df
		}
	}
	return power
}
