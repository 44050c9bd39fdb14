package hrv

import (
	"fmt"
	"math"
	"time"
)

// PatternConfig fixes the thresholds of the pattern detector.
type PatternConfig struct {
	// TrendSlopeFraction is the minimum absolute per-bucket slope,
	// expressed as a fraction of the metric mean, before a trend is
	// reported as non-flat.
	TrendSlopeFraction float64
	// AnomalyZScore is the leave-one-out z-score above which a bucket
	// counts as an outlier.
	AnomalyZScore float64
	// LowCoverageThreshold is the data-coverage fraction below which
	// findings carry a low-confidence flag.
	LowCoverageThreshold float64
}

// DefaultPatternConfig returns the standard detector thresholds.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		TrendSlopeFraction:   0.02,
		AnomalyZScore:        2.0,
		LowCoverageThreshold: 0.5,
	}
}

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendFlat       = "flat"
)

// Finding describes one qualitative pattern in a bucket series.
type Finding struct {
	Description   string            `json:"description"`
	Severity      string            `json:"severity"`
	LowConfidence bool              `json:"low_confidence,omitempty"`
	Direction     string            `json:"direction,omitempty"`
	Coverage      *float64          `json:"coverage,omitempty"`
	Buckets       []AnomalousBucket `json:"buckets,omitempty"`
}

// AnomalousBucket points at one outlier bucket.
type AnomalousBucket struct {
	Bucket string  `json:"bucket"`
	Metric string  `json:"metric"`
	ZScore float64 `json:"z_score"`
}

// PatternReport maps finding type to finding. Finding types: "coverage",
// "rmssd_trend", "sdnn_trend", "anomalies".
type PatternReport map[string]Finding

// DetectPatterns derives qualitative findings from a bucketed metric
// series. Callers invoke it only for multi-bucket ranges. Buckets with
// nil metrics are excluded from trend and anomaly statistics but counted
// in coverage. The output is fully determined by the input series and
// config.
func DetectPatterns(series []BucketMetrics, cfg PatternConfig) PatternReport {
	report := PatternReport{}

	coverage := coverageFraction(series)
	lowConfidence := coverage < cfg.LowCoverageThreshold
	report["coverage"] = coverageFinding(coverage, cfg)

	if f, ok := trendFinding("RMSSD", series, func(b BucketMetrics) *float64 { return b.RMSSD }, cfg, lowConfidence); ok {
		report["rmssd_trend"] = f
	}
	if f, ok := trendFinding("SDNN", series, func(b BucketMetrics) *float64 { return b.SDNN }, cfg, lowConfidence); ok {
		report["sdnn_trend"] = f
	}
	if f, ok := anomalyFinding(series, cfg, lowConfidence); ok {
		report["anomalies"] = f
	}

	return report
}

func coverageFraction(series []BucketMetrics) float64 {
	if len(series) == 0 {
		return 0
	}
	withData := 0
	for _, b := range series {
		if b.MeanHR != nil {
			withData++
		}
	}
	return float64(withData) / float64(len(series))
}

func coverageFinding(coverage float64, cfg PatternConfig) Finding {
	f := Finding{Coverage: ptr(coverage), Severity: "info"}
	switch {
	case coverage == 0:
		f.Description = "no heart-rate data in range"
		f.Severity = "warning"
	case coverage < cfg.LowCoverageThreshold:
		f.Description = fmt.Sprintf("only %.0f%% of buckets contain data; findings are low confidence", coverage*100)
		f.Severity = "warning"
	default:
		f.Description = fmt.Sprintf("%.0f%% of buckets contain data", coverage*100)
	}
	return f
}

// trendFinding fits a least-squares line over the non-nil values of one
// metric, indexed by bucket position. The slope only counts as a trend
// when it exceeds TrendSlopeFraction of the metric mean per bucket step.
func trendFinding(name string, series []BucketMetrics, pick func(BucketMetrics) *float64, cfg PatternConfig, lowConfidence bool) (Finding, bool) {
	var xs, ys []float64
	for i, b := range series {
		if v := pick(b); v != nil {
			xs = append(xs, float64(i))
			ys = append(ys, *v)
		}
	}
	if len(ys) < 2 {
		return Finding{}, false
	}

	slope := leastSquaresSlope(xs, ys)
	mean := 0.0
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	direction := TrendFlat
	threshold := cfg.TrendSlopeFraction * math.Abs(mean)
	if math.Abs(slope) > threshold && threshold > 0 {
		if slope > 0 {
			direction = TrendIncreasing
		} else {
			direction = TrendDecreasing
		}
	}

	severity := "info"
	if direction == TrendDecreasing {
		severity = "notice"
	}
	return Finding{
		Description:   fmt.Sprintf("%s is %s across the range", name, direction),
		Severity:      severity,
		Direction:     direction,
		LowConfidence: lowConfidence,
	}, true
}

func leastSquaresSlope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// anomalyFinding flags buckets whose metric deviates from the mean of
// the other buckets by more than AnomalyZScore standard deviations.
func anomalyFinding(series []BucketMetrics, cfg PatternConfig, lowConfidence bool) (Finding, bool) {
	metrics := []struct {
		name string
		pick func(BucketMetrics) *float64
	}{
		{"rmssd", func(b BucketMetrics) *float64 { return b.RMSSD }},
		{"sdnn", func(b BucketMetrics) *float64 { return b.SDNN }},
		{"mean_hr", func(b BucketMetrics) *float64 { return b.MeanHR }},
		{"lf_hf_ratio", func(b BucketMetrics) *float64 { return b.LFHFRatio }},
	}

	var outliers []AnomalousBucket
	for _, m := range metrics {
		type point struct {
			start time.Time
			value float64
		}
		var points []point
		for _, b := range series {
			if v := m.pick(b); v != nil {
				points = append(points, point{start: b.BucketStart, value: *v})
			}
		}
		if len(points) < 3 {
			continue
		}

		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.value
		}
		for i, p := range points {
			mean, std := leaveOneOutStats(values, i)
			if std == 0 {
				continue
			}
			z := (p.value - mean) / std
			if math.Abs(z) > cfg.AnomalyZScore {
				outliers = append(outliers, AnomalousBucket{
					Bucket: p.start.Format(time.RFC3339),
					Metric: m.name,
					ZScore: z,
				})
			}
		}
	}

	if len(outliers) == 0 {
		return Finding{}, false
	}
	return Finding{
		Description:   fmt.Sprintf("%d bucket metric(s) deviate more than %.1f standard deviations from the rest", len(outliers), cfg.AnomalyZScore),
		Severity:      "notice",
		Buckets:       outliers,
		LowConfidence: lowConfidence,
	}, true
}

// leaveOneOutStats computes mean and population standard deviation of
// values with index skip excluded.
func leaveOneOutStats(values []float64, skip int) (mean, std float64) {
	if len(values) < 2 {
		return 0, 0
	}
	count := 0
	for j, v := range values {
		if j == skip {
			continue
		}
		mean += v
		count++
	}
	mean /= float64(count)

	varSum := 0.0
	for j, v := range values {
		if j == skip {
			continue
		}
		d := v - mean
		varSum += d * d
	}
	std = math.Sqrt(varSum / float64(count))
	return mean, std
}
