package hrv

import "math"

// TimeDomain holds the time-domain HRV metrics of one interval sequence.
// SDNN and RMSSD need at least two intervals and stay nil otherwise;
// MeanHR is defined from a single interval.
type TimeDomain struct {
	MeanHR *float64
	SDNN   *float64
	RMSSD  *float64
}

// ComputeTimeDomain calculates mean heart rate, SDNN (sample standard
// deviation, ddof=1) and RMSSD over an ordered RR-interval sequence.
// All values are full precision; presentation rounding happens at the
// response edge.
func ComputeTimeDomain(rr []RRInterval) TimeDomain {
	var out TimeDomain
	if len(rr) == 0 {
		return out
	}

	sum := 0.0
	for _, iv := range rr {
		sum += iv.DurationMS
	}
	mean := sum / float64(len(rr))
	out.MeanHR = ptr(60000.0 / mean)

	if len(rr) < 2 {
		return out
	}

	varSum := 0.0
	for _, iv := range rr {
		d := iv.DurationMS - mean
		varSum += d * d
	}
	out.SDNN = ptr(math.Sqrt(varSum / float64(len(rr)-1)))

	diffSq := 0.0
	for i := 1; i < len(rr); i++ {
		d := rr[i].DurationMS - rr[i-1].DurationMS
		diffSq += d * d
	}
	out.RMSSD = ptr(math.Sqrt(diffSq / float64(len(rr)-1)))

	return out
}
