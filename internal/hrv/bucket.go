package hrv

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Bucketizer partitions a range into fixed-granularity buckets and runs
// the metric calculators per bucket. Buckets are independent, so the
// spectral estimation (the CPU-bound part) fans out over a bounded worker
// pool.
type Bucketizer struct {
	spectral SpectralConfig
	workers  int
}

// NewBucketizer creates a bucketizer with the given spectral parameters.
// workers bounds concurrent bucket computations; values below 1 fall back
// to serial execution.
func NewBucketizer(spectral SpectralConfig, workers int) *Bucketizer {
	if workers < 1 {
		workers = 1
	}
	return &Bucketizer{spectral: spectral, workers: workers}
}

// Bounds returns the [start, end) span the range covers relative to the
// reference instant: BucketCount contiguous buckets aligned to UTC
// boundaries, the last of which contains the reference.
func Bounds(r Range, now time.Time) (time.Time, time.Time) {
	spec := r.Spec()
	width := spec.Granularity.Duration()
	end := spec.Granularity.Truncate(now).Add(width)
	start := end.Add(-time.Duration(spec.BucketCount) * width)
	return start, end
}

// Series computes the ordered BucketMetrics sequence for the range.
// Every bucket appears exactly once in ascending bucket_start order;
// buckets without qualifying intervals carry all-nil metrics. Returns
// the context error if the computation is abandoned mid-flight.
func (b *Bucketizer) Series(ctx context.Context, r Range, intervals []RRInterval, now time.Time) ([]BucketMetrics, error) {
	spec := r.Spec()
	width := spec.Granularity.Duration()
	_, end := Bounds(r, now)

	series := make([]BucketMetrics, spec.BucketCount)
	for i := range series {
		bucketEnd := end.Add(-time.Duration(spec.BucketCount-1-i) * width)
		series[i] = BucketMetrics{
			BucketStart: bucketEnd.Add(-width),
			BucketEnd:   bucketEnd,
		}
	}

	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup
	for i := range series {
		if err := ctx.Err(); err != nil {
			break
		}
		bucket := selectIntervals(intervals, series[i].BucketStart, series[i].BucketEnd)
		if len(bucket) == 0 {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, bucket []RRInterval) {
			defer wg.Done()
			defer func() { <-sem }()

			td := ComputeTimeDomain(bucket)
			series[i].MeanHR = td.MeanHR
			series[i].SDNN = td.SDNN
			series[i].RMSSD = td.RMSSD
			series[i].LFHFRatio = ComputeLFHF(bucket, b.spectral)
		}(i, bucket)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return series, nil
}

// selectIntervals returns the intervals whose timestamp falls within
// [start, end). The input must be ordered by timestamp.
func selectIntervals(intervals []RRInterval, start, end time.Time) []RRInterval {
	lo := sort.Search(len(intervals), func(i int) bool {
		return !intervals[i].Timestamp.Before(start)
	})
	hi := sort.Search(len(intervals), func(i int) bool {
		return !intervals[i].Timestamp.Before(end)
	})
	return intervals[lo:hi]
}
