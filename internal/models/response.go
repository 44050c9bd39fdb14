// Package models defines the JSON request and response types of the
// HTTP surface.
package models

import (
	"math"
	"time"

	"github.com/neuroheart/hrv/internal/hrv"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SummaryMetrics aggregates HRV metrics across all buckets of a range.
type SummaryMetrics struct {
	RMSSDMean     *float64 `json:"rmssd_mean"`
	SDNNMean      *float64 `json:"sdnn_mean"`
	MeanHR        *float64 `json:"mean_hr"`
	LFHFRatioMean *float64 `json:"lf_hf_ratio_mean"`
}

// TimeBucket is one entry of the bucketed time series. Bucket is the
// RFC3339 UTC bucket start.
type TimeBucket struct {
	Bucket    string   `json:"bucket"`
	RMSSD     *float64 `json:"rmssd"`
	SDNN      *float64 `json:"sdnn"`
	MeanHR    *float64 `json:"mean_hr"`
	LFHFRatio *float64 `json:"lf_hf_ratio"`
}

// AnalysisResponse is the body of GET /v1/hrv/analysis. Patterns is null
// exactly when the range is 1d.
type AnalysisResponse struct {
	UserID      string            `json:"user_id"`
	Range       string            `json:"range"`
	GeneratedAt string            `json:"generated_at"`
	Summary     SummaryMetrics    `json:"summary_metrics"`
	TimeSeries  []TimeBucket      `json:"time_series"`
	Patterns    hrv.PatternReport `json:"patterns"`
}

// HourlyMetrics is one hour of HRV metrics in a day view.
type HourlyMetrics struct {
	Hour      int      `json:"hour"`
	RMSSD     *float64 `json:"rmssd"`
	SDNN      *float64 `json:"sdnn"`
	MeanHR    *float64 `json:"mean_hr"`
	LFHFRatio *float64 `json:"lf_hf_ratio"`
}

// DayResponse is the body of GET /v1/hrv/day.
type DayResponse struct {
	UserID         string          `json:"user_id"`
	Date           string          `json:"date"`
	HoursAvailable int             `json:"hours_available"`
	Hourly         []HourlyMetrics `json:"hourly"`
}

// DaySummary is one day inside a range view.
type DaySummary struct {
	Date           string          `json:"date"`
	HoursAvailable int             `json:"hours_available"`
	Hourly         []HourlyMetrics `json:"hourly"`
}

// RangeResponse is the body of GET /v1/hrv/range.
type RangeResponse struct {
	UserID       string       `json:"user_id"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	TotalDays    int          `json:"total_days"`
	DaysWithData int          `json:"days_with_data"`
	Days         []DaySummary `json:"days"`
}

// ErrorResponse represents the error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Round1 rounds a metric pointer to one decimal place for presentation.
// Internal computation stays full precision; only response assembly
// calls this.
func Round1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}

// NewAnalysisResponse converts a core analysis result into its JSON
// representation, applying presentation rounding.
func NewAnalysisResponse(result *hrv.AnalysisResult) *AnalysisResponse {
	series := make([]TimeBucket, len(result.Series))
	for i, b := range result.Series {
		series[i] = TimeBucket{
			Bucket:    b.BucketStart.Format(time.RFC3339),
			RMSSD:     Round1(b.RMSSD),
			SDNN:      Round1(b.SDNN),
			MeanHR:    Round1(b.MeanHR),
			LFHFRatio: Round1(b.LFHFRatio),
		}
	}
	return &AnalysisResponse{
		UserID:      result.UserID,
		Range:       string(result.Range),
		GeneratedAt: result.GeneratedAt.UTC().Format(time.RFC3339),
		Summary: SummaryMetrics{
			RMSSDMean:     Round1(result.Summary.RMSSDMean),
			SDNNMean:      Round1(result.Summary.SDNNMean),
			MeanHR:        Round1(result.Summary.MeanHR),
			LFHFRatioMean: Round1(result.Summary.LFHFRatioMean),
		},
		TimeSeries: series,
		Patterns:   result.Patterns,
	}
}
