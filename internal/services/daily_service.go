package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/hrv"
	"github.com/neuroheart/hrv/internal/logging"
	"github.com/neuroheart/hrv/internal/models"
	"github.com/neuroheart/hrv/internal/store"
)

const maxRangeDays = 366

// DailyService handles single-day and multi-day HRV views. Day
// boundaries are anchored to the configured timezone rather than UTC.
type DailyService struct {
	logger   *logging.Logger
	store    store.HeartbeatStore
	spectral hrv.SpectralConfig
	loc      *time.Location
	fetchTO  time.Duration
}

// NewDailyService creates a new DailyService
func NewDailyService(logger *logging.Logger, st store.HeartbeatStore, cfg config.AnalysisConfig) *DailyService {
	return &DailyService{
		logger:   logger,
		store:    st,
		spectral: hrv.DefaultSpectralConfig(),
		loc:      cfg.Location(),
		fetchTO:  cfg.FetchTimeout,
	}
}

// Day computes hourly HRV metrics for one calendar day.
func (s *DailyService) Day(ctx context.Context, userID, dateStr string) (*models.DayResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, &ServiceError{
			Code:    "INVALID_USER_ID",
			Message: "user_id must be a valid UUID",
		}
	}
	day, err := s.parseDate(dateStr)
	if err != nil {
		return nil, err
	}

	intervals, err := s.fetchIntervals(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	hourly := s.hourlyMetrics(intervals, day)
	if len(hourly) == 0 {
		return nil, &ServiceError{
			Code:    "NO_DATA",
			Message: fmt.Sprintf("No heart-rate data for %s", dateStr),
		}
	}

	s.logger.Info("Day view computed",
		"user_id", userID,
		"date", dateStr,
		"hours", len(hourly))
	return &models.DayResponse{
		UserID:         userID,
		Date:           dateStr,
		HoursAvailable: len(hourly),
		Hourly:         hourly,
	}, nil
}

// Range computes per-day hourly HRV metrics over an inclusive date
// range of at most 366 days.
func (s *DailyService) Range(ctx context.Context, userID, startStr, endStr string) (*models.RangeResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, &ServiceError{
			Code:    "INVALID_USER_ID",
			Message: "user_id must be a valid UUID",
		}
	}
	start, err := s.parseDate(startStr)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDate(endStr)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ServiceError{
			Code:    "INVALID_DATE_RANGE",
			Message: "end_date must not precede start_date",
		}
	}
	totalDays := int(end.Sub(start).Hours()/24) + 1
	if totalDays > maxRangeDays {
		return nil, &ServiceError{
			Code:    "INVALID_DATE_RANGE",
			Message: fmt.Sprintf("date range exceeds %d days", maxRangeDays),
			Details: map[string]interface{}{"total_days": totalDays},
		}
	}

	intervals, err := s.fetchIntervals(ctx, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	days := make([]models.DaySummary, 0, totalDays)
	daysWithData := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		hourly := s.hourlyMetrics(intervals, day)
		if len(hourly) > 0 {
			daysWithData++
		}
		days = append(days, models.DaySummary{
			Date:           day.Format("2006-01-02"),
			HoursAvailable: len(hourly),
			Hourly:         hourly,
		})
	}
	if daysWithData == 0 {
		return nil, &ServiceError{
			Code:    "NO_DATA",
			Message: fmt.Sprintf("No heart-rate data between %s and %s", startStr, endStr),
		}
	}

	s.logger.Info("Range view computed",
		"user_id", userID,
		"start_date", startStr,
		"end_date", endStr,
		"days_with_data", daysWithData)
	return &models.RangeResponse{
		UserID:       userID,
		StartDate:    startStr,
		EndDate:      endStr,
		TotalDays:    totalDays,
		DaysWithData: daysWithData,
		Days:         days,
	}, nil
}

// parseDate interprets YYYY-MM-DD as midnight in the configured
// timezone.
func (s *DailyService) parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, &ServiceError{
			Code:    "INVALID_DATE",
			Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value),
		}
	}
	return t, nil
}

func (s *DailyService) fetchIntervals(ctx context.Context, userID string, start, end time.Time) ([]hrv.RRInterval, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTO)
	defer cancel()
	samples, err := s.store.FetchSamples(fetchCtx, userID, start.UTC(), end.UTC())
	if err != nil {
		s.logger.Error("Sample fetch failed",
			"user_id", userID,
			"error", err)
		if errors.Is(err, store.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &ServiceError{
				Code:    "STORE_UNAVAILABLE",
				Message: "Sample store is unavailable",
			}
		}
		return nil, &ServiceError{
			Code:    "ANALYSIS_FAILED",
			Message: "Failed to fetch heart-rate samples",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	intervals, err := hrv.ExtractIntervals(samples)
	if errors.Is(err, hrv.ErrNoData) {
		return nil, nil
	}
	return intervals, nil
}

// hourlyMetrics computes metrics for each hour of the given local day
// that has at least one interval. Hours without data are omitted.
func (s *DailyService) hourlyMetrics(intervals []hrv.RRInterval, day time.Time) []models.HourlyMetrics {
	byHour := make(map[int][]hrv.RRInterval)
	dayEnd := day.AddDate(0, 0, 1)
	for _, iv := range intervals {
		local := iv.Timestamp.In(s.loc)
		if local.Before(day) || !local.Before(dayEnd) {
			continue
		}
		byHour[local.Hour()] = append(byHour[local.Hour()], iv)
	}

	var out []models.HourlyMetrics
	for hour := 0; hour < 24; hour++ {
		rr, ok := byHour[hour]
		if !ok {
			continue
		}
		td := hrv.ComputeTimeDomain(rr)
		out = append(out, models.HourlyMetrics{
			Hour:      hour,
			RMSSD:     models.Round1(td.RMSSD),
			SDNN:      models.Round1(td.SDNN),
			MeanHR:    models.Round1(td.MeanHR),
			LFHFRatio: models.Round1(hrv.ComputeLFHF(rr, s.spectral)),
		})
	}
	return out
}
