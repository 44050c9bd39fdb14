package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/neuroheart/hrv/internal/cache"
	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/hrv"
	"github.com/neuroheart/hrv/internal/logging"
	"github.com/neuroheart/hrv/internal/models"
	"github.com/neuroheart/hrv/internal/store"
)

// AnalysisService handles ranged HRV analysis business logic
type AnalysisService struct {
	logger     *logging.Logger
	store      store.HeartbeatStore
	cache      *cache.AnalysisCache
	bucketizer *hrv.Bucketizer
	patterns   hrv.PatternConfig
	fetchTO    time.Duration
	now        func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	logger *logging.Logger,
	st store.HeartbeatStore,
	c *cache.AnalysisCache,
	cfg config.AnalysisConfig,
) *AnalysisService {
	return &AnalysisService{
		logger:     logger,
		store:      st,
		cache:      c,
		bucketizer: hrv.NewBucketizer(hrv.DefaultSpectralConfig(), cfg.Workers),
		patterns:   hrv.DefaultPatternConfig(),
		fetchTO:    cfg.FetchTimeout,
		now:        time.Now,
	}
}

// Analyze performs a complete bucketed analysis for one user and range.
// A user with no samples in the window still gets a full-length series
// of null buckets rather than an error.
func (s *AnalysisService) Analyze(ctx context.Context, userID, rangeStr string) (*models.AnalysisResponse, error) {
	startTime := time.Now()

	rng, err := hrv.ParseRange(rangeStr)
	if err != nil {
		return nil, &ServiceError{
			Code:    "INVALID_RANGE",
			Message: err.Error(),
		}
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, &ServiceError{
			Code:    "INVALID_USER_ID",
			Message: "user_id must be a valid UUID",
		}
	}

	if body, ok := s.cache.Get(ctx, userID, string(rng)); ok {
		var resp models.AnalysisResponse
		if err := json.Unmarshal(body, &resp); err == nil {
			s.logger.Debug("Analysis served from cache",
				"user_id", userID,
				"range", rng)
			return &resp, nil
		}
		s.logger.Warn("Discarding undecodable cache entry",
			"user_id", userID,
			"range", rng)
	}

	now := s.now().UTC()
	windowStart, windowEnd := hrv.Bounds(rng, now)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTO)
	defer cancel()
	samples, err := s.store.FetchSamples(fetchCtx, userID, windowStart, windowEnd)
	if err != nil {
		s.logger.Error("Sample fetch failed",
			"user_id", userID,
			"range", rng,
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
	if err != nil {
		if !errors.Is(err, hrv.ErrNoData) {
			return nil, &ServiceError{
				Code:    "ANALYSIS_FAILED",
				Message: "Failed to derive RR intervals",
				Details: map[string]interface{}{"error": err.Error()},
			}
		}
		// No data degrades to an all-null series, not an error.
		intervals = nil
	}

	series, err := s.bucketizer.Series(ctx, rng, intervals, now)
	if err != nil {
		return nil, &ServiceError{
			Code:    "ANALYSIS_FAILED",
			Message: "Analysis was interrupted",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	result := &hrv.AnalysisResult{
		UserID:      userID,
		Range:       rng,
		GeneratedAt: now,
		Summary:     hrv.Summarize(series),
		Series:      series,
	}
	if rng != hrv.Range1D {
		result.Patterns = hrv.DetectPatterns(series, s.patterns)
	}

	resp := models.NewAnalysisResponse(result)
	if body, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, userID, string(rng), body)
	}

	s.logger.Info("Analysis completed",
		"user_id", userID,
		"range", rng,
		"buckets", len(series),
		"samples", len(samples),
		"latency_ms", time.Since(startTime).Milliseconds())
	return resp, nil
}
