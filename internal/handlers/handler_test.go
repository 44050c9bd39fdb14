package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/hrv"
	"github.com/neuroheart/hrv/internal/logging"
	"github.com/neuroheart/hrv/internal/models"
	"github.com/neuroheart/hrv/internal/store"
)

const testUserID = "aa66fb6c-2d8d-4f1e-9c7a-0b48a3b1de0f"

// mockStore is a mock implementation of store.HeartbeatStore for testing
type mockStore struct {
	samples     []hrv.Sample
	unavailable bool
}

func (m *mockStore) FetchSamples(ctx context.Context, userID string, start, end time.Time) ([]hrv.Sample, error) {
	if m.unavailable {
		return nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
	}
	var out []hrv.Sample
	for _, s := range m.samples {
		if !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestApp(st store.HeartbeatStore) *fiber.App {
	logger := logging.NewDevelopment()
	handler := New(logger, st, nil, config.AnalysisConfig{
		Timezone:     "UTC",
		FetchTimeout: 5 * time.Second,
		Workers:      4,
	})

	app := fiber.New()
	app.Get("/health", handler.Health)
	app.Get("/v1/hrv/analysis", handler.Analysis)
	app.Get("/v1/hrv/day", handler.Day)
	app.Get("/v1/hrv/range", handler.DayRange)
	app.Use(handler.NotFound)
	return app
}

func TestHandler_Health(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	var healthResp models.HealthResponse
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if healthResp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", healthResp.Status)
	}
}

func TestHandler_AnalysisMissingUserID(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/v1/hrv/analysis?range=7d", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_AnalysisInvalidRange(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/v1/hrv/analysis?user_id="+testUserID+"&range=90d", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal error response: %v", err)
	}
	if errResp.Error.Code != "INVALID_RANGE" {
		t.Errorf("Expected INVALID_RANGE, got %s", errResp.Error.Code)
	}
}

func TestHandler_AnalysisDefaultRange(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/v1/hrv/analysis?user_id="+testUserID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var analysisResp models.AnalysisResponse
	if err := json.Unmarshal(body, &analysisResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if analysisResp.Range != "7d" {
		t.Errorf("Expected default range 7d, got %s", analysisResp.Range)
	}
	if len(analysisResp.TimeSeries) != 7 {
		t.Errorf("Expected 7 buckets, got %d", len(analysisResp.TimeSeries))
	}
}

func TestHandler_AnalysisStoreUnavailable(t *testing.T) {
	app := newTestApp(&mockStore{unavailable: true})

	req := httptest.NewRequest("GET", "/v1/hrv/analysis?user_id="+testUserID+"&range=7d", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", fiber.StatusServiceUnavailable, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal error response: %v", err)
	}
	if errResp.Error.Code != "STORE_UNAVAILABLE" {
		t.Errorf("Expected STORE_UNAVAILABLE, got %s", errResp.Error.Code)
	}
}

func TestHandler_DayNoData(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/v1/hrv/day?user_id="+testUserID+"&date=2026-08-20", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}
}

func TestHandler_DayWithData(t *testing.T) {
	st := &mockStore{}
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 300; i++ {
		st.samples = append(st.samples, hrv.Sample{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Value:     64,
		})
	}
	app := newTestApp(st)

	req := httptest.NewRequest("GET", "/v1/hrv/day?user_id="+testUserID+"&date=2026-08-20", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var dayResp models.DayResponse
	if err := json.Unmarshal(body, &dayResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if dayResp.HoursAvailable != 1 {
		t.Errorf("Expected 1 hour available, got %d", dayResp.HoursAvailable)
	}
	if len(dayResp.Hourly) != 1 || dayResp.Hourly[0].Hour != 9 {
		t.Errorf("Expected metrics for hour 9, got %+v", dayResp.Hourly)
	}
}

func TestHandler_RangeMissingDates(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/v1/hrv/range?user_id="+testUserID+"&start_date=2026-08-01", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_NotFound(t *testing.T) {
	app := newTestApp(&mockStore{})

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal error response: %v", err)
	}
	if errResp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected NOT_FOUND, got %s", errResp.Error.Code)
	}
}
