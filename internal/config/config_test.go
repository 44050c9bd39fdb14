package config

import (
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
}

func TestServerConfig_InvalidPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.HTTPPort = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for port 0")
	}

	cfg.Server.HTTPPort = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for port 70000")
	}
}

func TestDatabaseConfig_RequiredFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for empty database host")
	}

	cfg = DefaultConfig()
	cfg.Database.DBName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for empty dbname")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "hrv",
		Password: "secret", DBName: "samples", SSLMode: "require",
	}
	want := "host=db.internal port=5433 user=hrv password=secret dbname=samples sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestAnalysisConfig_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.FetchTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for zero fetch timeout")
	}

	cfg = DefaultConfig()
	cfg.Analysis.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for zero workers")
	}

	cfg = DefaultConfig()
	cfg.Analysis.Timezone = "Not/AZone"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for bogus timezone")
	}
}

func TestAnalysisConfig_Location(t *testing.T) {
	cfg := AnalysisConfig{Timezone: "America/New_York", FetchTimeout: time.Second, Workers: 1}
	if cfg.Location().String() != "America/New_York" {
		t.Errorf("Expected America/New_York, got %s", cfg.Location())
	}

	cfg.Timezone = ""
	if cfg.Location() != time.UTC {
		t.Error("Empty timezone should resolve to UTC")
	}
}

func TestLoggingConfig_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for unknown log level")
	}

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for unknown log format")
	}
}
