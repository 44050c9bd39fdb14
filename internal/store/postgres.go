package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/hrv"
)

// sampleTypeHeartRate selects heart-rate rows from the shared
// health_samples table.
const sampleTypeHeartRate = "heart_rate"

// healthSample maps one row of the health_samples table.
type healthSample struct {
	UserID     string    `gorm:"column:user_id"`
	SampleType string    `gorm:"column:sample_type"`
	StartTime  time.Time `gorm:"column:start_time"`
	Value      float64   `gorm:"column:value"`
}

func (healthSample) TableName() string {
	return "health_samples"
}

// PostgresStore implements HeartbeatStore over PostgreSQL.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens the database connection.
func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing connection, used by tests.
func NewPostgresStoreWithDB(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FetchSamples returns the user's heart-rate samples within [start, end)
// ordered ascending. Connectivity failures surface as ErrUnavailable.
func (s *PostgresStore) FetchSamples(ctx context.Context, userID string, start, end time.Time) ([]hrv.Sample, error) {
	var rows []healthSample
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND sample_type = ? AND start_time >= ? AND start_time < ?",
			userID, sampleTypeHeartRate, start.UTC(), end.UTC()).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	samples := make([]hrv.Sample, len(rows))
	for i, row := range rows {
		samples[i] = hrv.Sample{
			Timestamp: row.StartTime.UTC(),
			Value:     row.Value,
		}
	}
	return samples, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
