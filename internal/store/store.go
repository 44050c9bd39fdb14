// Package store provides access to persisted heartbeat samples. The
// analysis core never touches the database directly; it consumes this
// interface.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/neuroheart/hrv/internal/hrv"
)

// ErrUnavailable reports a connectivity failure of the sample store.
// An empty successful result is not an error; it means "no data".
var ErrUnavailable = errors.New("heartbeat store unavailable")

// HeartbeatStore fetches raw heart-rate samples for a user. Results are
// ordered ascending by timestamp.
type HeartbeatStore interface {
	FetchSamples(ctx context.Context, userID string, start, end time.Time) ([]hrv.Sample, error)
}
