package store

import (
    "context"
    "errors"

    "monsoonplan/internal/model"
)

// ForecastStore is the read-only forecast lookup used by the API server.
// Implementations return copies; callers may not mutate the table through them.
type ForecastStore interface {
    // Regions lists the known region keys in sorted order.
    Regions(ctx context.Context) ([]string, error)
    // Forecast returns the ordered daily forecast for a region.
    Forecast(ctx context.Context, region string) ([]model.ForecastDay, error)
    // Current returns the latest observed conditions for a region.
    Current(ctx context.Context, region string) (model.CurrentConditions, error)
}

// ErrNotFound is returned for unknown region keys.
var ErrNotFound = errors.New("not found")
