package store

import (
    "context"
    "fmt"
    "sort"

    "monsoonplan/internal/model"
)

// Memory serves forecasts from an in-process table. Used when no DATABASE_URL is set.
// The table is fixed at construction, so concurrent readers need no locking.
type Memory struct {
    regions map[string]model.RegionForecast
    keys    []string
}

// NewMemory returns a Memory store loaded with the built-in seed table.
func NewMemory() *Memory { return NewMemoryFrom(SeedForecasts()) }

// NewMemoryFrom builds a Memory store from arbitrary rows. Later rows with a
// duplicate region replace earlier ones.
func NewMemoryFrom(rows []model.RegionForecast) *Memory {
    m := &Memory{regions: map[string]model.RegionForecast{}}
    for _, r := range rows {
        if _, dup := m.regions[r.Region]; !dup {
            m.keys = append(m.keys, r.Region)
        }
        r.Forecast = append([]model.ForecastDay(nil), r.Forecast...)
        m.regions[r.Region] = r
    }
    sort.Strings(m.keys)
    return m
}

func (m *Memory) Regions(ctx context.Context) ([]string, error) {
    return append([]string(nil), m.keys...), nil
}

func (m *Memory) Forecast(ctx context.Context, region string) ([]model.ForecastDay, error) {
    r, ok := m.regions[region]
    if !ok { return nil, fmt.Errorf("region %q: %w", region, ErrNotFound) }
    return append([]model.ForecastDay(nil), r.Forecast...), nil
}

func (m *Memory) Current(ctx context.Context, region string) (model.CurrentConditions, error) {
    r, ok := m.regions[region]
    if !ok { return model.CurrentConditions{}, fmt.Errorf("region %q: %w", region, ErrNotFound) }
    return r.Current, nil
}
