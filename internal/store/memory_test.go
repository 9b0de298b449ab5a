package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monsoonplan/internal/model"
)

func TestMemoryRegionsSorted(t *testing.T) {
	m := NewMemory()
	regions, err := m.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Johor", "KL", "Penang"}, regions)
}

func TestMemoryForecastUnknownRegion(t *testing.T) {
	m := NewMemory()
	_, err := m.Forecast(context.Background(), "Sabah")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = m.Current(context.Background(), "Sabah")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryForecastReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	f1, err := m.Forecast(ctx, "KL")
	require.NoError(t, err)
	require.Len(t, f1, 7)
	f1[0].Risk = model.RiskHigh

	f2, err := m.Forecast(ctx, "KL")
	require.NoError(t, err)
	assert.Equal(t, model.RiskLow, f2[0].Risk)
	assert.Equal(t, "2025-07-18", f2[0].Date)
}

func TestMemoryFromCustomRows(t *testing.T) {
	rows := []model.RegionForecast{
		{Region: "X", Forecast: []model.ForecastDay{{Date: "2030-01-01", Risk: model.RiskNone}}},
		{Region: "X", Forecast: []model.ForecastDay{{Date: "2030-02-01", Risk: model.RiskHigh}}},
	}
	m := NewMemoryFrom(rows)
	regions, _ := m.Regions(context.Background())
	assert.Equal(t, []string{"X"}, regions)
	f, err := m.Forecast(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "2030-02-01", f[0].Date)
}

func TestSeedForecastsAreValid(t *testing.T) {
	for _, r := range SeedForecasts() {
		require.NotEmpty(t, r.Forecast, r.Region)
		for _, d := range r.Forecast {
			assert.NoError(t, validateDay(d), "%s %s", r.Region, d.Date)
		}
	}
}
