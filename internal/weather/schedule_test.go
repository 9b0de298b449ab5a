package weather

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monsoonplan/internal/model"
	"monsoonplan/internal/store"
)

func intp(v int) *int { return &v }

func task(name string, days int, sensitivity string) model.Task {
	return model.Task{Name: name, DurationDays: intp(days), WeatherSensitivity: sensitivity}
}

func klForecast(t *testing.T) []model.ForecastDay {
	t.Helper()
	for _, r := range store.SeedForecasts() {
		if r.Region == "KL" {
			return r.Forecast
		}
	}
	t.Fatal("KL missing from seed table")
	return nil
}

// uniform builds n consecutive days sharing one risk level.
func uniform(n int, risk model.RiskLevel) []model.ForecastDay {
	out := make([]model.ForecastDay, n)
	for i := range out {
		out[i] = model.ForecastDay{Date: fmt.Sprintf("2030-01-%02d", i+1), Weather: model.WeatherSunny, Risk: risk}
	}
	return out
}

func TestAccepts(t *testing.T) {
	cases := []struct {
		sens string
		risk model.RiskLevel
		want bool
	}{
		{"high", model.RiskNone, true},
		{"high", model.RiskLow, true},
		{"high", model.RiskMedium, false},
		{"high", model.RiskHigh, false},
		{"medium", model.RiskMedium, true},
		{"medium", model.RiskHigh, false},
		{"low", model.RiskHigh, true},
		{"extreme", model.RiskNone, false},
		{"", model.RiskNone, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Accepts(c.sens, c.risk), "%s/%s", c.sens, c.risk)
	}
}

func TestLowSensitivityTakesFirstDays(t *testing.T) {
	f := klForecast(t)
	p := NewPlanner(f)
	r := p.Plan(task("A", 2, "low"))

	require.True(t, r.Scheduled())
	assert.Equal(t, f[0].Date, r.StartDate)
	assert.Equal(t, "2025-07-19", r.EndDate)
	assert.Equal(t, 2, r.DurationDays)
	assert.Equal(t, []string{"2025-07-18", "2025-07-19"}, r.ScheduledDays)
	assert.Equal(t, model.RiskMedium, r.WeatherRisk)
	assert.Equal(t, 2, p.Cursor())
}

func TestInsufficientDaysLeavesCursor(t *testing.T) {
	p := NewPlanner(klForecast(t))
	r := p.Plan(task("pour", 5, "high"))

	require.False(t, r.Scheduled())
	assert.Equal(t, model.StatusCannotSchedule, r.Status)
	assert.Equal(t, model.ReasonInsufficientGoodDays, r.Reason)
	require.NotNil(t, r.AvailableDays)
	assert.Equal(t, 4, *r.AvailableDays)
	assert.Equal(t, 5, r.RequiredDays)
	assert.Equal(t, 0, p.Cursor())

	next := p.Plan(task("survey", 1, "low"))
	assert.Equal(t, "2025-07-18", next.StartDate)
}

func TestCursorAdvancesByDurationNotSpan(t *testing.T) {
	// KL: low, medium, high, low, none, none, medium
	results, scheduled := PlanTasks(klForecast(t), []model.Task{
		task("excavate", 2, "high"),
		task("backfill", 2, "high"),
		task("compact", 4, "high"),
	})
	require.Len(t, results, 3)

	assert.Equal(t, []string{"2025-07-18", "2025-07-21"}, results[0].ScheduledDays)
	// cursor moved by 2 only, so the second task rescans from index 2 and reuses 07-21
	assert.Equal(t, []string{"2025-07-21", "2025-07-22"}, results[1].ScheduledDays)
	assert.False(t, results[2].Scheduled())
	assert.Equal(t, 2, *results[2].AvailableDays)
	assert.Equal(t, 2, scheduled)
}

func TestSecondHighTaskFailsWhenTooLong(t *testing.T) {
	results, scheduled := PlanTasks(klForecast(t), []model.Task{
		task("first", 2, "high"),
		task("second", 4, "high"),
	})
	assert.True(t, results[0].Scheduled())
	assert.False(t, results[1].Scheduled())
	assert.Equal(t, 3, *results[1].AvailableDays)
	assert.Equal(t, 1, scheduled)
}

func TestUnknownSensitivityCannotSchedule(t *testing.T) {
	results, scheduled := PlanTasks(klForecast(t), []model.Task{task("odd", 1, "extreme")})
	require.Len(t, results, 1)
	assert.Equal(t, model.StatusCannotSchedule, results[0].Status)
	assert.Equal(t, 0, *results[0].AvailableDays)
	assert.Zero(t, scheduled)
}

func TestTaskDefaults(t *testing.T) {
	// no duration -> 1 day, no sensitivity -> medium
	results, _ := PlanTasks(klForecast(t), []model.Task{{Name: "default"}})
	require.True(t, results[0].Scheduled())
	assert.Equal(t, 1, results[0].DurationDays)
	assert.Equal(t, "2025-07-18", results[0].StartDate)
}

func TestLookaheadWindowIsFourteenDays(t *testing.T) {
	f := uniform(20, model.RiskNone)
	p := NewPlanner(f)

	tooLong := p.Plan(task("long", 15, "low"))
	require.False(t, tooLong.Scheduled())
	assert.Equal(t, LookaheadDays, *tooLong.AvailableDays)

	fits := p.Plan(task("fits", 14, "low"))
	require.True(t, fits.Scheduled())
	assert.Equal(t, 14, p.Cursor())

	tail := p.Plan(task("tail", 6, "low"))
	require.True(t, tail.Scheduled())
	assert.Equal(t, "2030-01-20", tail.EndDate)

	none := p.Plan(task("none", 1, "low"))
	require.False(t, none.Scheduled())
	assert.Equal(t, 0, *none.AvailableDays)
	assert.Empty(t, p.Window())
}

func TestMaxRiskUsesSeverityOrder(t *testing.T) {
	days := []model.ForecastDay{{Risk: model.RiskNone}, {Risk: model.RiskLow}}
	// lexically "none" > "low"; by severity low wins
	assert.Equal(t, model.RiskLow, MaxRisk(days))
	days = append(days, model.ForecastDay{Risk: model.RiskHigh}, model.ForecastDay{Risk: model.RiskMedium})
	assert.Equal(t, model.RiskHigh, MaxRisk(days))
	assert.Equal(t, model.RiskLevel(""), MaxRisk(nil))
}

func TestEmptyInputs(t *testing.T) {
	results, scheduled := PlanTasks(klForecast(t), nil)
	assert.Empty(t, results)
	assert.Zero(t, scheduled)

	results, _ = PlanTasks(nil, []model.Task{task("x", 1, "low")})
	assert.False(t, results[0].Scheduled())
	assert.Equal(t, "", ForecastPeriod(nil))
	assert.Equal(t, "2025-07-18 to 2025-07-24", ForecastPeriod(klForecast(t)))
}
