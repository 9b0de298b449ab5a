package weather

import "monsoonplan/internal/model"

// LookaheadDays bounds how far past the cursor a task may search for workable days.
const LookaheadDays = 14

// Accepts reports whether a day with the given risk is workable for a task of
// the given sensitivity. Unrecognised sensitivities accept nothing.
func Accepts(sensitivity string, risk model.RiskLevel) bool {
	switch sensitivity {
	case model.SensitivityHigh:
		return risk == model.RiskNone || risk == model.RiskLow
	case model.SensitivityMedium:
		return risk != model.RiskHigh
	case model.SensitivityLow:
		return true
	default:
		return false
	}
}

// MaxRisk returns the most severe risk among days, using the none<low<medium<high order.
func MaxRisk(days []model.ForecastDay) model.RiskLevel {
	var worst model.RiskLevel
	for i, d := range days {
		if i == 0 || d.Risk.Rank() > worst.Rank() {
			worst = d.Risk
		}
	}
	return worst
}

// Planner assigns tasks to forecast days greedily. The cursor is shared by all
// tasks planned through the same Planner and only moves on success.
type Planner struct {
	forecast []model.ForecastDay
	cursor   int
}

func NewPlanner(forecast []model.ForecastDay) *Planner {
	return &Planner{forecast: forecast}
}

// Cursor returns the index of the next forecast day a task may start from.
func (p *Planner) Cursor() int { return p.cursor }

// Window returns the forecast slice considered for the next task.
func (p *Planner) Window() []model.ForecastDay {
	start := p.cursor
	if start > len(p.forecast) {
		start = len(p.forecast)
	}
	end := p.cursor + LookaheadDays
	if end > len(p.forecast) {
		end = len(p.forecast)
	}
	return p.forecast[start:end]
}

// Plan schedules one task. On success the cursor advances by the task duration,
// regardless of how many calendar days the chosen days span.
func (p *Planner) Plan(t model.Task) model.ScheduleResult {
	duration := t.Duration()
	sensitivity := t.Sensitivity()

	suitable := make([]model.ForecastDay, 0, LookaheadDays)
	for _, d := range p.Window() {
		if Accepts(sensitivity, d.Risk) {
			suitable = append(suitable, d)
		}
	}

	if duration <= 0 || len(suitable) < duration {
		available := len(suitable)
		return model.ScheduleResult{
			TaskName:      t.Name,
			Status:        model.StatusCannotSchedule,
			Reason:        model.ReasonInsufficientGoodDays,
			AvailableDays: &available,
			RequiredDays:  duration,
		}
	}

	chosen := suitable[:duration]
	dates := make([]string, len(chosen))
	for i, d := range chosen {
		dates[i] = d.Date
	}
	p.cursor += duration
	return model.ScheduleResult{
		TaskName:      t.Name,
		StartDate:     chosen[0].Date,
		EndDate:       chosen[len(chosen)-1].Date,
		DurationDays:  duration,
		WeatherRisk:   MaxRisk(chosen),
		ScheduledDays: dates,
	}
}

// PlanTasks schedules tasks in order against one forecast and returns one
// result per task plus the number that were scheduled.
func PlanTasks(forecast []model.ForecastDay, tasks []model.Task) ([]model.ScheduleResult, int) {
	p := NewPlanner(forecast)
	out := make([]model.ScheduleResult, 0, len(tasks))
	scheduled := 0
	for _, t := range tasks {
		r := p.Plan(t)
		if r.Scheduled() {
			scheduled++
		}
		out = append(out, r)
	}
	return out, scheduled
}

// ForecastPeriod renders "<first> to <last>" for a forecast, or "" when empty.
func ForecastPeriod(forecast []model.ForecastDay) string {
	if len(forecast) == 0 {
		return ""
	}
	return forecast[0].Date + " to " + forecast[len(forecast)-1].Date
}
