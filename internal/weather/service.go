package weather

import (
	"context"
	"fmt"

	"monsoonplan/internal/metrics"
	"monsoonplan/internal/model"
	"monsoonplan/internal/store"
)

// DefaultRegion is used when a request names no state.
const DefaultRegion = "KL"

// Service resolves regions through a forecast store and runs the heuristics.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	Forecasts store.ForecastStore
}

func NewService(fs store.ForecastStore) *Service { return &Service{Forecasts: fs} }

func regionOrDefault(state string) string {
	if state == "" {
		return DefaultRegion
	}
	return state
}

// AssessMonsoonRisk returns the risk assessment for the request's region.
// Unknown regions yield an error wrapping store.ErrNotFound.
func (s *Service) AssessMonsoonRisk(ctx context.Context, req model.RiskAssessmentRequest) (model.RiskAssessment, error) {
	req.State = regionOrDefault(req.State)
	forecast, err := s.Forecasts.Forecast(ctx, req.State)
	if err != nil {
		return model.RiskAssessment{}, fmt.Errorf("assess %s: %w", req.State, err)
	}
	a := AssessRisk(req, forecast)
	metrics.RiskAssessments.WithLabelValues(a.State, string(a.RiskLevel)).Inc()
	return a, nil
}

// OptimizeSchedule plans the request's tasks in order against the region's forecast.
// The region is resolved once; an unknown region rejects the whole batch.
func (s *Service) OptimizeSchedule(ctx context.Context, req model.ScheduleRequest) (model.ScheduleResponse, error) {
	state := regionOrDefault(req.State)
	forecast, err := s.Forecasts.Forecast(ctx, state)
	if err != nil {
		return model.ScheduleResponse{}, fmt.Errorf("schedule %s: %w", state, err)
	}
	results, scheduled := PlanTasks(forecast, req.Tasks)
	metrics.ScheduleTasks.WithLabelValues(state, "scheduled").Add(float64(scheduled))
	metrics.ScheduleTasks.WithLabelValues(state, "unschedulable").Add(float64(len(results) - scheduled))
	return model.ScheduleResponse{
		State:                 state,
		OptimizedSchedule:     results,
		TotalTasks:            len(req.Tasks),
		SuccessfullyScheduled: scheduled,
		WeatherForecastPeriod: ForecastPeriod(forecast),
	}, nil
}

// Forecast returns up to days entries of the region's forecast; days < 0 means all.
func (s *Service) Forecast(ctx context.Context, state string, days int) ([]model.ForecastDay, error) {
	forecast, err := s.Forecasts.Forecast(ctx, regionOrDefault(state))
	if err != nil {
		return nil, err
	}
	if days >= 0 && days < len(forecast) {
		forecast = forecast[:days]
	}
	return forecast, nil
}

// Current returns the latest conditions for a region.
func (s *Service) Current(ctx context.Context, state string) (model.CurrentConditions, error) {
	return s.Forecasts.Current(ctx, regionOrDefault(state))
}

// Regions lists the known region keys.
func (s *Service) Regions(ctx context.Context) ([]string, error) {
	return s.Forecasts.Regions(ctx)
}
