package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monsoonplan/internal/model"
	"monsoonplan/internal/store"
)

func TestProjectFactorDefaultsWithoutWorkType(t *testing.T) {
	for _, pt := range []string{"civil", "electrical", "sewerage", "elv", "marine", ""} {
		assert.Equal(t, DefaultProjectFactor, ProjectFactor(pt, ""), pt)
	}
}

func TestProjectFactorWorkType(t *testing.T) {
	assert.Equal(t, 0.9, ProjectFactor("civil", "earthworks"))
	assert.Equal(t, 0.1, ProjectFactor("elv", "indoor_installation"))
	assert.Equal(t, DefaultProjectFactor, ProjectFactor("civil", "roofing"))
	assert.Equal(t, DefaultProjectFactor, ProjectFactor("marine", "earthworks"))
	assert.Equal(t, DefaultProjectFactor, ProjectFactor("civil", "general"))
}

func TestAssessRiskKL(t *testing.T) {
	a := AssessRisk(model.RiskAssessmentRequest{State: "KL", ProjectType: "civil"}, klForecast(t))

	assert.Equal(t, "KL", a.State)
	assert.Equal(t, "30 days", a.AssessmentPeriod)
	assert.Equal(t, 0.5, a.ProjectFactor)
	assert.Equal(t, 0.64, a.OverallRiskScore)
	assert.Equal(t, model.RiskLow, a.RiskLevel)
	assert.Equal(t, model.RiskBreakdown{HighRiskDays: 1, MediumRiskDays: 2, LowRiskDays: 2, SafeDays: 2}, a.RiskBreakdown)
	assert.Equal(t, []string{"2025-07-18", "2025-07-21", "2025-07-22", "2025-07-23"}, a.OptimalWorkDays)
	assert.Equal(t, []string{"2025-07-20"}, a.AvoidWorkDays)
	assert.Len(t, a.Recommendations, 3)
}

func TestAssessRiskDurationOnlyLabelsPeriod(t *testing.T) {
	f := klForecast(t)
	short := AssessRisk(model.RiskAssessmentRequest{State: "KL", DurationDays: intp(2)}, f)
	long := AssessRisk(model.RiskAssessmentRequest{State: "KL", DurationDays: intp(90)}, f)
	assert.Equal(t, "2 days", short.AssessmentPeriod)
	assert.Equal(t, short.OverallRiskScore, long.OverallRiskScore)
	assert.Equal(t, short.RiskBreakdown, long.RiskBreakdown)
}

func TestAssessRiskTiers(t *testing.T) {
	high := AssessRisk(model.RiskAssessmentRequest{ProjectType: "civil", WorkType: "earthworks"}, uniform(7, model.RiskHigh))
	assert.Equal(t, 2.7, high.OverallRiskScore)
	assert.Equal(t, model.RiskHigh, high.RiskLevel)
	assert.Len(t, high.Recommendations, 4)
	assert.Len(t, high.AvoidWorkDays, 7)
	assert.Empty(t, high.OptimalWorkDays)

	// 3.0 * 0.5 sits exactly on the medium threshold
	medium := AssessRisk(model.RiskAssessmentRequest{ProjectType: "civil"}, uniform(7, model.RiskHigh))
	assert.Equal(t, 1.5, medium.OverallRiskScore)
	assert.Equal(t, model.RiskMedium, medium.RiskLevel)
	assert.Equal(t, "Plan flexible work schedules", medium.Recommendations[0])
}

func TestAssessRiskPartitionsForecast(t *testing.T) {
	for _, r := range store.SeedForecasts() {
		a := AssessRisk(model.RiskAssessmentRequest{State: r.Region}, r.Forecast)
		seen := map[string]int{}
		for _, d := range a.OptimalWorkDays {
			seen[d]++
		}
		for _, d := range a.AvoidWorkDays {
			seen[d]++
		}
		rest := 0
		for _, d := range r.Forecast {
			switch d.Risk {
			case model.RiskHigh:
				assert.Contains(t, a.AvoidWorkDays, d.Date)
			case model.RiskNone, model.RiskLow:
				assert.Contains(t, a.OptimalWorkDays, d.Date)
			default:
				assert.NotContains(t, seen, d.Date)
				rest++
			}
		}
		for d, n := range seen {
			assert.Equal(t, 1, n, "%s listed twice", d)
		}
		require.Equal(t, len(r.Forecast), len(a.OptimalWorkDays)+len(a.AvoidWorkDays)+rest, r.Region)
	}
}

func TestAssessRiskEmptyForecast(t *testing.T) {
	a := AssessRisk(model.RiskAssessmentRequest{State: "X"}, nil)
	assert.Zero(t, a.OverallRiskScore)
	assert.Equal(t, model.RiskLow, a.RiskLevel)
	assert.Zero(t, a.RiskBreakdown.SafeDays)
	assert.NotNil(t, a.OptimalWorkDays)
	assert.NotNil(t, a.AvoidWorkDays)
}

func TestRecommendationsReturnsCopy(t *testing.T) {
	r := Recommendations(model.RiskLow)
	r[0] = "changed"
	assert.Equal(t, "Normal construction activities can proceed", Recommendations(model.RiskLow)[0])
}
