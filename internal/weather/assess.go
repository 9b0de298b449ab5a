// Package weather implements the monsoon risk assessment and the greedy
// weather-aware task scheduler over a region's forecast.
package weather

import (
	"fmt"
	"math"

	"monsoonplan/internal/model"
)

// DefaultProjectFactor applies when no work-type factor matches.
const DefaultProjectFactor = 0.5

// generalWorkType is the lookup key used when the caller names no work type.
// No project sub-table defines it, so the lookup falls back to DefaultProjectFactor.
const generalWorkType = "general"

// Thresholds on overall_risk_score.
const (
	HighRiskThreshold   = 2.5
	MediumRiskThreshold = 1.5
)

var projectRiskFactors = map[string]map[string]float64{
	"civil": {
		"earthworks": 0.9,
		"drainage":   0.7,
		"piling":     0.5,
	},
	"electrical": {
		"outdoor_work": 0.8,
		"indoor_work":  0.2,
	},
	"sewerage": {
		"excavation":  0.9,
		"pipe_laying": 0.7,
	},
	"elv": {
		"outdoor_installation": 0.6,
		"indoor_installation":  0.1,
	},
}

var recommendations = map[model.RiskLevel][]string{
	model.RiskHigh: {
		"Consider postponing outdoor work during high-risk days",
		"Ensure proper drainage at construction site",
		"Have backup indoor activities planned",
		"Monitor weather updates daily",
	},
	model.RiskMedium: {
		"Plan flexible work schedules",
		"Prepare waterproof covers for materials",
		"Have contingency plans for weather delays",
		"Monitor weather forecasts regularly",
	},
	model.RiskLow: {
		"Normal construction activities can proceed",
		"Keep basic weather protection measures",
		"Monitor long-term weather patterns",
	},
}

// ProjectFactor returns the rain sensitivity factor for a project and work type.
// An empty or unknown work type resolves through the "general" key, which yields
// DefaultProjectFactor for every project type.
func ProjectFactor(projectType, workType string) float64 {
	key := workType
	if key == "" {
		key = generalWorkType
	}
	if f, ok := projectRiskFactors[projectType][key]; ok {
		return f
	}
	return DefaultProjectFactor
}

// Recommendations returns a copy of the fixed advice list for a risk tier.
func Recommendations(level model.RiskLevel) []string {
	return append([]string(nil), recommendations[level]...)
}

// ClassifyRisk maps an overall score onto a tier.
func ClassifyRisk(score float64) model.RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return model.RiskHigh
	case score >= MediumRiskThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// AssessRisk reduces a forecast into a risk assessment. The requested
// duration only labels the assessment period; every forecast day is counted.
func AssessRisk(req model.RiskAssessmentRequest, forecast []model.ForecastDay) model.RiskAssessment {
	var b model.RiskBreakdown
	optimal := []string{}
	avoid := []string{}
	for _, d := range forecast {
		switch d.Risk {
		case model.RiskHigh:
			b.HighRiskDays++
			avoid = append(avoid, d.Date)
		case model.RiskMedium:
			b.MediumRiskDays++
		case model.RiskLow:
			b.LowRiskDays++
			optimal = append(optimal, d.Date)
		case model.RiskNone:
			optimal = append(optimal, d.Date)
		}
	}
	total := len(forecast)
	b.SafeDays = total - b.HighRiskDays - b.MediumRiskDays - b.LowRiskDays

	base := 0.0
	if total > 0 {
		base = float64(3*b.HighRiskDays+2*b.MediumRiskDays+b.LowRiskDays) / float64(total)
	}
	factor := ProjectFactor(req.ProjectType, req.WorkType)
	overall := base * factor
	level := ClassifyRisk(overall)

	return model.RiskAssessment{
		State:            req.State,
		ProjectType:      req.ProjectType,
		WorkType:         req.WorkType,
		AssessmentPeriod: fmt.Sprintf("%d days", req.Duration()),
		OverallRiskScore: round2(overall),
		ProjectFactor:    factor,
		RiskLevel:        level,
		RiskBreakdown:    b,
		Recommendations:  Recommendations(level),
		OptimalWorkDays:  optimal,
		AvoidWorkDays:    avoid,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
