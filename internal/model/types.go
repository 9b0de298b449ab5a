package model

// Core domain types for the weather planning API.

// RiskLevel is the per-day construction risk tier attached to a forecast day.
type RiskLevel string

const (
    RiskNone   RiskLevel = "none"
    RiskLow    RiskLevel = "low"
    RiskMedium RiskLevel = "medium"
    RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels by severity: none < low < medium < high.
// Unknown labels rank below none.
func (l RiskLevel) Rank() int {
    switch l {
    case RiskNone:
        return 0
    case RiskLow:
        return 1
    case RiskMedium:
        return 2
    case RiskHigh:
        return 3
    default:
        return -1
    }
}

// Valid reports whether l is one of the known tiers.
func (l RiskLevel) Valid() bool { return l.Rank() >= 0 }

// Weather condition labels used by the forecast table.
const (
    WeatherSunny        = "sunny"
    WeatherPartlyCloudy = "partly_cloudy"
    WeatherLightRain    = "light_rain"
    WeatherModerateRain = "moderate_rain"
    WeatherHeavyRain    = "heavy_rain"
)

type ForecastDay struct {
    Date     string    `json:"date"`
    Rainfall float64   `json:"rainfall"`
    Weather  string    `json:"weather"`
    Risk     RiskLevel `json:"risk"`
}

type CurrentConditions struct {
    Temperature float64 `json:"temperature"`
    Humidity    float64 `json:"humidity"`
    Rainfall    float64 `json:"rainfall"`
    Weather     string  `json:"weather"`
}

// RegionForecast is one row of the forecast table.
type RegionForecast struct {
    Region   string            `json:"state"`
    Current  CurrentConditions `json:"current"`
    Forecast []ForecastDay     `json:"forecast"`
}

// Weather sensitivity tags accepted on tasks.
const (
    SensitivityLow    = "low"
    SensitivityMedium = "medium"
    SensitivityHigh   = "high"
)

type Task struct {
    Name               string `json:"name"`
    DurationDays       *int   `json:"duration_days,omitempty"`
    WeatherSensitivity string `json:"weather_sensitivity,omitempty"`
}

// Duration returns the requested duration, defaulting to one day.
func (t Task) Duration() int {
    if t.DurationDays == nil {
        return 1
    }
    return *t.DurationDays
}

// Sensitivity returns the requested sensitivity, defaulting to medium.
func (t Task) Sensitivity() string {
    if t.WeatherSensitivity == "" {
        return SensitivityMedium
    }
    return t.WeatherSensitivity
}

const (
    StatusCannotSchedule       = "cannot_schedule"
    ReasonInsufficientGoodDays = "insufficient_suitable_weather_days"
)

// ScheduleResult is either a scheduled task (StartDate set) or a cannot_schedule record.
type ScheduleResult struct {
    TaskName string `json:"task_name"`

    StartDate     string    `json:"start_date,omitempty"`
    EndDate       string    `json:"end_date,omitempty"`
    DurationDays  int       `json:"duration_days,omitempty"`
    WeatherRisk   RiskLevel `json:"weather_risk,omitempty"`
    ScheduledDays []string  `json:"scheduled_days,omitempty"`

    Status        string `json:"status,omitempty"`
    Reason        string `json:"reason,omitempty"`
    AvailableDays *int   `json:"available_days,omitempty"`
    RequiredDays  int    `json:"required_days,omitempty"`
}

// Scheduled reports whether the result is the success variant.
func (r ScheduleResult) Scheduled() bool { return r.StartDate != "" }

type ScheduleRequest struct {
    State string `json:"state"`
    Tasks []Task `json:"tasks"`
}

type ScheduleResponse struct {
    State                 string           `json:"state"`
    OptimizedSchedule     []ScheduleResult `json:"optimized_schedule"`
    TotalTasks            int              `json:"total_tasks"`
    SuccessfullyScheduled int              `json:"successfully_scheduled"`
    WeatherForecastPeriod string           `json:"weather_forecast_period"`
}

type RiskAssessmentRequest struct {
    State        string `json:"state"`
    ProjectType  string `json:"project_type"`
    WorkType     string `json:"work_type,omitempty"`
    StartDate    string `json:"start_date,omitempty"`
    DurationDays *int   `json:"duration_days,omitempty"`
}

// Duration returns the requested assessment period, defaulting to 30 days.
func (r RiskAssessmentRequest) Duration() int {
    if r.DurationDays == nil {
        return 30
    }
    return *r.DurationDays
}

type RiskBreakdown struct {
    HighRiskDays   int `json:"high_risk_days"`
    MediumRiskDays int `json:"medium_risk_days"`
    LowRiskDays    int `json:"low_risk_days"`
    SafeDays       int `json:"safe_days"`
}

type RiskAssessment struct {
    State            string        `json:"state"`
    ProjectType      string        `json:"project_type"`
    WorkType         string        `json:"work_type,omitempty"`
    AssessmentPeriod string        `json:"assessment_period"`
    OverallRiskScore float64       `json:"overall_risk_score"`
    ProjectFactor    float64       `json:"project_factor"`
    RiskLevel        RiskLevel     `json:"risk_level"`
    RiskBreakdown    RiskBreakdown `json:"risk_breakdown"`
    Recommendations  []string      `json:"recommendations"`
    OptimalWorkDays  []string      `json:"optimal_work_days"`
    AvoidWorkDays    []string      `json:"avoid_work_days"`
}
