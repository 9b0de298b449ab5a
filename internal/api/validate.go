package api

import (
    "fmt"

    "monsoonplan/internal/model"
)

func validateRiskRequest(req *model.RiskAssessmentRequest) error {
    if req.DurationDays != nil && *req.DurationDays < 0 {
        return fmt.Errorf("duration_days must be >= 0")
    }
    return nil
}

func validateScheduleRequest(req *model.ScheduleRequest) error {
    for i, t := range req.Tasks {
        if t.DurationDays != nil && *t.DurationDays <= 0 {
            return fmt.Errorf("tasks[%d] (%s): duration_days must be > 0", i, t.Name)
        }
    }
    return nil
}
