package planning

import (
	"fmt"
	"math"
	"strings"
	"time"

	"sprint-planner/internal/models"
)

const (
	sprintLengthDays = 14
	teamFactorBase   = 4.0
	teamFactorCap    = 1.5
	mainTaskShare    = 0.8
)

// baseTasksPerSprint by tier
var baseTasksPerSprint = map[models.ComplexityTier]int{
	models.TierHigh:   20,
	models.TierMedium: 17,
	models.TierLow:    15,
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// ParseDate parses an ISO-8601 calendar date or timestamp
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidProject, value)
}

// DurationDays returns the project length in whole days, rounded up
func DurationDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// ComputeQuotas turns project timing, team size and tier into task quotas.
// An end date on or before the start date is rejected.
func ComputeQuotas(start, end time.Time, teamSize int, tier models.ComplexityTier) (models.Quotas, error) {
	durationDays := DurationDays(start, end)
	if durationDays <= 0 {
		return models.Quotas{}, fmt.Errorf("%w: end date %s is not after start date %s",
			ErrInvalidProject, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	numSprints := int(math.Ceil(float64(durationDays) / sprintLengthDays))
	if numSprints < 1 {
		numSprints = 1
	}

	teamFactor := math.Min(float64(teamSize)/teamFactorBase, teamFactorCap)

	base, ok := baseTasksPerSprint[tier]
	if !ok {
		base = baseTasksPerSprint[models.TierMedium]
	}

	tasksPerSprint := int(math.Floor(float64(base) * teamFactor))
	totalTasks := tasksPerSprint * numSprints
	mainTasks := int(math.Floor(float64(totalTasks) * mainTaskShare))

	return models.Quotas{
		DurationDays:   durationDays,
		NumSprints:     numSprints,
		TeamFactor:     teamFactor,
		TasksPerSprint: tasksPerSprint,
		TotalTasks:     totalTasks,
		MainTasks:      mainTasks,
		SubTasks:       totalTasks - mainTasks,
	}, nil
}

// QuotasForProject validates the project and computes its tier and quotas
func QuotasForProject(project *models.ProjectData) (models.ComplexityTier, models.Quotas, error) {
	if err := ValidateProject(project); err != nil {
		return "", models.Quotas{}, err
	}

	start, err := ParseDate(project.StartDate)
	if err != nil {
		return "", models.Quotas{}, fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(project.EndDate)
	if err != nil {
		return "", models.Quotas{}, fmt.Errorf("end date: %w", err)
	}

	tier := Classify(project.Name, project.Description)
	quotas, err := ComputeQuotas(start, end, project.TeamSize(), tier)
	if err != nil {
		return "", models.Quotas{}, err
	}
	return tier, quotas, nil
}

// ValidateProject checks the request fields planning depends on
func ValidateProject(project *models.ProjectData) error {
	if project == nil {
		return fmt.Errorf("%w: no project", ErrInvalidProject)
	}
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidProject)
	}
	if len(project.Members) == 0 {
		return fmt.Errorf("%w: at least one member is required", ErrInvalidProject)
	}
	return nil
}
