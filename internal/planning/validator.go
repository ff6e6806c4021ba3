package planning

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"sprint-planner/internal/models"
)

const (
	defaultEstimatedHours = 4.0
	hoursPerStoryPoint    = 4.0
)

// draftTask mirrors models.Task with optional fields kept optional, so a
// missing value can be told apart from a zero one.
type draftTask struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Label           models.Label    `json:"label"`
	Priority        models.Priority `json:"priority"`
	EstimatedHours  *float64        `json:"estimatedHours"`
	StoryPoint      *float64        `json:"storyPoint"`
	AssigneeRole    string          `json:"assigneeRole"`
	SprintIndex     *int            `json:"sprintIndex"`
	Dependencies    []string        `json:"dependencies"`
	ParentTaskTitle *string         `json:"parentTaskTitle"`
	IsParent        bool            `json:"isParent"`
	Level           models.Level    `json:"level"`
}

type draftPlan struct {
	Sprints             []models.Sprint `json:"sprints"`
	Tasks               []draftTask     `json:"tasks"`
	Recommendations     []string        `json:"recommendations"`
	EstimatedCompletion string          `json:"estimatedCompletion"`
}

// Validator turns raw generator text into a normalized plan
type Validator struct {
	// NewID issues family identifiers
	NewID func() string
}

// NewValidator creates a validator issuing uuid family identifiers
func NewValidator() *Validator {
	return &Validator{NewID: uuid.NewString}
}

// Validate parses raw generator text with the default validator
func Validate(raw string) (*models.Plan, error) {
	return NewValidator().Validate(raw)
}

// Validate strips code fences, parses the plan, requires non-empty sprints
// and tasks, normalizes story points and links task families. Family ids are
// always issued here from parent titles; any familyId in the raw text is
// ignored. Titles, sprint
// indices and roles are passed through unrepaired; a missing sprintIndex
// becomes models.UnassignedSprint.
func (v *Validator) Validate(raw string) (*models.Plan, error) {
	payload := StripCodeFence(raw)

	var draft draftPlan
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(draft.Sprints) == 0 {
		return nil, fmt.Errorf("%w: no sprints", ErrInvalidPlanStructure)
	}
	if len(draft.Tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrInvalidPlanStructure)
	}

	plan := &models.Plan{
		Sprints:             draft.Sprints,
		Tasks:               make([]models.Task, 0, len(draft.Tasks)),
		Recommendations:     draft.Recommendations,
		EstimatedCompletion: draft.EstimatedCompletion,
	}
	for _, d := range draft.Tasks {
		plan.Tasks = append(plan.Tasks, NormalizeTask(d.toTask()))
	}

	newID := v.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	linkFamilies(plan, newID)

	return plan, nil
}

func (d draftTask) toTask() models.Task {
	task := models.Task{
		Title:           d.Title,
		Description:     d.Description,
		Label:           d.Label,
		Priority:        d.Priority,
		AssigneeRole:    d.AssigneeRole,
		SprintIndex:     models.UnassignedSprint,
		Dependencies:    d.Dependencies,
		ParentTaskTitle: d.ParentTaskTitle,
		IsParent:        d.IsParent,
		Level:           d.Level,
	}
	if d.SprintIndex != nil {
		task.SprintIndex = *d.SprintIndex
	}
	if d.EstimatedHours != nil {
		task.EstimatedHours = *d.EstimatedHours
	}
	if d.StoryPoint != nil {
		task.StoryPoint = int(math.Ceil(*d.StoryPoint))
	}
	return task
}

// NormalizeTask fills a missing (non-positive) story point from the hour
// estimate, four hours per point, assuming four hours when there is none.
// Applying it twice gives the same task.
func NormalizeTask(task models.Task) models.Task {
	if task.StoryPoint > 0 {
		return task
	}

	hours := task.EstimatedHours
	if hours <= 0 {
		hours = defaultEstimatedHours
	}
	task.StoryPoint = int(math.Ceil(hours / hoursPerStoryPoint))
	return task
}

// StripCodeFence removes a leading ``` or ```json line and a trailing ```
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(strings.TrimPrefix(text, "```"), "json")
		}
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
