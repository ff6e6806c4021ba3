package models

// Label is the issue type of a generated task
type Label string

const (
	LabelStory Label = "STORY"
	LabelBug   Label = "BUG"
	LabelTask  Label = "TASK"
	LabelEpic  Label = "EPIC"
)

// Priority of a generated task
type Priority string

const (
	PriorityLowest  Priority = "LOWEST"
	PriorityLow     Priority = "LOW"
	PriorityMedium  Priority = "MEDIUM"
	PriorityHigh    Priority = "HIGH"
	PriorityHighest Priority = "HIGHEST"
)

// Level distinguishes parent tasks from their subtasks
type Level string

const (
	LevelParent  Level = "PARENT"
	LevelSubtask Level = "SUBTASK"
)

// UnassignedSprint marks a task whose draft carried no sprintIndex
const UnassignedSprint = -1

// Sprint is a generated sprint. Sprints are referenced by position only.
type Sprint struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Goals       []string `json:"goals"`
}

// Task is a generated task
type Task struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Label           Label    `json:"label"`
	Priority        Priority `json:"priority"`
	EstimatedHours  float64  `json:"estimatedHours,omitempty"`
	StoryPoint      int      `json:"storyPoint"`
	AssigneeRole    string   `json:"assigneeRole"`
	SprintIndex     int      `json:"sprintIndex"`
	Dependencies    []string `json:"dependencies"`
	ParentTaskTitle *string  `json:"parentTaskTitle"`
	IsParent        bool     `json:"isParent"`
	Level           Level    `json:"level"`
	FamilyID        string   `json:"familyId,omitempty"`
}

// ParentTitle returns the parent title, or "" when the task has none
func (t *Task) ParentTitle() string {
	if t.ParentTaskTitle == nil {
		return ""
	}
	return *t.ParentTaskTitle
}

// IsParentLevel reports whether the task sits at PARENT level
func (t *Task) IsParentLevel() bool {
	return t.Level == LevelParent
}

// Plan is the complete generated project plan
type Plan struct {
	Sprints             []Sprint `json:"sprints"`
	Tasks               []Task   `json:"tasks"`
	Recommendations     []string `json:"recommendations"`
	EstimatedCompletion string   `json:"estimatedCompletion"`
}

// Clone returns a deep copy of the plan
func (p *Plan) Clone() *Plan {
	out := &Plan{
		Sprints:             make([]Sprint, len(p.Sprints)),
		Tasks:               make([]Task, len(p.Tasks)),
		Recommendations:     append([]string(nil), p.Recommendations...),
		EstimatedCompletion: p.EstimatedCompletion,
	}

	for i, s := range p.Sprints {
		s.Goals = append([]string(nil), s.Goals...)
		out.Sprints[i] = s
	}

	for i, t := range p.Tasks {
		t.Dependencies = append([]string(nil), t.Dependencies...)
		if t.ParentTaskTitle != nil {
			title := *t.ParentTaskTitle
			t.ParentTaskTitle = &title
		}
		out.Tasks[i] = t
	}

	return out
}

// SprintCounts returns the number of tasks assigned to each sprint index.
// Tasks with an index outside the sprint range are not counted.
func (p *Plan) SprintCounts() []int {
	counts := make([]int, len(p.Sprints))
	for _, t := range p.Tasks {
		if t.SprintIndex >= 0 && t.SprintIndex < len(counts) {
			counts[t.SprintIndex]++
		}
	}
	return counts
}

// SprintStoryPoints returns the story point total of each sprint
func (p *Plan) SprintStoryPoints() []int {
	points := make([]int, len(p.Sprints))
	for _, t := range p.Tasks {
		if t.SprintIndex >= 0 && t.SprintIndex < len(points) {
			points[t.SprintIndex] += t.StoryPoint
		}
	}
	return points
}

// TotalStoryPoints sums the story points of every task
func (p *Plan) TotalStoryPoints() int {
	total := 0
	for _, t := range p.Tasks {
		total += t.StoryPoint
	}
	return total
}
