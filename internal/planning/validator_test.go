package planning

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprint-planner/internal/models"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}```  ", `{"a":1}`},
		{"single line", "```json{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.raw))
		})
	}
}

func TestValidate(t *testing.T) {
	v := &Validator{NewID: sequentialIDs()}

	plan, err := v.Validate("```json\n" + validPlanJSON + "\n```")
	require.NoError(t, err)

	require.Len(t, plan.Sprints, 2)
	require.Len(t, plan.Tasks, 3)
	assert.Equal(t, []string{"Focus on MVP features first"}, plan.Recommendations)
	assert.Equal(t, "2024-01-28", plan.EstimatedCompletion)

	schema := plan.Tasks[0]
	assert.Equal(t, 5, schema.StoryPoint)
	assert.Nil(t, schema.ParentTaskTitle)
	assert.Equal(t, "family-1", schema.FamilyID)

	table := plan.Tasks[1]
	assert.Equal(t, 3, table.StoryPoint, "ceil(10/4)")
	assert.Equal(t, "Database Schema Design", table.ParentTitle())
	assert.Equal(t, "family-1", table.FamilyID)

	login := plan.Tasks[2]
	assert.Equal(t, 1, login.StoryPoint, "default of four hours")
	assert.Equal(t, "family-2", login.FamilyID)
	assert.Equal(t, 1, login.SprintIndex)
}

func TestValidate_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not json", "```json\n{\"sprints\": [\n```", `["sprints"]`} {
		_, err := Validate(raw)
		assert.ErrorIs(t, err, ErrMalformedResponse, raw)
		assert.NotErrorIs(t, err, ErrInvalidPlanStructure)
	}
}

func TestValidate_InvalidStructure(t *testing.T) {
	tests := map[string]string{
		"empty tasks":     `{"sprints": [{"name": "S1"}], "tasks": []}`,
		"missing tasks":   `{"sprints": [{"name": "S1"}]}`,
		"empty sprints":   `{"sprints": [], "tasks": [{"title": "T"}]}`,
		"missing sprints": `{"tasks": [{"title": "T"}]}`,
		"null":            `null`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(raw)
			assert.ErrorIs(t, err, ErrInvalidPlanStructure)
			assert.NotErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestValidate_PassesThroughMissingFields(t *testing.T) {
	plan, err := Validate(`{"sprints": [{"name": "S1"}], "tasks": [{"description": "no title"}]}`)
	require.NoError(t, err)

	task := plan.Tasks[0]
	assert.Empty(t, task.Title)
	assert.Empty(t, task.AssigneeRole)
	assert.Equal(t, models.UnassignedSprint, task.SprintIndex)
	assert.Equal(t, 1, task.StoryPoint)
}

func TestValidate_FractionalStoryPointRoundsUp(t *testing.T) {
	plan, err := Validate(`{"sprints": [{"name": "S1"}], "tasks": [{"title": "T", "storyPoint": 2.5}]}`)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Tasks[0].StoryPoint)
}

func TestNormalizeTask(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want int
	}{
		{"keeps existing", models.Task{StoryPoint: 8, EstimatedHours: 40}, 8},
		{"from hours", models.Task{EstimatedHours: 9}, 3},
		{"exact hours", models.Task{EstimatedHours: 8}, 2},
		{"default hours", models.Task{}, 1},
		{"zero counts as missing", models.Task{StoryPoint: 0, EstimatedHours: 12}, 3},
		{"negative hours use default", models.Task{EstimatedHours: -5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := NormalizeTask(tt.task)
			assert.Equal(t, tt.want, once.StoryPoint)
			assert.Equal(t, once, NormalizeTask(once))
		})
	}
}

func TestAssignFamilies_DuplicateParentTitles(t *testing.T) {
	plan := planWith(1,
		parentTask("Setup", 0),
		parentTask("Setup", 0),
		subTask("Install tooling", "Setup", 0),
		subTask("Orphan", "Missing parent", 0),
	)

	out := AssignFamilies(plan, sequentialIDs())

	assert.Equal(t, "family-1", out.Tasks[0].FamilyID)
	assert.Equal(t, "family-2", out.Tasks[1].FamilyID)
	assert.Equal(t, "family-1", out.Tasks[2].FamilyID)
	assert.Empty(t, out.Tasks[3].FamilyID)

	assert.Empty(t, plan.Tasks[0].FamilyID, "input untouched")
}

func TestAssignFamilies_KeepsExistingIDs(t *testing.T) {
	p := parentTask("Auth", 0)
	p.FamilyID = "kept"
	plan := planWith(1, p, subTask("Token refresh", "Auth", 0))

	out := AssignFamilies(plan, sequentialIDs())
	assert.Equal(t, "kept", out.Tasks[0].FamilyID)
	assert.Equal(t, "kept", out.Tasks[1].FamilyID)

	again := AssignFamilies(out, sequentialIDs())
	assert.Equal(t, out, again)
}

func rawTask(title string, sprint int, level models.Level, parent, familyID string) string {
	parentJSON := "null"
	if parent != "" {
		parentJSON = fmt.Sprintf("%q", parent)
	}
	return fmt.Sprintf(`{"title": %q, "label": "STORY", "priority": "MEDIUM", "storyPoint": 1, "sprintIndex": %d,`+
		` "parentTaskTitle": %s, "isParent": %t, "level": %q, "familyId": %q}`,
		title, sprint, parentJSON, level == models.LevelParent, level, familyID)
}

func rawPlan(numSprints int, tasks ...string) string {
	sprints := make([]string, numSprints)
	for i := range sprints {
		sprints[i] = fmt.Sprintf(`{"name": "Sprint %d"}`, i+1)
	}
	return `{"sprints": [` + strings.Join(sprints, ",") + `], "tasks": [` + strings.Join(tasks, ",") + `]}`
}

func TestValidate_IgnoresGeneratedFamilyIDs(t *testing.T) {
	var tasks []string
	for i := 1; i <= 6; i++ {
		tasks = append(tasks, rawTask(fmt.Sprintf("P%d", i), 0, models.LevelParent, "", "shared"))
	}
	for i := 1; i <= 3; i++ {
		tasks = append(tasks, rawTask(fmt.Sprintf("S%d", i), 1, models.LevelSubtask, "P1", "shared"))
	}
	tasks = append(tasks, rawTask("X", 1, models.LevelParent, "", ""))

	plan, err := (&Validator{NewID: sequentialIDs()}).Validate(rawPlan(2, tasks...))
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, task := range plan.Tasks {
		if task.IsParentLevel() {
			assert.False(t, ids[task.FamilyID], "parents get distinct ids: %s", task.Title)
			ids[task.FamilyID] = true
		}
	}
	assert.Equal(t, plan.Tasks[0].FamilyID, plan.Tasks[6].FamilyID)

	out, _ := Rebalance(plan, models.Quotas{})
	for _, sub := range []string{"S1", "S2", "S3"} {
		assert.Equal(t, sprintOf(out, "P1"), sprintOf(out, sub), sub)
	}
	assert.Equal(t, 1, sprintOf(out, "P6"))
}

func TestValidate_SubtaskFollowsParentTitleNotFamilyID(t *testing.T) {
	raw := rawPlan(2,
		rawTask("A", 0, models.LevelParent, "", ""),
		rawTask("B", 1, models.LevelParent, "", "zzz"),
		rawTask("A1", 1, models.LevelSubtask, "A", "zzz"),
	)

	plan, err := (&Validator{NewID: sequentialIDs()}).Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, plan.Tasks[0].FamilyID, plan.Tasks[2].FamilyID)
	assert.NotEqual(t, "zzz", plan.Tasks[1].FamilyID)

	out, _ := Rebalance(plan, models.Quotas{})
	assert.Equal(t, 0, sprintOf(out, "A1"))
	assert.Equal(t, 1, sprintOf(out, "B"))
}
