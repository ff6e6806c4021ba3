package planning

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprint-planner/internal/models"
)

func scenarioCPlan(subtaskParent string) *models.Plan {
	var tasks []models.Task
	for i := 1; i <= 6; i++ {
		tasks = append(tasks, parentTask(fmt.Sprintf("P%d", i), 0))
	}
	for i := 1; i <= 3; i++ {
		tasks = append(tasks, subTask(fmt.Sprintf("S%d", i), subtaskParent, 0))
	}
	tasks = append(tasks, parentTask("X1", 1))
	return planWith(2, tasks...)
}

func TestRebalance_ScenarioC_ExcessParentTakesItsSubtasks(t *testing.T) {
	out, report := Rebalance(scenarioCPlan("P6"), models.Quotas{TasksPerSprint: 5})

	assert.Equal(t, 5, report.Target)
	assert.Equal(t, 5, report.QuotaTarget)
	assert.Equal(t, []int{9, 1}, report.CountsBefore)
	assert.Equal(t, []int{5, 5}, report.CountsAfter)
	assert.Equal(t, 1, report.FamiliesMoved)
	assert.Equal(t, 4, report.TasksMoved)
	assert.True(t, report.ReachedBalance)

	for _, title := range []string{"P1", "P2", "P3", "P4", "P5"} {
		assert.Equal(t, 0, sprintOf(out, title), title)
	}
	for _, title := range []string{"P6", "S1", "S2", "S3", "X1"} {
		assert.Equal(t, 1, sprintOf(out, title), title)
	}
}

func TestRebalance_ScenarioC_RetainedParentKeepsItsSubtasks(t *testing.T) {
	out, report := Rebalance(scenarioCPlan("P1"), models.Quotas{})

	assert.Equal(t, []int{8, 2}, report.CountsAfter)
	assert.Equal(t, 1, report.FamiliesMoved)
	assert.Equal(t, 1, sprintOf(out, "P6"))
	for _, title := range []string{"P1", "S1", "S2", "S3"} {
		assert.Equal(t, 0, sprintOf(out, title), title)
	}
}

func TestRebalance_DoesNotMutateInput(t *testing.T) {
	plan := scenarioCPlan("P6")
	before := plan.Clone()

	out, _ := Rebalance(plan, models.Quotas{})

	assert.Equal(t, before, plan)
	assert.NotEqual(t, plan.Tasks[5].SprintIndex, out.Tasks[5].SprintIndex)
}

func TestRebalance_WrapsToFirstSprint(t *testing.T) {
	tasks := []models.Task{parentTask("A", 0)}
	for i := 1; i <= 11; i++ {
		tasks = append(tasks, parentTask(fmt.Sprintf("B%d", i), 1))
	}

	out, report := Rebalance(planWith(2, tasks...), models.Quotas{})

	assert.Equal(t, 6, report.Target)
	assert.Equal(t, []int{6, 6}, report.CountsAfter)
	assert.Equal(t, 1, sprintOf(out, "B6"))
	assert.Equal(t, 0, sprintOf(out, "B7"))
	assert.Equal(t, 0, sprintOf(out, "B11"))
}

func TestRebalance_WithinToleranceUntouched(t *testing.T) {
	var tasks []models.Task
	for i := 1; i <= 8; i++ {
		tasks = append(tasks, parentTask(fmt.Sprintf("A%d", i), 0))
	}
	for i := 1; i <= 4; i++ {
		tasks = append(tasks, parentTask(fmt.Sprintf("B%d", i), 1))
	}
	plan := planWith(2, tasks...)

	out, report := Rebalance(plan, models.Quotas{})

	assert.Equal(t, 6, report.Target)
	assert.Equal(t, []int{8, 4}, report.CountsAfter)
	assert.Zero(t, report.FamiliesMoved)
	assert.True(t, report.ReachedBalance)
	for i := range plan.Tasks {
		assert.Equal(t, plan.Tasks[i].SprintIndex, out.Tasks[i].SprintIndex)
	}
}

func TestRebalance_SinglePassLeavesSubtaskHeavyOverflow(t *testing.T) {
	tasks := []models.Task{parentTask("Big A", 0), parentTask("Big B", 0)}
	for i := 1; i <= 6; i++ {
		tasks = append(tasks, subTask(fmt.Sprintf("A%d", i), "Big A", 0))
		tasks = append(tasks, subTask(fmt.Sprintf("B%d", i), "Big B", 0))
	}

	_, report := Rebalance(planWith(2, tasks...), models.Quotas{})

	assert.Equal(t, 7, report.Target)
	assert.Equal(t, []int{14, 0}, report.CountsAfter)
	assert.Equal(t, []int{0}, report.Overflowing)
	assert.Equal(t, []int{1}, report.Underflowing)
	assert.False(t, report.ReachedBalance)
}

func TestRebalance_UnderflowNotToppedUp(t *testing.T) {
	var tasks []models.Task
	for i := 1; i <= 9; i++ {
		tasks = append(tasks, parentTask(fmt.Sprintf("A%d", i), i%2))
	}
	plan := planWith(3, tasks...)

	_, report := Rebalance(plan, models.Quotas{})

	assert.Equal(t, 3, report.Target)
	assert.Equal(t, []int{4, 5, 0}, report.CountsAfter)
	assert.Empty(t, report.Overflowing)
	assert.Empty(t, report.Underflowing)
}

func TestRebalance_JoinsSplitFamilies(t *testing.T) {
	plan := planWith(3,
		parentTask("API", 0),
		subTask("Endpoints", "API", 2),
		subTask("Docs", "API", 1),
		parentTask("UI", 1),
		subTask("Orphan", "Nothing", 2),
	)

	out, report := Rebalance(plan, models.Quotas{})

	assert.Equal(t, 0, sprintOf(out, "Endpoints"))
	assert.Equal(t, 0, sprintOf(out, "Docs"))
	assert.Equal(t, 2, sprintOf(out, "Orphan"))
	assert.Equal(t, []int{1, 2, 2}, report.CountsBefore)
	assert.Equal(t, []int{3, 1, 1}, report.CountsAfter)
}

func TestRebalance_DuplicateParentTitlesMoveSeparately(t *testing.T) {
	plan := planWith(2,
		parentTask("Setup", 0),
		parentTask("P2", 0),
		parentTask("P3", 0),
		parentTask("P4", 0),
		parentTask("Setup", 0),
		parentTask("P6", 0),
		subTask("Install", "Setup", 0),
		subTask("Configure", "Setup", 0),
	)

	out, report := Rebalance(plan, models.Quotas{})

	assert.Equal(t, 4, report.Target)
	assert.Equal(t, []int{6, 2}, report.CountsAfter)
	assert.Equal(t, 0, out.Tasks[0].SprintIndex)
	assert.Equal(t, 1, out.Tasks[4].SprintIndex)
	assert.Equal(t, 1, out.Tasks[5].SprintIndex)
	assert.Equal(t, 0, out.Tasks[6].SprintIndex)
	assert.Equal(t, 0, out.Tasks[7].SprintIndex)
}

func TestRebalance_UnassignedTasksAreTolerated(t *testing.T) {
	stray := parentTask("Stray", models.UnassignedSprint)
	plan := planWith(1, parentTask("A", 0), stray)

	out, report := Rebalance(plan, models.Quotas{})

	assert.Equal(t, []int{1}, report.CountsAfter)
	assert.Equal(t, models.UnassignedSprint, sprintOf(out, "Stray"))
}

func TestRebalance_NoSprints(t *testing.T) {
	out, report := Rebalance(&models.Plan{}, models.Quotas{})
	require.NotNil(t, out)
	assert.Zero(t, report.Target)
	assert.True(t, report.ReachedBalance)
}

func TestRebalance_FamiliesShareOneSprint(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 15; i++ {
		parent := fmt.Sprintf("Feature %d", i)
		tasks = append(tasks, parentTask(parent, 0))
		tasks = append(tasks, subTask(parent+" part a", parent, i%4))
		tasks = append(tasks, subTask(parent+" part b", parent, (i+1)%4))
	}

	out, _ := Rebalance(planWith(4, tasks...), models.Quotas{})

	sprintByFamily := map[string]int{}
	for _, task := range out.Tasks {
		require.NotEmpty(t, task.FamilyID)
		if s, ok := sprintByFamily[task.FamilyID]; ok {
			assert.Equal(t, s, task.SprintIndex, task.Title)
		} else {
			sprintByFamily[task.FamilyID] = task.SprintIndex
		}
	}
}

func TestRebalance_Deterministic(t *testing.T) {
	plan := AssignFamilies(scenarioCPlan("P6"), sequentialIDs())

	first, firstReport := Rebalance(plan, models.Quotas{})
	second, secondReport := Rebalance(plan, models.Quotas{})

	assert.Equal(t, first, second)
	assert.Equal(t, firstReport, secondReport)
}

func TestRebalance_UnassignedParentLeavesSubtasksInPlace(t *testing.T) {
	plan := AssignFamilies(planWith(2,
		parentTask("Stray", models.UnassignedSprint),
		subTask("Stray part", "Stray", 1),
		parentTask("A", 0),
	), sequentialIDs())

	out, report := Rebalance(plan, models.Quotas{})

	assert.Equal(t, 1, sprintOf(out, "Stray part"))
	assert.Equal(t, models.UnassignedSprint, sprintOf(out, "Stray"))
	assert.Equal(t, []int{1, 1}, report.CountsAfter)
}
