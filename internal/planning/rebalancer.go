package planning

import (
	"github.com/google/uuid"

	"sprint-planner/internal/models"
)

// BalanceTolerance is how far a sprint may exceed the target before its
// surplus families are moved on
const BalanceTolerance = 3

// Rebalance returns a copy of plan with overflowing sprints relieved.
//
// Every family is first pulled into its parent's sprint, unless the parent
// itself has no valid sprint, in which case its members stay put. Then, in a single
// pass over the sprints in order, a sprint holding more than
// target+BalanceTolerance tasks keeps its first target PARENT tasks and moves
// every later parent, together with its whole family, to the next sprint
// (wrapping around). Underfull sprints are not topped up and the pass does not
// repeat, so the result can remain unbalanced; the report lists any sprint
// still outside tolerance.
func Rebalance(plan *models.Plan, quotas models.Quotas) (*models.Plan, models.BalanceReport) {
	out := plan.Clone()
	report := models.BalanceReport{
		QuotaTarget: quotas.TasksPerSprint,
		Tolerance:   BalanceTolerance,
	}

	numSprints := len(out.Sprints)
	if numSprints == 0 {
		report.ReachedBalance = len(out.Tasks) == 0
		return out, report
	}

	if needsFamilies(out) {
		linkFamilies(out, uuid.NewString)
	}

	report.CountsBefore = out.SprintCounts()
	report.Target = ceilDiv(len(out.Tasks), numSprints)

	joinFamilies(out)

	for i := 0; i < numSprints; i++ {
		count := 0
		var parents []int
		for j, t := range out.Tasks {
			if t.SprintIndex != i {
				continue
			}
			count++
			if t.IsParentLevel() {
				parents = append(parents, j)
			}
		}

		if count <= report.Target+BalanceTolerance || len(parents) <= report.Target {
			continue
		}

		next := (i + 1) % numSprints
		for _, p := range parents[report.Target:] {
			report.TasksMoved += moveFamily(out, p, next)
			report.FamiliesMoved++
		}
	}

	report.CountsAfter = out.SprintCounts()
	for i, count := range report.CountsAfter {
		if count > report.Target+BalanceTolerance {
			report.Overflowing = append(report.Overflowing, i)
		}
		if count < report.Target-BalanceTolerance {
			report.Underflowing = append(report.Underflowing, i)
		}
	}
	report.ReachedBalance = len(report.Overflowing) == 0 && len(report.Underflowing) == 0

	return out, report
}

// joinFamilies moves every family member into the sprint of its parent.
// Parents outside the sprint range pull nobody along.
func joinFamilies(plan *models.Plan) {
	parents := familyParents(plan)
	numSprints := len(plan.Sprints)
	for i := range plan.Tasks {
		t := &plan.Tasks[i]
		if t.IsParentLevel() || t.FamilyID == "" {
			continue
		}
		p, ok := parents[t.FamilyID]
		if !ok {
			continue
		}
		if sprint := plan.Tasks[p].SprintIndex; sprint >= 0 && sprint < numSprints {
			t.SprintIndex = sprint
		}
	}
}

// moveFamily reassigns the parent at index p and its family members to
// sprint and returns the number of tasks whose sprint changed
func moveFamily(plan *models.Plan, p, sprint int) int {
	moved := 0
	family := plan.Tasks[p].FamilyID

	for i := range plan.Tasks {
		t := &plan.Tasks[i]
		member := i == p || (family != "" && !t.IsParentLevel() && t.FamilyID == family)
		if !member {
			continue
		}
		if t.SprintIndex != sprint {
			moved++
		}
		t.SprintIndex = sprint
	}
	return moved
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
