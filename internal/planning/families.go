package planning

import (
	"github.com/google/uuid"

	"sprint-planner/internal/models"
)

// AssignFamilies returns a copy of plan in which every PARENT task carries a
// family id and every other task naming that parent by title shares it.
// Existing ids are kept. When several parents share a title, subtasks join
// the first of them.
func AssignFamilies(plan *models.Plan, newID func() string) *models.Plan {
	out := plan.Clone()
	if newID == nil {
		newID = uuid.NewString
	}
	linkFamilies(out, newID)
	return out
}

func linkFamilies(plan *models.Plan, newID func() string) {
	byTitle := make(map[string]string)

	for i := range plan.Tasks {
		t := &plan.Tasks[i]
		if !t.IsParentLevel() {
			continue
		}
		if t.FamilyID == "" {
			t.FamilyID = newID()
		}
		if _, seen := byTitle[t.Title]; !seen {
			byTitle[t.Title] = t.FamilyID
		}
	}

	for i := range plan.Tasks {
		t := &plan.Tasks[i]
		if t.IsParentLevel() || t.FamilyID != "" || t.ParentTaskTitle == nil {
			continue
		}
		if id, ok := byTitle[*t.ParentTaskTitle]; ok {
			t.FamilyID = id
		}
	}
}

func needsFamilies(plan *models.Plan) bool {
	for _, t := range plan.Tasks {
		if t.IsParentLevel() && t.FamilyID == "" {
			return true
		}
	}
	return false
}

// familyParents maps each family id to the index of its first PARENT task
func familyParents(plan *models.Plan) map[string]int {
	parents := make(map[string]int)
	for i, t := range plan.Tasks {
		if !t.IsParentLevel() || t.FamilyID == "" {
			continue
		}
		if _, ok := parents[t.FamilyID]; !ok {
			parents[t.FamilyID] = i
		}
	}
	return parents
}
