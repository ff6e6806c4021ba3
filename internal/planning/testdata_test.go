package planning

import (
	"fmt"

	"sprint-planner/internal/models"
)

func parentTask(title string, sprint int) models.Task {
	return models.Task{
		Title:       title,
		Label:       models.LabelStory,
		Priority:    models.PriorityMedium,
		StoryPoint:  3,
		SprintIndex: sprint,
		IsParent:    true,
		Level:       models.LevelParent,
	}
}

func subTask(title, parent string, sprint int) models.Task {
	return models.Task{
		Title:           title,
		Label:           models.LabelTask,
		Priority:        models.PriorityLow,
		StoryPoint:      1,
		SprintIndex:     sprint,
		ParentTaskTitle: &parent,
		Level:           models.LevelSubtask,
	}
}

func planWith(numSprints int, tasks ...models.Task) *models.Plan {
	plan := &models.Plan{Tasks: tasks}
	for i := 0; i < numSprints; i++ {
		plan.Sprints = append(plan.Sprints, models.Sprint{Name: fmt.Sprintf("Sprint %d", i+1)})
	}
	return plan
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("family-%d", n)
	}
}

func sprintOf(plan *models.Plan, title string) int {
	for _, t := range plan.Tasks {
		if t.Title == title {
			return t.SprintIndex
		}
	}
	return -2
}

const validPlanJSON = `{
  "sprints": [
    {"name": "Sprint 1: Foundation", "description": "Setup", "startDate": "2024-01-01", "endDate": "2024-01-14", "goals": ["Setup"]},
    {"name": "Sprint 2: Core", "description": "Core", "startDate": "2024-01-15", "endDate": "2024-01-28", "goals": ["Core"]}
  ],
  "tasks": [
    {"title": "Database Schema Design", "description": "Design schema", "label": "STORY", "priority": "HIGHEST",
     "storyPoint": 5, "assigneeRole": "Backend Developer", "sprintIndex": 0, "dependencies": [],
     "parentTaskTitle": null, "isParent": true, "level": "PARENT"},
    {"title": "Create User Entity Table", "description": "User table", "label": "TASK", "priority": "HIGH",
     "estimatedHours": 10, "assigneeRole": "Backend Developer", "sprintIndex": 0, "dependencies": ["Database Schema Design"],
     "parentTaskTitle": "Database Schema Design", "isParent": false, "level": "SUBTASK"},
    {"title": "Login Screen", "description": "UI", "label": "STORY", "priority": "MEDIUM",
     "assigneeRole": "Frontend Developer", "sprintIndex": 1, "dependencies": [],
     "parentTaskTitle": null, "isParent": true, "level": "PARENT"}
  ],
  "recommendations": ["Focus on MVP features first"],
  "estimatedCompletion": "2024-01-28"
}`
