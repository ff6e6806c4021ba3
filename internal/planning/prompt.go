package planning

import (
	"fmt"
	"strings"

	"sprint-planner/internal/models"
)

// BuildPlanPrompt renders the generation prompt for a project. Quotas and the
// role guidance are embedded as hard constraints for the generator.
func BuildPlanPrompt(project *models.ProjectData, tier models.ComplexityTier, quotas models.Quotas) string {
	var members strings.Builder
	for i, m := range project.Members {
		if i > 0 {
			members.WriteString("\n")
		}
		fmt.Fprintf(&members, "- %s (%s): %s", m.Username, m.Role, m.Email)
	}

	return fmt.Sprintf(`Generate a complete project plan for: %s
Description: %s
Complexity Level: %s

PROJECT METRICS:
- Duration: %d days (%d sprints x 2 weeks)
- Team Size: %d members
- Tasks Per Sprint: %d (adaptive based on complexity)
- Total Tasks: %d (%d main tasks + %d subtasks)

TEAM MEMBERS & ROLES:
%s

ROLE-SPECIFIC TASK TYPES:
%s

STRICT REQUIREMENTS:
1. Generate EXACTLY %d tasks across %d sprints
2. Each sprint must have approximately %d tasks (can vary ±2)
3. Task Distribution: 80%% main tasks (STORY/EPIC), 20%% subtasks (TASK)
4. CRITICAL: Assign tasks ONLY to appropriate roles:
   - Frontend tasks → Frontend Developer
   - Backend tasks → Backend Developer
   - Testing tasks → Tester
   - Design tasks → Designer
   - Full Stack can take any development task
5. Priority distribution: 15%% HIGHEST, 25%% HIGH, 40%% MEDIUM, 20%% LOW
6. Story points: 1-2 (simple), 3-5 (medium), 8-13 (complex)

TASK CREATION RULES:
- Create main tasks first, then identify which need subtasks
- Subtasks should be specific implementation details of main tasks
- Each subtask must reference its parent task by exact title in "parentTaskTitle"
- A subtask must be in the same sprint as its parent
- Dependencies should be realistic and necessary
- Sprint sequencing: Foundation → Core Features → Advanced Features → Polish

OUTPUT JSON FORMAT (clean JSON only, no markdown):
{
  "sprints": [
    {
      "name": "Sprint 1: Project Foundation",
      "description": "Setup and core infrastructure",
      "startDate": "%s",
      "endDate": "YYYY-MM-DD",
      "goals": ["Project setup", "Core architecture"]
    }
  ],
  "tasks": [
    {
      "title": "Database Schema Design",
      "description": "Design and implement database schema with entities, relationships, and constraints",
      "label": "STORY",
      "priority": "HIGHEST",
      "storyPoint": 5,
      "assigneeRole": "Backend Developer",
      "sprintIndex": 0,
      "dependencies": [],
      "parentTaskTitle": null,
      "isParent": true,
      "level": "PARENT"
    },
    {
      "title": "Create User Entity Table",
      "description": "Implement user table with proper indexes and constraints",
      "label": "TASK",
      "priority": "HIGH",
      "storyPoint": 2,
      "assigneeRole": "Backend Developer",
      "sprintIndex": 0,
      "dependencies": [],
      "parentTaskTitle": "Database Schema Design",
      "isParent": false,
      "level": "SUBTASK"
    }
  ],
  "recommendations": [
    "Focus on MVP features first",
    "Implement testing throughout development",
    "Regular code reviews and integration"
  ],
  "estimatedCompletion": "%s"
}`,
		project.Name, project.Description, tier.Upper(),
		quotas.DurationDays, quotas.NumSprints,
		project.TeamSize(),
		quotas.TasksPerSprint,
		quotas.TotalTasks, quotas.MainTasks, quotas.SubTasks,
		members.String(),
		RoleGuidance(project.Roles()),
		quotas.TotalTasks, quotas.NumSprints,
		quotas.TasksPerSprint,
		project.StartDate,
		project.EndDate,
	)
}

// BuildImprovePrompt renders the prompt that rewrites a task description
func BuildImprovePrompt(title, currentDescription string) string {
	return fmt.Sprintf(`Improve this task description to be more detailed and actionable:

Task: %s
Current Description: %s

Make it:
- More specific and detailed
- Include acceptance criteria
- Add technical requirements if applicable
- Keep it concise but comprehensive
- Focus on what needs to be delivered

Return only the improved description, no additional text or formatting.`, title, currentDescription)
}
