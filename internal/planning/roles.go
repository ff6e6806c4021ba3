package planning

import (
	"fmt"
	"strings"
)

const genericTaskType = "General development tasks"

var roleTaskTypes = map[string][]string{
	"Frontend Developer":   {"UI/UX implementation", "Component development", "Frontend testing", "Responsive design"},
	"Backend Developer":    {"API development", "Database design", "Backend testing", "Server configuration"},
	"Full Stack Developer": {"Full feature implementation", "Integration tasks", "End-to-end testing"},
	"Tester":               {"Test case creation", "Manual testing", "Automation testing", "Bug validation"},
	"Designer":             {"UI/UX design", "Prototyping", "Design system", "User research"},
	"DevOps Engineer":      {"CI/CD setup", "Infrastructure", "Deployment", "Monitoring"},
	"Project Manager":      {"Sprint planning", "Stakeholder communication", "Documentation"},
}

// TaskTypesFor returns the task categories suggested for a role. Role names
// match exactly; unknown roles get a single generic category. The result is
// prompt guidance only and never used to accept or reject tasks.
func TaskTypesFor(role string) []string {
	if types, ok := roleTaskTypes[role]; ok {
		return append([]string(nil), types...)
	}
	return []string{genericTaskType}
}

// RoleGuidance renders one "role: categories" line per role, in roster order
func RoleGuidance(roles []string) string {
	lines := make([]string, 0, len(roles))
	for _, role := range roles {
		lines = append(lines, fmt.Sprintf("%s: %s", role, strings.Join(TaskTypesFor(role), ",")))
	}
	return strings.Join(lines, "\n")
}
