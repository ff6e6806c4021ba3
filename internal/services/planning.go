package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sprint-planner/internal/config"
	"sprint-planner/internal/helpers"
	"sprint-planner/internal/models"
	"sprint-planner/internal/planning"
)

const barWidth = 30

// SavedFiles lists the files written for one plan
type SavedFiles struct {
	PlanPath     string
	SummaryPath  string
	ResponsePath string
}

// PlanningService drives the planner for the CLI: it loads projects, runs
// planning and saves or displays the results
type PlanningService struct {
	config  *config.Config
	planner *planning.Planner
	logger  *zap.Logger
}

// NewPlanningService creates a planning service. generator may be nil for
// commands that never call it.
func NewPlanningService(cfg *config.Config, generator planning.Generator, logger *zap.Logger) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{
		config:  cfg,
		planner: planning.NewPlanner(generator, logger),
		logger:  logger,
	}
}

// Planner returns the underlying planner
func (s *PlanningService) Planner() *planning.Planner {
	return s.planner
}

// LoadProject reads a project from a YAML or JSON file
func (s *PlanningService) LoadProject(path string) (*models.ProjectData, error) {
	var project models.ProjectData
	if err := helpers.LoadDocument(path, &project); err != nil {
		return nil, fmt.Errorf("failed to load project file: %w", err)
	}

	if err := planning.ValidateProject(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GeneratePlan runs the full planning pipeline for project
func (s *PlanningService) GeneratePlan(ctx context.Context, project *models.ProjectData) (*models.PlanResult, error) {
	helpers.PrintInfo("Requesting plan from %s (%s)...", s.config.Generator.Provider, s.config.Generator.Model)
	return s.planner.Plan(ctx, project)
}

// PlanFromResponse validates and rebalances a saved raw generator response
func (s *PlanningService) PlanFromResponse(project *models.ProjectData, responsePath string) (*models.PlanResult, error) {
	raw, err := helpers.ReadFile(responsePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load response file: %w", err)
	}
	return s.planner.FromResponse(project, raw)
}

// ImproveDescription asks the generator for a better task description
func (s *PlanningService) ImproveDescription(ctx context.Context, title, description string) (string, error) {
	return s.planner.ImproveDescription(ctx, title, description)
}

// DisplayQuotas prints the tier and quotas of a project
func (s *PlanningService) DisplayQuotas(project *models.ProjectData, tier models.ComplexityTier, quotas models.Quotas) {
	helpers.PrintTitle("Quotas: %s", project.Name)
	helpers.PrintInfo("Complexity: %s", tier.Upper())
	helpers.PrintInfo("Duration: %d days | Team: %d members (factor %.1f)",
		quotas.DurationDays, project.TeamSize(), quotas.TeamFactor)
	helpers.PrintInfo("Sprints: %d | Tasks per sprint: %d", quotas.NumSprints, quotas.TasksPerSprint)
	helpers.PrintInfo("Total tasks: %d (%d main, %d subtasks)", quotas.TotalTasks, quotas.MainTasks, quotas.SubTasks)
}

// DisplayPlan prints the plan grouped by sprint, followed by the balance report
func (s *PlanningService) DisplayPlan(result *models.PlanResult) {
	plan := &result.Plan

	helpers.PrintTitle("Project Plan: %s (%s)", result.Project.Name, result.ProjectKey)
	helpers.PrintInfo("Complexity: %s | Sprints: %d | Tasks: %d | Story points: %d",
		result.Tier.Upper(), len(plan.Sprints), len(plan.Tasks), plan.TotalStoryPoints())
	helpers.PrintSeparator()

	for i, sprint := range plan.Sprints {
		helpers.PrintSprint("Sprint %d: %s (%s → %s)", i+1, sprint.Name, sprint.StartDate, sprint.EndDate)
		if sprint.Description != "" {
			helpers.PrintInfo("Description: %s", sprint.Description)
		}
		for _, goal := range sprint.Goals {
			helpers.PrintInfo("  • %s", goal)
		}

		for _, task := range plan.Tasks {
			if task.SprintIndex == i && isTopLevel(task) {
				printTask(plan, task)
			}
		}
		helpers.PrintSeparator()
	}

	var unassigned []models.Task
	for _, task := range plan.Tasks {
		if task.SprintIndex < 0 || task.SprintIndex >= len(plan.Sprints) {
			unassigned = append(unassigned, task)
		}
	}
	if len(unassigned) > 0 {
		helpers.PrintWarning("%d tasks have no valid sprint:", len(unassigned))
		for _, task := range unassigned {
			helpers.PrintInfo("  %s (sprint %d)", task.Title, task.SprintIndex)
		}
		helpers.PrintSeparator()
	}

	s.DisplayReport(plan, result.Report)

	if len(plan.Recommendations) > 0 {
		helpers.PrintInfo("Recommendations:")
		for _, rec := range plan.Recommendations {
			helpers.PrintInfo("  • %s", rec)
		}
	}
	if plan.EstimatedCompletion != "" {
		helpers.PrintInfo("Estimated completion: %s", plan.EstimatedCompletion)
	}
}

// DisplayReport prints the sprint loads before and after rebalancing
func (s *PlanningService) DisplayReport(plan *models.Plan, report models.BalanceReport) {
	helpers.PrintInfo("Sprint load (target %d ± %d, quota %d per sprint):",
		report.Target, report.Tolerance, report.QuotaTarget)

	maxCount := 0
	for _, count := range report.CountsAfter {
		if count > maxCount {
			maxCount = count
		}
	}

	points := plan.SprintStoryPoints()
	for i, count := range report.CountsAfter {
		before := 0
		if i < len(report.CountsBefore) {
			before = report.CountsBefore[i]
		}
		helpers.PrintInfo("  Sprint %-2d %-*s %3d tasks (was %d), %d points",
			i+1, barWidth, helpers.Bar(count, maxCount, barWidth), count, before, points[i])
	}

	helpers.PrintInfo("Moved %d families (%d tasks)", report.FamiliesMoved, report.TasksMoved)
	if report.ReachedBalance {
		helpers.PrintSuccess("All sprints are within tolerance")
		return
	}
	if len(report.Overflowing) > 0 {
		helpers.PrintWarning("Sprints still over target: %s", sprintList(report.Overflowing))
	}
	if len(report.Underflowing) > 0 {
		helpers.PrintWarning("Sprints still under target: %s", sprintList(report.Underflowing))
	}
}

// SaveResult writes the plan as JSON, a Markdown summary and, when
// configured, the raw generator response
func (s *PlanningService) SaveResult(result *models.PlanResult) (*SavedFiles, error) {
	outputDir := s.config.Processing.OutputDir
	if err := helpers.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	prefix := helpers.Slug(result.Project.Name)
	saved := &SavedFiles{
		PlanPath:    helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename(prefix+"-plan", result.GeneratedAt, "json")),
		SummaryPath: helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename(prefix+"-summary", result.GeneratedAt, "md")),
	}

	if err := helpers.SaveJSON(result, saved.PlanPath); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	helpers.PrintSuccess("Saved plan to: %s", saved.PlanPath)

	if err := helpers.WriteFile(saved.SummaryPath, Summary(result)); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}
	helpers.PrintSuccess("Saved summary to: %s", saved.SummaryPath)

	if s.config.Processing.SaveIntermediate && result.RawResponse != "" {
		saved.ResponsePath = helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename(prefix+"-response", result.GeneratedAt, "txt"))
		if err := helpers.WriteFile(saved.ResponsePath, result.RawResponse); err != nil {
			return nil, fmt.Errorf("failed to save raw response: %w", err)
		}
		helpers.PrintSuccess("Saved raw response to: %s", saved.ResponsePath)
	}

	s.logger.Debug("Saved plan result", zap.String("plan", saved.PlanPath), zap.String("summary", saved.SummaryPath))
	return saved, nil
}

// LoadResult reads a plan saved by SaveResult
func (s *PlanningService) LoadResult(path string) (*models.PlanResult, error) {
	var result models.PlanResult
	if err := helpers.LoadJSON(path, &result); err != nil {
		return nil, fmt.Errorf("failed to load plan file: %w", err)
	}
	if len(result.Plan.Tasks) == 0 {
		return nil, fmt.Errorf("%w: plan file has no tasks", planning.ErrInvalidPlanStructure)
	}
	return &result, nil
}

// Summary renders a Markdown summary of a plan
func Summary(result *models.PlanResult) string {
	plan := &result.Plan
	var summary strings.Builder

	summary.WriteString(fmt.Sprintf("# %s\n\n", result.Project.Name))
	if result.Project.Description != "" {
		summary.WriteString(fmt.Sprintf("**Overview:** %s\n\n", result.Project.Description))
	}
	summary.WriteString(fmt.Sprintf("**Project Key:** %s\n", result.ProjectKey))
	summary.WriteString(fmt.Sprintf("**Complexity:** %s\n", result.Tier.Upper()))
	summary.WriteString(fmt.Sprintf("**Sprints:** %d\n", len(plan.Sprints)))
	summary.WriteString(fmt.Sprintf("**Total Tasks:** %d (quota %d)\n", len(plan.Tasks), result.Quotas.TotalTasks))
	summary.WriteString(fmt.Sprintf("**Total Story Points:** %d\n\n", plan.TotalStoryPoints()))

	for i, sprint := range plan.Sprints {
		summary.WriteString(fmt.Sprintf("## Sprint %d: %s\n\n", i+1, sprint.Name))
		summary.WriteString(fmt.Sprintf("**Dates:** %s → %s\n\n", sprint.StartDate, sprint.EndDate))
		if sprint.Description != "" {
			summary.WriteString(fmt.Sprintf("%s\n\n", sprint.Description))
		}

		if len(sprint.Goals) > 0 {
			summary.WriteString("**Goals:**\n")
			for _, goal := range sprint.Goals {
				summary.WriteString(fmt.Sprintf("- %s\n", goal))
			}
			summary.WriteString("\n")
		}

		for _, task := range plan.Tasks {
			if task.SprintIndex != i || !isTopLevel(task) {
				continue
			}
			summary.WriteString(fmt.Sprintf("### %s: %s\n\n", task.Label, task.Title))
			summary.WriteString(fmt.Sprintf("**Points:** %d | **Priority:** %s | **Role:** %s\n\n", task.StoryPoint, task.Priority, task.AssigneeRole))
			summary.WriteString(fmt.Sprintf("%s\n\n", task.Description))

			for _, child := range familyMembers(plan, task) {
				summary.WriteString(fmt.Sprintf("- %s (%d pts, %s)\n", child.Title, child.StoryPoint, child.AssigneeRole))
			}
			summary.WriteString("\n")
		}
	}

	if len(plan.Recommendations) > 0 {
		summary.WriteString("## Recommendations\n\n")
		for _, rec := range plan.Recommendations {
			summary.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		summary.WriteString("\n")
	}

	return summary.String()
}

func printTask(plan *models.Plan, task models.Task) {
	helpers.PrintInfo("  %s %s", task.Label, task.Title)
	helpers.PrintInfo("    Points: %d | Priority: %s | Role: %s", task.StoryPoint, task.Priority, task.AssigneeRole)
	if len(task.Dependencies) > 0 {
		helpers.PrintInfo("    Dependencies: %s", strings.Join(task.Dependencies, ", "))
	}
	for _, child := range familyMembers(plan, task) {
		helpers.PrintInfo("      - %s (%d pts, %s)", child.Title, child.StoryPoint, child.AssigneeRole)
	}
}

// isTopLevel reports whether task is listed on its own: parents and tasks
// outside any family
func isTopLevel(task models.Task) bool {
	return task.IsParentLevel() || task.FamilyID == ""
}

// familyMembers returns the non-parent tasks sharing the parent's family
func familyMembers(plan *models.Plan, parent models.Task) []models.Task {
	if parent.FamilyID == "" {
		return nil
	}
	var members []models.Task
	for _, t := range plan.Tasks {
		if !t.IsParentLevel() && t.FamilyID == parent.FamilyID {
			members = append(members, t)
		}
	}
	return members
}

func sprintList(indices []int) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = fmt.Sprintf("%d", idx+1)
	}
	return strings.Join(names, ", ")
}
