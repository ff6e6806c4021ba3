package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sprint-planner/internal/config"
	"sprint-planner/internal/helpers"
	"sprint-planner/internal/models"
	"sprint-planner/internal/repositories"
)

const (
	createAttempts     = 3
	defaultSubtaskType = "Sub-task"
	aiGeneratedLabel   = "ai-generated"
)

// JiraAPI is the part of the JIRA REST API the service uses
type JiraAPI interface {
	ListProjects(ctx context.Context) ([]models.JiraProjectInfo, error)
	GetProjectInfo(ctx context.Context, projectKey string) (*models.JiraProjectInfo, error)
	GetIssueTypes(ctx context.Context, projectKey string) ([]string, error)
	CreateIssue(ctx context.Context, issue *models.JiraIssue) (*models.JiraResponse, error)
}

// PushSummary reports what a plan push created
type PushSummary struct {
	ProjectKey string            `json:"projectKey"`
	Parents    int               `json:"parents"`
	Children   int               `json:"children"`
	Failed     []string          `json:"failed,omitempty"`
	Keys       map[string]string `json:"keys"`
}

// JiraService handles JIRA business logic
type JiraService struct {
	repo       JiraAPI
	config     *config.JiraConfig
	logger     *zap.Logger
	retryDelay time.Duration
}

// NewJiraService creates a new JIRA service
func NewJiraService(jiraConfig *config.JiraConfig, logger *zap.Logger) *JiraService {
	return NewJiraServiceWithAPI(repositories.NewJiraRepository(jiraConfig), jiraConfig, logger)
}

// NewJiraServiceWithAPI creates a JIRA service on top of api
func NewJiraServiceWithAPI(api JiraAPI, jiraConfig *config.JiraConfig, logger *zap.Logger) *JiraService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JiraService{
		repo:       api,
		config:     jiraConfig,
		logger:     logger,
		retryDelay: 2 * time.Second,
	}
}

// ResolveProjectKey returns the configured project key, or the key derived
// from the plan's project name
func (s *JiraService) ResolveProjectKey(result *models.PlanResult) string {
	if s.config.ProjectKey != "" {
		return s.config.ProjectKey
	}
	if result.ProjectKey != "" {
		return result.ProjectKey
	}
	return models.ProjectKey(result.Project.Name)
}

// TestConnection tests the JIRA connection and validates project access
func (s *JiraService) TestConnection(ctx context.Context, projectKey string) error {
	helpers.PrintInfo("Testing JIRA authentication and listing accessible projects...")

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	helpers.PrintSuccess("Authentication successful! Found %d accessible projects", len(projects))

	projectFound := false
	for _, project := range projects {
		marker := "📋"
		if project.Key == projectKey {
			marker = "✅"
			projectFound = true
		}
		helpers.PrintInfo("  %s %s (%s)", marker, project.Key, project.Name)
	}

	if !projectFound {
		helpers.PrintWarning("Project key '%s' not found in accessible projects!", projectKey)
		return fmt.Errorf("project key '%s' not found in accessible projects", projectKey)
	}

	if _, err := s.repo.GetProjectInfo(ctx, projectKey); err != nil {
		return fmt.Errorf("failed to access project: %w", err)
	}

	helpers.PrintSuccess("JIRA connection successful")
	return nil
}

// CreateIssueWithRetry creates a JIRA issue, retrying failed attempts
func (s *JiraService) CreateIssueWithRetry(ctx context.Context, issue *models.JiraIssue) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= createAttempts; attempt++ {
		resp, err := s.repo.CreateIssue(ctx, issue)
		if err == nil {
			return resp.Key, nil
		}

		lastErr = err
		s.logger.Warn("Create issue attempt failed",
			zap.String("summary", issue.Fields.Summary),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < createAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", createAttempts, lastErr)
}

// CreateTicketsFromPlan creates one issue per parent task, then one issue
// per remaining task linked to its family's parent. Epic children become
// Tasks under the epic, other children become sub-tasks, and tasks outside
// any family become standalone Tasks.
func (s *JiraService) CreateTicketsFromPlan(ctx context.Context, result *models.PlanResult) (*PushSummary, error) {
	projectKey := s.ResolveProjectKey(result)
	subtaskType := s.subtaskTypeName(ctx, projectKey)
	tasks := result.Plan.Tasks

	summary := &PushSummary{ProjectKey: projectKey, Keys: make(map[string]string)}
	parentKeys := make(map[string]string)
	parentLabels := make(map[string]models.Label)

	for i, task := range tasks {
		if !task.IsParentLevel() {
			continue
		}
		helpers.PrintProgress(i+1, len(tasks), fmt.Sprintf("Creating %s: %s", strings.ToLower(string(task.Label)), task.Title))

		key, err := s.CreateIssueWithRetry(ctx, s.buildIssue(task, projectKey, models.JiraIssueTypeName(task.Label), ""))
		if err != nil {
			return summary, fmt.Errorf("failed to create '%s': %w", task.Title, err)
		}

		summary.Parents++
		summary.Keys[task.Title] = key
		if _, exists := parentKeys[task.FamilyID]; task.FamilyID != "" && !exists {
			parentKeys[task.FamilyID] = key
			parentLabels[task.FamilyID] = task.Label
		}
		helpers.PrintSuccess("Created %s", key)
	}

	for i, task := range tasks {
		if task.IsParentLevel() {
			continue
		}
		helpers.PrintProgress(i+1, len(tasks), fmt.Sprintf("Creating subtask: %s", task.Title))

		issueType, parentKey := models.JiraIssueTypeName(task.Label), ""
		if key, ok := parentKeys[task.FamilyID]; ok && task.FamilyID != "" {
			parentKey = key
			issueType = subtaskType
			if parentLabels[task.FamilyID] == models.LabelEpic {
				issueType = models.JiraIssueTypeName(models.LabelTask)
			}
		}

		key, err := s.CreateIssueWithRetry(ctx, s.buildIssue(task, projectKey, issueType, parentKey))
		if err != nil {
			helpers.PrintWarning("Failed to create '%s': %v", task.Title, err)
			summary.Failed = append(summary.Failed, task.Title)
			continue
		}

		summary.Children++
		summary.Keys[task.Title] = key
		helpers.PrintSuccess("Created %s", key)
	}

	helpers.PrintSuccess("JIRA tickets created: %d parents, %d children, %d failed",
		summary.Parents, summary.Children, len(summary.Failed))
	return summary, nil
}

func (s *JiraService) buildIssue(task models.Task, projectKey, issueType, parentKey string) *models.JiraIssue {
	issue := &models.JiraIssue{
		Fields: models.JiraFields{
			Project:     models.JiraProject{Key: projectKey},
			Summary:     task.Title,
			Description: issueDescription(task),
			IssueType:   models.JiraIssueType{Name: issueType},
			Labels:      issueLabels(task),
		},
	}

	if s.config.SetPriority {
		if name := models.JiraPriorityName(task.Priority); name != "" {
			issue.Fields.Priority = &models.JiraPriority{Name: name}
		}
	}

	if parentKey != "" {
		issue.Fields.Parent = &models.JiraParent{Key: parentKey}
	}
	return issue
}

func (s *JiraService) subtaskTypeName(ctx context.Context, projectKey string) string {
	types, err := s.repo.GetIssueTypes(ctx, projectKey)
	if err != nil {
		s.logger.Warn("Could not list issue types", zap.String("project", projectKey), zap.Error(err))
		return defaultSubtaskType
	}

	for _, name := range types {
		if strings.EqualFold(name, "Sub-task") || strings.EqualFold(name, "Subtask") {
			return name
		}
	}
	return defaultSubtaskType
}

func issueDescription(task models.Task) string {
	var b strings.Builder
	b.WriteString(task.Description)
	b.WriteString("\n\n")
	if task.AssigneeRole != "" {
		fmt.Fprintf(&b, "*Assignee role:* %s\n", task.AssigneeRole)
	}
	fmt.Fprintf(&b, "*Story points:* %d\n", task.StoryPoint)
	if len(task.Dependencies) > 0 {
		fmt.Fprintf(&b, "*Dependencies:* %s\n", strings.Join(task.Dependencies, ", "))
	}
	return strings.TrimSpace(b.String())
}

func issueLabels(task models.Task) []string {
	labels := []string{aiGeneratedLabel}
	if task.SprintIndex >= 0 {
		labels = append(labels, fmt.Sprintf("sprint-%d", task.SprintIndex+1))
	}
	return labels
}
