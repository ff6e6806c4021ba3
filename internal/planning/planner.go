package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sprint-planner/internal/models"
)

// Generator is the external text generator: one prompt in, raw text out
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Planner runs the full pipeline: quotas, prompt, generation, validation
// and rebalancing. It issues at most one generator request per call and
// never retries.
type Planner struct {
	generator Generator
	validator *Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlanner creates a planner. A nil generator makes every generating call
// fail with ErrConfiguration; a nil logger discards logs.
func NewPlanner(generator Generator, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		generator: generator,
		validator: NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// WithValidator replaces the validator, mainly to fix family ids in tests
func (p *Planner) WithValidator(v *Validator) *Planner {
	p.validator = v
	return p
}

// Quotas computes the tier and quotas of a project without generating
func (p *Planner) Quotas(project *models.ProjectData) (models.ComplexityTier, models.Quotas, error) {
	return QuotasForProject(project)
}

// Plan generates, validates and rebalances a plan for project
func (p *Planner) Plan(ctx context.Context, project *models.ProjectData) (*models.PlanResult, error) {
	tier, quotas, err := QuotasForProject(project)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Computed quotas",
		zap.String("project", project.Name),
		zap.String("tier", string(tier)),
		zap.Int("sprints", quotas.NumSprints),
		zap.Int("tasks_per_sprint", quotas.TasksPerSprint),
		zap.Int("total_tasks", quotas.TotalTasks))

	prompt := BuildPlanPrompt(project, tier, quotas)
	p.logger.Debug("Built plan prompt", zap.Int("prompt_chars", len(prompt)))

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Received generator response", zap.Int("response_chars", len(raw)))

	return p.finish(project, tier, quotas, raw)
}

// FromResponse runs validation and rebalancing on a previously saved raw
// generator response for project
func (p *Planner) FromResponse(project *models.ProjectData, raw string) (*models.PlanResult, error) {
	tier, quotas, err := QuotasForProject(project)
	if err != nil {
		return nil, err
	}
	return p.finish(project, tier, quotas, raw)
}

// ImproveDescription asks the generator for a more actionable description
func (p *Planner) ImproveDescription(ctx context.Context, title, currentDescription string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("%w: task title is required", ErrInvalidProject)
	}

	raw, err := p.generate(ctx, BuildImprovePrompt(title, currentDescription))
	if err != nil {
		return "", fmt.Errorf("failed to improve task description: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

func (p *Planner) generate(ctx context.Context, prompt string) (string, error) {
	if p.generator == nil {
		return "", fmt.Errorf("%w: no generator", ErrConfiguration)
	}

	raw, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("Generator call failed", zap.Error(err))
		if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return raw, nil
}

func (p *Planner) finish(project *models.ProjectData, tier models.ComplexityTier, quotas models.Quotas, raw string) (*models.PlanResult, error) {
	draft, err := p.validator.Validate(raw)
	if err != nil {
		p.logger.Warn("Rejected generator response", zap.Error(err))
		return nil, err
	}

	plan, report := Rebalance(draft, quotas)

	p.logger.Info("Rebalanced plan",
		zap.Int("sprints", len(plan.Sprints)),
		zap.Int("tasks", len(plan.Tasks)),
		zap.Int("target", report.Target),
		zap.Ints("counts_before", report.CountsBefore),
		zap.Ints("counts_after", report.CountsAfter),
		zap.Int("families_moved", report.FamiliesMoved),
		zap.Bool("balanced", report.ReachedBalance))

	return &models.PlanResult{
		Project:     *project,
		ProjectKey:  models.ProjectKey(project.Name),
		Tier:        tier,
		Quotas:      quotas,
		Plan:        *plan,
		Report:      report,
		GeneratedAt: p.now(),
		RawResponse: raw,
	}, nil
}
