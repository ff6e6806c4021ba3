package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sprint-planner/internal/config"
	"sprint-planner/internal/handler"
	"sprint-planner/internal/helpers"
	"sprint-planner/internal/models"
	"sprint-planner/internal/planning"
	"sprint-planner/internal/router"
	"sprint-planner/internal/services"
)

var (
	configFile string
	verbose    bool
	dryRun     bool
	force      bool
	outputDir  string
	projectArg string
	titleArg   string
	descArg    string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "sprint-planner",
		Short: "Sprint Planner - AI-generated, load-balanced sprint plans",
		Long: `Sprint Planner sizes a project into sprints and task quotas, asks an AI
generator for a plan, validates and rebalances it, and can push the result to JIRA.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			helpers.DisableColorUnlessTerminal()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)

	var quotasCmd = &cobra.Command{
		Use:   "quotas <project-file>",
		Short: "Show the complexity tier and task quotas of a project",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuotas,
	}
	rootCmd.AddCommand(quotasCmd)

	var planCmd = &cobra.Command{
		Use:   "plan <project-file>",
		Short: "Generate, validate and rebalance a project plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}
	planCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Display the plan without saving it")
	planCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for plan files")
	rootCmd.AddCommand(planCmd)

	var validateCmd = &cobra.Command{
		Use:   "validate <response-file>",
		Short: "Validate and rebalance a saved raw generator response",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVarP(&projectArg, "project", "p", "", "Project file the response was generated for (required)")
	validateCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Display the plan without saving it")
	validateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for plan files")
	_ = validateCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(validateCmd)

	var improveCmd = &cobra.Command{
		Use:   "improve",
		Short: "Rewrite a task description to be clearer and more actionable",
		Args:  cobra.NoArgs,
		RunE:  runImprove,
	}
	improveCmd.Flags().StringVarP(&titleArg, "title", "t", "", "Task title (required)")
	improveCmd.Flags().StringVarP(&descArg, "description", "D", "", "Current task description")
	_ = improveCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(improveCmd)

	var pushCmd = &cobra.Command{
		Use:   "push <plan-file>",
		Short: "Create JIRA tickets from a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runPush,
	}
	pushCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Show what would be created without actually creating JIRA tickets")
	rootCmd.AddCommand(pushCmd)

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("Error: %s", planning.UserMessage(err))
		if verbose {
			helpers.PrintError("Details: %v", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := helpers.NewLogger(cfg.Logging.Level, verbose)
	if err != nil {
		return nil, nil, err
	}

	if outputDir != "" {
		cfg.Processing.OutputDir = outputDir
	}
	return cfg, logger, nil
}

// newGeneratingService builds a planning service backed by the configured
// generator
func newGeneratingService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*services.PlanningService, error) {
	generator, err := services.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return services.NewPlanningService(cfg, generator, logger), nil
}

func runInit(cmd *cobra.Command, args []string) error {
	helpers.PrintTitle("Initializing Sprint Planner Configuration")

	if helpers.FileExists(configFile) && !force {
		helpers.PrintWarning("Configuration file already exists at %s", configFile)
		if !confirm("Do you want to overwrite it? (y/N): ") {
			helpers.PrintInfo("Configuration initialization cancelled.")
			return nil
		}
	}

	if err := config.Sample().Save(configFile); err != nil {
		return err
	}

	helpers.PrintSuccess("Configuration file created at %s", configFile)
	helpers.PrintWarning("Please edit the configuration file and add your API keys before running the plan command.")
	return nil
}

func runQuotas(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc := services.NewPlanningService(cfg, nil, logger)

	project, err := svc.LoadProject(args[0])
	if err != nil {
		return err
	}

	tier, quotas, err := svc.Planner().Quotas(project)
	if err != nil {
		return err
	}

	svc.DisplayQuotas(project, tier, quotas)
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	helpers.PrintTitle("Generating Project Plan")
	helpers.PrintInfo("Project file: %s", args[0])

	svc, err := newGeneratingService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	project, err := svc.LoadProject(args[0])
	if err != nil {
		return err
	}

	result, err := svc.GeneratePlan(cmd.Context(), project)
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	return finishPlan(svc, result)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	helpers.PrintTitle("Validating Saved Response")
	helpers.PrintInfo("Response file: %s", args[0])

	svc := services.NewPlanningService(cfg, nil, logger)

	project, err := svc.LoadProject(projectArg)
	if err != nil {
		return err
	}

	result, err := svc.PlanFromResponse(project, args[0])
	if err != nil {
		return fmt.Errorf("failed to validate response: %w", err)
	}

	return finishPlan(svc, result)
}

func finishPlan(svc *services.PlanningService, result *models.PlanResult) error {
	svc.DisplayPlan(result)

	if dryRun {
		helpers.PrintInfo("Dry run mode - no files were written")
		return nil
	}

	if _, err := svc.SaveResult(result); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	helpers.PrintSuccess("Planning completed successfully!")
	return nil
}

func runImprove(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc, err := newGeneratingService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	description, err := svc.ImproveDescription(cmd.Context(), titleArg, descArg)
	if err != nil {
		return err
	}

	helpers.PrintTitle("Improved description: %s", titleArg)
	fmt.Fprintln(helpers.Output, description)
	return nil
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	helpers.PrintTitle("Creating JIRA Tickets from Plan")
	helpers.PrintInfo("Plan file: %s", args[0])

	svc := services.NewPlanningService(cfg, nil, logger)

	result, err := svc.LoadResult(args[0])
	if err != nil {
		return err
	}

	helpers.PrintSuccess("Loaded plan for project: %s", result.Project.Name)
	svc.DisplayPlan(result)

	if dryRun {
		helpers.PrintInfo("Dry run mode - no JIRA tickets will be created")
		return nil
	}

	if err := cfg.ValidateJira(); err != nil {
		return err
	}

	if !confirm("Do you want to create these tickets in JIRA? (y/N): ") {
		helpers.PrintInfo("Operation cancelled by user")
		return nil
	}

	jiraService := services.NewJiraService(&cfg.Jira, logger)
	projectKey := jiraService.ResolveProjectKey(result)
	if err := jiraService.TestConnection(cmd.Context(), projectKey); err != nil {
		return fmt.Errorf("failed to create JIRA tickets: %w", err)
	}

	summary, err := jiraService.CreateTicketsFromPlan(cmd.Context(), result)
	if err != nil {
		return fmt.Errorf("failed to create JIRA tickets: %w", err)
	}
	if len(summary.Failed) > 0 {
		helpers.PrintWarning("Some tickets could not be created: %s", strings.Join(summary.Failed, ", "))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	generator, err := services.NewGenerator(cmd.Context(), cfg, logger)
	if err != nil {
		// quotas stay available; planning endpoints answer 503
		helpers.PrintWarning("Generator unavailable: %v", err)
	}

	planHandler := handler.NewPlanHandler(planning.NewPlanner(generator, logger), logger)
	r := router.Setup(cfg, planHandler)

	helpers.PrintSuccess("Serving planning API on %s", cfg.Server.Addr)
	logger.Info("Starting HTTP server", zap.String("addr", cfg.Server.Addr), zap.String("mode", cfg.Server.Mode))
	if err := r.Run(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(prompt)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
