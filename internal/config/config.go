package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"sprint-planner/internal/planning"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	DefaultGeminiModel    = "gemini-1.5-flash"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	defaultTemperature = 0.7

	placeholderAPIKey    = "your-api-key-here"
	placeholderJiraToken = "your-jira-api-token"
)

// Config represents the application configuration
type Config struct {
	Generator  GeneratorConfig  `yaml:"generator"`
	Jira       JiraConfig       `yaml:"jira"`
	Processing ProcessingConfig `yaml:"processing"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GeneratorConfig represents the plan generator configuration
type GeneratorConfig struct {
	Provider       string  `yaml:"provider"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxTokens      int     `yaml:"max_tokens"`
	TopK           float64 `yaml:"top_k"`
	TopP           float64 `yaml:"top_p"`

	// Temperature is nil when unset so that an explicit 0 survives defaults
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// JiraConfig represents JIRA API configuration
type JiraConfig struct {
	BaseURL    string `yaml:"base_url"`
	Username   string `yaml:"username"`
	APIToken   string `yaml:"api_token"`
	ProjectKey string `yaml:"project_key"`
	Timeout    int    `yaml:"timeout_seconds"`

	// SetPriority sends the task priority; some projects hide the field
	SetPriority bool `yaml:"set_priority"`
}

// ProcessingConfig represents processing configuration
type ProcessingConfig struct {
	OutputDir        string `yaml:"output_dir"`
	SaveIntermediate bool   `yaml:"save_intermediate"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides are applied either way.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	return &config, nil
}

// Sample returns the configuration written by the init command
func Sample() *Config {
	config := &Config{
		Generator: GeneratorConfig{
			Provider: ProviderGemini,
			APIKey:   placeholderAPIKey,
		},
		Jira: JiraConfig{
			BaseURL:    "https://your-domain.atlassian.net",
			Username:   "your-email@example.com",
			APIToken:   placeholderJiraToken,
			ProjectKey: "PROJ",
		},
		Processing: ProcessingConfig{SaveIntermediate: true},
	}
	config.applyDefaults()
	return config
}

// Save writes the configuration as YAML
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && (c.Generator.Provider == "" || strings.EqualFold(c.Generator.Provider, ProviderGemini)) {
		c.Generator.APIKey = key
		c.Generator.Provider = ProviderGemini
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && (c.Generator.Provider == "" || strings.EqualFold(c.Generator.Provider, ProviderAnthropic)) {
		c.Generator.APIKey = key
		c.Generator.Provider = ProviderAnthropic
	}

	if provider := os.Getenv("SPRINT_PLANNER_PROVIDER"); provider != "" {
		c.Generator.Provider = strings.ToLower(provider)
	}

	if token := os.Getenv("JIRA_API_TOKEN"); token != "" {
		c.Jira.APIToken = token
	}
}

func (c *Config) applyDefaults() {
	if c.Generator.Provider == "" {
		c.Generator.Provider = ProviderGemini
	}
	c.Generator.Provider = strings.ToLower(c.Generator.Provider)

	if c.Generator.Model == "" {
		if c.Generator.Provider == ProviderAnthropic {
			c.Generator.Model = DefaultAnthropicModel
		} else {
			c.Generator.Model = DefaultGeminiModel
		}
	}
	if c.Generator.TimeoutSeconds == 0 {
		c.Generator.TimeoutSeconds = 120
	}
	if c.Generator.MaxTokens == 0 {
		c.Generator.MaxTokens = 8192
	}
	if c.Generator.Temperature == nil {
		temperature := defaultTemperature
		c.Generator.Temperature = &temperature
	}
	if c.Generator.TopK == 0 {
		c.Generator.TopK = 40
	}
	if c.Generator.TopP == 0 {
		c.Generator.TopP = 0.95
	}
	if c.Jira.Timeout == 0 {
		c.Jira.Timeout = 30
	}
	if c.Processing.OutputDir == "" {
		c.Processing.OutputDir = "./output"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8088"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// TemperatureValue returns the configured temperature, or the default when
// none is set
func (g *GeneratorConfig) TemperatureValue() float64 {
	if g.Temperature == nil {
		return defaultTemperature
	}
	return *g.Temperature
}

// ValidateGenerator checks that the generator can be called
func (c *Config) ValidateGenerator() error {
	switch c.Generator.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unknown provider %q", planning.ErrConfiguration, c.Generator.Provider)
	}

	if c.Generator.APIKey == "" || c.Generator.APIKey == placeholderAPIKey {
		return fmt.Errorf("%w: %s API key is required", planning.ErrConfiguration, c.Generator.Provider)
	}
	return nil
}

// ValidateJira checks that JIRA tickets can be created
func (c *Config) ValidateJira() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("%w: JIRA base URL is required", planning.ErrConfiguration)
	}

	if c.Jira.Username == "" {
		return fmt.Errorf("%w: JIRA username is required", planning.ErrConfiguration)
	}

	if c.Jira.APIToken == "" || c.Jira.APIToken == placeholderJiraToken {
		return fmt.Errorf("%w: JIRA API token is required", planning.ErrConfiguration)
	}

	return nil
}
