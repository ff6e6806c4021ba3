package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"sprint-planner/internal/config"
	"sprint-planner/internal/planning"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com"
	anthropicVersion    = "2023-06-01"
)

// AnthropicGenerator generates plans with the Anthropic messages API
type AnthropicGenerator struct {
	config  *config.GeneratorConfig
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewAnthropicGenerator creates an Anthropic generator
func NewAnthropicGenerator(generatorConfig *config.GeneratorConfig, logger *zap.Logger) (*AnthropicGenerator, error) {
	if generatorConfig.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key not configured", planning.ErrConfiguration)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimSuffix(generatorConfig.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}

	return &AnthropicGenerator{
		config:  generatorConfig,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: time.Duration(generatorConfig.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

// Generate sends one prompt and returns the text of the first content block
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("failed to decode API response: %w", err)
	}

	g.logger.Debug("Anthropic response received",
		zap.String("model", g.config.Model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("blocks", len(apiResponse.Content)))

	for _, block := range apiResponse.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: empty response from API", planning.ErrGeneration)
}
