package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"sprint-planner/internal/config"
	"sprint-planner/internal/planning"
)

// GeminiGenerator generates plans with Google's Gemini API
type GeminiGenerator struct {
	client  *genai.Client
	config  *config.GeneratorConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiGenerator creates a Gemini generator
func NewGeminiGenerator(ctx context.Context, generatorConfig *config.GeneratorConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if generatorConfig.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key not configured", planning.ErrConfiguration)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := time.Duration(generatorConfig.TimeoutSeconds) * time.Second
	clientConfig := &genai.ClientConfig{
		APIKey:     generatorConfig.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if generatorConfig.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: generatorConfig.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:  client,
		config:  generatorConfig,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate sends one prompt and returns the text of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), g.generationConfig())
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := result.Text()
	g.logger.Debug("Gemini response received",
		zap.String("model", g.config.Model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)))

	if text == "" {
		return "", fmt.Errorf("%w: empty response from Gemini", planning.ErrGeneration)
	}
	return text, nil
}

func (g *GeminiGenerator) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.config.TemperatureValue())),
		TopK:            genai.Ptr(float32(g.config.TopK)),
		TopP:            genai.Ptr(float32(g.config.TopP)),
		MaxOutputTokens: int32(g.config.MaxTokens),
	}
}
