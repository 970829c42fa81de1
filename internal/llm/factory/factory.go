// Package factory selects a generation backend from the configured model
// name. Lives outside package llm so the provider packages can depend on
// the shared contracts without a cycle.
package factory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/llm"
	"github.com/propdocs/extractor/internal/llm/anthropic"
	"github.com/propdocs/extractor/internal/llm/gemini"
	"github.com/propdocs/extractor/internal/llm/openai"
)

// New builds the Generator for cfg.Model. Model names starting with "gpt",
// "o1", or "o3" route to OpenAI, "claude" to Anthropic, "gemini" to Gemini.
func New(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.Generator, error) {
	model := strings.ToLower(cfg.Model)

	switch {
	case strings.HasPrefix(model, "gpt") || strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3"):
		if cfg.OpenAIAPIKey == "" {
			return nil, common.ConfigError("model %q requires OPENAI_API_KEY", cfg.Model)
		}
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger), nil

	case strings.HasPrefix(model, "claude"):
		if cfg.AnthropicAPIKey == "" {
			return nil, common.ConfigError("model %q requires ANTHROPIC_API_KEY", cfg.Model)
		}
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger), nil

	case strings.HasPrefix(model, "gemini"):
		if cfg.GeminiAPIKey == "" {
			return nil, common.ConfigError("model %q requires GEMINI_API_KEY", cfg.Model)
		}
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   int32(cfg.MaxTokens),
		}, logger)

	default:
		return nil, common.ConfigError("unrecognized model %q: expected a gpt*, o1*, o3*, claude*, or gemini* name", cfg.Model)
	}
}
