// Package gemini implements the generation interface on the Google
// Generative AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/propdocs/extractor/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey      string  // required
	Model       string  // e.g. "gemini-1.5-flash"
	Temperature float32 // 0..2
	MaxTokens   int32   // output token cap
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    Config
	logger *slog.Logger
}

// NewClient dials the Generative AI service. Close releases the underlying
// connection.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxTokens)

	return &Client{
		client: client,
		model:  model,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Complete sends the prompt and concatenates the text parts of the first
// candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Debug("llm.complete.start",
		"req_id", rid,
		"provider", "gemini",
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("llm.complete.api_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", classifyGenaiErr(ctx, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	content := strings.TrimSpace(b.String())
	c.logger.Debug("llm.complete.ok",
		"req_id", rid,
		"response_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// classifyGenaiErr maps SDK failures onto the shared transient/permanent
// split. The SDK surfaces HTTP status through googleapi.Error.
func classifyGenaiErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429, apiErr.Code == 408, apiErr.Code >= 500:
			return llm.Transient(err)
		default:
			return err
		}
	}
	// Transport-level failures without a status are worth retrying.
	return llm.Transient(err)
}

var _ llm.Generator = (*Client)(nil)
