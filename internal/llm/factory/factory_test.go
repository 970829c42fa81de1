package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdocs/extractor/internal/common"
)

func TestNewRoutesByModelName(t *testing.T) {
	tests := []struct {
		name    string
		cfg     common.LLMConfig
		wantErr bool
	}{
		{
			name: "gpt routes to openai",
			cfg:  common.LLMConfig{Model: "gpt-4o-mini", OpenAIAPIKey: "sk-test"},
		},
		{
			name: "o1 routes to openai",
			cfg:  common.LLMConfig{Model: "o1-mini", OpenAIAPIKey: "sk-test"},
		},
		{
			name: "claude routes to anthropic",
			cfg:  common.LLMConfig{Model: "claude-3-5-haiku-latest", AnthropicAPIKey: "sk-ant-test"},
		},
		{
			name:    "openai model without key fails",
			cfg:     common.LLMConfig{Model: "gpt-4o-mini"},
			wantErr: true,
		},
		{
			name:    "anthropic model without key fails",
			cfg:     common.LLMConfig{Model: "claude-3-5-haiku-latest"},
			wantErr: true,
		},
		{
			name:    "gemini model without key fails",
			cfg:     common.LLMConfig{Model: "gemini-1.5-flash"},
			wantErr: true,
		},
		{
			name:    "unknown model fails",
			cfg:     common.LLMConfig{Model: "llama-3-70b", OpenAIAPIKey: "sk-test"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(context.Background(), tt.cfg, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Model, gen.Model())
		})
	}
}
