package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/config"
	"docanalyzer/internal/llm"
	"docanalyzer/internal/port"
)

func TestFactory_RegisterAndCreate(t *testing.T) {
	llm.RegisterProvider("test-provider", func(cfg *config.LLMConfig) (port.LanguageModel, error) {
		return &stubModel{model: cfg.DefaultModel}, nil
	})

	m, err := llm.New(&config.LLMConfig{Provider: "test-provider", DefaultModel: "test-model"})

	require.NoError(t, err)
	out, err := m.Complete(context.Background(), port.CompletionInput{})
	require.NoError(t, err)
	assert.Equal(t, "test-model", out.ModelUsed)
	assert.Contains(t, llm.Providers(), "test-provider")
}

func TestFactory_UnknownProvider(t *testing.T) {
	m, err := llm.New(&config.LLMConfig{Provider: "nonexistent-provider-xyz"})

	assert.Nil(t, m)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

// stubModel is a minimal LanguageModel for testing the factory.
type stubModel struct {
	model string
}

func (s *stubModel) Complete(_ context.Context, _ port.CompletionInput) (*port.CompletionOutput, error) {
	return &port.CompletionOutput{Content: "{}", ModelUsed: s.model}, nil
}
