package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/config"
	"docanalyzer/internal/llm/claude"
	"docanalyzer/internal/port"
)

func newTestClient(serverURL string) *claude.Client {
	return claude.NewClientWithEndpoint(&config.LLMConfig{
		Provider:    "claude",
		APIKey:      "test-claude-key",
		TimeoutSecs: 30,
	}, serverURL)
}

func TestComplete_PrefillsJSONObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "system prompt", reqBody["system"])
		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		last := messages[1].(map[string]interface{})
		assert.Equal(t, "assistant", last["role"])
		assert.Equal(t, "{", last["content"])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"\"vendor\":\"ACME\"}"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"vendor":"ACME"}`, out.Content)
	assert.True(t, json.Valid([]byte(out.Content)))
}

func TestComplete_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"\"ven"}],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}
