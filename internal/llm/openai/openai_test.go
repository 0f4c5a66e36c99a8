package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/config"
	"docanalyzer/internal/llm"
	"docanalyzer/internal/llm/openai"
	"docanalyzer/internal/port"
)

func newTestClient(serverURL string) *openai.Client {
	cfg := &config.LLMConfig{
		Provider:    "openai",
		APIKey:      "test-openai-key",
		TimeoutSecs: 30,
	}
	return openai.NewClientWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, "json_object", reqBody["response_format"].(map[string]interface{})["type"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		assert.Equal(t, "be precise", messages[0].(map[string]interface{})["content"])
		assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

		_ = json.NewEncoder(w).Encode(successResponse(`{"vendor":"ACME"}`))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{
		SystemPrompt: "be precise",
		UserPrompt:   "extract",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"vendor":"ACME"}`, out.Content)
	assert.Equal(t, "gpt-4o", out.ModelUsed)
}

func TestComplete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, "gpt-4o", rlErr.Model)
	assert.Equal(t, 12.0, rlErr.RetryAfter.Seconds())
}

func TestComplete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestComplete_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ven"},"finish_reason":"length"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	_, err := openai.Factory(&config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)

	m, err := openai.Factory(&config.LLMConfig{Provider: "openai", APIKey: "k"})
	assert.NoError(t, err)
	assert.NotNil(t, m)
}
