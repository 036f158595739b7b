package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
	"github.com/jhoicas/smart-warehouse/pkg/config"
)

func TestAnthropicComplete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Action: stock_by_sku\nAction Input: A1"}]}`))
	}))
	defer srv.Close()

	svc := NewAnthropicService("test-key", "").WithBaseURL(srv.URL)
	out, err := svc.Complete(context.Background(), "system prompt", []ports.Message{
		{Role: ports.RoleUser, Content: "Question: stock of A1"},
		{Role: ports.RoleAssistant, Content: "Action: x\nAction Input: y"},
		{Role: ports.RoleUser, Content: "Observation: a"},
		{Role: ports.RoleUser, Content: "Observation: b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Action: stock_by_sku\nAction Input: A1", out)

	assert.Equal(t, anthropicModel, got.Model)
	assert.Equal(t, "system prompt", got.System)
	assert.Equal(t, stopSequences, got.StopSequences)
	require.Len(t, got.Messages, 3, "turnos consecutivos del mismo rol se fusionan")
	assert.Equal(t, "Observation: a\nObservation: b", got.Messages[2].Content)
}

func TestAnthropicComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicService("k", "m").WithBaseURL(srv.URL).Complete(context.Background(), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicComplete_NoKey(t *testing.T) {
	_, err := NewAnthropicService("", "").Complete(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestNewLLMService(t *testing.T) {
	svc, err := NewLLMService(context.Background(), config.LLMConfig{Provider: "none"})
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = NewLLMService(context.Background(), config.LLMConfig{Provider: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicService{}, svc)

	_, err = NewLLMService(context.Background(), config.LLMConfig{Provider: "gemini"})
	assert.Error(t, err, "gemini sin API key")

	_, err = NewLLMService(context.Background(), config.LLMConfig{Provider: "cohere", APIKey: "k"})
	assert.Error(t, err)
}
