package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Call(t *testing.T) {
	t.Parallel()

	// Arrange
	received := make(chan messagesRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "ant-key" || r.Header.Get("anthropic-version") != defaultAPIVersion {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req messagesRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		received <- req
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stop_reason":"end_turn","content":[{"type":"text","text":"{\"days\":[]}"}]}`))
	}))
	t.Cleanup(srv.Close)
	p, err := New(&config.ProviderDefinition{Name: "claude", BaseURL: srv.URL, APIKey: "ant-key", Model: "claude-test"},
		registry.Deps{HTTPClient: srv.Client()})
	require.NoError(t, err)

	// Act
	payload, err := p.Call(context.Background(), model.GenerationRequest{System: "JSON only.", Prompt: "Plan days.", MaxTokens: 900})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.GeneratedText(`{"days":[]}`), payload)
	req := <-received
	assert.Equal(t, "claude-test", req.Model)
	assert.Equal(t, 900, req.MaxTokens)
	assert.Equal(t, "JSON only.", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "Plan days.", req.Messages[0].Content)
}

func TestProvider_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error"}}`))
	}))
	t.Cleanup(srv.Close)
	p, err := New(&config.ProviderDefinition{Name: "claude", BaseURL: srv.URL, APIKey: "ant-key"}, registry.Deps{HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = p.Call(context.Background(), model.GenerationRequest{Prompt: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")
}
