package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProviderComplete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"handler":"triage"}`}},
			},
		})
	})

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	out, err := p.Complete(context.Background(), "You are a router.", []types.Message{
		types.NewUserMessage("I have chest pain"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"handler":"triage"}`, out)
}

func TestOpenAIProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  types.ErrorCode
		retryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, types.ErrAuthentication, false},
		{"rate limited", http.StatusTooManyRequests, types.ErrRateLimited, true},
		{"upstream 500", http.StatusInternalServerError, types.ErrUpstreamError, true},
		{"bad request", http.StatusBadRequest, types.ErrInvalidRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"message": "nope", "type": "test"},
				})
			})

			p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL}, nil)
			_, err := p.Complete(context.Background(), "", []types.Message{types.NewUserMessage("hi")})
			require.Error(t, err)

			var terr *types.Error
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.wantCode, terr.Code)
			assert.Equal(t, tt.retryable, terr.Retryable)
		})
	}
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL}, nil)
	_, err := p.Complete(context.Background(), "", []types.Message{types.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, types.ErrUpstreamError, types.GetErrorCode(err))
}

func TestOpenAIProviderHealthCheck(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL}, nil)
	st, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Healthy)
	assert.Greater(t, st.Latency.Nanoseconds(), int64(0))
}
