package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	visiondomain "github.com/smallbiznis/specto/internal/providers/vision/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		apiKey:  "test-key",
		model:   "gpt-4o",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
		log:     zap.NewNop(),
	}
}

func completionBody(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
		"usage": map[string]any{"total_tokens": 42},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestGenerateShapesModelOutput(t *testing.T) {
	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`"Image of a red ceramic mug on a wooden table."`)))
	})

	result, err := client.Generate(context.Background(), visiondomain.GenerateRequest{
		ImageURL: "https://img.example/a.jpg",
		Context:  visiondomain.ProductContext{Name: "Ceramic Mug"},
		Style:    visiondomain.StyleBalanced,
		Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "A red ceramic mug on a wooden table", result.AltText)
	assert.Equal(t, 42, result.TokensUsed)

	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 150, captured.MaxTokens)
	assert.InDelta(t, 0.6, captured.Temperature, 0.001)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	client := &Client{log: zap.NewNop()}

	_, err := client.Generate(context.Background(), visiondomain.GenerateRequest{
		ImageURL: "https://img.example/a.jpg",
	})
	require.ErrorIs(t, err, visiondomain.ErrMissingAPIKey)
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	})

	_, err := client.Generate(context.Background(), visiondomain.GenerateRequest{
		ImageURL: "https://img.example/a.jpg",
		Style:    visiondomain.StyleBalanced,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGenerateEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Generate(context.Background(), visiondomain.GenerateRequest{
		ImageURL: "https://img.example/a.jpg",
		Style:    visiondomain.StyleConcise,
	})
	require.ErrorIs(t, err, visiondomain.ErrEmptyResponse)
}
