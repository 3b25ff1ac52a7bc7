package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/params"
	"github.com/germanamz/chatbench/pkg/providers/gemini"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gemini.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := gemini.New(srv.URL, "test-key", "gemini-test")

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func TestComplete_SimpleText(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)

		contents, ok := req["contents"].([]any)
		require.True(t, ok)
		require.Len(t, contents, 1)
		first, _ := contents[0].(map[string]any)
		assert.Equal(t, "user", first["role"])
		parts, _ := first["parts"].([]any)
		require.Len(t, parts, 1)
		part, _ := parts[0].(map[string]any)
		assert.Equal(t, "Hi", part["text"])

		gc, ok := req["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 0.7, gc["temperature"], 1e-9)
		assert.InDelta(t, 0.9, gc["topP"], 1e-9)
		assert.InDelta(t, 50, gc["topK"], 1e-9)
		assert.InDelta(t, 100, gc["maxOutputTokens"], 1e-9)

		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "Hello"}, {"text": "!"}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     3,
				"candidatesTokenCount": 2,
				"totalTokenCount":      5,
			},
		})
	})

	reply, err := adapter.Complete(context.Background(), "Hi", params.Defaults())
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)

	total := adapter.UsageTracker().Total()
	assert.Equal(t, 3, total.InputTokens)
	assert.Equal(t, 2, total.OutputTokens)
	assert.Equal(t, 1, adapter.UsageTracker().Calls())
}

func TestComplete_ZeroTemperatureIsSent(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)
		gc, _ := req["generationConfig"].(map[string]any)

		temp, ok := gc["temperature"]
		assert.True(t, ok, "temperature must be present")
		assert.InDelta(t, 0.0, temp, 1e-9)

		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}},
			}},
		})
	})

	p := params.Defaults()
	p.Temperature = 0

	_, err := adapter.Complete(context.Background(), "Hi", p)
	require.NoError(t, err)
}

func TestComplete_EmptyCandidates(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"candidates": []any{}})
	})

	_, err := adapter.Complete(context.Background(), "Hi", params.Defaults())
	require.ErrorIs(t, err, gemini.ErrEmptyCandidates)
}

func TestComplete_PromptBlocked(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})

	_, err := adapter.Complete(context.Background(), "Hi", params.Defaults())
	require.ErrorContains(t, err, "SAFETY")
}

func TestComplete_HTTPError(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	})

	_, err := adapter.Complete(context.Background(), "Hi", params.Defaults())
	require.Error(t, err)

	var statusErr *modeladapter.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "API key not valid")
}
