package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatbench/pkg/params"
)

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{100 * time.Millisecond, "0.1s"},
		{2 * time.Second, "2.0s"},
		{65 * time.Second, "1m 5s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, fmtDuration(tt.input), "fmtDuration(%v)", tt.input)
	}
}

func TestFmtLatency(t *testing.T) {
	assert.Equal(t, "0ms", fmtLatency(0))
	assert.Equal(t, "1234ms", fmtLatency(1234*time.Millisecond+500*time.Microsecond))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 3))
	assert.Equal(t, "hello world", truncate("hello\nworld", 20))
	assert.Empty(t, truncate("", 5))
}

func TestFormatParamsJSON(t *testing.T) {
	out := formatParamsJSON(params.Defaults())

	assert.Contains(t, out, "\n  \"temperature\": 0.7")

	var p params.Parameters
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, params.Defaults(), p)
}

func TestRenderMarkdown_WithoutRenderer(t *testing.T) {
	saved := mdRenderer
	mdRenderer = nil
	t.Cleanup(func() { mdRenderer = saved })

	assert.Equal(t, "**bold**", renderMarkdown("**bold**"))
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHATBENCH_DOTENV_TEST=yes\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CHATBENCH_DOTENV_TEST") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "yes", os.Getenv("CHATBENCH_DOTENV_TEST"))
}

func TestRandomThinkingMessage(t *testing.T) {
	msg := randomThinkingMessage()
	assert.True(t, slices.Contains(thinkingMessages, msg))
}
