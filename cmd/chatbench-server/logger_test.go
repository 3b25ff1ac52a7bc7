package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorHandler(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := slog.New(newColorHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("component", "api").WithGroup("req").Info("request", "status", 200)
	logger.Error("boom", "error", "disk full")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF request component=api req.status=200")
	assert.Contains(t, out, "ERR boom error=disk full")
}
