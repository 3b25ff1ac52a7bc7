package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// statusBarModel shows connection, dataset and timing information.
type statusBarModel struct {
	baseURL  string
	dataset  string
	busy     bool
	failed   bool // last request failed; details live in the debug pane
	latency  time.Duration
	duration time.Duration
	traces   int
}

func newStatusBar(baseURL string) statusBarModel {
	return statusBarModel{baseURL: baseURL}
}

func (m statusBarModel) View() string {
	parts := []string{" " + m.baseURL}

	if m.dataset != "" {
		parts = append(parts, "dataset: "+truncate(filepath.Base(m.dataset), 32))
	}
	if m.latency > 0 {
		parts = append(parts, "last: "+fmtLatency(m.latency))
	}
	if m.duration > 0 {
		parts = append(parts, fmtDuration(m.duration))
	}
	parts = append(parts, fmt.Sprintf("traces: %d", m.traces))

	line := statusStyle.Render(strings.Join(parts, " · "))
	if m.failed {
		line += errorStyle.Render(" · last request failed (see /debug)")
	}
	if m.busy {
		line = busyStyle.Render(" ● sending") + statusStyle.Render(" ·") + line
	}
	return line
}
