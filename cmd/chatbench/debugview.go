package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/chatbench/pkg/trace"
)

// debugTimeLayout formats trace timestamps in the debug pane.
const debugTimeLayout = "2006-01-02 15:04:05"

// debugViewModel lists dispatch traces, most recent first.
type debugViewModel struct {
	viewport viewport.Model
	traces   []trace.Trace
	width    int
}

func newDebugView() debugViewModel {
	return debugViewModel{viewport: viewport.New(0, 0)}
}

func (m debugViewModel) Update(msg tea.Msg) (debugViewModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m debugViewModel) View() string {
	title := debugTitleStyle.Render(fmt.Sprintf("Debug (%d)", len(m.traces)))
	return debugBorder.Width(max(m.width, 1)).Render(title + "\n" + m.viewport.View())
}

// setTraces replaces the rendered log. The newest trace is shown at the top.
func (m *debugViewModel) setTraces(traces []trace.Trace) {
	m.traces = traces
	m.viewport.SetContent(renderTraces(traces))
	m.viewport.GotoTop()
}

// setSize sizes the pane. height includes the border and title lines.
func (m *debugViewModel) setSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
}

func renderTraces(traces []trace.Trace) string {
	if len(traces) == 0 {
		return dimStyle.Render("No requests yet.")
	}

	blocks := make([]string, 0, len(traces))
	for _, t := range traces {
		blocks = append(blocks, renderTrace(t))
	}
	return strings.Join(blocks, "\n\n")
}

func renderTrace(t trace.Trace) string {
	var sb strings.Builder

	sb.WriteString(debugKeyStyle.Render("time:     "))
	sb.WriteString(t.Timestamp.Format(debugTimeLayout))
	sb.WriteString("\n")
	sb.WriteString(debugKeyStyle.Render("input:    "))
	sb.WriteString(t.Input)
	sb.WriteString("\n")
	sb.WriteString(debugKeyStyle.Render("params:"))
	sb.WriteString("\n")
	sb.WriteString(formatParamsJSON(t.Parameters))
	sb.WriteString("\n")

	switch {
	case t.Succeeded():
		sb.WriteString(debugKeyStyle.Render("response: "))
		sb.WriteString(debugSuccessStyle.Render(*t.Response))
		if t.Latency != nil {
			sb.WriteString("\n")
			sb.WriteString(debugKeyStyle.Render("latency:  "))
			sb.WriteString(fmtLatency(*t.Latency))
		}
	case t.Error != nil:
		sb.WriteString(debugKeyStyle.Render("error:    "))
		sb.WriteString(errorStyle.Render(*t.Error))
	}

	return sb.String()
}
