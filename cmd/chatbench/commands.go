package main

import (
	"fmt"
	"strings"

	"github.com/germanamz/chatbench/pkg/backend"
)

// command is a parsed slash command.
type command struct {
	name string
	args []string
}

// parseCommand splits a slash command into its name and arguments. ok is
// false when text is not a command.
func parseCommand(text string) (command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}

	fields := strings.Fields(text)
	return command{
		name: strings.ToLower(fields[0]),
		args: fields[1:],
	}, true
}

// rest joins the arguments back together, for values that may contain spaces.
func (c command) rest() string {
	return strings.Join(c.args, " ")
}

// formatHealth renders a backend health report for an alert box.
func formatHealth(h backend.HealthResponse) string {
	return fmt.Sprintf("status:   %s\nprovider: %s\ncalls:    %d\ntokens:   %d in / %d out",
		h.Status, h.Provider, h.Calls, h.InputTokens, h.OutputTokens)
}

func helpText() string {
	return noticeStyle.Render(
		"Commands:\n" +
			"  /help                Show this help message\n" +
			"  /quit, /exit         Exit the chat\n" +
			"  /params              Toggle the parameter panel\n" +
			"  /debug               Toggle the debug pane\n" +
			"  /set <name> <value>  Set a parameter (temperature, max_length, top_p, top_k)\n" +
			"  /reset               Restore the starting parameters\n" +
			"  /file [path]         Select a fine-tuning dataset (no path opens a picker)\n" +
			"  /finetune            Upload the selected dataset\n" +
			"  /sync                Push the current parameters to the backend\n" +
			"  /health              Show backend status and token usage\n" +
			"  /clear               Remove notices from the conversation pane\n\n" +
			"Shortcuts:\n" +
			"  Enter                Submit message\n" +
			"  Alt+Enter            New line\n" +
			"  F2                   Focus the parameter panel\n" +
			"  PgUp/PgDn            Scroll the conversation\n" +
			"  Ctrl+C               Exit",
	)
}
