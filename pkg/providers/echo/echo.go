// Package echo provides an offline Completer that answers with the prompt
// itself. It needs no credentials, which makes it useful for local runs of
// the server.
package echo

import (
	"context"
	"strings"

	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/modeladapter/usage"
	"github.com/germanamz/chatbench/pkg/params"
)

var (
	_ modeladapter.Completer     = (*Adapter)(nil)
	_ modeladapter.UsageReporter = (*Adapter)(nil)
)

// Adapter repeats the prompt, cut to MaxOutputTokens words. Words stand in
// for tokens in the usage it records.
type Adapter struct {
	usage usage.Tracker
}

// New creates an Adapter.
func New() *Adapter { return &Adapter{} }

// UsageTracker returns the adapter's token usage tracker.
func (a *Adapter) UsageTracker() *usage.Tracker { return &a.usage }

// Complete returns the prompt. It fails only when ctx is already done.
func (a *Adapter) Complete(ctx context.Context, prompt string, p params.Parameters) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := strings.Fields(prompt)
	out := words
	if p.MaxOutputTokens > 0 && len(out) > p.MaxOutputTokens {
		out = out[:p.MaxOutputTokens]
	}

	a.usage.Add(usage.TokenCount{
		InputTokens:  len(words),
		OutputTokens: len(out),
	})

	return strings.Join(out, " "), nil
}
