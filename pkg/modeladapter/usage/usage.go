// Package usage counts the tokens a model provider reports per call.
package usage

import "sync/atomic"

// TokenCount holds input and output token counts.
type TokenCount struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// Tracker accumulates token usage across calls. The zero value is ready to
// use and it is safe for concurrent use.
type Tracker struct {
	calls  atomic.Int64
	input  atomic.Int64
	output atomic.Int64
}

// Add records the usage of one call.
func (t *Tracker) Add(tc TokenCount) {
	t.calls.Add(1)
	t.input.Add(int64(tc.InputTokens))
	t.output.Add(int64(tc.OutputTokens))
}

// Total returns the aggregate token count across all calls.
func (t *Tracker) Total() TokenCount {
	return TokenCount{
		InputTokens:  int(t.input.Load()),
		OutputTokens: int(t.output.Load()),
	}
}

// Calls returns the number of recorded calls.
func (t *Tracker) Calls() int {
	return int(t.calls.Load())
}
