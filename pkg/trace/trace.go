// Package trace records one diagnostic entry per chat dispatch and keeps them
// in a most-recent-first log.
package trace

import (
	"sync"
	"time"

	"github.com/germanamz/chatbench/pkg/params"
)

// Trace is the record of one dispatch attempt. Response and Latency are set
// only on success; Error is set only on failure.
type Trace struct {
	Timestamp  time.Time
	Input      string
	Parameters params.Parameters
	Response   *string
	Error      *string
	Latency    *time.Duration
}

// Begin opens a trace for a dispatch that is about to be issued.
func Begin(input string, p params.Parameters, now time.Time) *Trace {
	return &Trace{
		Timestamp:  now,
		Input:      input,
		Parameters: p,
	}
}

// Succeed fills in the reply and the elapsed time.
func (t *Trace) Succeed(response string, latency time.Duration) {
	t.Response = &response
	t.Latency = &latency
	t.Error = nil
}

// Fail records the error description. An empty description is replaced so
// that a failed trace always carries some text.
func (t *Trace) Fail(err error) {
	desc := "unknown error"
	if err != nil && err.Error() != "" {
		desc = err.Error()
	}
	t.Error = &desc
	t.Response = nil
	t.Latency = nil
}

// Succeeded reports whether the dispatch produced a reply.
func (t Trace) Succeeded() bool {
	return t.Error == nil && t.Response != nil
}

// Log is an unbounded, most-recent-first sequence of completed traces. It is
// safe for concurrent use.
type Log struct {
	mu     sync.RWMutex
	traces []Trace
}

// Prepend stores a completed trace at index 0.
func (l *Log) Prepend(t Trace) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.traces = append(l.traces, Trace{})
	copy(l.traces[1:], l.traces)
	l.traces[0] = t
}

// Len returns the number of recorded traces.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.traces)
}

// At returns the trace at index i, where 0 is the most recent.
// It panics if the index is out of range.
func (l *Log) At(i int) Trace {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.traces[i]
}

// All returns a copy of the log, most recent first.
func (l *Log) All() []Trace {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cp := make([]Trace, len(l.traces))
	copy(cp, l.traces)
	return cp
}
