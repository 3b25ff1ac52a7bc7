// Package session owns one interactive conversation: the message store, the
// request dispatcher that turns user input into chat calls, the debug trace
// log, and the fine-tuning upload path.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/chats/chat"
	"github.com/germanamz/chatbench/pkg/chats/message"
	"github.com/germanamz/chatbench/pkg/chats/role"
	"github.com/germanamz/chatbench/pkg/params"
	"github.com/germanamz/chatbench/pkg/trace"
)

var (
	// ErrEmptyInput is returned by Send when the input is blank.
	ErrEmptyInput = errors.New("session: empty input")
	// ErrNoFile is returned by Upload when no file was selected.
	ErrNoFile = errors.New("session: no file selected")
)

// Client is the subset of the backend protocol a session needs.
type Client interface {
	Chat(ctx context.Context, req backend.ChatRequest) (string, error)
	FineTune(ctx context.Context, filename string, r io.Reader) (backend.MessageResponse, error)
	UpdateParameters(ctx context.Context, p params.Parameters) (backend.MessageResponse, error)
	Health(ctx context.Context) (backend.HealthResponse, error)
}

// State is the dispatch state of a session.
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	if s == StateSending {
		return "sending"
	}
	return "idle"
}

// Options configures a Session.
type Options struct {
	Client     Client
	Parameters params.Parameters // Initial parameters; clamped into range.
	Greeting   string            // Seeded assistant message; empty disables it.
	Events     *EventBus         // Nil creates a private bus.
	Logger     *slog.Logger      // Nil discards logs.
	Now        func() time.Time  // Nil uses time.Now.
}

// Outcome describes one settled dispatch.
type Outcome struct {
	User  message.Message
	Reply *message.Message // Nil when the call failed.
	Trace trace.Trace
}

// UploadResult is published after every upload attempt.
type UploadResult struct {
	File    string
	Message string
	Err     error
}

// Session is safe for concurrent use. Overlapping Send calls are allowed;
// their replies land in completion order and the in-flight state clears only
// when the last one settles.
type Session struct {
	client Client
	chat   *chat.Chat
	traces *trace.Log
	events *EventBus
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	params   params.Parameters
	inFlight int
}

// New creates a Session. The greeting, if any, is appended before New
// returns and is not a dispatch.
func New(opts Options) (*Session, error) {
	if opts.Client == nil {
		return nil, errors.New("session: client is required")
	}

	s := &Session{
		client: opts.Client,
		chat:   chat.New(),
		traces: &trace.Log{},
		events: opts.Events,
		log:    opts.Logger,
		now:    opts.Now,
		params: opts.Parameters.Clamp(),
	}

	if s.events == nil {
		s.events = NewEventBus()
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}

	if opts.Greeting != "" {
		s.chat.Append(message.NewAt(role.Assistant, opts.Greeting, s.now()))
	}

	return s, nil
}

// Chat returns the conversation store for read-only observation.
func (s *Session) Chat() *chat.Chat { return s.chat }

// Traces returns the debug log, most recent first.
func (s *Session) Traces() *trace.Log { return s.traces }

// Events returns the bus the session publishes to.
func (s *Session) Events() *EventBus { return s.events }

// Parameters returns the current generation parameters.
func (s *Session) Parameters() params.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.params
}

// SetParameters replaces the generation parameters, clamping them into range.
// Dispatches already in flight keep the snapshot they started with.
func (s *Session) SetParameters(p params.Parameters) params.Parameters {
	return s.UpdateParameters(func(params.Parameters) params.Parameters { return p })
}

// UpdateParameters applies fn to the current parameters atomically and
// returns the clamped result.
func (s *Session) UpdateParameters(fn func(params.Parameters) params.Parameters) params.Parameters {
	s.mu.Lock()
	s.params = fn(s.params).Clamp()
	p := s.params
	s.mu.Unlock()

	s.log.Debug("parameters changed",
		"temperature", p.Temperature,
		"max_output_tokens", p.MaxOutputTokens,
		"top_p", p.TopP,
		"top_k", p.TopK,
	)
	s.publish(EventParametersChanged, p)

	return p
}

// InFlight reports whether any dispatch is awaiting its reply.
func (s *Session) InFlight() bool {
	return s.State() == StateSending
}

// State returns the current dispatch state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight > 0 {
		return StateSending
	}
	return StateIdle
}

// Send dispatches one user input. Blank input returns ErrEmptyInput without
// touching any state. Otherwise the user message is appended before the
// request is issued, exactly one trace is prepended once the call settles,
// and an assistant message is appended only on success. The returned error is
// the dispatch failure, which is also recorded in the trace.
func (s *Session) Send(ctx context.Context, input string) (Outcome, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Outcome{}, ErrEmptyInput
	}

	userMsg := message.NewAt(role.User, text, s.now())
	s.chat.Append(userMsg)
	s.publish(EventMessageAdded, userMsg)

	snapshot := s.begin()

	tr := trace.Begin(text, snapshot, s.now())
	s.log.InfoContext(ctx, "dispatch started", "input_len", len(text))
	s.publish(EventDispatchStart, text)

	reply, latency, err := s.call(ctx, text, snapshot)

	out := Outcome{User: userMsg}

	if err != nil {
		tr.Fail(err)
		s.log.ErrorContext(ctx, "dispatch failed", "error", err, "duration", latency)
	} else {
		tr.Succeed(reply, latency)

		assistantMsg := message.NewAt(role.Assistant, reply, s.now())
		s.chat.Append(assistantMsg)
		s.publish(EventMessageAdded, assistantMsg)
		out.Reply = &assistantMsg

		s.log.InfoContext(ctx, "dispatch finished", "latency", latency, "reply_len", len(reply))
	}

	s.traces.Prepend(*tr)
	out.Trace = *tr
	s.publish(EventDispatchEnd, *tr)

	return out, err
}

// Upload submits the file at path to the fine-tuning endpoint. An empty path
// returns ErrNoFile without issuing a request. No trace is recorded.
func (s *Session) Upload(ctx context.Context, path string) (backend.MessageResponse, error) {
	if strings.TrimSpace(path) == "" {
		return backend.MessageResponse{}, ErrNoFile
	}

	resp, err := s.upload(ctx, path)
	if err != nil {
		s.log.ErrorContext(ctx, "upload failed", "file", path, "error", err)
	} else {
		s.log.InfoContext(ctx, "upload finished", "file", path, "reply", resp.Message)
	}

	s.publish(EventUpload, UploadResult{File: path, Message: resp.Message, Err: err})

	return resp, err
}

func (s *Session) upload(ctx context.Context, path string) (backend.MessageResponse, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return backend.MessageResponse{}, fmt.Errorf("session: open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return s.client.FineTune(ctx, filepath.Base(path), f)
}

// call issues the chat request and lowers the in-flight count however the
// call ends.
func (s *Session) call(ctx context.Context, text string, p params.Parameters) (string, time.Duration, error) {
	defer s.end()

	start := time.Now()
	reply, err := s.client.Chat(ctx, backend.NewChatRequest(text, p))
	return reply, time.Since(start), err
}

// SyncParameters pushes the current parameters to the backend as its
// defaults.
func (s *Session) SyncParameters(ctx context.Context) (backend.MessageResponse, error) {
	p := s.Parameters()

	resp, err := s.client.UpdateParameters(ctx, p)
	if err != nil {
		s.log.ErrorContext(ctx, "parameter sync failed", "error", err)
		return resp, err
	}

	s.log.InfoContext(ctx, "parameters synced", "reply", resp.Message)
	return resp, nil
}

// Health asks the backend for its status and token usage.
func (s *Session) Health(ctx context.Context) (backend.HealthResponse, error) {
	resp, err := s.client.Health(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "health check failed", "error", err)
		return resp, err
	}

	s.log.DebugContext(ctx, "health checked", "status", resp.Status, "provider", resp.Provider)
	return resp, nil
}

// begin raises the in-flight count and snapshots the parameters under the
// same lock.
func (s *Session) begin() params.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight++
	return s.params
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight--
}

func (s *Session) publish(kind EventKind, data any) {
	s.events.Publish(Event{
		Kind:      kind,
		Timestamp: s.now(),
		Data:      data,
	})
}
