package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/params"
	"github.com/germanamz/chatbench/pkg/session"
)

const testGreeting = "Hello! How can I help you today?"

// newTestSession returns a session wired to a backend served by handler.
func newTestSession(t *testing.T, handler http.Handler) *session.Session {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.New(session.Options{
		Client:     backend.New(srv.URL, srv.Client()),
		Parameters: params.Defaults(),
		Greeting:   testGreeting,
	})
	require.NoError(t, err)

	return sess
}

// newTestModel returns a sized, idle model.
func newTestModel(t *testing.T, handler http.Handler) appModel {
	t.Helper()

	m := newAppModel(context.Background(), newTestSession(t, handler), "http://backend.test")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, initDrainMsg{})

	return m
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()

	updated, cmd := m.Update(msg)
	am, ok := updated.(appModel)
	require.True(t, ok, "Update returned %T", updated)

	return am, cmd
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

// findMsg returns the first message of type T.
func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func pressKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}
