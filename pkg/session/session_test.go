package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/chats/role"
	"github.com/germanamz/chatbench/pkg/params"
)

type fakeClient struct {
	mu sync.Mutex

	chatFn     func(ctx context.Context, req backend.ChatRequest) (string, error)
	fineTuneFn func(ctx context.Context, filename string, r io.Reader) (backend.MessageResponse, error)
	updateFn   func(ctx context.Context, p params.Parameters) (backend.MessageResponse, error)
	healthFn   func(ctx context.Context) (backend.HealthResponse, error)

	chatCalls []backend.ChatRequest
}

func (f *fakeClient) Chat(ctx context.Context, req backend.ChatRequest) (string, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, req)
	f.mu.Unlock()

	if f.chatFn == nil {
		return "ok", nil
	}
	return f.chatFn(ctx, req)
}

func (f *fakeClient) FineTune(ctx context.Context, filename string, r io.Reader) (backend.MessageResponse, error) {
	if f.fineTuneFn == nil {
		return backend.MessageResponse{Message: "done"}, nil
	}
	return f.fineTuneFn(ctx, filename, r)
}

func (f *fakeClient) UpdateParameters(ctx context.Context, p params.Parameters) (backend.MessageResponse, error) {
	if f.updateFn == nil {
		return backend.MessageResponse{Message: "Parameters updated successfully"}, nil
	}
	return f.updateFn(ctx, p)
}

func (f *fakeClient) Health(ctx context.Context) (backend.HealthResponse, error) {
	if f.healthFn == nil {
		return backend.HealthResponse{Status: "ok", Provider: "fake"}, nil
	}
	return f.healthFn(ctx)
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.chatCalls)
}

func newSession(t *testing.T, client *fakeClient) *Session {
	t.Helper()

	s, err := New(Options{Client: client, Parameters: params.Defaults()})
	require.NoError(t, err)

	return s
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestNew_Greeting(t *testing.T) {
	s, err := New(Options{
		Client:   &fakeClient{},
		Greeting: "Hello! How can I help you today?",
	})
	require.NoError(t, err)

	require.Equal(t, 1, s.Chat().Len())
	msg := s.Chat().At(0)
	assert.Equal(t, role.Assistant, msg.Role)
	assert.Equal(t, "Hello! How can I help you today?", msg.Content)
	assert.Equal(t, 0, s.Traces().Len())
}

func TestNew_ClampsParameters(t *testing.T) {
	s, err := New(Options{
		Client:     &fakeClient{},
		Parameters: params.Parameters{Temperature: 3, MaxOutputTokens: 0, TopP: -1, TopK: 500},
	})
	require.NoError(t, err)

	p := s.Parameters()
	assert.InDelta(t, 1.0, p.Temperature, 1e-9)
	assert.Equal(t, 1, p.MaxOutputTokens)
	assert.InDelta(t, 0.0, p.TopP, 1e-9)
	assert.Equal(t, 100, p.TopK)
}

func TestSend_EmptyInput(t *testing.T) {
	client := &fakeClient{}
	s := newSession(t, client)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := s.Send(context.Background(), input)
		require.ErrorIs(t, err, ErrEmptyInput)
	}

	assert.Equal(t, 0, s.Chat().Len())
	assert.Equal(t, 0, s.Traces().Len())
	assert.Equal(t, 0, client.calls())
	assert.False(t, s.InFlight())
}

func TestSend_Success(t *testing.T) {
	client := &fakeClient{
		chatFn: func(_ context.Context, req backend.ChatRequest) (string, error) {
			return "Hello!", nil
		},
	}
	s := newSession(t, client)

	out, err := s.Send(context.Background(), "Hi")
	require.NoError(t, err)

	require.Equal(t, 2, s.Chat().Len())
	assert.Equal(t, role.User, s.Chat().At(0).Role)
	assert.Equal(t, "Hi", s.Chat().At(0).Content)
	assert.Equal(t, role.Assistant, s.Chat().At(1).Role)
	assert.Equal(t, "Hello!", s.Chat().At(1).Content)

	require.NotNil(t, out.Reply)
	assert.Equal(t, "Hello!", out.Reply.Content)

	require.Equal(t, 1, s.Traces().Len())
	tr := s.Traces().At(0)
	assert.Equal(t, "Hi", tr.Input)
	assert.Equal(t, params.Defaults(), tr.Parameters)
	require.NotNil(t, tr.Response)
	assert.Equal(t, "Hello!", *tr.Response)
	assert.Nil(t, tr.Error)
	require.NotNil(t, tr.Latency)
	assert.GreaterOrEqual(t, *tr.Latency, time.Duration(0))
	assert.True(t, tr.Succeeded())

	assert.False(t, s.InFlight())
}

func TestSend_RequestCarriesParameters(t *testing.T) {
	client := &fakeClient{}
	s := newSession(t, client)

	s.SetParameters(params.Parameters{Temperature: 0.3, MaxOutputTokens: 250, TopP: 0.5, TopK: 7})

	_, err := s.Send(context.Background(), "  question  ")
	require.NoError(t, err)

	require.Len(t, client.chatCalls, 1)
	assert.Equal(t, backend.ChatRequest{
		Message:         "question",
		Temperature:     0.3,
		TopK:            7,
		TopP:            0.5,
		MaxOutputTokens: 250,
	}, client.chatCalls[0])
}

func TestSend_Failure(t *testing.T) {
	client := &fakeClient{
		chatFn: func(context.Context, backend.ChatRequest) (string, error) {
			return "", errors.New("backend: chat: unexpected status 500: boom")
		},
	}
	s := newSession(t, client)

	out, err := s.Send(context.Background(), "Hi")
	require.Error(t, err)
	assert.Nil(t, out.Reply)

	require.Equal(t, 1, s.Chat().Len())
	assert.Equal(t, role.User, s.Chat().At(0).Role)

	require.Equal(t, 1, s.Traces().Len())
	tr := s.Traces().At(0)
	assert.Nil(t, tr.Response)
	assert.Nil(t, tr.Latency)
	require.NotNil(t, tr.Error)
	assert.NotEmpty(t, *tr.Error)
	assert.False(t, tr.Succeeded())

	assert.False(t, s.InFlight())
}

func TestSend_FailureWithEmptyError(t *testing.T) {
	client := &fakeClient{
		chatFn: func(context.Context, backend.ChatRequest) (string, error) {
			return "", errors.New("")
		},
	}
	s := newSession(t, client)

	_, err := s.Send(context.Background(), "Hi")
	require.Error(t, err)

	tr := s.Traces().At(0)
	require.NotNil(t, tr.Error)
	assert.NotEmpty(t, *tr.Error)
}

func TestSend_UserMessageAppendedBeforeCall(t *testing.T) {
	var s *Session
	client := &fakeClient{}
	client.chatFn = func(context.Context, backend.ChatRequest) (string, error) {
		require.Positive(t, s.Chat().Len())
		last := s.Chat().At(s.Chat().Len() - 1)
		assert.Equal(t, role.User, last.Role)
		assert.Equal(t, "Hi", last.Content)
		assert.True(t, s.InFlight())
		assert.Equal(t, StateSending, s.State())
		assert.Equal(t, 0, s.Traces().Len())
		return "Hello!", nil
	}
	s = newSession(t, client)

	_, err := s.Send(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, s.State())
}

func TestSend_TracesMostRecentFirst(t *testing.T) {
	client := &fakeClient{
		chatFn: func(_ context.Context, req backend.ChatRequest) (string, error) {
			if req.Message == "second" {
				return "", errors.New("failed")
			}
			return "re: " + req.Message, nil
		},
	}
	s := newSession(t, client)

	for _, in := range []string{"first", "second", "third"} {
		_, _ = s.Send(context.Background(), in)
	}

	require.Equal(t, 3, s.Traces().Len())
	all := s.Traces().All()
	assert.Equal(t, "third", all[0].Input)
	assert.Equal(t, "second", all[1].Input)
	assert.Equal(t, "first", all[2].Input)
	assert.NotNil(t, all[1].Error)

	// Two successes plus three user messages.
	assert.Equal(t, 5, s.Chat().Len())
	var replies int
	for _, msg := range s.Chat().Messages() {
		if msg.Role == role.Assistant {
			replies++
		}
	}
	assert.Equal(t, 2, replies)
}

func TestSend_ParametersSnapshotAtDispatch(t *testing.T) {
	var s *Session
	client := &fakeClient{}
	client.chatFn = func(context.Context, backend.ChatRequest) (string, error) {
		s.SetParameters(params.Parameters{Temperature: 0.1, MaxOutputTokens: 10, TopP: 0.1, TopK: 1})
		return "ok", nil
	}
	s = newSession(t, client)

	out, err := s.Send(context.Background(), "Hi")
	require.NoError(t, err)

	assert.Equal(t, params.Defaults(), out.Trace.Parameters)
	assert.Equal(t, 10, s.Parameters().MaxOutputTokens)
}

func TestSend_OverlappingDispatches(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)

	client := &fakeClient{
		chatFn: func(_ context.Context, req backend.ChatRequest) (string, error) {
			started <- struct{}{}
			<-release
			return "re: " + req.Message, nil
		},
	}
	s := newSession(t, client)

	var wg sync.WaitGroup
	for _, in := range []string{"a", "b"} {
		wg.Go(func() {
			_, err := s.Send(context.Background(), in)
			assert.NoError(t, err)
		})
	}

	<-started
	<-started
	assert.True(t, s.InFlight())

	close(release)
	wg.Wait()

	assert.False(t, s.InFlight())
	assert.Equal(t, 2, s.Traces().Len())
	assert.Equal(t, 4, s.Chat().Len())
}

func TestSend_PublishesEvents(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(16)
	defer bus.Unsubscribe(sub)

	s, err := New(Options{Client: &fakeClient{}, Events: bus})
	require.NoError(t, err)

	_, err = s.Send(context.Background(), "Hi")
	require.NoError(t, err)

	var kinds []EventKind
	for range 4 {
		select {
		case e := <-sub.C:
			kinds = append(kinds, e.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}

	assert.Equal(t, []EventKind{
		EventMessageAdded,
		EventDispatchStart,
		EventMessageAdded,
		EventDispatchEnd,
	}, kinds)
}

func TestUpdateParameters(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(4)
	defer bus.Unsubscribe(sub)

	s, err := New(Options{Client: &fakeClient{}, Parameters: params.Defaults(), Events: bus})
	require.NoError(t, err)

	got := s.UpdateParameters(func(p params.Parameters) params.Parameters {
		return p.Step(params.TopK, 1000)
	})
	assert.Equal(t, params.MaxTopK, got.TopK)
	assert.Equal(t, got, s.Parameters())

	select {
	case e := <-sub.C:
		assert.Equal(t, EventParametersChanged, e.Kind)
		assert.Equal(t, got, e.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestUpload_NoFile(t *testing.T) {
	called := false
	client := &fakeClient{
		fineTuneFn: func(context.Context, string, io.Reader) (backend.MessageResponse, error) {
			called = true
			return backend.MessageResponse{}, nil
		},
	}
	s := newSession(t, client)

	_, err := s.Upload(context.Background(), "  ")
	require.ErrorIs(t, err, ErrNoFile)
	assert.False(t, called)
}

func TestUpload_MissingFile(t *testing.T) {
	s := newSession(t, &fakeClient{})

	_, err := s.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUpload_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"examples":[]}`), 0o600))

	var gotName, gotBody string
	client := &fakeClient{
		fineTuneFn: func(_ context.Context, filename string, r io.Reader) (backend.MessageResponse, error) {
			gotName = filename
			b, err := io.ReadAll(r)
			if err != nil {
				return backend.MessageResponse{}, err
			}
			gotBody = string(b)
			return backend.MessageResponse{Message: "Fine-tuning simulation completed successfully"}, nil
		},
	}
	s := newSession(t, client)

	resp, err := s.Upload(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Fine-tuning simulation completed successfully", resp.Message)
	assert.Equal(t, "data.json", gotName)
	assert.JSONEq(t, `{"examples":[]}`, gotBody)
	assert.Equal(t, 0, s.Traces().Len())
	assert.Equal(t, 0, s.Chat().Len())
}

func TestSyncParameters(t *testing.T) {
	var got params.Parameters
	client := &fakeClient{
		updateFn: func(_ context.Context, p params.Parameters) (backend.MessageResponse, error) {
			got = p
			return backend.MessageResponse{Message: "Parameters updated successfully"}, nil
		},
	}
	s := newSession(t, client)
	s.SetParameters(params.Parameters{Temperature: 0.2, MaxOutputTokens: 64, TopP: 0.4, TopK: 5})

	resp, err := s.SyncParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Parameters updated successfully", resp.Message)
	assert.Equal(t, s.Parameters(), got)
}

func TestSyncParameters_Error(t *testing.T) {
	client := &fakeClient{
		updateFn: func(context.Context, params.Parameters) (backend.MessageResponse, error) {
			return backend.MessageResponse{}, errors.New("offline")
		},
	}
	s := newSession(t, client)

	_, err := s.SyncParameters(context.Background())
	require.EqualError(t, err, "offline")
}

func TestHealth(t *testing.T) {
	client := &fakeClient{
		healthFn: func(context.Context) (backend.HealthResponse, error) {
			return backend.HealthResponse{Status: "ok", Provider: "echo", Calls: 2}, nil
		},
	}
	s := newSession(t, client)

	resp, err := s.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "echo", resp.Provider)
	assert.Equal(t, 2, resp.Calls)
	assert.Equal(t, 0, s.Traces().Len(), "health checks are not traced")
}

func TestHealth_Error(t *testing.T) {
	client := &fakeClient{
		healthFn: func(context.Context) (backend.HealthResponse, error) {
			return backend.HealthResponse{}, errors.New("offline")
		},
	}
	s := newSession(t, client)

	_, err := s.Health(context.Background())
	require.EqualError(t, err, "offline")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "sending", StateSending.String())
}
