// Package server implements the chatbench backend: a small HTTP API that
// answers chat requests with a configured model provider, keeps the current
// generation parameters, and accepts fine-tuning datasets.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/params"
)

const shutdownTimeout = 5 * time.Second

// Simulated fine-tuning results.
const (
	TunedTemperature     = 0.5
	TunedMaxOutputTokens = 512
)

// DefaultParameters are the server's parameters before any update.
func DefaultParameters() params.Parameters {
	return params.Parameters{
		Temperature:     0.7,
		MaxOutputTokens: 256,
		TopP:            0.9,
		TopK:            50,
	}
}

// Options configures a Server.
type Options struct {
	Completer      modeladapter.Completer
	Provider       string // Reported by /health.
	UploadDir      string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server holds the provider and the mutable generation parameters. It is safe
// for concurrent use.
type Server struct {
	completer      modeladapter.Completer
	provider       string
	uploadDir      string
	maxUploadBytes int64
	logger         *slog.Logger

	mu     sync.RWMutex
	params params.Parameters
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Completer == nil {
		return nil, errors.New("server: completer is required")
	}

	s := &Server{
		completer:      opts.Completer,
		provider:       opts.Provider,
		uploadDir:      opts.UploadDir,
		maxUploadBytes: opts.MaxUploadBytes,
		logger:         opts.Logger,
		params:         DefaultParameters(),
	}

	if s.uploadDir == "" {
		s.uploadDir = "uploads"
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = 10 << 20
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	return s, nil
}

// Parameters returns the current generation parameters.
func (s *Server) Parameters() params.Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params
}

func (s *Server) setParameters(p params.Parameters) {
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()

	s.logger.Info("parameters updated",
		"temperature", p.Temperature,
		"max_output_tokens", p.MaxOutputTokens,
		"top_p", p.TopP,
		"top_k", p.TopK,
	)
}

// Handler returns the API routes wrapped in the CORS and request-logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(backend.ChatPath, s.handleChat)
	mux.HandleFunc(backend.UpdateParametersPath, s.handleUpdateParameters)
	mux.HandleFunc(backend.FineTunePath, s.handleFineTune)
	mux.HandleFunc(backend.HealthPath, s.handleHealth)

	return withCORS(withRequestLog(s.logger, mux))
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case err := <-errCh:
		return fmt.Errorf("server: serve: %w", err)
	}

	// The caller's context is already done.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	return nil
}
