package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/germanamz/chatbench/pkg/benchdir"
	"github.com/germanamz/chatbench/pkg/config"
)

// newFileLogger returns the session logger. The terminal belongs to the UI,
// so logs go to cfg.LogFile, or to the project's local log when a
// .chatbench directory exists, and are discarded otherwise.
func newFileLogger(cfg config.Config, d benchdir.Dir) (*slog.Logger, func(), error) {
	path := cfg.LogFile
	if path == "" && d.Exists() {
		if err := benchdir.EnsureStructure(d); err != nil {
			return nil, nil, err
		}
		path = d.LogPath()
	}

	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path comes from local config
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
