package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatbench/pkg/benchdir"
	"github.com/germanamz/chatbench/pkg/config"
)

func TestNewFileLogger_ExplicitFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "client.log")

	logger, closeLog, err := newFileLogger(cfg, benchdir.New(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)

	logger.Info("hello", "n", 1)
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello n=1")
}

func TestNewFileLogger_ProjectDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), benchdir.DefaultName)
	require.NoError(t, os.MkdirAll(root, 0o750))
	d := benchdir.New(root)

	logger, closeLog, err := newFileLogger(config.Default(), d)
	require.NoError(t, err)

	logger.Debug("dispatch started")
	closeLog()

	data, err := os.ReadFile(d.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "dispatch started")
	assert.FileExists(t, d.GitignorePath())
}

func TestNewFileLogger_Discard(t *testing.T) {
	d := benchdir.New(filepath.Join(t.TempDir(), "absent"))

	logger, closeLog, err := newFileLogger(config.Default(), d)
	require.NoError(t, err)
	defer closeLog()

	logger.Info("dropped")
	assert.NoDirExists(t, d.Root())
}
