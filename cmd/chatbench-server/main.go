// Command chatbench-server runs the chatbench backend API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/germanamz/chatbench/pkg/providers/provider"
	"github.com/germanamz/chatbench/pkg/server"
)

// Version is set at build time.
var version = "dev"

const banner = `
       _           _   _                     _
   ___| |__   __ _| |_| |__   ___ _ __   ___| |__
  / __| '_ \ / _' | __| '_ \ / _ \ '_ \ / __| '_ \
 | (__| | | | (_| | |_| |_) |  __/ | | | (__| | | |
  \___|_| |_|\__,_|\__|_.__/ \___|_| |_|\___|_| |_|
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := loadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)

	completer, err := provider.New(cfg.ProviderConfig())
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Completer:      completer,
		Provider:       cfg.Provider,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	printBanner(cfg)

	logger.Info("starting chatbench-server",
		"addr", cfg.Addr,
		"provider", cfg.Provider,
		"upload_dir", cfg.UploadDir,
	)

	return srv.Run(ctx, cfg.Addr)
}

// loadDotEnv loads variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func printBanner(cfg server.Config) {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	green := color.New(color.FgGreen)

	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Addr)
	green.Print("    ▶ ")
	fmt.Printf("Provider:  %s\n", cfg.Provider)
	green.Print("    ▶ ")
	fmt.Printf("Uploads:   %s\n", cfg.UploadDir)
	fmt.Println()
}
