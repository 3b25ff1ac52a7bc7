package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/benchdir"
	"github.com/germanamz/chatbench/pkg/config"
	"github.com/germanamz/chatbench/pkg/session"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			initCmd := flag.NewFlagSet("init", flag.ExitOnError)
			initCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: chatbench init [flags]\n\nInitialize a .chatbench directory with a client config.\n\nFlags:\n")
				initCmd.PrintDefaults()
			}
			dir := initCmd.String("dir", benchdir.DefaultName, "path to .chatbench directory")
			defaults := initCmd.Bool("defaults", false, "write the default config without prompting")
			_ = initCmd.Parse(os.Args[2:])

			if err := runInit(*dir, *defaults); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			return
		case "upload":
			uploadCmd := flag.NewFlagSet("upload", flag.ExitOnError)
			uploadCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: chatbench upload [flags] <file.json>\n\nUpload a fine-tuning dataset to the backend.\n\nFlags:\n")
				uploadCmd.PrintDefaults()
			}
			cfgPath := uploadCmd.String("config", "", "path to configuration file")
			dir := uploadCmd.String("dir", benchdir.DefaultName, "path to .chatbench directory")
			envFile := uploadCmd.String("env", ".env", "path to .env file (ignored if missing)")
			_ = uploadCmd.Parse(os.Args[2:])

			if uploadCmd.NArg() != 1 {
				uploadCmd.Usage()
				os.Exit(2)
			}

			if err := loadDotEnv(*envFile); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			err := uploadMain(ctx, *cfgPath, *dir, uploadCmd.Arg(0))
			cancel()
			if err != nil {
				os.Exit(1)
			}

			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chatbench [flags]\n       chatbench <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  init    Initialize a .chatbench directory\n  upload  Upload a fine-tuning dataset\n")
	}

	configPath := flag.String("config", "", "path to configuration file (default: .chatbench/config.yaml)")
	dir := flag.String("dir", benchdir.DefaultName, "path to .chatbench directory")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, *dir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadClientConfig resolves, loads and validates the client configuration.
func loadClientConfig(configPath, dirPath string) (config.Config, benchdir.Dir, error) {
	d := benchdir.New(dirPath)

	cfg, err := config.LoadOrDefault(config.ResolvePath(configPath, d))
	if err != nil {
		return config.Config{}, d, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, d, err
	}

	return cfg, d, nil
}

// newBackendClient builds the HTTP client for the configured backend.
func newBackendClient(cfg config.Config) (*backend.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	client := backend.New(cfg.BaseURL, &http.Client{Timeout: timeout})
	client.Headers = cfg.Headers

	return client, nil
}

func run(configPath, dirPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, d, err := loadClientConfig(configPath, dirPath)
	if err != nil {
		return err
	}

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	logger, closeLog, err := newFileLogger(cfg, d)
	if err != nil {
		return err
	}
	defer closeLog()

	sess, err := session.New(session.Options{
		Client:     client,
		Parameters: cfg.Parameters,
		Greeting:   cfg.Greeting,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	logger.Info("client started", "base_url", cfg.BaseURL)

	model := newAppModel(ctx, sess, cfg.BaseURL)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// The bridge is stopped only after the event loop has exited, so a
	// watcher blocked in p.Send can never stall shutdown.
	stop := startBridge(ctx, p, sess.Chat(), sess.Events(), model.seen)
	_, err = p.Run()
	stop()

	return err
}
