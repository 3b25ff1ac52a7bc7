// Package config loads the terminal client's configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/chatbench/pkg/benchdir"
	"github.com/germanamz/chatbench/pkg/params"
)

// Defaults applied to fields the config file leaves out.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultGreeting = "Hello! How can I help you today?"
)

// Config is the client configuration.
type Config struct {
	BaseURL    string            `yaml:"base_url"`
	Timeout    string            `yaml:"timeout,omitempty"` // Duration string, e.g. "30s". Empty means no limit.
	Greeting   string            `yaml:"greeting"`
	Parameters params.Parameters `yaml:"parameters"`
	LogFile    string            `yaml:"log_file,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Greeting:   DefaultGreeting,
		Parameters: params.Defaults(),
	}
}

// Load reads a YAML file on top of Default. Environment variables referenced
// as ${VAR} or $VAR are expanded before parsing, so header values such as
// tokens can live in a .env file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// ResolvePath picks the config file to load: the explicit flag value first,
// then the project directory's config.yaml. It returns "" when neither
// applies.
func ResolvePath(flagValue string, d benchdir.Dir) string {
	if flagValue != "" {
		return flagValue
	}

	if d.HasConfig() {
		return d.ConfigPath()
	}

	return ""
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: base_url %q is not an absolute URL", c.BaseURL)
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if err := c.Parameters.Validate(); err != nil {
		return fmt.Errorf("config: parameters: %w", err)
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: timeout %q is negative", c.Timeout)
	}

	return d, nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}

	return data, nil
}
