package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/germanamz/chatbench/pkg/providers/provider"
)

// Config is the backend configuration, read from the environment.
type Config struct {
	Addr     string `env:"CHATBENCH_ADDR" envDefault:":8000"`
	Provider string `env:"CHATBENCH_PROVIDER" envDefault:"gemini"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-pro-latest"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`

	GrokAPIKey string `env:"GROK_API_KEY"`
	GrokModel  string `env:"GROK_MODEL" envDefault:"grok-3-mini-fast-beta"`

	ProviderTimeout time.Duration `env:"CHATBENCH_PROVIDER_TIMEOUT" envDefault:"60s"`

	// Uploads
	UploadDir      string `env:"CHATBENCH_UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadBytes int64  `env:"CHATBENCH_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Logging
	LogLevel  string `env:"CHATBENCH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CHATBENCH_LOG_FORMAT" envDefault:"text"`
}

// LoadConfig parses the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

// LoadConfigFrom parses the given variables instead of the process
// environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: environ})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("server: config: %w", err)
	}

	return cfg, nil
}

// ProviderConfig maps the settings of the selected provider kind.
func (c Config) ProviderConfig() provider.Config {
	pc := provider.Config{
		Kind:    c.Provider,
		Timeout: c.ProviderTimeout,
	}

	switch c.Provider {
	case provider.KindGemini:
		pc.APIKey = c.GeminiAPIKey
		pc.BaseURL = c.GeminiBaseURL
		pc.Model = c.GeminiModel
	case provider.KindOpenAI:
		pc.APIKey = c.OpenAIAPIKey
		pc.BaseURL = c.OpenAIBaseURL
		pc.Model = c.OpenAIModel
	case provider.KindAnthropic:
		pc.APIKey = c.AnthropicAPIKey
		pc.BaseURL = c.AnthropicBaseURL
		pc.Model = c.AnthropicModel
	case provider.KindGrok:
		pc.APIKey = c.GrokAPIKey
		pc.Model = c.GrokModel
	}

	return pc
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
