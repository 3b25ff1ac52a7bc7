// Package provider builds a modeladapter.Completer from a provider kind and
// its settings.
package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/providers/anthropic"
	"github.com/germanamz/chatbench/pkg/providers/echo"
	"github.com/germanamz/chatbench/pkg/providers/gemini"
	"github.com/germanamz/chatbench/pkg/providers/openai"
)

// Built-in provider kinds.
const (
	KindGemini    = "gemini"
	KindOpenAI    = "openai"
	KindAnthropic = "anthropic"
	KindGrok      = "grok"
	KindEcho      = "echo"
)

// GrokBaseURL is the OpenAI-compatible endpoint used by KindGrok.
const GrokBaseURL = "https://api.x.ai/v1"

// Config describes the provider a server answers with.
type Config struct {
	Kind    string
	APIKey  string //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Factory creates a Completer from a Config.
type Factory func(cfg Config) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]Factory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories[KindGemini] = newGemini
		factories[KindOpenAI] = newOpenAI
		factories[KindAnthropic] = newAnthropic
		factories[KindGrok] = newGrok
		factories[KindEcho] = newEcho
	})
}

// Register adds or replaces the factory for kind.
func Register(kind string, factory Factory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []string {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return kinds
}

// New builds the Completer registered for cfg.Kind.
func New(cfg Config) (modeladapter.Completer, error) {
	ensureDefaults()

	factoryMu.RLock()
	f, ok := factories[cfg.Kind]
	factoryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider: unknown kind %q", cfg.Kind)
	}

	c, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("provider: %s: %w", cfg.Kind, err)
	}

	return c, nil
}

func newGemini(cfg Config) (modeladapter.Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = gemini.DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = gemini.DefaultModel
	}

	a := gemini.New(baseURL, cfg.APIKey, model)
	a.Timeout = cfg.Timeout

	return a, nil
}

func newOpenAI(cfg Config) (modeladapter.Completer, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("api key is required for the default endpoint")
	}

	return openai.New(openai.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}), nil
}

func newAnthropic(cfg Config) (modeladapter.Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropic.DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.DefaultModel
	}

	a := anthropic.New(baseURL, cfg.APIKey, model)
	a.Timeout = cfg.Timeout

	return a, nil
}

// newGrok speaks the OpenAI protocol against the xAI endpoint.
func newGrok(cfg Config) (modeladapter.Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GrokBaseURL
	}

	return openai.New(openai.Options{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}), nil
}

func newEcho(Config) (modeladapter.Completer, error) {
	return echo.New(), nil
}
