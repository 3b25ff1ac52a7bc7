// Package openai provides a Completer for OpenAI-compatible Chat Completions
// endpoints, built on github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/modeladapter/usage"
	"github.com/germanamz/chatbench/pkg/params"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ErrEmptyChoices is returned when the API answers without any choice.
var ErrEmptyChoices = errors.New("openai: empty choices in response")

var (
	_ modeladapter.Completer     = (*Adapter)(nil)
	_ modeladapter.UsageReporter = (*Adapter)(nil)
)

// Adapter implements modeladapter.Completer over go-openai.
type Adapter struct {
	client *goopenai.Client
	model  string
	usage  usage.Tracker
}

// Options configures an Adapter.
type Options struct {
	APIKey  string
	BaseURL string // Includes the version prefix, e.g. "https://api.openai.com/v1". Empty uses the library default.
	Model   string
	Timeout time.Duration
}

// New creates an Adapter.
func New(opts Options) *Adapter {
	config := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	return &Adapter{
		client: goopenai.NewClientWithConfig(config),
		model:  model,
	}
}

// Model returns the configured model name.
func (a *Adapter) Model() string { return a.model }

// UsageTracker returns the adapter's token usage tracker.
func (a *Adapter) UsageTracker() *usage.Tracker { return &a.usage }

// Complete sends prompt as a single user message. Chat Completions has no
// top-k control, so p.TopK is not sent.
func (a *Adapter) Complete(ctx context.Context, prompt string, p params.Parameters) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: a.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.MaxOutputTokens,
		Temperature: float32(p.Temperature),
		TopP:        float32(p.TopP),
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	a.usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}

	return resp.Choices[0].Message.Content, nil
}
