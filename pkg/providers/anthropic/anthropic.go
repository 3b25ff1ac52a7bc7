// Package anthropic provides a Completer implementation for the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/modeladapter/usage"
	"github.com/germanamz/chatbench/pkg/params"
)

// Defaults for the public endpoint.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-haiku-latest"
	APIVersion     = "2023-06-01"
)

const messagesPath = "/v1/messages"

// ErrNoText is returned when the reply carries no text block.
var ErrNoText = errors.New("anthropic: no text in response")

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Anthropic Messages API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Anthropic API.
// The baseURL should be "https://api.anthropic.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = strings.TrimRight(baseURL, "/")
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Name = model
	a.Headers = map[string]string{
		"anthropic-version": APIVersion,
	}

	return a
}

// Complete sends prompt as a single user turn and returns the joined text
// blocks of the reply.
func (a *Adapter) Complete(ctx context.Context, prompt string, p params.Parameters) (string, error) {
	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, a.buildRequest(prompt, p), &resp); err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})

	var b strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return "", ErrNoText
	}

	return b.String(), nil
}

// --- request types ---

// Temperature and TopP are pointers so that an explicit 0 is still sent.
type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
	TopP        *float64     `json:"top_p,omitempty"`
	TopK        int          `json:"top_k,omitempty"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (a *Adapter) buildRequest(prompt string, p params.Parameters) apiRequest {
	temp, topP := p.Temperature, p.TopP

	return apiRequest{
		Model:     a.Name,
		MaxTokens: p.MaxOutputTokens,
		Messages: []apiMessage{{
			Role:    "user",
			Content: []apiContent{{Type: "text", Text: prompt}},
		}},
		Temperature: &temp,
		TopP:        &topP,
		TopK:        p.TopK,
	}
}
