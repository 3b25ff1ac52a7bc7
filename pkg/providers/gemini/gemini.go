// Package gemini provides a Completer implementation for the Google Gemini API.
package gemini

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
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-pro-latest"
)

// ErrEmptyCandidates is returned when the API answers without any candidate.
var ErrEmptyCandidates = errors.New("gemini: empty candidates in response")

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Google Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Gemini API.
// The baseURL should be "https://generativelanguage.googleapis.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = strings.TrimRight(baseURL, "/")
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-goog-api-key",
	}
	a.Name = model

	return a
}

// Complete sends a single user turn to the generateContent endpoint and
// returns the text of the first candidate.
func (a *Adapter) Complete(ctx context.Context, prompt string, p params.Parameters) (string, error) {
	req := buildRequest(prompt, p)
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", a.Name)

	var resp apiResponse
	if err := a.PostJSON(ctx, path, req, &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	})

	if len(resp.Candidates) == 0 {
		if r := resp.PromptFeedback.BlockReason; r != "" {
			return "", fmt.Errorf("gemini: prompt blocked: %s", r)
		}
		return "", ErrEmptyCandidates
	}

	return candidateText(resp.Candidates[0]), nil
}

// --- request types ---

type apiRequest struct {
	Contents         []apiContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text,omitempty"`
}

// Temperature and TopP are pointers so that an explicit 0 is still sent.
type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            int      `json:"topK,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Candidates     []apiCandidate    `json:"candidates"`
	PromptFeedback apiPromptFeedback `json:"promptFeedback"`
	UsageMetadata  apiUsageMeta      `json:"usageMetadata"`
}

type apiCandidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

type apiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type apiUsageMeta struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// --- conversion helpers ---

func buildRequest(prompt string, p params.Parameters) apiRequest {
	temp, topP := p.Temperature, p.TopP

	return apiRequest{
		Contents: []apiContent{{
			Role:  "user",
			Parts: []apiPart{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     &temp,
			TopP:            &topP,
			TopK:            p.TopK,
			MaxOutputTokens: p.MaxOutputTokens,
		},
	}
}

// candidateText joins the text parts of a candidate.
func candidateText(c apiCandidate) string {
	var b strings.Builder
	for _, p := range c.Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
