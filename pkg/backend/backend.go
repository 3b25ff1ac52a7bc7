// Package backend is the client for the chatbench inference protocol:
// POST /chat, POST /fine-tune, POST /update-parameters and GET /health.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/params"
)

// Endpoint paths.
const (
	ChatPath             = "/chat"
	FineTunePath         = "/fine-tune"
	UpdateParametersPath = "/update-parameters"
	HealthPath           = "/health"

	// FileField is the multipart field carrying the fine-tuning dataset.
	FileField = "file"
)

// ErrMissingResponse is returned when a 2xx chat reply has no response field.
var ErrMissingResponse = errors.New("backend: reply has no response field")

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message         string  `json:"message"`
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"top_k"`
	TopP            float64 `json:"top_p"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// NewChatRequest combines a message with a parameter snapshot.
func NewChatRequest(msg string, p params.Parameters) ChatRequest {
	return ChatRequest{
		Message:         msg,
		Temperature:     p.Temperature,
		TopK:            p.TopK,
		TopP:            p.TopP,
		MaxOutputTokens: p.MaxOutputTokens,
	}
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// MessageResponse is the acknowledgement body of the fine-tune and
// update-parameters endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	Provider     string `json:"provider"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Client talks to a chatbench backend.
type Client struct {
	modeladapter.ModelAdapter
}

// New creates a Client for the backend at baseURL. A nil httpClient uses a
// default client without timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	c := &Client{}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	c.Client = httpClient
	return c
}

// Chat posts one message with its parameters and returns the reply text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var resp struct {
		Response *string `json:"response"`
	}
	if err := c.PostJSON(ctx, ChatPath, req, &resp); err != nil {
		return "", fmt.Errorf("backend: chat: %w", err)
	}

	if resp.Response == nil {
		return "", ErrMissingResponse
	}

	return *resp.Response, nil
}

// FineTune uploads a dataset under the given file name.
func (c *Client) FineTune(ctx context.Context, filename string, r io.Reader) (MessageResponse, error) {
	var resp MessageResponse
	if err := c.PostMultipart(ctx, FineTunePath, FileField, filename, r, &resp); err != nil {
		return MessageResponse{}, fmt.Errorf("backend: fine-tune: %w", err)
	}

	return resp, nil
}

// UpdateParameters replaces the backend's default generation parameters.
func (c *Client) UpdateParameters(ctx context.Context, p params.Parameters) (MessageResponse, error) {
	var resp MessageResponse
	if err := c.PostJSON(ctx, UpdateParametersPath, p, &resp); err != nil {
		return MessageResponse{}, fmt.Errorf("backend: update parameters: %w", err)
	}

	return resp, nil
}

// Health reports the backend status.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	if err := c.GetJSON(ctx, HealthPath, &resp); err != nil {
		return HealthResponse{}, fmt.Errorf("backend: health: %w", err)
	}

	return resp, nil
}
