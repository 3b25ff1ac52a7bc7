package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/germanamz/chatbench/pkg/modeladapter/usage"
	"github.com/germanamz/chatbench/pkg/params"
)

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Completer generates a single reply for a prompt using the given sampling
// parameters.
type Completer interface {
	Complete(ctx context.Context, prompt string, p params.Parameters) (string, error)
}

// UsageReporter provides token usage information from a completer.
// Completers that embed ModelAdapter implement this interface automatically.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
}

// Auth holds authentication settings for an HTTP API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds shared state for HTTP model clients. Embed it in
// concrete structs to get request helpers, auth, custom headers, and usage
// tracking.
type ModelAdapter struct {
	Name    string            // Model identifier, if the endpoint needs one.
	Auth    Auth              // Authentication settings.
	BaseURL string            // API base URL (no trailing slash).
	Client  *http.Client      // HTTP client; nil uses a cached default client.
	Timeout time.Duration     // Timeout of the default client; zero means none.
	Headers map[string]string // Extra headers applied to every request.
	Usage   usage.Tracker     // Token usage tracker.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// UsageTracker returns the adapter's token usage tracker.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

// httpClient returns the configured client or a cached default client.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: a.Timeout}
	})

	return a.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := a.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a POST to the given path,
// checks for a 2xx status, and unmarshals the response body into dest.
// If dest is nil the response body is discarded after the status check.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return a.send(req, dest)
}

// GetJSON sends a GET to the given path and decodes a 2xx body into dest.
func (a *ModelAdapter) GetJSON(ctx context.Context, path string, dest any) error {
	req, err := a.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return a.send(req, dest)
}

// PostMultipart uploads r as a single file field of a multipart/form-data
// body and decodes a 2xx response into dest. If dest is nil the response
// body is discarded after the status check.
func (a *ModelAdapter) PostMultipart(ctx context.Context, path, field, filename string, r io.Reader, dest any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	return a.send(req, dest)
}

func (a *ModelAdapter) send(req *http.Request, dest any) error {
	resp, err := a.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(respBody)),
		}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
