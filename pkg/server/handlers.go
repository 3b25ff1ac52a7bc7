package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/modeladapter"
	"github.com/germanamz/chatbench/pkg/params"
)

// Reply texts.
const (
	msgParametersUpdated = "Parameters updated successfully"
	msgFineTuneDone      = "Fine-tuning simulation completed successfully"
	msgOnlyJSON          = "Only JSON files are allowed"
	msgInvalidJSON       = "Invalid JSON file"
)

// chatRequest mirrors backend.ChatRequest with optional parameters. Absent
// parameters fall back to the server's current ones.
type chatRequest struct {
	Message         string   `json:"message"`
	Temperature     *float64 `json:"temperature"`
	TopK            *int     `json:"top_k"`
	TopP            *float64 `json:"top_p"`
	MaxOutputTokens *int     `json:"max_output_tokens"`
}

// parametersRequest is the body of POST /update-parameters. Every field is
// required.
type parametersRequest struct {
	Temperature     *float64 `json:"temperature"`
	MaxOutputTokens *int     `json:"max_output_tokens"`
	TopP            *float64 `json:"top_p"`
	TopK            *int     `json:"top_k"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	prompt, p, err := parseChatRequest(r.Body, s.Parameters())
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := s.completer.Complete(r.Context(), prompt, p)
	if err != nil {
		s.logger.Error("completion failed", "provider", s.provider, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, backend.ChatResponse{Response: reply})
}

// parseChatRequest decodes a chat body and merges its parameters over base.
func parseChatRequest(r io.Reader, base params.Parameters) (string, params.Parameters, error) {
	var req chatRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return "", params.Parameters{}, errors.New("invalid JSON body")
	}

	if strings.TrimSpace(req.Message) == "" {
		return "", params.Parameters{}, errors.New("message is required")
	}

	p := base
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.TopK != nil {
		p.TopK = *req.TopK
	}
	if req.TopP != nil {
		p.TopP = *req.TopP
	}
	if req.MaxOutputTokens != nil {
		p.MaxOutputTokens = *req.MaxOutputTokens
	}

	if err := p.Validate(); err != nil {
		return "", params.Parameters{}, err
	}

	return req.Message, p, nil
}

func (s *Server) handleUpdateParameters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p, err := parseParametersRequest(r.Body)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setParameters(p)
	s.sendJSON(w, http.StatusOK, backend.MessageResponse{Message: msgParametersUpdated})
}

func parseParametersRequest(r io.Reader) (params.Parameters, error) {
	var req parametersRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return params.Parameters{}, errors.New("invalid JSON body")
	}

	if req.Temperature == nil || req.MaxOutputTokens == nil || req.TopP == nil || req.TopK == nil {
		return params.Parameters{}, errors.New("temperature, max_output_tokens, top_p and top_k are required")
	}

	p := params.Parameters{
		Temperature:     *req.Temperature,
		MaxOutputTokens: *req.MaxOutputTokens,
		TopP:            *req.TopP,
		TopK:            *req.TopK,
	}

	if err := p.Validate(); err != nil {
		return params.Parameters{}, err
	}

	return p, nil
}

func (s *Server) handleFineTune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile(backend.FileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.sendJSONError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.sendJSONError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	// Base name only; uploads never leave uploadDir.
	name := filepath.Base(header.Filename)
	if !strings.HasSuffix(name, ".json") {
		s.sendJSONError(w, http.StatusBadRequest, msgOnlyJSON)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	if !json.Valid(data) {
		s.sendJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if err := s.saveUpload(name, data); err != nil {
		s.logger.Error("failed to save upload", "file", name, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("dataset received", "file", name, "bytes", len(data))
	s.simulateFineTune()

	s.sendJSON(w, http.StatusOK, backend.MessageResponse{Message: msgFineTuneDone})
}

func (s *Server) saveUpload(name string, data []byte) error {
	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o600)
}

// simulateFineTune stands in for a tuning run by shifting the parameters to
// their tuned values.
func (s *Server) simulateFineTune() {
	p := s.Parameters()
	p.Temperature = TunedTemperature
	p.MaxOutputTokens = TunedMaxOutputTokens
	s.setParameters(p)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := backend.HealthResponse{
		Status:   "ok",
		Provider: s.provider,
	}

	if ur, ok := s.completer.(modeladapter.UsageReporter); ok {
		tracker := ur.UsageTracker()
		total := tracker.Total()
		resp.Calls = tracker.Calls()
		resp.InputTokens = total.InputTokens
		resp.OutputTokens = total.OutputTokens
	}

	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, detail string) {
	s.sendJSON(w, status, errorResponse{Detail: detail})
}
