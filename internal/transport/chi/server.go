// Package chi exposes the assistant over HTTP: chat, suggestion chips,
// reindexing, and health.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
	chatuc "github.com/redwards/digitaltwin/internal/usecase/chat"
	healthuc "github.com/redwards/digitaltwin/internal/usecase/health"
	indexuc "github.com/redwards/digitaltwin/internal/usecase/index"
)

const maxQueryLength = 2000

// Server holds the HTTP handlers for the assistant API.
type Server struct {
	chat   *chatuc.Service
	index  *indexuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	chat *chatuc.Service,
	index *indexuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{chat: chat, index: index, health: health, logger: logger}
}

// Register mounts the API routes. authMW guards the operator-only routes
// and may be a pass-through when no API keys are configured.
func (s *Server) Register(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/suggestions", s.handleSuggestions)
		r.With(authMW).Post("/reindex", s.handleReindex)
	})
	r.Get("/healthz", s.handleHealth)
}

type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	UserID  string     `json:"user_id,omitempty"`
	Query   string     `json:"query"`
	History []chatTurn `json:"history,omitempty"`
	DevMode bool       `json:"dev_mode,omitempty"`
}

type chatResponse struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "query_too_long", "Query exceeds maximum length")
		return
	}

	history := make([]chatuc.Turn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, chatuc.Turn{Role: t.Role, Text: t.Text})
	}

	resp, err := s.chat.Ask(r.Context(), chatuc.Request{
		UserID:  req.UserID,
		Query:   req.Query,
		History: history,
		DevMode: req.DevMode,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:     resp.Answer,
		Confidence: resp.Confidence,
		Model:      resp.Model,
	})
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")
	devMode := r.URL.Query().Get("dev") == "true"
	writeJSON(w, http.StatusOK, suggestionsResponse{
		Suggestions: chatuc.Suggestions(section, devMode),
	})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Reindex(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// handleDomainError maps sentinel errors onto HTTP statuses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "empty_query", "Query must not be empty")
	case errors.Is(err, domain.ErrMissingAPIKey):
		writeError(w, http.StatusServiceUnavailable, "not_configured", "Completion provider is not configured")
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, "embedding_provider_error", err.Error())
	case errors.Is(err, domain.ErrCompletionProviderError):
		writeError(w, http.StatusBadGateway, "completion_provider_error", err.Error())
	default:
		s.logger.Error("Unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
