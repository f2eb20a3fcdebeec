// Package chat orchestrates one assistant turn: retrieval, prompt assembly,
// completion, and telemetry.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
	"github.com/redwards/digitaltwin/internal/metrics"
)

const fallbackErrorMessage = "I'm having trouble connecting right now. Please try again in a moment."

// Request is one user turn.
type Request struct {
	UserID  string
	Query   string
	History []Turn
	DevMode bool
}

// Response is one assistant turn. Confidence is always present when the
// response was produced by the retrieval pipeline.
type Response struct {
	Answer     string
	Confidence float64
	Model      string
}

// Service runs the chat pipeline.
type Service struct {
	retriever Retriever
	completer Completer
	persona   PersonaSource
	telemetry TelemetryLogger

	provider   string
	model      string
	ownerName  string
	ownerEmail string
	logger     *zap.Logger
}

// New creates the chat service. completer may be nil when no completion
// provider is configured; the service then answers with an operator
// diagnostic instead of calling the network.
func New(
	retriever Retriever,
	completer Completer,
	persona PersonaSource,
	telemetry TelemetryLogger,
	provider, model, ownerName, ownerEmail string,
	logger *zap.Logger,
) *Service {
	return &Service{
		retriever:  retriever,
		completer:  completer,
		persona:    persona,
		telemetry:  telemetry,
		provider:   provider,
		model:      model,
		ownerName:  ownerName,
		ownerEmail: ownerEmail,
		logger:     logger,
	}
}

// Ask handles one chat turn end to end. Completion failures come back as a
// plain assistant message, never as an error; only an empty query is refused.
func (s *Service) Ask(ctx context.Context, req Request) (Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Response{}, domain.ErrEmptyQuery
	}

	result := s.retriever.Retrieve(ctx, query, req.DevMode)
	metrics.RetrievalConfidence.Observe(result.Confidence)

	if s.completer == nil {
		metrics.ChatRequestsTotal.WithLabelValues("not_configured").Inc()
		answer := fmt.Sprintf(
			"The assistant is not fully configured: no completion API key is set. "+
				"The operator should set the completion provider key, or you can reach %s directly at %s.",
			s.ownerName, s.ownerEmail)
		s.log(ctx, req.UserID, query, answer, result.Confidence)
		return Response{Answer: answer, Confidence: result.Confidence, Model: s.model}, nil
	}

	prompt := assemblePrompt(PromptInput{
		Persona:    s.persona.PersonaText(),
		OwnerName:  s.ownerName,
		DevMode:    req.DevMode,
		Confidence: result.Confidence,
		Context:    result.Context,
		History:    req.History,
		Question:   query,
	})

	start := time.Now()
	answer, err := s.completer.Complete(ctx, prompt)
	metrics.CompletionRequestDuration.WithLabelValues(s.provider, s.model).Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("Completion request failed", zap.Error(err))
		metrics.ChatRequestsTotal.WithLabelValues("completion_error").Inc()
		// The failed turn is still logged, with the error standing in for
		// the response.
		s.log(ctx, req.UserID, query, "completion error: "+err.Error(), result.Confidence)
		return Response{Answer: fallbackErrorMessage, Confidence: result.Confidence, Model: s.model}, nil
	}

	if strings.HasPrefix(result.Context, "SYSTEM_INJECTION:") {
		metrics.ChatRequestsTotal.WithLabelValues("intercepted").Inc()
	} else {
		metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	}

	s.log(ctx, req.UserID, query, answer, result.Confidence)
	return Response{Answer: answer, Confidence: result.Confidence, Model: s.model}, nil
}

// log records the turn; telemetry is optional and best-effort.
func (s *Service) log(ctx context.Context, userID, query, response string, confidence float64) {
	if s.telemetry == nil {
		return
	}
	if userID == "" {
		userID = "anonymous"
	}
	s.telemetry.Log(ctx, domain.ChatLogEntry{
		UserID:     userID,
		Query:      query,
		Response:   response,
		Confidence: confidence,
		Model:      s.model,
	})
}
