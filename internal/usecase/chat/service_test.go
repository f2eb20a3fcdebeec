package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
)

type stubRetriever struct {
	result domain.RetrievalResult
	calls  int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, _ bool) domain.RetrievalResult {
	s.calls++
	return s.result
}

type stubCompleter struct {
	answer     string
	err        error
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

type stubPersona struct{}

func (stubPersona) PersonaText() string { return "You are the digital twin." }

type stubTelemetry struct {
	entries []domain.ChatLogEntry
}

func (s *stubTelemetry) Log(_ context.Context, e domain.ChatLogEntry) {
	s.entries = append(s.entries, e)
}

func newTestService(r Retriever, c Completer, tel TelemetryLogger) *Service {
	return New(r, c, stubPersona{}, tel, "gemini", "gemini-2.5-flash", "Raphael", "owner@example.com", zap.NewNop())
}

func TestAsk_HappyPath(t *testing.T) {
	ret := &stubRetriever{result: domain.RetrievalResult{Context: "[PROJECT: X]\ndetails", Confidence: 0.9}}
	comp := &stubCompleter{answer: "Here is what I did on X."}
	tel := &stubTelemetry{}
	s := newTestService(ret, comp, tel)

	resp, err := s.Ask(context.Background(), Request{UserID: "u1", Query: "tell me about X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "Here is what I did on X." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", resp.Confidence)
	}
	if resp.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", resp.Model)
	}
	if !strings.Contains(comp.lastPrompt, "[PROJECT: X]") {
		t.Errorf("retrieved context missing from prompt:\n%s", comp.lastPrompt)
	}
	if len(tel.entries) != 1 {
		t.Fatalf("telemetry entries = %d, want 1", len(tel.entries))
	}
	if tel.entries[0].UserID != "u1" || tel.entries[0].Confidence != 0.9 {
		t.Errorf("telemetry entry: %+v", tel.entries[0])
	}
}

func TestAsk_EmptyQuery(t *testing.T) {
	ret := &stubRetriever{}
	s := newTestService(ret, &stubCompleter{}, nil)

	_, err := s.Ask(context.Background(), Request{Query: "   "})
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if ret.calls != 0 {
		t.Error("retrieval must not run for an empty query")
	}
}

func TestAsk_CompletionFailureBecomesChatMessage(t *testing.T) {
	ret := &stubRetriever{result: domain.RetrievalResult{Context: "ctx", Confidence: 0.7}}
	comp := &stubCompleter{err: errors.New("upstream timeout")}
	tel := &stubTelemetry{}
	s := newTestService(ret, comp, tel)

	resp, err := s.Ask(context.Background(), Request{Query: "anything"})
	if err != nil {
		t.Fatalf("completion failure must not surface as error, got %v", err)
	}
	if resp.Answer != fallbackErrorMessage {
		t.Errorf("answer = %q, want fallback message", resp.Answer)
	}
	if resp.Confidence != 0.7 {
		t.Errorf("confidence = %v, want retrieval confidence preserved", resp.Confidence)
	}

	// The failed turn is still logged, error text standing in for the response.
	if len(tel.entries) != 1 {
		t.Fatalf("telemetry entries = %d, want 1", len(tel.entries))
	}
	if !strings.Contains(tel.entries[0].Response, "upstream timeout") {
		t.Errorf("telemetry response = %q", tel.entries[0].Response)
	}
}

func TestAsk_MissingCompleterYieldsDiagnostic(t *testing.T) {
	ret := &stubRetriever{result: domain.RetrievalResult{Confidence: 0.1}}
	s := newTestService(ret, nil, nil)

	resp, err := s.Ask(context.Background(), Request{Query: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Answer, "no completion API key") {
		t.Errorf("answer = %q, want configuration diagnostic", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "owner@example.com") {
		t.Errorf("diagnostic should include the contact address: %q", resp.Answer)
	}
}

func TestAsk_AnonymousUserDefault(t *testing.T) {
	ret := &stubRetriever{result: domain.RetrievalResult{Context: "c", Confidence: 0.9}}
	tel := &stubTelemetry{}
	s := newTestService(ret, &stubCompleter{answer: "ok"}, tel)

	if _, err := s.Ask(context.Background(), Request{Query: "q"}); err != nil {
		t.Fatal(err)
	}
	if tel.entries[0].UserID != "anonymous" {
		t.Errorf("user id = %q, want anonymous", tel.entries[0].UserID)
	}
}
