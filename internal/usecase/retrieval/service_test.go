package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
)

type stubSource struct {
	docs []domain.KnowledgeDocument
}

func (s *stubSource) Documents() []domain.KnowledgeDocument { return s.docs }

type stubEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.calls++
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: s.vec}, nil
}

func testCorpus() []domain.KnowledgeDocument {
	return []domain.KnowledgeDocument{
		{
			ID:      "project-1",
			Kind:    domain.KindProject,
			Title:   "Connected Vehicle Architecture",
			Summary: "Architected the secure Over-The-Air (OTA) delivery framework supporting 1M+ connected vehicles.",
			Tags:    []string{"vehicle", "ota", "architecture", "firmware", "iot", "cloud"},
		},
		{
			ID:      "expertise-3",
			Kind:    domain.KindExpertise,
			Title:   "Cloud Computing",
			Summary: "Architecting scalable, resilient infrastructure for the modern enterprise.",
		},
		{
			ID:    "biography",
			Kind:  domain.KindBiography,
			Title: "About Raphael Edwards",
			Body:  "Technology executive based in Boston with a background in cloud security.",
		},
		{
			ID:      "persona",
			Kind:    domain.KindPersona,
			Title:   "AI Persona & Core Instructions",
			Tags:    []string{"email", "contact", "identity"},
			Body:    "Contact: owner@example.com",
			Summary: "Identity and operating rules.",
		},
		{
			ID:      "file-engine",
			Kind:    domain.KindSourceFile,
			Title:   "engine.go (Vector Search Implementation)",
			Summary: "Hybrid scoring engine.",
			Body:    "package retrieval",
		},
	}
}

func newTestService(src CorpusSource, emb Embedder) *Service {
	return New(emb, src, DefaultWeights(), 4, "Raphael", zap.NewNop())
}

func TestRetrieve_SensitiveQueryIntercepted(t *testing.T) {
	emb := &stubEmbedder{}
	s := newTestService(&stubSource{docs: testCorpus()}, emb)

	result := s.Retrieve(context.Background(), "What is your consulting rate?", false)
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", result.Confidence)
	}
	if !strings.Contains(result.Context, "SYSTEM_INJECTION") {
		t.Errorf("context = %q, want refusal marker", result.Context)
	}
	if !strings.Contains(result.Context, "Raphael") {
		t.Errorf("context should name the owner: %q", result.Context)
	}
	if emb.calls != 0 {
		t.Errorf("interception must run before any embedding call, got %d calls", emb.calls)
	}
}

func TestRetrieve_KeywordOnlyProjectMatch(t *testing.T) {
	s := newTestService(&stubSource{docs: testCorpus()}, nil)

	result := s.Retrieve(context.Background(), "Tell me about the connected vehicle project", false)
	if !strings.Contains(result.Context, "[PROJECT: Connected Vehicle Architecture]") {
		t.Errorf("expected vehicle project in context:\n%s", result.Context)
	}
	// Title hits on "connected" and "vehicle" alone put the score far past
	// the high-confidence threshold.
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", result.Confidence)
	}
}

func TestRetrieve_GibberishYieldsFloor(t *testing.T) {
	s := newTestService(&stubSource{docs: testCorpus()}, nil)

	result := s.Retrieve(context.Background(), "asdkjasd completely unrelated gibberish", false)
	if result.Context != "" {
		t.Errorf("context = %q, want empty", result.Context)
	}
	if result.Confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", result.Confidence)
	}
}

func TestRetrieve_IdentityQuestionHitsPersona(t *testing.T) {
	s := newTestService(&stubSource{docs: testCorpus()}, nil)

	result := s.Retrieve(context.Background(), "what is your email contact identity", false)
	if !strings.Contains(result.Context, "[SYSTEM IDENTITY]") {
		t.Errorf("expected persona block in context:\n%s", result.Context)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", result.Confidence)
	}
}

func TestRetrieve_SourceFilesGatedByMode(t *testing.T) {
	s := newTestService(&stubSource{docs: testCorpus()}, nil)
	ctx := context.Background()

	// Non-technical query outside dev mode: code never appears.
	plain := s.Retrieve(ctx, "scoring engine internals", false)
	if strings.Contains(plain.Context, "[SOURCE CODE:") {
		t.Errorf("source code leaked outside code mode:\n%s", plain.Context)
	}

	// Same query in dev mode reaches the source file.
	dev := s.Retrieve(ctx, "scoring engine internals", true)
	if !strings.Contains(dev.Context, "[SOURCE CODE: engine.go (Vector Search Implementation)]") {
		t.Errorf("expected source file in dev mode:\n%s", dev.Context)
	}

	// Technical trigger pulls code in even without dev mode.
	tech := s.Retrieve(ctx, "how does the vector search implementation work", false)
	if !strings.Contains(tech.Context, "[SOURCE CODE:") {
		t.Errorf("expected source file for technical query:\n%s", tech.Context)
	}
}

func TestRetrieve_EmbedderFailureDegradesToKeyword(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("provider down")}
	s := newTestService(&stubSource{docs: testCorpus()}, emb)

	result := s.Retrieve(context.Background(), "connected vehicle ota delivery", false)
	if result.Context == "" {
		t.Fatal("keyword fallback should still find the vehicle project")
	}
	if emb.calls != 1 {
		t.Errorf("embedder calls = %d, want 1", emb.calls)
	}
}

func TestRetrieve_VectorOnlyMatch(t *testing.T) {
	docs := []domain.KnowledgeDocument{
		{
			ID:     "project-sem",
			Kind:   domain.KindProject,
			Title:  "Operational Intelligence",
			Vector: []float32{1, 0},
		},
		{
			ID:     "project-far",
			Kind:   domain.KindProject,
			Title:  "Unrelated Effort",
			Vector: []float32{0, 1},
		},
	}
	emb := &stubEmbedder{vec: []float32{1, 0}}
	s := newTestService(&stubSource{docs: docs}, emb)

	// No token overlap at all: ranking is purely semantic.
	result := s.Retrieve(context.Background(), "efficiency savings automation", false)
	if !strings.Contains(result.Context, "Operational Intelligence") {
		t.Errorf("expected semantic match:\n%s", result.Context)
	}
	if strings.Contains(result.Context, "Unrelated Effort") {
		t.Errorf("orthogonal document should score zero:\n%s", result.Context)
	}
	// Similarity 1.0 rescales to ~100 points, past the high threshold.
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", result.Confidence)
	}
}

func TestRetrieve_Idempotent(t *testing.T) {
	s := newTestService(&stubSource{docs: testCorpus()}, nil)
	ctx := context.Background()

	first := s.Retrieve(ctx, "tell me about cloud computing", false)
	second := s.Retrieve(ctx, "tell me about cloud computing", false)
	if first != second {
		t.Errorf("results differ across identical calls:\n%+v\n%+v", first, second)
	}
}

func TestFormatContext_Blocks(t *testing.T) {
	docs := []domain.ScoredDocument{
		{Document: domain.KnowledgeDocument{
			Kind: domain.KindProject, Title: "P", Summary: "S", Tags: []string{"a", "b"},
		}},
		{Document: domain.KnowledgeDocument{
			Kind: domain.KindBlogPost, Title: "B", Summary: "E", Body: strings.Repeat("x", 400),
		}},
	}

	got := formatContext(docs)
	if !strings.Contains(got, "[PROJECT: P]\nS\nTechnologies: a, b") {
		t.Errorf("project block malformed:\n%s", got)
	}
	if !strings.Contains(got, "------------------------") {
		t.Error("missing block separator")
	}
	// Blog bodies are previewed, not dumped wholesale.
	if !strings.Contains(got, strings.Repeat("x", 300)+"...") {
		t.Error("blog body preview malformed")
	}
	if strings.Contains(got, strings.Repeat("x", 301)) {
		t.Error("blog body not truncated")
	}
}
