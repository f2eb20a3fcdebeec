package domain

import "strings"

// Kind discriminates the knowledge document variants.
type Kind string

const (
	// KindProject is a portfolio project entry.
	KindProject Kind = "project"
	// KindExpertise is an expertise/service area.
	KindExpertise Kind = "expertise"
	// KindBlogPost is a long-form blog post.
	KindBlogPost Kind = "blog"
	// KindSourceFile is a source file of this application, exposed in developer mode.
	KindSourceFile Kind = "source"
	// KindBiography is the owner's biography record.
	KindBiography Kind = "biography"
	// KindPersona is the assistant's persona/system-instruction block, indexed as a
	// regular document so identity and contact questions are answered by retrieval
	// instead of hard-coded rules.
	KindPersona Kind = "persona"
)

// KnowledgeDocument is the unit of retrieval. Documents are assembled fresh per
// request from already-loaded collections and never mutated by the retrieval path.
// Optional fields may be empty; scoring treats absent strings as "" and absent
// slices as empty.
type KnowledgeDocument struct {
	ID      string
	Kind    Kind
	Title   string
	Summary string
	Body    string
	Tags    []string

	// Vector is the precomputed embedding. Nil means the document cannot
	// participate in semantic scoring. All vectors in one retrieval pass must
	// share the same length; a mismatch scores zero, never errors.
	Vector []float32
}

const embeddingBodyLimit = 6000

// EmbeddingText returns the text a document is embedded under. Bodies are capped
// so large source files do not blow the provider's input limit.
func (d KnowledgeDocument) EmbeddingText() string {
	var b strings.Builder
	b.WriteString(d.Title)
	if d.Summary != "" {
		b.WriteString("\n")
		b.WriteString(d.Summary)
	}
	if d.Body != "" {
		body := d.Body
		if len(body) > embeddingBodyLimit {
			body = body[:embeddingBodyLimit]
		}
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

// ScoredDocument is a per-query scoring record. It exists only for the duration
// of one retrieval call and is never persisted.
type ScoredDocument struct {
	Document     KnowledgeDocument
	VectorScore  float64
	KeywordScore float64
	TotalScore   float64
}

// RetrievalResult is what the retrieval pipeline hands to the prompt assembler.
// Context is empty when nothing relevant was found; Confidence is still
// meaningful (a small positive floor, never zero).
type RetrievalResult struct {
	Context    string
	Confidence float64
}

// ChatLogEntry is the telemetry record for one completed chat turn.
type ChatLogEntry struct {
	UserID     string
	Query      string
	Response   string
	Confidence float64
	Model      string
}
