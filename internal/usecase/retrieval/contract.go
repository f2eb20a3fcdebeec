package retrieval

import (
	"context"

	"github.com/redwards/digitaltwin/internal/domain"
)

// Embedder produces the query embedding for semantic scoring.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CorpusSource supplies the knowledge documents to search over.
type CorpusSource interface {
	Documents() []domain.KnowledgeDocument
}
