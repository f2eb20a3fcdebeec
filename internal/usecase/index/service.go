// Package index computes and attaches embedding vectors for the knowledge
// base, at startup and on demand.
package index

import (
	"context"

	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
)

// Embedder produces document embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ContentIndex exposes the documents and accepts computed vectors.
type ContentIndex interface {
	Documents() []domain.KnowledgeDocument
	SetVector(id string, vec []float32) bool
}

// Stats summarizes one reindex pass.
type Stats struct {
	Total    int `json:"total"`
	Embedded int `json:"embedded"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// Service embeds knowledge documents so they can participate in semantic
// scoring. Keyword search works without it, so every failure is soft.
type Service struct {
	embedder Embedder
	content  ContentIndex
	logger   *zap.Logger
}

// New creates an index service. embedder may be nil, which turns Reindex
// into a no-op that skips every document.
func New(embedder Embedder, content ContentIndex, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, content: content, logger: logger}
}

// Reindex embeds every document and attaches the vectors. One failing
// document never aborts the pass; it is counted and skipped. The only hard
// stop is context cancellation.
func (s *Service) Reindex(ctx context.Context) (Stats, error) {
	docs := s.content.Documents()
	stats := Stats{Total: len(docs)}

	if s.embedder == nil {
		stats.Skipped = len(docs)
		s.logger.Warn("No embedding provider configured, knowledge base stays keyword-only")
		return stats, nil
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result, err := s.embedder.Embed(ctx, doc.EmbeddingText())
		if err != nil {
			stats.Failed++
			s.logger.Warn("Failed to embed document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		if !s.content.SetVector(doc.ID, result.Embedding) {
			stats.Failed++
			s.logger.Warn("Document vanished during reindex", zap.String("id", doc.ID))
			continue
		}
		stats.Embedded++
	}

	s.logger.Info("Reindex complete",
		zap.Int("total", stats.Total),
		zap.Int("embedded", stats.Embedded),
		zap.Int("failed", stats.Failed))
	return stats, nil
}
