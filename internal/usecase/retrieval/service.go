// Package retrieval implements the hybrid search pipeline behind the chat
// assistant: sensitive-topic interception, corpus assembly, combined
// vector/keyword scoring, and confidence estimation.
package retrieval

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
)

// Service runs the full retrieval pipeline for one query.
type Service struct {
	embedder  Embedder
	source    CorpusSource
	engine    engine
	ownerName string
	logger    *zap.Logger
}

// New creates a retrieval service. embedder may be nil, which disables the
// semantic component entirely (keyword-only search).
func New(
	embedder Embedder,
	source CorpusSource,
	weights Weights,
	topK int,
	ownerName string,
	logger *zap.Logger,
) *Service {
	if topK <= 0 {
		topK = 4
	}
	return &Service{
		embedder:  embedder,
		source:    source,
		engine:    engine{weights: weights, topK: topK},
		ownerName: ownerName,
		logger:    logger,
	}
}

// Retrieve selects context for the query and estimates confidence in it.
// devMode widens the corpus to include indexed source files. Retrieval
// never fails: embedding errors degrade to keyword-only scoring, and an
// empty result is a valid answer with floor confidence.
func (s *Service) Retrieve(ctx context.Context, query string, devMode bool) domain.RetrievalResult {
	lowerQuery := strings.ToLower(query)

	if intercepted(lowerQuery) {
		s.logger.Info("Sensitive query intercepted")
		return domain.RetrievalResult{
			Context:    refusalContext(s.ownerName),
			Confidence: confidenceIntercept,
		}
	}

	includeCode := devMode || isTechnicalQuery(lowerQuery)
	corpus := buildCorpus(s.source.Documents(), includeCode)

	queryVec := s.embedQuery(ctx, query)

	ranked := s.engine.rank(corpus, lowerQuery, queryVec)
	if len(ranked) == 0 {
		s.logger.Debug("No relevant documents found", zap.String("query", query))
		return domain.RetrievalResult{Context: "", Confidence: confidenceFloor}
	}

	s.logger.Debug("Relevant documents found",
		zap.Int("count", len(ranked)),
		zap.String("top_title", ranked[0].Document.Title),
		zap.Float64("top_score", ranked[0].TotalScore),
		zap.Float64("top_vector", ranked[0].VectorScore),
		zap.Float64("top_keyword", ranked[0].KeywordScore))

	return domain.RetrievalResult{
		Context:    formatContext(ranked),
		Confidence: estimateConfidence(ranked),
	}
}

// embedQuery returns the query embedding or nil when the provider is
// unavailable or fails. A nil vector just means keyword-only scoring.
func (s *Service) embedQuery(ctx context.Context, query string) []float32 {
	if s.embedder == nil {
		return nil
	}
	result, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("Query embedding failed, falling back to keyword-only search", zap.Error(err))
		return nil
	}
	return result.Embedding
}
