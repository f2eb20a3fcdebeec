package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank chat message. Callers reject it before the
	// pipeline runs.
	ErrEmptyQuery = errors.New("empty query")
	// ErrMissingAPIKey signals absent provider credentials. Distinct from a
	// transient provider failure so operators get a configuration diagnostic
	// instead of a retry suggestion.
	ErrMissingAPIKey = errors.New("provider api key not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
