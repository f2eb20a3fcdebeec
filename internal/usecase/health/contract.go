package health

import "context"

// StorePinger checks key-value store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ContentCounter reports how many knowledge documents are loaded.
type ContentCounter interface {
	Len() int
}
