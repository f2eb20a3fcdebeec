// Package db defines the key-value storage contract shared by the embedding
// cache and the chat-log sink. Implementations: Redis via rueidis and a bounded
// in-memory store for keyless deployments.
package db

import (
	"context"
	"time"
)

// KV is the storage facade. Consumers depend on the narrow sub-interfaces.
type KV interface {
	Getter
	Setter
	Pinger
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Getter reads a value by key.
type Getter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Setter writes values.
type Setter interface {
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
