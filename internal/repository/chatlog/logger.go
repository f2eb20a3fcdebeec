// Package chatlog persists chat telemetry entries to the key-value store.
// Logging is best-effort: a failed write never disturbs the chat response.
package chatlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
)

const (
	keyPrefix  = "twin:chat_log:"
	defaultTTL = 30 * 24 * time.Hour
)

// store is the consumer interface for telemetry writes.
type store interface {
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// record is the stored wire shape of one chat exchange.
type record struct {
	UserID     string    `json:"user_id"`
	Query      string    `json:"query"`
	Response   string    `json:"response"`
	Confidence float64   `json:"confidence"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
}

// Logger writes chat exchanges to the key-value store under unique keys.
type Logger struct {
	store  store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a telemetry logger retaining entries for the default 30 days.
func New(s store, logger *zap.Logger) *Logger {
	return &Logger{
		store:  s,
		ttl:    defaultTTL,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Log persists one chat exchange. Failures are logged and swallowed.
func (l *Logger) Log(ctx context.Context, entry domain.ChatLogEntry) {
	rec := record{
		UserID:     entry.UserID,
		Query:      entry.Query,
		Response:   entry.Response,
		Confidence: entry.Confidence,
		Model:      entry.Model,
		Timestamp:  l.now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		l.logger.Warn("Failed to marshal chat log entry", zap.Error(err))
		return
	}

	key := keyPrefix + l.newID()
	if err := l.store.SetWithTTL(ctx, key, data, l.ttl); err != nil {
		l.logger.Warn("Failed to persist chat log entry", zap.String("key", key), zap.Error(err))
	}
}
