package chatlog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/domain"
)

type mockStore struct {
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.setFn(ctx, key, value, ttl)
}

func TestLog_WritesRecord(t *testing.T) {
	var gotKey string
	var gotValue []byte
	var gotTTL time.Duration

	ms := &mockStore{setFn: func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		gotKey, gotValue, gotTTL = key, value, ttl
		return nil
	}}

	l := New(ms, zap.NewNop())
	l.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
	l.newID = func() string { return "fixed-id" }

	l.Log(context.Background(), domain.ChatLogEntry{
		UserID:     "anonymous",
		Query:      "tell me about ota updates",
		Response:   "Accessing neural archives...",
		Confidence: 0.9,
		Model:      "gemini-2.5-flash",
	})

	if gotKey != "twin:chat_log:fixed-id" {
		t.Errorf("key = %q", gotKey)
	}
	if gotTTL != defaultTTL {
		t.Errorf("ttl = %v, want %v", gotTTL, defaultTTL)
	}

	var rec record
	if err := json.Unmarshal(gotValue, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Query != "tell me about ota updates" || rec.Confidence != 0.9 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !strings.HasPrefix(rec.Timestamp.Format(time.RFC3339), "2026-02-01T12:00:00") {
		t.Errorf("timestamp = %v", rec.Timestamp)
	}
}

func TestLog_StoreFailureIsSwallowed(t *testing.T) {
	ms := &mockStore{setFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("store down")
	}}

	l := New(ms, zap.NewNop())
	// Must not panic or propagate.
	l.Log(context.Background(), domain.ChatLogEntry{Query: "q", Response: "r"})
}
