package chat

import (
	"context"

	"github.com/redwards/digitaltwin/internal/domain"
)

// Retriever selects context for one query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, devMode bool) domain.RetrievalResult
}

// Completer generates the assistant response from an assembled prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PersonaSource supplies the base persona/behavior instruction block.
type PersonaSource interface {
	PersonaText() string
}

// TelemetryLogger records completed chat turns. Implementations must never
// fail the chat path.
type TelemetryLogger interface {
	Log(ctx context.Context, entry domain.ChatLogEntry)
}
