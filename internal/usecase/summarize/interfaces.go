package summarize

import (
	"context"
	"time"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// Logger is the minimal logging interface used by the use case layer.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Generator calls the external text generation API once. Retries and
// caching live above it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier, stored in cache entries.
	Model() string
}

// Fetcher downloads a document by URL, carrying whatever authorization
// the file host requires.
type Fetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Extractor converts document bytes to plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Poster is the subset of the chat platform API the background
// pipeline needs to deliver results and report failures.
type Poster interface {
	// PostSummary posts the formatted summary as a thread reply.
	PostSummary(ctx context.Context, target entity.ThreadTarget, filename, summary string) (string, error)

	// PostThreadReply posts a plain-text thread reply.
	PostThreadReply(ctx context.Context, target entity.ThreadTarget, text string) (string, error)

	// UpdateMessage rewrites an existing message. Best-effort.
	UpdateMessage(ctx context.Context, channelID, ts, text string)

	// DeleteMessage removes a message. Best-effort.
	DeleteMessage(ctx context.Context, channelID, ts string)
}

// MetricsRecorder records job outcomes. Implemented by the
// observability package; a nil recorder disables recording.
type MetricsRecorder interface {
	RecordJob(ctx context.Context, outcome string, duration time.Duration)
}
