package dispatch

import (
	"context"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// Logger is the minimal logging interface used by the use case layer.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// FileGateway is the subset of the chat platform API the dispatcher
// needs on the request path: one metadata lookup plus two best-effort
// side effects.
type FileGateway interface {
	// FileInfo resolves file metadata by ID.
	FileInfo(ctx context.Context, fileID string) (*entity.FileDescriptor, error)

	// AddReaction adds an emoji reaction to the share message.
	// "already reacted" is not an error.
	AddReaction(ctx context.Context, target entity.ThreadTarget, emoji string) error

	// PostStatus posts the "processing" status message and returns its
	// timestamp.
	PostStatus(ctx context.Context, target entity.ThreadTarget, filename string) (string, error)
}

// JobRunner executes a processing job to completion. Implemented by the
// background pipeline use case.
type JobRunner interface {
	Run(ctx context.Context, job entity.ProcessingJob)
}

// JobQueue hands work to the background worker pool. Submit must not
// block; it returns an error when the queue is full.
type JobQueue interface {
	Submit(job func(ctx context.Context)) error
}
