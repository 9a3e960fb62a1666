package repository

import (
	"context"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// SummaryRepository stores computed summaries keyed by content hash and
// detail level. Concurrent writers for the same key produce identical
// content, so implementations only need to guarantee that readers never
// observe a partial write.
type SummaryRepository interface {
	// Get returns the cached entry, or ErrNotFound.
	Get(ctx context.Context, hash string, level entity.DetailLevel) (*entity.CacheEntry, error)

	// Put persists an entry, overwriting any existing one for the key.
	Put(ctx context.Context, entry *entity.CacheEntry) error
}
