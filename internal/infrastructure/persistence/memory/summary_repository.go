// Package memory provides process-local repository implementations,
// used when the file-backed cache is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/repository"
)

// SummaryRepository is a mutex-guarded in-memory summary cache.
// Implements repository.SummaryRepository.
type SummaryRepository struct {
	mu      sync.RWMutex
	entries map[string]entity.CacheEntry
}

// NewSummaryRepository creates an empty in-memory cache.
func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{
		entries: make(map[string]entity.CacheEntry),
	}
}

// Get returns the cached entry for hash and level.
func (r *SummaryRepository) Get(ctx context.Context, hash string, level entity.DetailLevel) (*entity.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key(hash, level)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

// Put stores a copy of entry.
func (r *SummaryRepository) Put(ctx context.Context, entry *entity.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key(entry.Hash, entry.DetailLevel)] = *entry
	return nil
}

// Len reports the number of cached entries.
func (r *SummaryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func key(hash string, level entity.DetailLevel) string {
	return hash + "_" + string(level)
}
