// Package file implements the summary cache as one JSON file per
// document and detail level.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/repository"
)

// SummaryRepository stores cache entries under dir as
// {hash}_{detail_level}.json. Implements repository.SummaryRepository.
type SummaryRepository struct {
	dir     string
	logger  *slog.Logger
	metrics CacheMetrics
}

// CacheMetrics records cache lookup outcomes. May be nil.
type CacheMetrics interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
}

// NewSummaryRepository creates the cache directory if needed.
func NewSummaryRepository(dir string, logger *slog.Logger, metrics CacheMetrics) (*SummaryRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &SummaryRepository{
		dir:     dir,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Get loads the cached entry for hash and level. A missing or corrupt
// file is a miss.
func (r *SummaryRepository) Get(ctx context.Context, hash string, level entity.DetailLevel) (*entity.CacheEntry, error) {
	data, err := os.ReadFile(r.path(hash, level))
	if err != nil {
		if os.IsNotExist(err) {
			r.miss(ctx)
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry entity.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is a miss; the next Put overwrites it.
		r.logger.Warn("discarding corrupt cache entry",
			"hash", hash,
			"detail_level", string(level),
			"error", err,
		)
		r.miss(ctx)
		return nil, repository.ErrNotFound
	}

	if r.metrics != nil {
		r.metrics.RecordCacheHit(ctx)
	}
	return &entry, nil
}

// Put writes the entry atomically: a temp file in the same directory
// renamed over the final path.
func (r *SummaryRepository) Put(ctx context.Context, entry *entity.CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".summary-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	final := r.path(entry.Hash, entry.DetailLevel)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

func (r *SummaryRepository) path(hash string, level entity.DetailLevel) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_%s.json", hash, level))
}

func (r *SummaryRepository) miss(ctx context.Context) {
	if r.metrics != nil {
		r.metrics.RecordCacheMiss(ctx)
	}
}
