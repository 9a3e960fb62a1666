// Package summarize implements the summarization pipeline: cache-first
// summary generation with bounded retries, and the background job that
// turns an uploaded PDF into a posted thread reply.
package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/repository"
)

// Summarizer produces summaries for paper text, consulting the cache
// before calling the generation API.
type Summarizer struct {
	generator  Generator
	repo       repository.SummaryRepository
	level      entity.DetailLevel
	maxRetries int
	retryDelay time.Duration
	logger     Logger
}

// NewSummarizer creates a summarizer with the given detail level and
// retry policy.
func NewSummarizer(
	generator Generator,
	repo repository.SummaryRepository,
	level entity.DetailLevel,
	maxRetries int,
	retryDelay time.Duration,
	logger Logger,
) *Summarizer {
	if !level.Valid() {
		level = entity.DetailNormal
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Summarizer{
		generator:  generator,
		repo:       repo,
		level:      level,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Summarize returns the summary for text, from cache when available.
// On a miss it calls the generation API with linearly increasing
// backoff between attempts and persists the result before returning.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])

	entry, err := s.repo.Get(ctx, hash, s.level)
	if err == nil {
		s.logger.Info("loaded summary from cache",
			"hash", hash[:8],
			"detail_level", string(s.level),
			"model", entry.Model,
		)
		return entry.Summary, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("cache lookup failed", "hash", hash[:8], "error", err)
	}

	prompt := renderPrompt(s.level, text)

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		s.logger.Info("generating summary",
			"hash", hash[:8],
			"attempt", attempt,
			"max_attempts", s.maxRetries,
		)

		summary, err := s.generator.Generate(ctx, prompt)
		if err == nil {
			summary = strings.TrimSpace(summary)
			if summary != "" {
				s.store(ctx, hash, summary)
				return summary, nil
			}
			err = errors.New("empty response from generation API")
		}

		lastErr = err
		s.logger.Warn("summary attempt failed",
			"hash", hash[:8],
			"attempt", attempt,
			"error", err,
		)

		if attempt == s.maxRetries {
			break
		}

		select {
		case <-time.After(s.retryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return "", domainerrors.NewSummaryError("summary generation canceled", ctx.Err())
		}
	}

	return "", domainerrors.NewSummaryError(
		fmt.Sprintf("failed to generate summary after %d attempts", s.maxRetries),
		lastErr,
	)
}

func (s *Summarizer) store(ctx context.Context, hash, summary string) {
	entry := &entity.CacheEntry{
		Hash:        hash,
		DetailLevel: s.level,
		Model:       s.generator.Model(),
		Summary:     summary,
	}
	if err := s.repo.Put(ctx, entry); err != nil {
		s.logger.Warn("failed to cache summary", "hash", hash[:8], "error", err)
		return
	}
	s.logger.Info("saved summary to cache", "hash", hash[:8])
}
