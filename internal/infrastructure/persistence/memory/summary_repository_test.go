package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/repository"
)

func TestSummaryRepository_PutThenGet(t *testing.T) {
	repo := NewSummaryRepository()
	ctx := context.Background()

	entry := &entity.CacheEntry{
		Hash:        "abc123",
		DetailLevel: entity.DetailShort,
		Model:       "gemini-1.5-flash",
		Summary:     "짧은 요약",
	}
	require.NoError(t, repo.Put(ctx, entry))

	got, err := repo.Get(ctx, "abc123", entity.DetailShort)
	require.NoError(t, err)
	assert.Equal(t, "짧은 요약", got.Summary)

	_, err = repo.Get(ctx, "abc123", entity.DetailDetailed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSummaryRepository_ReturnsCopy(t *testing.T) {
	repo := NewSummaryRepository()
	ctx := context.Background()

	entry := &entity.CacheEntry{Hash: "h", DetailLevel: entity.DetailNormal, Summary: "원본"}
	require.NoError(t, repo.Put(ctx, entry))

	got, err := repo.Get(ctx, "h", entity.DetailNormal)
	require.NoError(t, err)
	got.Summary = "변조"

	again, err := repo.Get(ctx, "h", entity.DetailNormal)
	require.NoError(t, err)
	assert.Equal(t, "원본", again.Summary)
}

func TestSummaryRepository_ConcurrentAccess(t *testing.T) {
	repo := NewSummaryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := &entity.CacheEntry{
				Hash:        fmt.Sprintf("hash-%d", i),
				DetailLevel: entity.DetailNormal,
				Summary:     "요약",
			}
			require.NoError(t, repo.Put(ctx, entry))
			_, _ = repo.Get(ctx, entry.Hash, entity.DetailNormal)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, repo.Len())
}
