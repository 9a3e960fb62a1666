package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/repository"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	var resp string
	if i < len(g.responses) {
		resp = g.responses[i]
	}
	return resp, err
}

func (g *fakeGenerator) Model() string { return "test-model" }

type mapRepo struct {
	entries map[string]*entity.CacheEntry
	getErr  error
	putErr  error
}

func newMapRepo() *mapRepo {
	return &mapRepo{entries: map[string]*entity.CacheEntry{}}
}

func (r *mapRepo) Get(ctx context.Context, hash string, level entity.DetailLevel) (*entity.CacheEntry, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	entry, ok := r.entries[hash+"_"+string(level)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return entry, nil
}

func (r *mapRepo) Put(ctx context.Context, entry *entity.CacheEntry) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.entries[entry.Hash+"_"+string(entry.DetailLevel)] = entry
	return nil
}

func TestSummarizer_GeneratesAndCaches(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"  :bar_chart: *논문 분석 결과*  "}}
	repo := newMapRepo()
	s := NewSummarizer(gen, repo, entity.DetailNormal, 3, time.Millisecond, nopLogger{})

	got, err := s.Summarize(context.Background(), "paper text")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != ":bar_chart: *논문 분석 결과*" {
		t.Errorf("Summarize() = %q, want trimmed summary", got)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("cache entries = %d, want 1", len(repo.entries))
	}
	for _, entry := range repo.entries {
		if entry.Model != "test-model" {
			t.Errorf("cached model = %q", entry.Model)
		}
		if entry.DetailLevel != entity.DetailNormal {
			t.Errorf("cached level = %q", entry.DetailLevel)
		}
	}
}

func TestSummarizer_CacheHitSkipsAPI(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"fresh summary"}}
	repo := newMapRepo()
	s := NewSummarizer(gen, repo, entity.DetailShort, 3, time.Millisecond, nopLogger{})

	first, err := s.Summarize(context.Background(), "same text")
	if err != nil {
		t.Fatalf("first Summarize() error = %v", err)
	}
	second, err := s.Summarize(context.Background(), "same text")
	if err != nil {
		t.Fatalf("second Summarize() error = %v", err)
	}

	if first != second {
		t.Errorf("cache hit returned %q, want %q", second, first)
	}
	if gen.calls != 1 {
		t.Errorf("Generate calls = %d, want 1", gen.calls)
	}
}

func TestSummarizer_RetriesTransientFailure(t *testing.T) {
	gen := &fakeGenerator{
		responses: []string{"", "", "recovered summary"},
		errs:      []error{errors.New("503"), errors.New("timeout"), nil},
	}
	s := NewSummarizer(gen, newMapRepo(), entity.DetailNormal, 3, time.Millisecond, nopLogger{})

	got, err := s.Summarize(context.Background(), "flaky upstream")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "recovered summary" {
		t.Errorf("Summarize() = %q", got)
	}
	if gen.calls != 3 {
		t.Errorf("Generate calls = %d, want 3", gen.calls)
	}
}

func TestSummarizer_ExhaustedRetriesReturnSummaryError(t *testing.T) {
	gen := &fakeGenerator{
		errs: []error{errors.New("quota"), errors.New("quota"), errors.New("quota exceeded")},
	}
	s := NewSummarizer(gen, newMapRepo(), entity.DetailNormal, 3, time.Millisecond, nopLogger{})

	_, err := s.Summarize(context.Background(), "doomed")
	if err == nil {
		t.Fatal("Summarize() error = nil, want SummaryError")
	}
	var sumErr *domainerrors.SummaryError
	if !errors.As(err, &sumErr) {
		t.Fatalf("error type = %T, want *SummaryError", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q should carry the last attempt's cause", err)
	}
	if gen.calls != 3 {
		t.Errorf("Generate calls = %d, want 3", gen.calls)
	}
}

func TestSummarizer_EmptyResponseIsFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"   ", "\n\n"}}
	s := NewSummarizer(gen, newMapRepo(), entity.DetailNormal, 2, time.Millisecond, nopLogger{})

	_, err := s.Summarize(context.Background(), "blank output")
	if err == nil {
		t.Fatal("Summarize() error = nil, want SummaryError for empty output")
	}
	if gen.calls != 2 {
		t.Errorf("Generate calls = %d, want 2", gen.calls)
	}
}

func TestSummarizer_CacheWriteFailureIsNonFatal(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"still delivered"}}
	repo := newMapRepo()
	repo.putErr = errors.New("disk full")
	s := NewSummarizer(gen, repo, entity.DetailNormal, 1, time.Millisecond, nopLogger{})

	got, err := s.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "still delivered" {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestSummarizer_PromptCarriesLevelTemplate(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"ok"}}
	s := NewSummarizer(gen, newMapRepo(), entity.DetailDetailed, 1, time.Millisecond, nopLogger{})

	if _, err := s.Summarize(context.Background(), "the paper body"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatal("expected one prompt")
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "the paper body") {
		t.Error("prompt should embed the paper text")
	}
	if !strings.Contains(prompt, "의의 및 응용") {
		t.Error("prompt should use the detailed template")
	}
}
