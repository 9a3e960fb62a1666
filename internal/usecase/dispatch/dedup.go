package dispatch

import "sync"

const (
	// dedupMaxSize is the size at which the set is trimmed.
	dedupMaxSize = 1000

	// dedupTrimTo is the number of most recent entries kept after a trim.
	dedupTrimTo = 500
)

// DedupSet is a bounded, process-local set of already seen event
// identifiers. Deduplication is best-effort: the set is not persisted
// and a restart forgets all history.
type DedupSet struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewDedupSet creates an empty deduplication set.
func NewDedupSet() *DedupSet {
	return &DedupSet{
		seen: make(map[string]struct{}),
	}
}

// ShouldProcess reports whether the identifier is seen for the first
// time, recording it as a side effect. Subsequent calls with the same
// identifier return false until the entry is evicted.
func (s *DedupSet) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}

	s.seen[id] = struct{}{}
	s.order = append(s.order, id)

	if len(s.order) > dedupMaxSize {
		s.trim()
	}

	return true
}

// trim drops the oldest entries, keeping the newest dedupTrimTo.
// Caller must hold the lock.
func (s *DedupSet) trim() {
	cut := len(s.order) - dedupTrimTo
	for _, old := range s.order[:cut] {
		delete(s.seen, old)
	}
	s.order = append(s.order[:0:0], s.order[cut:]...)
}

// Len returns the current number of recorded identifiers.
func (s *DedupSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
