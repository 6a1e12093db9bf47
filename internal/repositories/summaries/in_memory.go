package summaries

import (
	"context"
	"sync"
)

// InMemorySink keeps summaries in memory. Used when no Redis is configured
// and by tests, which can inspect what was written via All.
type InMemorySink struct {
	mu        sync.RWMutex
	summaries []*Summary
}

// NewInMemorySink creates an in-memory summary sink
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

// Append writes one summary record
func (s *InMemorySink) Append(ctx context.Context, summary *Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return nil
}

// All returns every summary written so far
func (s *InMemorySink) All() []*Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Summary, len(s.summaries))
	copy(out, s.summaries)
	return out
}
