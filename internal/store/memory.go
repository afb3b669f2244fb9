package store

import (
	"errors"
	"sync"
	"time"

	"github.com/raincheck/raincheck/internal/route"
)

// ErrNotFound is returned before the first cycle has published, or when a
// range query matches nothing.
var ErrNotFound = errors.New("no advisory recorded")

// MemoryStore is a concurrency-safe in-memory history of published cycle
// results. Nothing persists across restarts; retention is bounded by count
// and age.
type MemoryStore struct {
	mu      sync.RWMutex
	results []route.Result

	maxHistory int           // max results kept (0 = unlimited)
	maxAge     time.Duration // max result age (0 = unlimited)
}

// NewMemoryStore creates a MemoryStore with optional limits. A maxHistory
// of <= 0 is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveResult appends a published cycle result and enforces retention.
func (s *MemoryStore) SaveResult(res route.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, res)

	if s.maxHistory > 0 && len(s.results) > s.maxHistory {
		over := len(s.results) - s.maxHistory
		s.results = s.results[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().UTC().Add(-s.maxAge)
		i := 0
		for ; i < len(s.results); i++ {
			if !s.results[i].ComputedAt.Before(cutoff) {
				break
			}
		}
		// Never expire the newest result; a stalled scheduler should not
		// leave the consumer with nothing.
		if i > 0 && i < len(s.results) {
			s.results = s.results[i:]
		}
	}
}

// Latest returns the most recently published result.
func (s *MemoryStore) Latest() (route.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.results) == 0 {
		return route.Result{}, ErrNotFound
	}
	return s.results[len(s.results)-1], nil
}

// Range returns all results computed between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]route.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []route.Result
	for _, res := range s.results {
		if !res.ComputedAt.Before(from) && !res.ComputedAt.After(to) {
			out = append(out, res)
		}
	}

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
