package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/raincheck/raincheck/internal/route"
)

func result(id string, at time.Time) route.Result {
	return route.Result{CycleID: id, ComputedAt: at}
}

func TestLatestEmpty(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndLatest(t *testing.T) {
	s := NewMemoryStore(10, 0)
	now := time.Now().UTC()

	s.SaveResult(result("a", now.Add(-2*time.Minute)))
	s.SaveResult(result("b", now))

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.CycleID != "b" {
		t.Fatalf("expected latest cycle b, got %q", latest.CycleID)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		s.SaveResult(result(fmt.Sprintf("c%d", i), now.Add(time.Duration(i)*time.Minute)))
	}

	results, err := s.Range(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 retained results, got %d", len(results))
	}
	if results[0].CycleID != "c2" {
		t.Fatalf("expected oldest retained to be c2, got %q", results[0].CycleID)
	}
}

func TestRetentionByAgeKeepsNewest(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)
	now := time.Now().UTC()

	s.SaveResult(result("old", now.Add(-time.Hour)))
	s.SaveResult(result("fresh", now))

	latest, err := s.Latest()
	if err != nil || latest.CycleID != "fresh" {
		t.Fatalf("expected fresh result retained, got %v / %v", latest.CycleID, err)
	}

	if _, err := s.Range(now.Add(-2*time.Hour), now.Add(-30*time.Minute)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected the old result to be expired, got %v", err)
	}
}

func TestRangeInclusive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	s.SaveResult(result("a", base))
	s.SaveResult(result("b", base.Add(10*time.Minute)))
	s.SaveResult(result("c", base.Add(20*time.Minute)))

	results, err := s.Range(base, base.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected boundary results included, got %d", len(results))
	}
}
