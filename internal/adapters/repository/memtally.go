package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/types"
)

// MemTally implements Tally with an in-process map. Counts survive for the
// lifetime of the service only.
type MemTally struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewMemTally creates an empty tally.
func NewMemTally() *MemTally {
	return &MemTally{counts: make(map[string]int)}
}

// RecordPrimary increments the count for category.
func (t *MemTally) RecordPrimary(_ context.Context, category string) error {
	if category == "" {
		return ErrInvalidCategory
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[category]++
	return nil
}

// TopN returns the n highest categories.
func (t *MemTally) TopN(_ context.Context, n int) ([]types.StyleCount, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	t.mu.RLock()
	entries := make([]types.StyleCount, 0, len(t.counts))
	for cat, c := range t.counts {
		entries = append(entries, types.StyleCount{Category: cat, Sessions: c})
	}
	t.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Sessions != entries[j].Sessions {
			return entries[i].Sessions > entries[j].Sessions
		}
		return entries[i].Category < entries[j].Category
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Count returns the number of distinct categories.
func (t *MemTally) Count(_ context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.counts)
}
