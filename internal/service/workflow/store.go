// internal/service/workflow/store.go

package workflow

import (
	"context"
	"sync"
	"time"

	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
)

// Store persists workflow results keyed by workflow ID.
// Implementations hand out copies; callers never share a record with the orchestrator.
type Store interface {
	// Save creates or replaces the record for result.Workflow.ID
	Save(ctx context.Context, result optimization.Result) error

	// Get returns a copy of the record or optimization.ErrWorkflowNotFound
	Get(ctx context.Context, id string) (*optimization.Result, error)

	// EvictBefore removes terminal records completed before cutoff
	EvictBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// MemoryStore is an in-process Store guarded by a mutex
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]optimization.Result
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]optimization.Result)}
}

// Save stores a copy of the result
func (s *MemoryStore) Save(ctx context.Context, result optimization.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[result.Workflow.ID] = cloneResult(result)
	return nil
}

// Get returns a copy of the stored result
func (s *MemoryStore) Get(ctx context.Context, id string) (*optimization.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, optimization.ErrWorkflowNotFound
	}
	c := cloneResult(result)
	return &c, nil
}

// EvictBefore drops terminal results completed before cutoff
func (s *MemoryStore) EvictBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, result := range s.results {
		wf := result.Workflow
		if !wf.Status.Terminal() || wf.CompletedAt == nil {
			continue
		}
		if wf.CompletedAt.Before(cutoff) {
			delete(s.results, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len returns the number of stored results
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// cloneResult copies every slice and map a reader could mutate.
// The analysis is never modified after the analysis stage and is shared.
func cloneResult(r optimization.Result) optimization.Result {
	c := r
	c.Workflow = r.Workflow.Clone()
	c.Suggestions = cloneSlice(r.Suggestions)
	c.Variations = cloneSlice(r.Variations)
	c.Predictions = cloneSlice(r.Predictions)
	c.Recommendations = cloneRecommendations(r.Recommendations)
	if r.ABTest != nil {
		plan := *r.ABTest
		plan.Variants = cloneSlice(r.ABTest.Variants)
		c.ABTest = &plan
	}
	return c
}

func cloneRecommendations(f optimization.FormattedRecommendations) optimization.FormattedRecommendations {
	c := f
	c.QuickWins = cloneSlice(f.QuickWins)
	c.HighImpact = cloneSlice(f.HighImpact)
	if f.ByPriority != nil {
		c.ByPriority = make(map[resonance.Priority][]resonance.Suggestion, len(f.ByPriority))
		for k, v := range f.ByPriority {
			c.ByPriority[k] = cloneSlice(v)
		}
	}
	if f.ByCategory != nil {
		c.ByCategory = make(map[resonance.Category][]resonance.Suggestion, len(f.ByCategory))
		for k, v := range f.ByCategory {
			c.ByCategory[k] = cloneSlice(v)
		}
	}
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
