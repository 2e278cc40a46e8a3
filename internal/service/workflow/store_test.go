package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
)

func storedResult(id string, status optimization.Status, completed *time.Time) optimization.Result {
	return optimization.Result{
		Workflow: optimization.Workflow{
			ID:          id,
			Status:      status,
			Warnings:    []string{"slow analyzer"},
			CompletedAt: completed,
		},
		Suggestions: []resonance.Suggestion{{Title: "Add a call to action"}},
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, storedResult("wf-1", optimization.StatusAnalyzing, nil)))

	got, err := s.Get(ctx, "wf-1")
	require.NoError(t, err)
	got.Workflow.Warnings[0] = "mutated"
	got.Suggestions[0].Title = "mutated"

	again, err := s.Get(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "slow analyzer", again.Workflow.Warnings[0])
	assert.Equal(t, "Add a call to action", again.Suggestions[0].Title)

	_, err = s.Get(ctx, "wf-2")
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)
}

func TestMemoryStoreEvictsOnlyOldTerminalRecords(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-2 * time.Hour)
	recent := now.Add(-10 * time.Minute)

	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, storedResult("old-done", optimization.StatusCompleted, &old)))
	require.NoError(t, s.Save(ctx, storedResult("old-failed", optimization.StatusFailed, &old)))
	require.NoError(t, s.Save(ctx, storedResult("recent", optimization.StatusCompleted, &recent)))
	require.NoError(t, s.Save(ctx, storedResult("running", optimization.StatusAnalyzing, nil)))

	n, err := s.EvictBefore(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())

	_, err = s.Get(ctx, "recent")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "running")
	assert.NoError(t, err)
}

func newRedisStore(t *testing.T, retention time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:workflow:", retention), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Hour)

	want := storedResult("wf-1", optimization.StatusGeneratingSuggestions, nil)
	require.NoError(t, s.Save(ctx, want))
	assert.True(t, mr.Exists("test:workflow:wf-1"))

	got, err := s.Get(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, want.Workflow.Status, got.Workflow.Status)
	assert.Equal(t, want.Workflow.Warnings, got.Workflow.Warnings)
	assert.Equal(t, want.Suggestions, got.Suggestions)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)
}

func TestRedisStoreExpiresAfterRetention(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)

	require.NoError(t, s.Save(ctx, storedResult("wf-1", optimization.StatusCompleted, nil)))

	mr.FastForward(30 * time.Second)
	_, err := s.Get(ctx, "wf-1")
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)
	_, err = s.Get(ctx, "wf-1")
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)

	n, err := s.EvictBefore(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)
	mr.Close()

	assert.Error(t, s.Save(ctx, storedResult("wf-1", optimization.StatusCompleted, nil)))
	_, err := s.Get(ctx, "wf-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, optimization.ErrWorkflowNotFound)
}
