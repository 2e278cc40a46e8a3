// internal/service/workflow/redis_store.go

package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"resonance/internal/domain/optimization"
)

// RedisStore keeps workflow results in Redis as JSON with a retention TTL
type RedisStore struct {
	client    goredis.UniversalClient
	prefix    string
	retention time.Duration
}

// NewRedisStore creates a Redis-backed store. Every save refreshes the key's TTL to retention.
func NewRedisStore(client goredis.UniversalClient, prefix string, retention time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		prefix:    prefix,
		retention: retention,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Save writes the result as JSON
func (r *RedisStore) Save(ctx context.Context, result optimization.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error encoding workflow %s: %w", result.Workflow.ID, err)
	}
	if err := r.client.Set(ctx, r.key(result.Workflow.ID), payload, r.retention).Err(); err != nil {
		return fmt.Errorf("error saving workflow %s: %w", result.Workflow.ID, err)
	}
	return nil
}

// Get reads and decodes a result
func (r *RedisStore) Get(ctx context.Context, id string) (*optimization.Result, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, optimization.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading workflow %s: %w", id, err)
	}

	var result optimization.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("error decoding workflow %s: %w", id, err)
	}
	return &result, nil
}

// EvictBefore is a no-op; Redis expires keys on its own
func (r *RedisStore) EvictBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}
