package recent

import (
	"context"
	"fmt"
	"time"
)

// DefaultKeyPrefix namespaces history keys.
const DefaultKeyPrefix = "friendsearch:recent:"

// sortedSets is the consumer interface of the Redis history (ISP).
type sortedSets interface {
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRem(ctx context.Context, key, member string) (int64, error)
	Del(ctx context.Context, key string) error
}

// RedisRepo keeps one sorted set per user: member is the query, score the
// time it was last searched, in microseconds.
type RedisRepo struct {
	store  sortedSets
	prefix string
}

// NewRedis creates a Redis-backed history repository.
func NewRedis(s sortedSets, keyPrefix string) *RedisRepo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisRepo{store: s, prefix: keyPrefix}
}

func (r *RedisRepo) key(userID string) string {
	return r.prefix + userID
}

// List returns up to limit queries, most recent first.
func (r *RedisRepo) List(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit < 1 {
		return []string{}, nil
	}
	queries, err := r.store.ZRevRange(ctx, r.key(userID), 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}

// Touch inserts the query or refreshes its score.
func (r *RedisRepo) Touch(ctx context.Context, userID, query string, at time.Time) error {
	if err := r.store.ZAdd(ctx, r.key(userID), query, float64(at.UnixMicro())); err != nil {
		return fmt.Errorf("touch recent search: %w", err)
	}
	return nil
}

// Delete removes one query and reports whether it existed.
func (r *RedisRepo) Delete(ctx context.Context, userID, query string) (bool, error) {
	n, err := r.store.ZRem(ctx, r.key(userID), query)
	if err != nil {
		return false, fmt.Errorf("delete recent search: %w", err)
	}
	return n > 0, nil
}

// Clear removes the whole history of the user.
func (r *RedisRepo) Clear(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, r.key(userID)); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}
