// Package cache is a keyed read-through cache of remote query results.
// Mutating operations invalidate the keys they affect so the next read
// refetches from the backend.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Key constructors live in one place so keys cannot drift apart across the
// services that share them.
func KeyIngredients(recipeID string) string { return "ingredients:" + recipeID }
func KeyImages(recipeID string) string      { return "images:" + recipeID }
func KeyPrincipal(recipeID string) string   { return "principal:" + recipeID }
func KeyStats(recipeID string) string       { return "stats:" + recipeID }

// FetchFunc produces the value for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache is the read-through port. GetOrFetch returns the cached bytes for
// key, calling fetch and storing its result on a miss.
type Cache interface {
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
	Close() error
}

// GetJSON is a typed wrapper over GetOrFetch for JSON-serializable values.
func GetJSON[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	data, err := c.GetOrFetch(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("failed to decode cached value for %q: %w", key, err)
	}
	return v, nil
}
