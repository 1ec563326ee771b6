package keyvalue

import (
	"context"
)

// Pair is one key/value assignment for MultiSet.
type Pair struct {
	Key   string
	Value string
}

type Repository interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	MultiSet(ctx context.Context, pairs ...Pair) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
