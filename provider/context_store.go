package provider

import (
	"context"
	"time"
)

// ContextStore is typed key/value state with optional expiry.
// A TTL of 0 means no expiration.
type ContextStore[C any] interface {
	// Load returns (nil, nil) when the key does not exist.
	Load(ctx context.Context, key string) (*C, error)
	Save(ctx context.Context, key string, val *C, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
