package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/speechturn/provider"
)

// TypedStore stores JSON-encoded values of type C under a key prefix.
type TypedStore[C any] struct {
	client    *Client
	keyPrefix string
}

var _ provider.ContextStore[any] = (*TypedStore[any])(nil)

// NewTypedStore creates a TypedStore. Keys are stored as "<keyPrefix>:<key>".
func NewTypedStore[C any](client *Client, keyPrefix string) *TypedStore[C] {
	return &TypedStore[C]{client: client, keyPrefix: keyPrefix}
}

func (s *TypedStore[C]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load returns (nil, nil) for a missing or expired key.
func (s *TypedStore[C]) Load(ctx context.Context, key string) (*C, error) {
	var val C
	if err := s.client.GetJSON(ctx, s.fullKey(key), &val); err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}
	return &val, nil
}

// Save stores val with ttl. A zero ttl never expires.
func (s *TypedStore[C]) Save(ctx context.Context, key string, val *C, ttl time.Duration) error {
	if err := s.client.SetJSON(ctx, s.fullKey(key), val, ttl); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *TypedStore[C]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}
