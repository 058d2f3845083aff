package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by KV.Get when the key is absent.
	ErrNotFound = errors.New("store: key not found")
	// ErrCorrupt is returned by LoadJSON when a stored value fails to parse.
	ErrCorrupt = errors.New("store: corrupt value")
)

// KV is the local persistent key-value contract every persisted structure
// (log, recommendation history, insight cache) goes through.
type KV interface {
	// Get returns ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix. Order is unspecified.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// LoadJSON reads key into dst.
// Returns ErrNotFound when absent and an error wrapping ErrCorrupt when the
// stored bytes cannot be decoded.
func LoadJSON(ctx context.Context, kv KV, key string, dst any) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// SaveJSON marshals v and writes it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
