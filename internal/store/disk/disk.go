package disk

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/harunode/internal/store"
	"github.com/peterbourgon/diskv/v3"
)

const (
	keySeparator = ":"
	cacheSizeMax = 1024 * 1024 // 1MB
)

// Store is the on-device store.KV, one file per key under a base directory.
// A key such as "haru:insight:fp:3:42" is laid out as haru/insight/fp/3/42.
type Store struct {
	d *diskv.Diskv
}

// New opens (or creates lazily) a disk store rooted at basePath.
func New(basePath string) (*Store, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("disk store: base path is required")
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      cacheSizeMax,
		FilePerm:          0o600,
		PathPerm:          0o700,
	})}, nil
}

// Get reads key from disk.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if !s.d.Has(key) {
		return nil, store.ErrNotFound
	}
	val, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

// Set writes key to disk.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete erases key. Missing keys are ignored.
func (s *Store) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}

// Keys walks the directories matching prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Ping succeeds as long as the store was constructed.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, keySeparator)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, keySeparator) + keySeparator + pathKey.FileName
}
