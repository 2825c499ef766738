package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-procgraph/pkg/storage"
)

// MemoryStorage keeps values in a map. It is safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

var _ storage.Storage = (*MemoryStorage)(nil)

func New() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string][]byte),
	}
}

func (s *MemoryStorage) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}
	value, ok := s.values[key]
	if !ok {
		return nil, errors.Wrap(storage.ErrKeyNotFound, key)
	}

	return slices.Clone(value), nil
}

func (s *MemoryStorage) Write(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, key); err != nil {
		return err
	}
	s.values[key] = slices.Clone(value)

	return nil
}

func (s *MemoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, key); err != nil {
		return false, err
	}
	_, ok := s.values[key]

	return ok, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, key); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return errors.Wrap(storage.ErrKeyNotFound, key)
	}
	delete(s.values, key)

	return nil
}

func (s *MemoryStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys := []string{}
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	return keys, nil
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.values = nil

	return nil
}

func (s *MemoryStorage) check(ctx context.Context, key string) error {
	if s.closed {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return storage.CheckKey(key)
}
