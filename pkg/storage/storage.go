// Package storage persists the results of processor graphs, e.g. checkpoint data or cluster labels,
// under string keys.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("storage is closed")
	ErrInvalidKey  = errors.New("invalid key")
)

// Storage is a key value store of binary values.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// Keys returns every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Opener opens a storage.
type Opener func() (Storage, error)

// Use opens a storage, passes it to fn and closes it, whatever fn returns.
func Use(open Opener, fn func(Storage) error) (err error) {
	s, err := open()
	if err != nil {
		return errors.Wrap(err, "unable to open storage")
	}
	defer func() {
		closeErr := s.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "unable to close storage")
		}
	}()

	return fn(s)
}

// CheckKey validates key.
func CheckKey(key string) error {
	if key == "" {
		return errors.Wrap(ErrInvalidKey, "empty key")
	}

	return nil
}
