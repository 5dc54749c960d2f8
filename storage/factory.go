package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized  = errors.New("store is not initialized")
	ErrVersionMismatch = errors.New("record version mismatch")
)

// NewStore returns the backend named by kind. An empty kind selects memory.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
