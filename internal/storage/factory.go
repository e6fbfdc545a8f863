package storage

import (
	"fmt"

	"gadock/internal/errs"
)

// Backend kinds accepted by NewStore.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// NewStore opens the run store for kind. An empty kind selects memory.
func NewStore(kind, dbPath string) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		if dbPath == "" {
			return nil, fmt.Errorf("sqlite store needs a database path: %w", errs.ErrBadArgument)
		}
		return newSQLiteStore(dbPath)
	default:
		return nil, fmt.Errorf("unsupported store backend %q: %w", kind, errs.ErrBadArgument)
	}
}

// CloseIfSupported closes stores that hold a connection.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
