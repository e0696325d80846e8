// Package store holds the current collection of project records.
package store

import (
	"fmt"

	"github.com/theirongolddev/cxdash/internal/model"
)

// Store is an append-only, insertion-ordered record collection.
// Records are never validated, edited, or removed.
type Store interface {
	Append(records []model.Project) error
	// All returns every record in insertion order. The slice is the caller's.
	All() ([]model.Project, error)
	Len() (int, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open returns a store for backend. For sqlite an empty path opens a private
// in-memory database.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}
