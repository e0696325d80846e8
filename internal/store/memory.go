package store

import (
	"sync"

	"github.com/theirongolddev/cxdash/internal/model"
)

// Memory keeps records in a slice for the life of the process.
type Memory struct {
	mu      sync.RWMutex
	records []model.Project
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(records []model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *Memory) All() ([]model.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Project, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *Memory) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *Memory) Close() error { return nil }
