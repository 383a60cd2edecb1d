package runstore

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryAdapter keeps run records in process memory. Records are lost on
// restart.
type MemoryAdapter struct {
	mu   sync.RWMutex
	runs map[string]Record
}

// NewMemoryAdapter creates an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		runs: make(map[string]Record),
	}
}

// Save stores rec under its run ID.
func (m *MemoryAdapter) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[rec.RunID] = rec
	return nil
}

// Find returns the record for runID.
func (m *MemoryAdapter) Find(_ context.Context, runID string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.runs[runID]
	return rec, ok, nil
}

// Remove drops the record for runID.
func (m *MemoryAdapter) Remove(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, runID)
	return nil
}

// Count returns the number of stored records.
func (m *MemoryAdapter) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs), nil
}

// Recent returns up to n records, newest first.
func (m *MemoryAdapter) Recent(_ context.Context, n int) ([]Record, error) {
	m.mu.RLock()
	recs := slices.Collect(maps.Values(m.runs))
	m.mu.RUnlock()
	return truncate(recs, n), nil
}
