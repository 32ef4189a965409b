// ABOUTME: Mock CallStore implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory CallStore implementation for testing.
type MockStore struct {
	mu     sync.RWMutex
	calls  []CallRecord
	closed bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// AppendCall stores a copy of r.
func (m *MockStore) AppendCall(ctx context.Context, r *CallRecord) error {
	if err := validateRecord(r); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	m.calls = append(m.calls, *r)
	return nil
}

// ListCalls applies the same filtering and ordering as SQLiteStore.
func (m *MockStore) ListCalls(ctx context.Context, f CallFilter) ([]CallRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []CallRecord{}
	for _, r := range m.calls {
		if f.Since != nil && r.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Tool != "" && r.Tool != f.Tool {
			continue
		}
		if f.Transport != "" && r.Transport != f.Transport {
			continue
		}
		if f.FailedOnly && !r.Failed() {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if limit := normalizeCallLimit(f.Limit); len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns every stored record in append order.
func (m *MockStore) Calls() []CallRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CallRecord, len(m.calls))
	copy(out, m.calls)
	return out
}

// Compile-time interface checks.
var (
	_ CallStore = (*SQLiteStore)(nil)
	_ CallStore = (*MockStore)(nil)
)
