// Package persist saves and restores progress snapshots on a durable
// key-value medium, with debounced autosave and user notifications.
package persist

import (
	"context"
	"sync"
)

// Key is the versioned storage key of the progress snapshot.
const Key = "careerRoadmapProgress_v1"

// KeyFor returns the storage key for a plan-specific catalog. An empty
// plan ID maps to Key.
func KeyFor(planID string) string {
	if planID == "" {
		return Key
	}
	return Key + ":" + planID
}

// Medium is a durable key-value store. Get returns ErrNotFound when the
// key is absent.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryMedium is an in-process Medium used in tests and as a fallback.
type MemoryMedium struct {
	mu   sync.Mutex
	data map[string][]byte

	// Writes counts successful Set calls.
	Writes int
	// FailSet, when non-nil, is returned from every Set.
	FailSet error
	// FailGet, when non-nil, is returned from every Get.
	FailGet error
}

// NewMemoryMedium returns an empty MemoryMedium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte)}
}

func (m *MemoryMedium) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryMedium) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.data[key] = append([]byte(nil), value...)
	m.Writes++
	return nil
}

func (m *MemoryMedium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// WriteCount returns Writes under the lock.
func (m *MemoryMedium) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes
}
