package subasset

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStorage is an in-memory Storage. Containers become persistent once
// registered.
type MemoryStorage struct {
	mu         sync.Mutex
	containers map[string][]Record
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{containers: make(map[string][]Record)}
}

// Register makes container persistent. Registering twice is a no-op.
func (m *MemoryStorage) Register(ctx context.Context, container string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.containers[container]; !ok {
		m.containers[container] = []Record{{ID: container, Kind: "Container", Name: container}}
	}
	return nil
}

// IsPersistent reports whether container was registered.
func (m *MemoryStorage) IsPersistent(ctx context.Context, container string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.containers[container]
	return ok, nil
}

// LoadAll returns the records of container in insertion order.
func (m *MemoryStorage) LoadAll(ctx context.Context, container string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.containers[container]
	if !ok {
		return nil, fmt.Errorf("container %q is not registered", container)
	}
	return append([]Record(nil), records...), nil
}

// Add stores a record for obj.
func (m *MemoryStorage) Add(ctx context.Context, container string, obj Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.containers[container]
	if !ok {
		return fmt.Errorf("container %q is not registered", container)
	}
	m.containers[container] = append(records, Record{ID: obj.ObjectID(), Kind: obj.ObjectKind(), Name: obj.ObjectName()})
	return nil
}

// Remove deletes the record with the given id.
func (m *MemoryStorage) Remove(ctx context.Context, container string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.containers[container]
	for i, r := range records {
		if r.ID == id {
			m.containers[container] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("object %s not found in %q", id, container)
}
