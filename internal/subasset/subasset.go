package subasset

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
)

// Object is anything that can be persisted as a secondary object.
type Object interface {
	ObjectID() string
	ObjectKind() string
	ObjectName() string
	SetObjectName(name string)
	// ObjectPayload returns the bytes stored for the object.
	ObjectPayload() ([]byte, error)
}

// Record is a persisted object as reported by Storage.LoadAll.
type Record struct {
	ID   string
	Kind string
	Name string
}

// Storage is the persistence collaborator of the synchronizer.
type Storage interface {
	// IsPersistent reports whether the container is persistently stored.
	IsPersistent(ctx context.Context, container string) (bool, error)
	// LoadAll returns every object stored for the container. The result
	// may include the container's own record, whose ID equals container.
	LoadAll(ctx context.Context, container string) ([]Record, error)
	Add(ctx context.Context, container string, obj Object) error
	Remove(ctx context.Context, container string, id string) error
}

// Synchronizer diffs desired objects against storage.
type Synchronizer struct {
	storage Storage
}

// NewSynchronizer creates a synchronizer over the given storage.
func NewSynchronizer(storage Storage) *Synchronizer {
	return &Synchronizer{storage: storage}
}

// Sync makes the objects stored for container equal to should and reports
// whether anything changed.
func (s *Synchronizer) Sync(ctx context.Context, container string, should []Object) (bool, error) {
	logger := ctxlog.FromContext(ctx).With("container", container)

	persistent, err := s.storage.IsPersistent(ctx, container)
	if err != nil {
		return false, fmt.Errorf("failed to check container %q: %w", container, err)
	}
	if !persistent {
		logger.Debug("Container is not persistent, skipping sync.")
		return false, nil
	}

	records, err := s.storage.LoadAll(ctx, container)
	if err != nil {
		return false, fmt.Errorf("failed to load objects of %q: %w", container, err)
	}
	have := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID == container {
			continue
		}
		have[r.ID] = struct{}{}
	}

	want := make(map[string]struct{}, len(should))
	modified := false
	for _, obj := range should {
		id := obj.ObjectID()
		if _, seen := want[id]; seen {
			continue
		}
		want[id] = struct{}{}
		if _, ok := have[id]; ok {
			continue
		}
		obj.SetObjectName(obj.ObjectKind())
		if err := s.storage.Add(ctx, container, obj); err != nil {
			return modified, fmt.Errorf("failed to add %s %s: %w", obj.ObjectKind(), id, err)
		}
		logger.Debug("Added sub-asset.", "id", id, "kind", obj.ObjectKind())
		modified = true
	}

	for _, r := range records {
		if r.ID == container {
			continue
		}
		if _, ok := want[r.ID]; ok {
			continue
		}
		if err := s.storage.Remove(ctx, container, r.ID); err != nil {
			return modified, fmt.Errorf("failed to remove %s %s: %w", r.Kind, r.ID, err)
		}
		logger.Debug("Removed sub-asset.", "id", r.ID, "kind", r.Kind)
		modified = true
	}

	return modified, nil
}
