package inmemoryasset

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/fxgraph/internal/assetsink"
	"github.com/specialistvlad/fxgraph/internal/codegen"
	"github.com/specialistvlad/fxgraph/internal/sheet"
)

// Spawner is one registration made through AddSpawner.
type Spawner struct {
	ContextIndex uint32
	Descs        []sheet.SpawnerDesc
	Events       []string
}

// Asset holds everything the compiler last handed over. A single RWMutex
// guards all fields; writes come from one compiler, reads from anywhere.
type Asset struct {
	mu        sync.RWMutex
	sheet     sheet.Sheet
	spawners  []Spawner
	artifacts []*codegen.Artifact
}

var _ assetsink.Sink = (*Asset)(nil)

// New creates an empty in-memory asset.
func New() *Asset {
	return &Asset{}
}

// ClearSpawnerData drops all spawner registrations.
func (a *Asset) ClearSpawnerData(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spawners = nil
	return nil
}

// ClearPropertyData drops the expression sheet.
func (a *Asset) ClearPropertyData(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sheet = sheet.Sheet{}
	return nil
}

// SetExpressionSheet replaces the expression sheet.
func (a *Asset) SetExpressionSheet(ctx context.Context, s sheet.Sheet) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sheet = s
	return nil
}

// SetValueSheet replaces the values of the current sheet.
func (a *Asset) SetValueSheet(ctx context.Context, values []sheet.ValueDesc) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sheet.Values = slices.Clone(values)
	return nil
}

// AddSpawner appends a registration and returns its index.
func (a *Asset) AddSpawner(ctx context.Context, descs []sheet.SpawnerDesc, contextIndex uint32) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spawners = append(a.spawners, Spawner{ContextIndex: contextIndex, Descs: slices.Clone(descs)})
	return len(a.spawners) - 1, nil
}

// LinkStartEvent records the event on the given registration.
func (a *Asset) LinkStartEvent(ctx context.Context, event string, spawner int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if spawner < 0 || spawner >= len(a.spawners) {
		return fmt.Errorf("spawner %d is not registered (have %d)", spawner, len(a.spawners))
	}
	a.spawners[spawner].Events = append(a.spawners[spawner].Events, event)
	return nil
}

// SetArtifacts replaces the artifact list.
func (a *Asset) SetArtifacts(ctx context.Context, artifacts []*codegen.Artifact) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.artifacts = slices.Clone(artifacts)
	return nil
}

// Sheet returns the current expression sheet.
func (a *Asset) Sheet() sheet.Sheet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sheet
}

// Spawners returns a copy of the registrations.
func (a *Asset) Spawners() []Spawner {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.spawners)
}

// Artifacts returns a copy of the artifact list.
func (a *Asset) Artifacts() []*codegen.Artifact {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.artifacts)
}
