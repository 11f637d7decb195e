// Package assetsink defines the interface through which compiled graph data
// reaches the runtime asset.
//
// # Why the Sink Exists
//
// The compiler produces several independent tables on every rebuild: the
// expression sheet (flattened expressions, values, semantics, exposed
// parameters, event attributes), the spawner registrations and the generated
// artifacts. The runtime that consumes them is not part of this module. The
// sink is the one place those tables are handed over, which keeps the
// compiler free of any knowledge of how a runtime stores them.
//
// # Lifecycle and Usage
//
// During a full rebuild the compiler:
//  1. **Clears** spawner and property data (ClearSpawnerData, ClearPropertyData)
//  2. **Replaces** the expression sheet (SetExpressionSheet)
//  3. **Registers** every spawner stage (AddSpawner) and links it to the start event (LinkStartEvent)
//  4. **Replaces** the artifact list (SetArtifacts)
//
// A values-only refresh calls SetValueSheet and nothing else. A failed rebuild
// calls both clear operations and SetArtifacts with a nil list. It does not
// call SetExpressionSheet; ClearPropertyData alone must leave the sink with
// no sheet, so the runtime never sees a partially populated result.
//
// # Thread-Safety
//
// The compiler drives the sink from a single goroutine. Implementations that
// are also read by other goroutines (a preview server, a test) must guard
// their state themselves.
package assetsink

import (
	"context"

	"github.com/specialistvlad/fxgraph/internal/codegen"
	"github.com/specialistvlad/fxgraph/internal/sheet"
)

// Sink receives the results of graph compilation.
//
// See internal/inmemoryasset for the reference in-memory implementation.
type Sink interface {
	// ClearSpawnerData drops every spawner registration and start-event link.
	ClearSpawnerData(ctx context.Context) error

	// ClearPropertyData drops the expression sheet, the values and any
	// per-property runtime state derived from them.
	ClearPropertyData(ctx context.Context) error

	// SetExpressionSheet replaces the whole expression sheet, values included.
	SetExpressionSheet(ctx context.Context, s sheet.Sheet) error

	// SetValueSheet replaces only the values. The slice is parallel to the
	// value entries of the current expression sheet.
	SetValueSheet(ctx context.Context, values []sheet.ValueDesc) error

	// AddSpawner registers the spawner descriptors of one spawner stage.
	// contextIndex is the stage's position among all children of the graph
	// root, parameters included (model.Tree.IndexOf). The returned index
	// identifies the registration for LinkStartEvent.
	AddSpawner(ctx context.Context, descs []sheet.SpawnerDesc, contextIndex uint32) (int, error)

	// LinkStartEvent links the named event to a spawner registration.
	LinkStartEvent(ctx context.Context, event string, spawner int) error

	// SetArtifacts replaces the generated artifact list.
	SetArtifacts(ctx context.Context, artifacts []*codegen.Artifact) error
}
