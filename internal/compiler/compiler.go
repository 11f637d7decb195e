package compiler

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/specialistvlad/fxgraph/internal/assetsink"
	"github.com/specialistvlad/fxgraph/internal/codegen"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/exprgraph"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/specialistvlad/fxgraph/internal/sheet"
	"github.com/specialistvlad/fxgraph/internal/subasset"
)

// NotFound is returned by index lookups that do not resolve.
const NotFound uint32 = math.MaxUint32

// Notifier is told about every successful rebuild.
type Notifier interface {
	AssetReloaded(ctx context.Context, asset string, expressions, artifacts int)
}

// Progress receives save progress. total is 1 + 2 per artifact.
type Progress interface {
	Report(step, total int, label string)
}

// Options holds the collaborators of a Compiler. Sink is required; the
// others may be nil.
type Options struct {
	Sink     assetsink.Sink
	Cache    *codegen.Cache
	Storage  subasset.Storage
	Notifier Notifier
	Progress Progress
}

// Compiler owns the compiled state of one tree.
type Compiler struct {
	// ctx is captured for invalidation callbacks, which carry no context.
	ctx  context.Context
	tree *model.Tree
	pool *expr.Pool

	sink     assetsink.Sink
	cache    *codegen.Cache
	syncer   *subasset.Synchronizer
	notifier Notifier
	progress Progress

	unsubscribe func()

	graphDirty  bool
	valuesDirty bool

	graph     *exprgraph.Graph
	values    []sheet.ValueDesc
	artifacts []*codegen.Artifact

	saved     bool
	needsSave bool
}

// New creates a compiler for tree and subscribes it to the tree's
// invalidations. Both dirty flags start set.
func New(ctx context.Context, tree *model.Tree, pool *expr.Pool, opts Options) *Compiler {
	if opts.Sink == nil {
		panic("compiler: Options.Sink is required")
	}
	c := &Compiler{
		ctx:         ctx,
		tree:        tree,
		pool:        pool,
		sink:        opts.Sink,
		cache:       opts.Cache,
		notifier:    opts.Notifier,
		progress:    opts.Progress,
		graphDirty:  true,
		valuesDirty: true,
		graph:       exprgraph.Empty(pool),
	}
	if opts.Storage != nil {
		c.syncer = subasset.NewSynchronizer(opts.Storage)
	}
	c.unsubscribe = tree.Subscribe(c.OnInvalidate)
	return c
}

// Close detaches the compiler from its tree.
func (c *Compiler) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Container is the name secondary objects are stored under: the source
// asset path, or the graph name for trees not loaded from a file.
func (c *Compiler) Container() string {
	if p := c.tree.Source.AssetPath(); p != "" {
		return p
	}
	return c.tree.Node(c.tree.Root()).Name
}

// OnInvalidate records an edit of the tree.
func (c *Compiler) OnInvalidate(node model.Handle, cause model.Cause) {
	switch cause {
	case model.StructureChanged:
		c.SyncSubAssets(c.ctx)
	case model.ExpressionGraphChanged:
		c.graphDirty = true
	case model.ParamChanged:
		c.valuesDirty = true
	}
	if cause != model.ExpressionInvalidated && cause != model.ExpressionGraphChanged {
		c.needsSave = true
	}
	c.saved = false
}

// RecompileIfNeeded runs a full rebuild when the expression graph is dirty,
// then a values-only refresh when only values are. It is a no-op when
// neither flag is set.
func (c *Compiler) RecompileIfNeeded(ctx context.Context) error {
	var err error
	if c.graphDirty {
		err = c.rebuild(ctx)
		c.graphDirty = false
		c.valuesDirty = false
	}
	if c.valuesDirty {
		c.valuesDirty = false
		if rerr := c.refreshValues(ctx); rerr != nil {
			// The stored layout no longer matches the graph.
			c.graphDirty = true
			return rerr
		}
	}
	return err
}

func (c *Compiler) refreshValues(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if err := sheet.RefreshValues(c.graph, c.values); err != nil {
		logger.Error("Value refresh failed.", "error", err)
		return fmt.Errorf("failed to refresh values: %w", err)
	}
	if err := c.sink.SetValueSheet(ctx, c.values); err != nil {
		return fmt.Errorf("failed to publish values: %w", err)
	}
	logger.Debug("Values refreshed.", "values", len(c.values))
	return nil
}

// FlattenedIndexOf returns the flattened index of the expression h reduces
// to, or NotFound.
func (c *Compiler) FlattenedIndexOf(ctx context.Context, h expr.Handle) uint32 {
	c.ensureCompiled(ctx)
	return c.indexOf(h)
}

// SlotExpressionIndex returns the flattened index of the expression bound to
// a slot, or NotFound when the slot is missing or unbound.
func (c *Compiler) SlotExpressionIndex(ctx context.Context, node model.Handle, slot string) uint32 {
	c.ensureCompiled(ctx)
	return c.indexOf(c.tree.SlotExpression(node, slot))
}

// ensureCompiled recompiles before an index lookup. A failed rebuild was
// already logged by rebuild and left an empty graph, so lookups answer
// NotFound instead of returning the error.
func (c *Compiler) ensureCompiled(ctx context.Context) {
	if err := c.RecompileIfNeeded(ctx); err != nil {
		ctxlog.FromContext(ctx).Debug("Index lookup on an empty graph after a failed rebuild.", "error", err)
	}
}

func (c *Compiler) indexOf(h expr.Handle) uint32 {
	if h == expr.InvalidHandle {
		return NotFound
	}
	idx, ok := c.graph.ReducedIndex(h)
	if !ok {
		return NotFound
	}
	return uint32(idx)
}

// Graph is the last compiled expression graph. It is empty after a failed
// rebuild.
func (c *Compiler) Graph() *exprgraph.Graph { return c.graph }

// Values is the current value sheet.
func (c *Compiler) Values() []sheet.ValueDesc { return slices.Clone(c.values) }

// Artifacts are the generated artifacts of the last rebuild or save.
func (c *Compiler) Artifacts() []*codegen.Artifact { return slices.Clone(c.artifacts) }

// Saved reports whether nothing changed since the last successful Save.
func (c *Compiler) Saved() bool { return c.saved }

// NeedsSave reports whether an edit since the last save must be persisted.
func (c *Compiler) NeedsSave() bool { return c.needsSave }

// SyncSubAssets brings the persisted secondary objects in line with the
// reachable nodes and current artifacts. Failures are logged and reported
// as no change.
func (c *Compiler) SyncSubAssets(ctx context.Context) bool {
	if c.syncer == nil {
		return false
	}
	logger := ctxlog.FromContext(ctx)

	deps := c.tree.Dependencies()
	should := make([]subasset.Object, 0, len(deps)+len(c.artifacts))
	for _, h := range deps {
		should = append(should, c.tree.Node(h))
	}
	for _, a := range c.artifacts {
		should = append(should, a)
	}

	modified, err := c.syncer.Sync(ctx, c.Container(), should)
	if err != nil {
		logger.Warn("Sub-asset sync failed, skipping.", "container", c.Container(), "error", err)
		return false
	}
	if modified {
		logger.Debug("Sub-assets synchronized.", "container", c.Container(), "objects", len(should))
	}
	return modified
}
