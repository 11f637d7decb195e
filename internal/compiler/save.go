package compiler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
)

// Save rebuilds the graph, embeds its artifacts and synchronizes secondary
// objects. Errors and panics are logged, never returned.
func (c *Compiler) Save(ctx context.Context) {
	ctx = ctxlog.WithGraph(ctx, c.Container())
	logger := ctxlog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Save failed.", "error", fmt.Errorf("save panicked: %v", r))
		}
	}()
	if err := c.save(ctx); err != nil {
		logger.Error("Save failed.", "error", err)
	}
}

func (c *Compiler) save(ctx context.Context) error {
	c.graphDirty = true
	if err := c.RecompileIfNeeded(ctx); err != nil {
		return err
	}

	total := 1 + 2*len(c.artifacts)
	step := 1
	c.report(step, total, "Rebuilt graph")

	for i, a := range c.artifacts {
		dup := a.Duplicate()
		step++
		c.report(step, total, "Embedded "+a.Path)
		a.Release()
		c.artifacts[i] = dup
		step++
		c.report(step, total, "Released "+a.Path)
	}
	if err := c.sink.SetArtifacts(ctx, c.artifacts); err != nil {
		return fmt.Errorf("failed to publish embedded artifacts: %w", err)
	}

	c.SyncSubAssets(ctx)
	c.saved = true
	c.needsSave = false
	ctxlog.FromContext(ctx).Info("Graph saved.", "artifacts", len(c.artifacts))
	return nil
}

func (c *Compiler) report(step, total int, label string) {
	if c.progress != nil {
		c.progress.Report(step, total, label)
	}
}
