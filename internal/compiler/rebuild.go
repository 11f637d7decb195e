package compiler

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/fxgraph/internal/codegen"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/exprgraph"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/specialistvlad/fxgraph/internal/sheet"
)

// rebuild is the failure boundary of a full recompilation. On any error or
// panic the sink and the compiler are reset to an empty graph.
func (c *Compiler) rebuild(ctx context.Context) (err error) {
	ctx = ctxlog.WithGraph(ctx, c.Container())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rebuild started.")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rebuild panicked: %v", r)
		}
		if err != nil {
			c.reset(ctx)
			logger.Error("Rebuild failed, graph cleared.", "error", err)
		}
	}()

	if err := c.sink.ClearSpawnerData(ctx); err != nil {
		return fmt.Errorf("failed to clear spawner data: %w", err)
	}
	if err := c.sink.ClearPropertyData(ctx); err != nil {
		return fmt.Errorf("failed to clear property data: %w", err)
	}

	g, err := exprgraph.Compile(ctx, c.tree, c.pool)
	if err != nil {
		return err
	}
	values, err := sheet.BuildValues(g)
	if err != nil {
		return err
	}

	mappers := make(map[model.Handle]*exprgraph.Mapper)
	var spawners, stages []model.Handle
	for _, h := range c.tree.Contexts() {
		if c.tree.Node(h).Context == model.ContextSpawner {
			spawners = append(spawners, h)
			continue
		}
		m, err := g.BuildMapper(c.tree, h)
		if err != nil {
			return fmt.Errorf("stage %q: %w", c.tree.Node(h).Name, err)
		}
		mappers[h] = m
		stages = append(stages, h)
	}

	semantics, err := sheet.BuildSemantics(c.tree, g, mappers)
	if err != nil {
		return err
	}
	s := sheet.Sheet{
		Expressions:     g.Descs(),
		Values:          slices.Clone(values),
		Semantics:       semantics,
		Exposed:         sheet.BuildExposed(c.tree, g),
		EventAttributes: sheet.BuildEventAttributes(c.tree),
	}
	if err := c.sink.SetExpressionSheet(ctx, s); err != nil {
		return fmt.Errorf("failed to publish expression sheet: %w", err)
	}

	for _, h := range spawners {
		descs, err := sheet.BuildSpawners(c.tree, h)
		if err != nil {
			return err
		}
		idx, err := c.sink.AddSpawner(ctx, descs, uint32(c.tree.IndexOf(h)))
		if err != nil {
			return fmt.Errorf("failed to register spawner %q: %w", c.tree.Node(h).Name, err)
		}
		if err := c.sink.LinkStartEvent(ctx, sheet.StartEventName, idx); err != nil {
			return fmt.Errorf("failed to link spawner %q: %w", c.tree.Node(h).Name, err)
		}
	}

	artifacts, err := c.generate(ctx, g, stages, mappers)
	if err != nil {
		return err
	}
	if err := c.sink.SetArtifacts(ctx, artifacts); err != nil {
		return fmt.Errorf("failed to publish artifacts: %w", err)
	}

	c.graph = g
	c.values = values
	c.artifacts = artifacts

	logger.Debug("Rebuild finished.",
		"expressions", g.Len(),
		"values", len(values),
		"semantics", len(semantics),
		"spawners", len(spawners),
		"artifacts", len(artifacts),
	)
	if c.notifier != nil {
		c.notifier.AssetReloaded(ctx, c.Container(), g.Len(), len(artifacts))
	}
	return nil
}

func (c *Compiler) generate(ctx context.Context, g *exprgraph.Graph, stages []model.Handle, mappers map[model.Handle]*exprgraph.Mapper) ([]*codegen.Artifact, error) {
	var requests []codegen.Request
	for _, h := range stages {
		name := c.tree.Node(h).Generator
		if name == "" {
			continue
		}
		requests = append(requests, codegen.Request{
			Stage:     h,
			Generator: name,
			Tree:      c.tree,
			Graph:     g,
			Mapper:    mappers[h],
		})
	}
	if len(requests) == 0 {
		return nil, nil
	}
	if c.cache == nil {
		return nil, fmt.Errorf("%d stages need code generation but no cache is configured", len(requests))
	}
	for _, req := range requests {
		if !c.cache.HasGenerator(req.Generator) {
			return nil, fmt.Errorf("stage %q: %w %q", c.tree.Node(req.Stage).Name, codegen.ErrUnknownGenerator, req.Generator)
		}
	}
	return c.cache.Generate(ctx, c.Container(), requests, c.artifacts)
}

// reset leaves the sink and the compiler holding an empty graph.
func (c *Compiler) reset(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if err := c.sink.ClearSpawnerData(ctx); err != nil {
		logger.Warn("Failed to clear spawner data.", "error", err)
	}
	if err := c.sink.ClearPropertyData(ctx); err != nil {
		logger.Warn("Failed to clear property data.", "error", err)
	}
	if err := c.sink.SetArtifacts(ctx, nil); err != nil {
		logger.Warn("Failed to clear artifacts.", "error", err)
	}
	c.graph = exprgraph.Empty(c.pool)
	c.values = nil
	c.artifacts = nil
}
