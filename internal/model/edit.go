// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds every mutation of the tree. Each one ends by invalidating
// the edited node with the cause that describes the edit:
//
//   - adding, removing and linking nodes: StructureChanged, then
//     ExpressionGraphChanged;
//   - rebinding slots and changing block, stage or parameter settings:
//     ExpressionGraphChanged;
//   - changing a parameter payload: ParamChanged.
package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/expr"
)

// ErrInvalidEdit is returned for edits that would break the tree shape.
var ErrInvalidEdit = errors.New("invalid edit")

func (t *Tree) attach(parent Handle, n Node) Handle {
	h := t.alloc(n)
	t.nodes[h].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, h)
	t.structural(h)
	return h
}

func (t *Tree) structural(h Handle) {
	t.Invalidate(h, StructureChanged)
	t.Invalidate(h, ExpressionGraphChanged)
}

// AddContext appends a stage to the graph.
func (t *Tree) AddContext(typ ContextType, name string) Handle {
	return t.attach(t.root, Node{Kind: KindContext, Name: name, Context: typ})
}

// AddBlock appends a block to the stage ctx. Use SpawnerNone for blocks that
// do not spawn.
func (t *Tree) AddBlock(ctx Handle, name string, spawner SpawnerType) Handle {
	t.mustNode(ctx, KindContext)
	return t.attach(ctx, Node{Kind: KindBlock, Name: name, Spawner: spawner})
}

// AddParameter appends a graph parameter whose output is the expression out.
// out may be expr.InvalidHandle for a parameter with no resolvable output.
func (t *Tree) AddParameter(name string, out expr.Handle) Handle {
	return t.attach(t.root, Node{Kind: KindParameter, Name: name, Output: out})
}

// Link makes the stage from feed the stage to.
func (t *Tree) Link(from, to Handle) error {
	f := t.Node(from)
	if f == nil || f.Kind != KindContext || t.Node(to) == nil || t.nodes[to].Kind != KindContext {
		return fmt.Errorf("link %d -> %d: both ends must be contexts: %w", from, to, ErrInvalidEdit)
	}
	if from == to {
		return fmt.Errorf("link %d -> %d: self link: %w", from, to, ErrInvalidEdit)
	}
	for _, o := range f.outputs {
		if o == to {
			return nil
		}
	}
	f.outputs = append(f.outputs, to)
	t.structural(from)
	return nil
}

// Remove detaches h and its whole subtree. The root cannot be removed.
func (t *Tree) Remove(h Handle) error {
	n := t.Node(h)
	if n == nil {
		return fmt.Errorf("remove %d: no such node: %w", h, ErrInvalidEdit)
	}
	if h == t.root {
		return fmt.Errorf("remove %d: cannot remove the graph root: %w", h, ErrInvalidEdit)
	}
	parent := n.parent
	if p := t.Node(parent); p != nil {
		p.children = without(p.children, h)
	}
	t.markRemoved(h)
	for i := range t.nodes {
		if !t.nodes[i].removed {
			t.nodes[i].outputs = without(t.nodes[i].outputs, h)
		}
	}
	t.structural(parent)
	return nil
}

func (t *Tree) markRemoved(h Handle) {
	n := &t.nodes[h]
	n.removed = true
	n.parent = NoHandle
	for _, c := range n.children {
		t.markRemoved(c)
	}
}

func without(hs []Handle, h Handle) []Handle {
	out := hs[:0]
	for _, x := range hs {
		if x != h {
			out = append(out, x)
		}
	}
	return out
}

// SetSlot binds the named slot of a block or stage, appending it when new.
// Binding expr.InvalidHandle leaves the slot present but unbound.
func (t *Tree) SetSlot(h Handle, name string, e expr.Handle) {
	n := t.mustNode(h, KindBlock, KindContext)
	found := false
	for i := range n.slots {
		if n.slots[i].Name == name {
			n.slots[i].Expr = e
			found = true
			break
		}
	}
	if !found {
		n.slots = append(n.slots, Slot{Name: name, Expr: e})
	}
	t.Invalidate(h, ExpressionGraphChanged)
}

// SetSpawner changes the spawner type and callback reference of a block.
// Consistency between the two is checked at compile time, not here.
func (t *Tree) SetSpawner(h Handle, typ SpawnerType, callback string) {
	n := t.mustNode(h, KindBlock)
	n.Spawner = typ
	n.Callback = callback
	t.Invalidate(h, ExpressionGraphChanged)
}

// SetGenerator selects the code generator of a stage by name.
func (t *Tree) SetGenerator(h Handle, generator string) {
	t.mustNode(h, KindContext).Generator = generator
	t.Invalidate(h, ExpressionGraphChanged)
}

// AddAttribute declares a particle attribute on a stage.
func (t *Tree) AddAttribute(h Handle, a Attribute) {
	n := t.mustNode(h, KindContext)
	n.Attributes = append(n.Attributes, a)
	t.Invalidate(h, ExpressionGraphChanged)
}

// SetExposed publishes a parameter under name, or hides it when exposed is
// false. An empty name falls back to the parameter name.
func (t *Tree) SetExposed(h Handle, exposed bool, name string) {
	n := t.mustNode(h, KindParameter)
	if name == "" {
		name = n.Name
	}
	n.Exposed = exposed
	n.ExposedName = name
	t.Invalidate(h, ExpressionGraphChanged)
}

// SetParameterOutput rebinds the output expression of a parameter.
func (t *Tree) SetParameterOutput(h Handle, out expr.Handle) {
	t.mustNode(h, KindParameter).Output = out
	t.Invalidate(h, ExpressionGraphChanged)
}

// SetParameterValue replaces the payload behind a parameter's output leaf.
func (t *Tree) SetParameterValue(pool *expr.Pool, h Handle, v expr.Value) error {
	n := t.Node(h)
	if n == nil || n.Kind != KindParameter {
		return fmt.Errorf("set parameter %d: not a parameter: %w", h, ErrInvalidEdit)
	}
	if err := pool.SetValue(n.Output, v); err != nil {
		return fmt.Errorf("set parameter %q: %w", n.Name, err)
	}
	t.Invalidate(h, ParamChanged)
	return nil
}
