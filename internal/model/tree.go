// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Tree arena and its read-only queries: parent and
// sibling lookups, ordered children, slot resolution, and enumeration of
// every node reachable from the graph root.
package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/fxgraph/internal/expr"
)

// Tree owns the nodes of one effect graph. It is not safe for concurrent use.
type Tree struct {
	Source *FSInfo

	nodes []Node
	root  Handle

	listeners     map[int]Listener
	listenerOrder []int
	nextListener  int
}

// NewTree creates a tree containing only the graph root.
func NewTree(name string) *Tree {
	t := &Tree{}
	t.root = t.alloc(Node{Kind: KindGraph, Name: name})
	return t
}

func (t *Tree) alloc(n Node) Handle {
	n.ID = uuid.New()
	n.parent = NoHandle
	if n.Kind != KindParameter {
		n.Output = expr.InvalidHandle
	}
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

// Root is the graph node.
func (t *Tree) Root() Handle { return t.root }

// Node returns the node addressed by h, or nil for an invalid or removed
// handle.
func (t *Tree) Node(h Handle) *Node {
	if int(h) >= len(t.nodes) || t.nodes[h].removed {
		return nil
	}
	return &t.nodes[h]
}

func (t *Tree) mustNode(h Handle, kinds ...Kind) *Node {
	n := t.Node(h)
	if n == nil {
		panic(fmt.Sprintf("model: invalid node handle %d", h))
	}
	if len(kinds) == 0 {
		return n
	}
	for _, k := range kinds {
		if n.Kind == k {
			return n
		}
	}
	panic(fmt.Sprintf("model: node %d is a %s, expected %v", h, n.Kind, kinds))
}

// Parent returns the parent of h, or NoHandle for the root and detached nodes.
func (t *Tree) Parent(h Handle) Handle {
	if n := t.Node(h); n != nil {
		return n.parent
	}
	return NoHandle
}

// Children returns the children of h in authored order.
func (t *Tree) Children(h Handle) []Handle {
	n := t.Node(h)
	if n == nil {
		return nil
	}
	return append([]Handle(nil), n.children...)
}

// IndexOf returns the position of h among its parent's children, or -1.
func (t *Tree) IndexOf(h Handle) int {
	p := t.Node(t.Parent(h))
	if p == nil {
		return -1
	}
	for i, c := range p.children {
		if c == h {
			return i
		}
	}
	return -1
}

// Slots returns the slot bindings of h in authored order.
func (t *Tree) Slots(h Handle) []Slot {
	n := t.Node(h)
	if n == nil {
		return nil
	}
	return append([]Slot(nil), n.slots...)
}

// SlotExpression resolves the expression bound to the named slot of h, or
// expr.InvalidHandle when the slot is missing or unbound.
func (t *Tree) SlotExpression(h Handle, slot string) expr.Handle {
	n := t.Node(h)
	if n == nil {
		return expr.InvalidHandle
	}
	for _, s := range n.slots {
		if s.Name == slot {
			return s.Expr
		}
	}
	return expr.InvalidHandle
}

// Outputs returns the contexts fed by the context h.
func (t *Tree) Outputs(h Handle) []Handle {
	n := t.Node(h)
	if n == nil {
		return nil
	}
	return append([]Handle(nil), n.outputs...)
}

// Contexts returns the graph's stages in sibling order.
func (t *Tree) Contexts() []Handle {
	return t.childrenOfKind(t.root, KindContext)
}

// Parameters returns the graph's parameters in sibling order.
func (t *Tree) Parameters() []Handle {
	return t.childrenOfKind(t.root, KindParameter)
}

func (t *Tree) childrenOfKind(h Handle, k Kind) []Handle {
	var out []Handle
	for _, c := range t.nodes[h].children {
		if t.nodes[c].Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Dependencies enumerates every node reachable from the root, excluding the
// root itself, in depth-first pre-order.
func (t *Tree) Dependencies() []Handle {
	var out []Handle
	var walk func(h Handle)
	walk = func(h Handle) {
		for _, c := range t.nodes[h].children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// Find returns the first reachable node with the given kind and name.
func (t *Tree) Find(k Kind, name string) (Handle, bool) {
	for _, h := range t.Dependencies() {
		if n := &t.nodes[h]; n.Kind == k && n.Name == name {
			return h, true
		}
	}
	return NoHandle, false
}
