// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines invalidation causes and the listener mechanism through
// which the tree reports edits.
package model

import "fmt"

// Cause describes why a node was invalidated.
type Cause uint8

const (
	// StructureChanged: nodes were added, removed, or relinked.
	StructureChanged Cause = iota
	// ExpressionGraphChanged: the shape of the expression graph changed.
	ExpressionGraphChanged
	// ParamChanged: only parameter payloads changed.
	ParamChanged
	// ExpressionInvalidated: an expression changed without affecting the
	// compiled output.
	ExpressionInvalidated
)

func (c Cause) String() string {
	switch c {
	case StructureChanged:
		return "structure_changed"
	case ExpressionGraphChanged:
		return "expression_graph_changed"
	case ParamChanged:
		return "param_changed"
	case ExpressionInvalidated:
		return "expression_invalidated"
	}
	return fmt.Sprintf("Cause(%d)", uint8(c))
}

// Listener receives invalidation events. It runs synchronously on the goroutine
// performing the edit.
type Listener func(node Handle, cause Cause)

// Subscribe registers l and returns a function that unregisters it.
func (t *Tree) Subscribe(l Listener) (unsubscribe func()) {
	id := t.nextListener
	t.nextListener++
	if t.listeners == nil {
		t.listeners = make(map[int]Listener)
	}
	t.listeners[id] = l
	t.listenerOrder = append(t.listenerOrder, id)
	return func() {
		delete(t.listeners, id)
	}
}

// Invalidate notifies all listeners that node changed for the given cause.
func (t *Tree) Invalidate(node Handle, cause Cause) {
	for _, id := range t.listenerOrder {
		if l, ok := t.listeners[id]; ok {
			l(node, cause)
		}
	}
}
