// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Node, the single record type stored in the tree arena.
//
// Why one struct for every kind?
//
// The set of node kinds is closed and small. A single tagged struct keeps the
// arena a flat slice, and the kind-specific fields are simply left at their
// zero value on nodes of other kinds. Accessors on Tree check the kind where
// it matters.
package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"gopkg.in/yaml.v3"
)

// Handle addresses a node inside a Tree.
type Handle uint32

// NoHandle is returned for absent parents and failed lookups.
const NoHandle Handle = ^Handle(0)

// Slot binds a named block or stage input to an expression.
type Slot struct {
	Name string
	Expr expr.Handle
}

// Attribute is a particle attribute declared by a stage.
type Attribute struct {
	Name     string
	Type     expr.ValueType
	Location Location
}

// Node is a graph, context, block, or parameter. Read fields freely, but edit
// through Tree methods so listeners are notified.
type Node struct {
	ID   uuid.UUID
	Kind Kind
	Name string

	// Context fields.
	Context    ContextType
	Generator  string
	Attributes []Attribute

	// Block fields.
	Spawner  SpawnerType
	Callback string

	// Parameter fields.
	Output      expr.Handle
	Exposed     bool
	ExposedName string

	parent     Handle
	children   []Handle
	slots      []Slot
	outputs    []Handle
	removed    bool
	objectName string
}

// ObjectID is the stable identity of the node in secondary storage.
func (n *Node) ObjectID() string { return n.ID.String() }

// ObjectKind is the display kind used when the node is persisted.
func (n *Node) ObjectKind() string { return "FX" + n.Kind.String() }

// ObjectName is the display name assigned when the node was persisted.
func (n *Node) ObjectName() string { return n.objectName }

// SetObjectName sets the display name used in secondary storage.
func (n *Node) SetObjectName(name string) { n.objectName = name }

type nodeSnapshot struct {
	ID          string      `yaml:"id"`
	Kind        string      `yaml:"kind"`
	Name        string      `yaml:"name"`
	Context     string      `yaml:"context,omitempty"`
	Generator   string      `yaml:"generator,omitempty"`
	Spawner     string      `yaml:"spawner,omitempty"`
	Callback    string      `yaml:"callback,omitempty"`
	Exposed     string      `yaml:"exposed,omitempty"`
	Slots       []slotEntry `yaml:"slots,omitempty"`
	Attributes  []Attribute `yaml:"attributes,omitempty"`
	ChildrenLen int         `yaml:"children"`
}

type slotEntry struct {
	Name string `yaml:"name"`
	Expr uint32 `yaml:"expr"`
}

// ObjectPayload serializes the node for secondary storage.
func (n *Node) ObjectPayload() ([]byte, error) {
	s := nodeSnapshot{
		ID:          n.ID.String(),
		Kind:        n.Kind.String(),
		Name:        n.Name,
		ChildrenLen: len(n.children),
	}
	switch n.Kind {
	case KindContext:
		s.Context = n.Context.String()
		s.Generator = n.Generator
		s.Attributes = n.Attributes
	case KindBlock:
		if n.Spawner != SpawnerNone {
			s.Spawner = n.Spawner.String()
		}
		s.Callback = n.Callback
	case KindParameter:
		if n.Exposed {
			s.Exposed = n.ExposedName
		}
	}
	for _, sl := range n.slots {
		s.Slots = append(s.Slots, slotEntry{Name: sl.Name, Expr: uint32(sl.Expr)})
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %q: %w", n.Kind, n.Name, err)
	}
	return b, nil
}
