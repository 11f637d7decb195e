// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory representation of an effect graph: a
// tree of nodes stored in an arena and addressed by integer handles.
//
// # Core Concepts
//
//   - Tree: The arena. It owns every node, the root graph node, and the set of
//     invalidation listeners. All edits go through Tree methods so that
//     listeners observe them.
//
//   - Context: A stage of the effect (spawn, initialize, update, output). It is
//     a direct child of the graph root and holds ordered blocks, the particle
//     data attributes it declares, and links to the stages it feeds.
//
//   - Block: A behavior unit inside a stage. Blocks bind named slots to
//     expressions; blocks inside a spawn stage also carry a spawner type and an
//     optional callback reference.
//
//   - Parameter: A graph-level input. Its output expression is usually a
//     parameter leaf in the expression pool; exposed parameters are visible to
//     the runtime by name.
//
// Why handles instead of pointers?
//
// Parents, children, links and slot bindings all refer to other nodes or
// expressions. Storing them as handles keeps the tree free of ownership
// cycles, makes removal a matter of detaching a handle, and lets the compiler
// key its lookup tables by plain integers.
//
// Why invalidation listeners?
//
// The compiler recompiles lazily. Instead of polling the tree, it subscribes
// and flips dirty flags according to the Cause of each edit.
package model
