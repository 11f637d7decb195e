// Package compiler drives lazy recompilation of one effect graph.
//
// # Dirty Tracking
//
// The Compiler subscribes to its model.Tree. Edits arrive as causes:
//
//   - StructureChanged: nodes were added or removed; secondary objects are
//     synchronized immediately.
//   - ExpressionGraphChanged: the expression structure changed; the next
//     RecompileIfNeeded runs a full rebuild.
//   - ParamChanged: only parameter values changed; the next
//     RecompileIfNeeded refreshes the value sheet in place.
//   - ExpressionInvalidated: nothing to do beyond clearing the saved flag.
//
// Nothing is compiled until someone asks. RecompileIfNeeded, the index
// lookups and Save all pull the pipeline forward.
//
// # Full Rebuild
//
// A rebuild clears the sink, reduces and flattens every reachable
// expression, extracts the value sheet, binds semantics, exposed parameters
// and event attributes, registers spawners, and regenerates stage sources
// through the code generation cache. The rebuild is the only failure
// boundary: any error or panic inside it leaves the sink and the compiler
// holding an empty graph.
//
// # Save
//
// Save forces a rebuild, replaces every generated artifact with an embedded
// duplicate (releasing the transient one), synchronizes secondary objects and
// marks the graph saved. Save never returns an error; failures are logged.
//
// A Compiler is not safe for concurrent use.
package compiler
