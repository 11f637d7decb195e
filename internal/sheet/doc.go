// Package sheet builds the runtime tables derived from a compiled expression
// graph: the value sheet, semantic bindings, exposed parameters, event
// attributes, and spawner descriptors.
//
// Every builder is a pure function of the tree and the graph. Failures are
// reported with one of three sentinel errors so the caller can tell an
// internal bug (ErrInconsistent) from an unsupported payload
// (ErrTypeCoverage) or a user configuration mistake (ErrSpawnerConfig).
package sheet
