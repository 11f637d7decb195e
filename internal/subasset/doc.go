// Package subasset keeps the secondary objects persisted alongside a graph
// container in step with what the graph currently produces.
//
// # Why Synchronize
//
// A compiled graph owns more than its main record: every reachable node and
// every generated artifact is persisted next to it so that tooling can list,
// reference and diff them. Those objects come and go with each edit. Rather
// than tracking every add and remove as it happens, the compiler hands the
// full desired set to Synchronizer.Sync, which diffs it against what storage
// holds and applies the difference.
//
// # Contract
//
//   - Sync is a no-op for containers that are not persistently stored.
//   - Objects are compared by ObjectID only.
//   - The container's own record is never added or removed.
//   - New objects are named after their kind before they are attached.
//   - A second pass with the same desired set reports no change.
//
// Storage failures are returned to the caller. The compiler treats them as
// best-effort and logs them, but the package itself does not swallow errors.
package subasset
