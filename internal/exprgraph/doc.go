// Package exprgraph reduces the expressions bound in a model tree to a
// deduplicated, index-addressed list.
//
// # Reduction
//
// Compile walks every node reachable from the graph root in pre-order and
// resolves the expressions bound to its slots (and, for parameters, the
// output). Each expression is reduced bottom-up to a canonical node:
//
//   - two operations with the same op, type, flags and reduced operands share
//     one canonical node;
//   - constant leaves with equal payloads share one canonical node;
//   - non-constant value leaves are canonical by identity, since their
//     payloads change independently at runtime.
//
// Canonical nodes are appended in post-order, so an operand always precedes
// its consumers and the order only changes when the tree or its expression
// graph changes.
//
// # Serialization
//
// Each flattened node serializes to a Desc: an op code and four operand
// indices into the same list, padded with -1. The fixed width matches
// expr.MaxOperands and the runtime evaluator's record layout.
package exprgraph
