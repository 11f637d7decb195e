// Package expr defines the dataflow expressions consumed by the graph compiler.
//
// Expressions live in an arena (Pool) and reference each other through
// integer handles. An expression has an operation code, up to MaxOperands
// operand handles, a value-type tag, and flags. Leaves flagged FlagValue carry
// an externally supplied payload (a Value); every other expression is computed
// from its operands by the runtime evaluator.
//
// The operand limit is shared with the runtime evaluator, which reads each
// expression as a fixed {op, 4 operand indices} record. Raising it requires a
// matching change on the evaluator side.
package expr
