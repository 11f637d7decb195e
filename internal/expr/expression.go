package expr

// Handle addresses an expression inside a Pool.
type Handle uint32

// InvalidHandle marks an unused operand slot or an unbound slot.
const InvalidHandle Handle = ^Handle(0)

// MaxOperands is the fixed operand capacity of an expression.
const MaxOperands = 4

// Flags classify expressions.
type Flags uint8

const (
	// FlagValue marks a leaf whose data is supplied from outside the graph.
	FlagValue Flags = 1 << iota
	// FlagConstant marks an immutable literal.
	FlagConstant
)

// Expression is a single node of the dataflow graph.
type Expression struct {
	Op       Op
	Operands [MaxOperands]Handle
	Type     ValueType
	Flags    Flags
	// Value is set only on FlagValue leaves.
	Value Value
}

// Is reports whether all bits of f are set.
func (e *Expression) Is(f Flags) bool {
	return e.Flags&f == f
}

// NumOperands counts the leading valid operand slots.
func (e *Expression) NumOperands() int {
	n := 0
	for n < MaxOperands && e.Operands[n] != InvalidHandle {
		n++
	}
	return n
}

// OperandList returns the valid operands in order.
func (e *Expression) OperandList() []Handle {
	return e.Operands[:e.NumOperands()]
}
