package expr

import (
	"errors"
	"fmt"
)

// ErrNotParameter is returned when a value update targets something other
// than a non-constant value leaf.
var ErrNotParameter = errors.New("expression is not a parameter")

// Pool is an append-only arena of expressions. The zero value is ready to use.
type Pool struct {
	exprs []Expression
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Len is the number of expressions ever allocated.
func (p *Pool) Len() int {
	return len(p.exprs)
}

// Get returns the expression addressed by h.
func (p *Pool) Get(h Handle) (*Expression, bool) {
	if h == InvalidHandle || int(h) >= len(p.exprs) {
		return nil, false
	}
	return &p.exprs[h], true
}

// MustGet is like Get but panics on an invalid handle.
func (p *Pool) MustGet(h Handle) *Expression {
	e, ok := p.Get(h)
	if !ok {
		panic(fmt.Sprintf("expr: invalid handle %d", h))
	}
	return e
}

// Constant allocates an immutable literal.
func (p *Pool) Constant(v Value) Handle {
	return p.leaf(v, FlagValue|FlagConstant)
}

// Parameter allocates a value leaf whose payload may change between rebuilds.
// Parameters are never merged with each other, even when their payloads match.
func (p *Pool) Parameter(v Value) Handle {
	return p.leaf(v, FlagValue)
}

func (p *Pool) leaf(v Value, flags Flags) Handle {
	if v == nil {
		panic("expr: nil value")
	}
	e := Expression{Op: OpValue, Type: v.Kind(), Flags: flags, Value: Clone(v)}
	for i := range e.Operands {
		e.Operands[i] = InvalidHandle
	}
	return p.push(e)
}

// Op allocates an operation with an explicit result type. Passing more than
// MaxOperands operands is a programming error and panics.
func (p *Pool) Op(op Op, t ValueType, operands ...Handle) Handle {
	if len(operands) > MaxOperands {
		panic(fmt.Sprintf("expr: %s has %d operands, limit is %d", op, len(operands), MaxOperands))
	}
	e := Expression{Op: op, Type: t}
	for i := range e.Operands {
		e.Operands[i] = InvalidHandle
	}
	copy(e.Operands[:], operands)
	return p.push(e)
}

// Apply allocates an operation after checking its arity and operand types,
// inferring the result type.
func (p *Pool) Apply(op Op, operands ...Handle) (Handle, error) {
	if op == OpValue {
		return InvalidHandle, fmt.Errorf("%s cannot be applied, allocate a constant or parameter", op)
	}
	if want := op.Arity(); want != len(operands) {
		return InvalidHandle, fmt.Errorf("%s takes %d operands, got %d", op, want, len(operands))
	}
	types := make([]ValueType, len(operands))
	for i, h := range operands {
		e, ok := p.Get(h)
		if !ok {
			return InvalidHandle, fmt.Errorf("%s operand %d: invalid handle %d", op, i, h)
		}
		types[i] = e.Type
	}
	t, err := resultType(op, types)
	if err != nil {
		return InvalidHandle, err
	}
	return p.Op(op, t, operands...), nil
}

// SetValue replaces the payload of a parameter. The payload kind must match
// the parameter's type.
func (p *Pool) SetValue(h Handle, v Value) error {
	e, ok := p.Get(h)
	if !ok {
		return fmt.Errorf("set value: invalid handle %d", h)
	}
	if !e.Is(FlagValue) || e.Is(FlagConstant) {
		return fmt.Errorf("set value on %d: %w", h, ErrNotParameter)
	}
	if v == nil || v.Kind() != e.Type {
		return fmt.Errorf("set value on %d: expected %s payload", h, e.Type)
	}
	e.Value = Clone(v)
	return nil
}

func (p *Pool) push(e Expression) Handle {
	p.exprs = append(p.exprs, e)
	return Handle(len(p.exprs) - 1)
}
