package expr

import "fmt"

// Op is an operation code understood by the runtime evaluator.
type Op uint32

const (
	OpValue Op = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate
	OpAbs
	OpMin
	OpMax
	OpSin
	OpCos
	OpLerp
	OpCombine2
	OpCombine3
	OpCombine4
	OpTotalTime
	OpDeltaTime
	OpCastFloat
	OpCastInt
	OpCastUint
	OpSampleCurve
	OpSampleGradient
)

type opInfo struct {
	name  string
	arity int
}

var ops = [...]opInfo{
	OpValue:          {"value", 0},
	OpAdd:            {"add", 2},
	OpSubtract:       {"subtract", 2},
	OpMultiply:       {"multiply", 2},
	OpDivide:         {"divide", 2},
	OpNegate:         {"negate", 1},
	OpAbs:            {"abs", 1},
	OpMin:            {"min", 2},
	OpMax:            {"max", 2},
	OpSin:            {"sin", 1},
	OpCos:            {"cos", 1},
	OpLerp:           {"lerp", 3},
	OpCombine2:       {"float2", 2},
	OpCombine3:       {"float3", 3},
	OpCombine4:       {"float4", 4},
	OpTotalTime:      {"total_time", 0},
	OpDeltaTime:      {"delta_time", 0},
	OpCastFloat:      {"to_float", 1},
	OpCastInt:        {"to_int", 1},
	OpCastUint:       {"to_uint", 1},
	OpSampleCurve:    {"sample_curve", 2},
	OpSampleGradient: {"sample_gradient", 2},
}

func (o Op) String() string {
	if int(o) < len(ops) {
		return ops[o].name
	}
	return fmt.Sprintf("Op(%d)", uint32(o))
}

// Arity is the number of operands the op consumes.
func (o Op) Arity() int {
	if int(o) < len(ops) {
		return ops[o].arity
	}
	return -1
}

// LookupFunc resolves a function name as written in graph sources.
// OpValue is not addressable by name.
func LookupFunc(name string) (Op, bool) {
	for i := 1; i < len(ops); i++ {
		if ops[i].name == name {
			return Op(i), true
		}
	}
	return 0, false
}

// resultType infers the value type produced by op from its operand types.
func resultType(op Op, in []ValueType) (ValueType, error) {
	switch op {
	case OpTotalTime, OpDeltaTime, OpCastFloat:
		return TypeFloat, nil
	case OpCastInt:
		return TypeInt, nil
	case OpCastUint:
		return TypeUint, nil
	case OpCombine2, OpCombine3, OpCombine4:
		for _, t := range in {
			if t != TypeFloat {
				return TypeNone, fmt.Errorf("%s expects float operands, got %s", op, t)
			}
		}
		return TypeFloat2 + ValueType(op-OpCombine2), nil
	case OpSampleCurve:
		if in[0] != TypeCurve || in[1] != TypeFloat {
			return TypeNone, fmt.Errorf("%s expects (curve, float), got (%s, %s)", op, in[0], in[1])
		}
		return TypeFloat, nil
	case OpSampleGradient:
		if in[0] != TypeColorGradient || in[1] != TypeFloat {
			return TypeNone, fmt.Errorf("%s expects (gradient, float), got (%s, %s)", op, in[0], in[1])
		}
		return TypeFloat4, nil
	case OpLerp:
		if in[2] != TypeFloat && in[2] != in[0] {
			return TypeNone, fmt.Errorf("%s blend factor must be float or %s, got %s", op, in[0], in[2])
		}
		return arithmetic(op, in[:2])
	}
	return arithmetic(op, in)
}

// arithmetic accepts numeric operands of one type, or float vectors mixed with
// scalar floats, which the evaluator broadcasts.
func arithmetic(op Op, in []ValueType) (ValueType, error) {
	out := in[0]
	for _, t := range in[1:] {
		switch {
		case t == out:
		case out.IsFloat() && t.IsFloat() && (t == TypeFloat || out == TypeFloat):
			out = max(out, t)
		default:
			return TypeNone, fmt.Errorf("%s: mismatched operand types %s and %s", op, out, t)
		}
	}
	if !out.IsFloat() && out != TypeInt && out != TypeUint {
		return TypeNone, fmt.Errorf("%s: operand type %s is not numeric", op, out)
	}
	return out, nil
}
