package sheet

import (
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/exprgraph"
)

// ValueDesc is one entry of the value sheet.
type ValueDesc struct {
	ExpressionIndex uint32
	Value           expr.Value
}

// BuildValues extracts the payload of every value expression, in flattened
// order.
func BuildValues(g *exprgraph.Graph) ([]ValueDesc, error) {
	var out []ValueDesc
	for i := 0; i < g.Len(); i++ {
		e := g.Pool().MustGet(g.At(i))
		if !e.Is(expr.FlagValue) {
			continue
		}
		v, err := extract(e)
		if err != nil {
			return nil, fmt.Errorf("value at index %d: %w", i, err)
		}
		out = append(out, ValueDesc{ExpressionIndex: uint32(i), Value: v})
	}
	return out, nil
}

// RefreshValues re-extracts payloads into descs in place. The descriptors
// must have been built from the same graph.
func RefreshValues(g *exprgraph.Graph, descs []ValueDesc) error {
	k := 0
	for i := 0; i < g.Len(); i++ {
		e := g.Pool().MustGet(g.At(i))
		if !e.Is(expr.FlagValue) {
			continue
		}
		if k >= len(descs) {
			return fmt.Errorf("value at index %d has no descriptor: %w", i, ErrInconsistent)
		}
		if descs[k].ExpressionIndex != uint32(i) {
			return fmt.Errorf("descriptor %d points at index %d, expected %d: %w", k, descs[k].ExpressionIndex, i, ErrInconsistent)
		}
		v, err := extract(e)
		if err != nil {
			return fmt.Errorf("value at index %d: %w", i, err)
		}
		descs[k].Value = v
		k++
	}
	if k != len(descs) {
		return fmt.Errorf("%d descriptors for %d values: %w", len(descs), k, ErrInconsistent)
	}
	return nil
}

func extract(e *expr.Expression) (expr.Value, error) {
	switch e.Type {
	case expr.TypeFloat:
		return payload[expr.Float](e)
	case expr.TypeFloat2:
		return payload[expr.Float2](e)
	case expr.TypeFloat3:
		return payload[expr.Float3](e)
	case expr.TypeFloat4:
		return payload[expr.Float4](e)
	case expr.TypeInt:
		return payload[expr.Int](e)
	case expr.TypeUint:
		return payload[expr.Uint](e)
	case expr.TypeTexture2D:
		return payload[expr.Texture2D](e)
	case expr.TypeTexture3D:
		return payload[expr.Texture3D](e)
	case expr.TypeTransform:
		return payload[expr.Transform](e)
	case expr.TypeCurve:
		return payload[expr.Curve](e)
	case expr.TypeColorGradient:
		return payload[expr.Gradient](e)
	case expr.TypeMesh:
		return payload[expr.Mesh](e)
	}
	return nil, fmt.Errorf("%s: %w", e.Type, ErrTypeCoverage)
}

func payload[T expr.Value](e *expr.Expression) (expr.Value, error) {
	v, ok := e.Value.(T)
	if !ok {
		return nil, fmt.Errorf("%s expression holds %T: %w", e.Type, e.Value, ErrInconsistent)
	}
	return expr.Clone(v), nil
}
