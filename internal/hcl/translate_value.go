// This file converts parameter `value` attributes into typed payloads.

package hcl

import (
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// parameterValue decodes p.Value according to p.Type. A missing value gives
// the type's zero payload.
func parameterValue(p *Parameter) (expr.Value, error) {
	t, err := expr.ParseValueType(p.Type)
	if err != nil {
		return nil, err
	}
	if t == expr.TypeNone {
		return nil, fmt.Errorf("parameters must have a value type")
	}
	if p.Value.IsNull() {
		return expr.Zero(t), nil
	}
	return ctyToValue(t, p.Value)
}

func ctyToValue(t expr.ValueType, v cty.Value) (expr.Value, error) {
	switch t {
	case expr.TypeFloat:
		var f float32
		if err := decodeAs(v, cty.Number, &f); err != nil {
			return nil, err
		}
		return expr.Float(f), nil
	case expr.TypeInt:
		var i int32
		if err := decodeAs(v, cty.Number, &i); err != nil {
			return nil, err
		}
		return expr.Int(i), nil
	case expr.TypeUint:
		var u uint32
		if err := decodeAs(v, cty.Number, &u); err != nil {
			return nil, err
		}
		return expr.Uint(u), nil
	case expr.TypeFloat2, expr.TypeFloat3, expr.TypeFloat4, expr.TypeTransform:
		return floats(t, v)
	case expr.TypeTexture2D, expr.TypeTexture3D, expr.TypeMesh:
		var ref string
		if err := decodeAs(v, cty.String, &ref); err != nil {
			return nil, err
		}
		switch t {
		case expr.TypeTexture2D:
			return expr.Texture2D{Ref: ref}, nil
		case expr.TypeTexture3D:
			return expr.Texture3D{Ref: ref}, nil
		}
		return expr.Mesh{Ref: ref}, nil
	case expr.TypeCurve:
		return curve(v)
	case expr.TypeColorGradient:
		return gradient(v)
	}
	return nil, fmt.Errorf("type %s cannot be written as a value", t)
}

// decodeAs converts v to want and stores it in target.
func decodeAs(v cty.Value, want cty.Type, target any) error {
	conv, err := convert.Convert(v, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(conv, target)
}

func floats(t expr.ValueType, v cty.Value) (expr.Value, error) {
	var fs []float32
	if err := decodeAs(v, cty.List(cty.Number), &fs); err != nil {
		return nil, err
	}
	want := map[expr.ValueType]int{expr.TypeFloat2: 2, expr.TypeFloat3: 3, expr.TypeFloat4: 4, expr.TypeTransform: 16}[t]
	if len(fs) != want {
		return nil, fmt.Errorf("%s needs %d components, got %d", t, want, len(fs))
	}
	if t == expr.TypeTransform {
		var m expr.Transform
		copy(m[:], fs)
		return m, nil
	}
	return vector(fs), nil
}

func curve(v cty.Value) (expr.Value, error) {
	keys, err := objects(v)
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}
	c := expr.Curve{Keys: make([]expr.Keyframe, 0, len(keys))}
	for i, k := range keys {
		var kf expr.Keyframe
		fields := []struct {
			name     string
			dst      *float32
			optional bool
		}{
			{"time", &kf.Time, false},
			{"value", &kf.Value, false},
			{"in_tangent", &kf.InTangent, true},
			{"out_tangent", &kf.OutTangent, true},
		}
		for _, f := range fields {
			if err := attrNumber(k, f.name, f.dst, f.optional); err != nil {
				return nil, fmt.Errorf("curve key %d: %w", i, err)
			}
		}
		c.Keys = append(c.Keys, kf)
	}
	return c, nil
}

func gradient(v cty.Value) (expr.Value, error) {
	if !v.Type().IsObjectType() {
		return nil, fmt.Errorf("gradient must be an object with colors and alphas, got %s", v.Type().FriendlyName())
	}
	var g expr.Gradient
	if v.Type().HasAttribute("colors") {
		keys, err := objects(v.GetAttr("colors"))
		if err != nil {
			return nil, fmt.Errorf("gradient colors: %w", err)
		}
		for i, k := range keys {
			var ck expr.ColorKey
			if err := attrNumber(k, "time", &ck.Time, false); err != nil {
				return nil, fmt.Errorf("gradient color %d: %w", i, err)
			}
			if !k.Type().HasAttribute("color") {
				return nil, fmt.Errorf("gradient color %d: missing color", i)
			}
			var rgb []float32
			if err := decodeAs(k.GetAttr("color"), cty.List(cty.Number), &rgb); err != nil || len(rgb) != 3 {
				return nil, fmt.Errorf("gradient color %d: color must be [r, g, b]", i)
			}
			copy(ck.Color[:], rgb)
			g.Colors = append(g.Colors, ck)
		}
	}
	if v.Type().HasAttribute("alphas") {
		keys, err := objects(v.GetAttr("alphas"))
		if err != nil {
			return nil, fmt.Errorf("gradient alphas: %w", err)
		}
		for i, k := range keys {
			var ak expr.AlphaKey
			if err := attrNumber(k, "time", &ak.Time, false); err != nil {
				return nil, fmt.Errorf("gradient alpha %d: %w", i, err)
			}
			if err := attrNumber(k, "alpha", &ak.Alpha, false); err != nil {
				return nil, fmt.Errorf("gradient alpha %d: %w", i, err)
			}
			g.Alphas = append(g.Alphas, ak)
		}
	}
	return g, nil
}

// objects returns the elements of a tuple or list of objects.
func objects(v cty.Value) ([]cty.Value, error) {
	if v.IsNull() || !(v.Type().IsTupleType() || v.Type().IsListType()) {
		return nil, fmt.Errorf("expected a list of objects, got %s", v.Type().FriendlyName())
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, el := it.Element()
		if !el.Type().IsObjectType() {
			return nil, fmt.Errorf("expected an object, got %s", el.Type().FriendlyName())
		}
		out = append(out, el)
	}
	return out, nil
}

func attrNumber(obj cty.Value, name string, dst *float32, optional bool) error {
	if !obj.Type().HasAttribute(name) {
		if optional {
			return nil
		}
		return fmt.Errorf("missing %s", name)
	}
	if err := decodeAs(obj.GetAttr(name), cty.Number, dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
