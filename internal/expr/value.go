package expr

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// ValueType tags the payload kind of an expression.
type ValueType uint8

const (
	TypeNone ValueType = iota
	TypeFloat
	TypeFloat2
	TypeFloat3
	TypeFloat4
	TypeInt
	TypeUint
	TypeTexture2D
	TypeTexture3D
	TypeTransform
	TypeCurve
	TypeColorGradient
	TypeMesh
)

var valueTypeNames = [...]string{
	TypeNone:          "none",
	TypeFloat:         "float",
	TypeFloat2:        "float2",
	TypeFloat3:        "float3",
	TypeFloat4:        "float4",
	TypeInt:           "int",
	TypeUint:          "uint",
	TypeTexture2D:     "texture2d",
	TypeTexture3D:     "texture3d",
	TypeTransform:     "transform",
	TypeCurve:         "curve",
	TypeColorGradient: "gradient",
	TypeMesh:          "mesh",
}

// String returns the keyword used for the type in graph sources.
func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// MarshalText lets value types appear by name in YAML and JSON output.
func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseValueType resolves a type keyword such as "float3" or "gradient".
func ParseValueType(s string) (ValueType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range valueTypeNames {
		if ValueType(i) != TypeNone && name == key {
			return ValueType(i), nil
		}
	}
	return TypeNone, fmt.Errorf("unknown value type %q", s)
}

// IsFloat reports whether t is one of the float vector types.
func (t ValueType) IsFloat() bool {
	return t >= TypeFloat && t <= TypeFloat4
}

// Value is the payload of a value expression. The set of implementations is
// closed: one per ValueType except TypeNone.
type Value interface {
	Kind() ValueType
	isValue()
}

type (
	Float     float32
	Float2    [2]float32
	Float3    [3]float32
	Float4    [4]float32
	Int       int32
	Uint      uint32
	Transform [16]float32
)

// Texture2D references a two-dimensional texture by asset reference.
type Texture2D struct {
	Ref string
}

// Texture3D references a volume texture by asset reference.
type Texture3D struct {
	Ref string
}

// Mesh references a mesh asset.
type Mesh struct {
	Ref string
}

// Keyframe is a single point of an animation curve.
type Keyframe struct {
	Time       float32 `cty:"time" yaml:"time"`
	Value      float32 `cty:"value" yaml:"value"`
	InTangent  float32 `cty:"in_tangent" yaml:"in_tangent"`
	OutTangent float32 `cty:"out_tangent" yaml:"out_tangent"`
}

// Curve is an animation curve sampled by the runtime.
type Curve struct {
	Keys []Keyframe
}

// ColorKey is an RGB key of a gradient.
type ColorKey struct {
	Time  float32    `cty:"time" yaml:"time"`
	Color [3]float32 `yaml:"color"`
}

// AlphaKey is an alpha key of a gradient.
type AlphaKey struct {
	Time  float32 `cty:"time" yaml:"time"`
	Alpha float32 `cty:"alpha" yaml:"alpha"`
}

// Gradient is a color gradient made of independent color and alpha keys.
type Gradient struct {
	Colors []ColorKey
	Alphas []AlphaKey
}

func (Float) Kind() ValueType     { return TypeFloat }
func (Float2) Kind() ValueType    { return TypeFloat2 }
func (Float3) Kind() ValueType    { return TypeFloat3 }
func (Float4) Kind() ValueType    { return TypeFloat4 }
func (Int) Kind() ValueType       { return TypeInt }
func (Uint) Kind() ValueType      { return TypeUint }
func (Texture2D) Kind() ValueType { return TypeTexture2D }
func (Texture3D) Kind() ValueType { return TypeTexture3D }
func (Transform) Kind() ValueType { return TypeTransform }
func (Curve) Kind() ValueType     { return TypeCurve }
func (Gradient) Kind() ValueType  { return TypeColorGradient }
func (Mesh) Kind() ValueType      { return TypeMesh }

func (Float) isValue()     {}
func (Float2) isValue()    {}
func (Float3) isValue()    {}
func (Float4) isValue()    {}
func (Int) isValue()       {}
func (Uint) isValue()      {}
func (Texture2D) isValue() {}
func (Texture3D) isValue() {}
func (Transform) isValue() {}
func (Curve) isValue()     {}
func (Gradient) isValue()  {}
func (Mesh) isValue()      {}

// IdentityTransform returns the 4x4 identity matrix in column-major order.
func IdentityTransform() Transform {
	var m Transform
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Zero returns the zero payload for t, or nil for TypeNone and unknown tags.
func Zero(t ValueType) Value {
	switch t {
	case TypeFloat:
		return Float(0)
	case TypeFloat2:
		return Float2{}
	case TypeFloat3:
		return Float3{}
	case TypeFloat4:
		return Float4{}
	case TypeInt:
		return Int(0)
	case TypeUint:
		return Uint(0)
	case TypeTexture2D:
		return Texture2D{}
	case TypeTexture3D:
		return Texture3D{}
	case TypeTransform:
		return IdentityTransform()
	case TypeCurve:
		return Curve{}
	case TypeColorGradient:
		return Gradient{}
	case TypeMesh:
		return Mesh{}
	}
	return nil
}

// Clone returns a copy of v that shares no memory with it.
func Clone(v Value) Value {
	switch t := v.(type) {
	case Curve:
		return Curve{Keys: append([]Keyframe(nil), t.Keys...)}
	case Gradient:
		return Gradient{
			Colors: append([]ColorKey(nil), t.Colors...),
			Alphas: append([]AlphaKey(nil), t.Alphas...),
		}
	}
	// Every other payload is a plain value type.
	return v
}

// Equal reports whether two payloads hold the same kind and data.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && reflect.DeepEqual(a, b)
}

// AppendKey appends a binary encoding of v to b. Equal payloads produce equal
// encodings.
func AppendKey(b []byte, v Value) []byte {
	if v == nil {
		return append(b, byte(TypeNone))
	}
	b = append(b, byte(v.Kind()))
	switch t := v.(type) {
	case Float:
		b = appendFloats(b, float32(t))
	case Float2:
		b = appendFloats(b, t[:]...)
	case Float3:
		b = appendFloats(b, t[:]...)
	case Float4:
		b = appendFloats(b, t[:]...)
	case Int:
		b = binary.LittleEndian.AppendUint32(b, uint32(t))
	case Uint:
		b = binary.LittleEndian.AppendUint32(b, uint32(t))
	case Transform:
		b = appendFloats(b, t[:]...)
	case Texture2D:
		b = appendString(b, t.Ref)
	case Texture3D:
		b = appendString(b, t.Ref)
	case Mesh:
		b = appendString(b, t.Ref)
	case Curve:
		b = binary.LittleEndian.AppendUint32(b, uint32(len(t.Keys)))
		for _, k := range t.Keys {
			b = appendFloats(b, k.Time, k.Value, k.InTangent, k.OutTangent)
		}
	case Gradient:
		b = binary.LittleEndian.AppendUint32(b, uint32(len(t.Colors)))
		for _, k := range t.Colors {
			b = appendFloats(b, k.Time, k.Color[0], k.Color[1], k.Color[2])
		}
		b = binary.LittleEndian.AppendUint32(b, uint32(len(t.Alphas)))
		for _, k := range t.Alphas {
			b = appendFloats(b, k.Time, k.Alpha)
		}
	}
	return b
}

func appendFloats(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}
