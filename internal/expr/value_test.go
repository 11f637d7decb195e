package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueType(t *testing.T) {
	for i := TypeFloat; i <= TypeMesh; i++ {
		got, err := ParseValueType(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	_, err := ParseValueType("none")
	assert.Error(t, err)
	_, err = ParseValueType("quaternion")
	assert.Error(t, err)
}

func TestZero_CoversEveryType(t *testing.T) {
	for i := TypeFloat; i <= TypeMesh; i++ {
		v := Zero(i)
		require.NotNil(t, v, i.String())
		assert.Equal(t, i, v.Kind())
	}
	assert.Nil(t, Zero(TypeNone))
}

func TestClone_DetachesSlices(t *testing.T) {
	orig := Curve{Keys: []Keyframe{{Time: 0, Value: 1}}}
	cp := Clone(orig).(Curve)
	cp.Keys[0].Value = 9
	assert.Equal(t, float32(1), orig.Keys[0].Value)
}

func TestAppendKey(t *testing.T) {
	a := AppendKey(nil, Gradient{Colors: []ColorKey{{Time: 0, Color: [3]float32{1, 0, 0}}}})
	b := AppendKey(nil, Gradient{Colors: []ColorKey{{Time: 0, Color: [3]float32{1, 0, 0}}}})
	c := AppendKey(nil, Gradient{Alphas: []AlphaKey{{Time: 0, Alpha: 1}}})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Same bits, different kind.
	assert.NotEqual(t, AppendKey(nil, Int(1)), AppendKey(nil, Uint(1)))
	assert.True(t, Equal(Texture2D{Ref: "noise"}, Texture2D{Ref: "noise"}))
	assert.False(t, Equal(Int(1), Uint(1)))
}
