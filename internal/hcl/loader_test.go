package hcl

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/specialistvlad/fxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smokeGraph = `
graph "smoke" {
  parameter "speed" {
    type         = "float3"
    value        = [0, 1, 0]
    exposed      = true
    exposed_name = "Speed"
  }

  parameter "falloff" {
    type  = "curve"
    value = [
      { time = 0, value = 1 },
      { time = 1, value = 0, in_tangent = -1 },
    ]
  }

  parameter "tint" {
    type  = "gradient"
    value = {
      colors = [{ time = 0, color = [1, 0.5, 0] }]
      alphas = [{ time = 0, alpha = 1 }, { time = 1, alpha = 0 }]
    }
  }

  parameter "count" {
    type = "uint"
  }

  context "spawn" {
    type    = "spawner"
    outputs = ["init"]

    block "rate" {
      spawner = "constant_rate"
      slots   = { Rate = 16 }
    }

    block "pulse" {
      spawner  = "custom_callback"
      callback = "Scripts/Pulse"
    }
  }

  context "init" {
    type      = "initialize"
    generator = "template"
    slots     = { Capacity = 1024 }

    attribute "position" {
      type     = "float3"
      location = "source"
    }

    attribute "age" {
      type = "float"
    }

    block "set velocity" {
      slots = {
        Velocity = param.speed * sin(total_time())
        Offset   = [0, sin(1), 0]
        "Mask"   = texture2d("textures/smoke.png")
      }
    }
  }
}
`

func load(t *testing.T, src string) (*model.Tree, *expr.Pool, error) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	return NewLoader().LoadSource(ctx, "fx/smoke.hcl", []byte(src))
}

func TestLoad_Structure(t *testing.T) {
	tree, _, err := load(t, smokeGraph)
	require.NoError(t, err)

	assert.Equal(t, "smoke", tree.Node(tree.Root()).Name)
	assert.Equal(t, "fx/smoke.hcl", tree.Source.AssetPath())

	contexts := tree.Contexts()
	require.Len(t, contexts, 2)
	spawn, initCtx := tree.Node(contexts[0]), tree.Node(contexts[1])
	assert.Equal(t, model.ContextSpawner, spawn.Context)
	assert.Equal(t, model.ContextInitialize, initCtx.Context)
	assert.Equal(t, "template", initCtx.Generator)
	assert.Equal(t, []model.Handle{contexts[1]}, tree.Outputs(contexts[0]))

	assert.Equal(t, []model.Attribute{
		{Name: "position", Type: expr.TypeFloat3, Location: model.LocationSource},
		{Name: "age", Type: expr.TypeFloat, Location: model.LocationCurrent},
	}, initCtx.Attributes)

	blocks := tree.Children(contexts[0])
	require.Len(t, blocks, 2)
	assert.Equal(t, model.SpawnerConstantRate, tree.Node(blocks[0]).Spawner)
	pulse := tree.Node(blocks[1])
	assert.Equal(t, model.SpawnerCustomCallback, pulse.Spawner)
	assert.Equal(t, "Scripts/Pulse", pulse.Callback)
}

func TestLoad_Parameters(t *testing.T) {
	tree, pool, err := load(t, smokeGraph)
	require.NoError(t, err)

	params := tree.Parameters()
	require.Len(t, params, 4)

	speed := tree.Node(params[0])
	assert.True(t, speed.Exposed)
	assert.Equal(t, "Speed", speed.ExposedName)
	assert.Equal(t, expr.Float3{0, 1, 0}, pool.MustGet(speed.Output).Value)
	assert.False(t, pool.MustGet(speed.Output).Is(expr.FlagConstant))

	assert.Equal(t, expr.Curve{Keys: []expr.Keyframe{
		{Time: 0, Value: 1},
		{Time: 1, Value: 0, InTangent: -1},
	}}, pool.MustGet(tree.Node(params[1]).Output).Value)

	assert.Equal(t, expr.Gradient{
		Colors: []expr.ColorKey{{Time: 0, Color: [3]float32{1, 0.5, 0}}},
		Alphas: []expr.AlphaKey{{Time: 0, Alpha: 1}, {Time: 1, Alpha: 0}},
	}, pool.MustGet(tree.Node(params[2]).Output).Value)

	assert.Equal(t, expr.Uint(0), pool.MustGet(tree.Node(params[3]).Output).Value)
}

func TestLoad_SlotExpressions(t *testing.T) {
	tree, pool, err := load(t, smokeGraph)
	require.NoError(t, err)

	initCtx := tree.Contexts()[1]
	c := pool.MustGet(tree.SlotExpression(initCtx, "Capacity"))
	assert.Equal(t, expr.Float(1024), c.Value)

	blk := tree.Children(initCtx)[0]
	slots := tree.Slots(blk)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"Velocity", "Offset", "Mask"}, []string{slots[0].Name, slots[1].Name, slots[2].Name})

	velocity := pool.MustGet(slots[0].Expr)
	assert.Equal(t, expr.OpMultiply, velocity.Op)
	assert.Equal(t, expr.TypeFloat3, velocity.Type)
	assert.Equal(t, tree.Node(tree.Parameters()[0]).Output, velocity.Operands[0])
	sin := pool.MustGet(velocity.Operands[1])
	assert.Equal(t, expr.OpSin, sin.Op)
	assert.Equal(t, expr.OpTotalTime, pool.MustGet(sin.Operands[0]).Op)

	offset := pool.MustGet(slots[1].Expr)
	assert.Equal(t, expr.OpCombine3, offset.Op, "a tuple with calls is combined, not folded")

	assert.Equal(t, expr.Texture2D{Ref: "textures/smoke.png"}, pool.MustGet(slots[2].Expr).Value)
}

func TestLoad_LiteralTupleIsConstant(t *testing.T) {
	tree, pool, err := load(t, `
graph "g" {
  context "update" {
    type  = "update"
    slots = { Gravity = [0, -9.5, 0] }
  }
}`)
	require.NoError(t, err)
	e := pool.MustGet(tree.SlotExpression(tree.Contexts()[0], "Gravity"))
	assert.True(t, e.Is(expr.FlagConstant))
	assert.Equal(t, expr.Float3{0, -9.5, 0}, e.Value)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "no graph",
			src:     ``,
			wantErr: "expected exactly one graph block, found 0",
		},
		{
			name:    "two graphs",
			src:     `graph "a" {}` + "\n" + `graph "b" {}`,
			wantErr: "found 2",
		},
		{
			name:    "unknown context type",
			src: `graph "g" {
  context "c" {
    type = "render"
  }
}`,
			wantErr: `context "c"`,
		},
		{
			name: "unknown parameter",
			src: `graph "g" {
  context "c" {
    type  = "update"
    slots = { X = param.missing }
  }
}`,
			wantErr: `unknown parameter "missing"`,
		},
		{
			name: "unknown function",
			src: `graph "g" {
  context "c" {
    type  = "update"
    slots = { X = noise(1) }
  }
}`,
			wantErr: `unknown function "noise"`,
		},
		{
			name: "operand type mismatch",
			src: `graph "g" {
  context "c" {
    type  = "update"
    slots = { X = texture2d("a.png") + 1 }
  }
}`,
			wantErr: `slot "X"`,
		},
		{
			name: "vector length",
			src: `graph "g" {
  parameter "p" {
    type  = "float2"
    value = [1, 2, 3]
  }
}`,
			wantErr: "float2 needs 2 components, got 3",
		},
		{
			name: "unknown output",
			src: `graph "g" {
  context "c" {
    type    = "spawner"
    outputs = ["nowhere"]
  }
}`,
			wantErr: `output "nowhere" is not a context of this graph`,
		},
		{
			name:    "slots not an object",
			src: `graph "g" {
  context "c" {
    type  = "update"
    slots = [1, 2]
  }
}`,
			wantErr: "slots must be an object literal",
		},
		{
			name: "duplicate parameter",
			src: `graph "g" {
  parameter "p" { type = "float" }
  parameter "p" { type = "float" }
}`,
			wantErr: `parameter "p" declared twice`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := load(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{"fx/smoke.hcl": smokeGraph})

	tree, pool, err := NewLoader().Load(ctx, filepath.Join(dir, "fx/smoke.hcl"))
	require.NoError(t, err)
	assert.Len(t, tree.Contexts(), 2)
	assert.Positive(t, pool.Len())

	_, _, err = NewLoader().Load(ctx, filepath.Join(dir, "missing.hcl"))
	require.Error(t, err)
}
