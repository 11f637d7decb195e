package sheet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/exprgraph"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/specialistvlad/fxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, tree *model.Tree, pool *expr.Pool) *exprgraph.Graph {
	t.Helper()
	ctx, _ := testutil.Context(t)
	g, err := exprgraph.Compile(ctx, tree, pool)
	require.NoError(t, err)
	return g
}

func TestLifetimeScenario(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	initCtx := tree.AddContext(model.ContextInitialize, "init")
	blk := tree.AddBlock(initCtx, "set lifetime", model.SpawnerNone)
	tree.SetSlot(blk, "Lifetime", pool.Constant(expr.Float(2)))

	g := compile(t, tree, pool)
	require.Equal(t, 1, g.Len())

	values, err := BuildValues(g)
	require.NoError(t, err)
	assert.Equal(t, []ValueDesc{{ExpressionIndex: 0, Value: expr.Float(2)}}, values)

	semantics, err := BuildSemantics(tree, g, nil)
	require.NoError(t, err)
	assert.Equal(t, []SemanticDesc{{ContextID: 0, BlockID: 0, ExpressionIndex: 0, Name: "Lifetime"}}, semantics)
}

func TestBuildValues_OnlyValueExpressions(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	update := tree.AddContext(model.ContextUpdate, "update")
	blk := tree.AddBlock(update, "move", model.SpawnerNone)

	speed := pool.Parameter(expr.Float3{0, 1, 0})
	tree.AddParameter("speed", speed)
	scaled, err := pool.Apply(expr.OpMultiply, speed, pool.Constant(expr.Float(0.5)))
	require.NoError(t, err)
	tree.SetSlot(blk, "Velocity", scaled)
	tree.SetSlot(blk, "Mask", pool.Constant(expr.Texture2D{Ref: "mask.png"}))

	g := compile(t, tree, pool)
	values, err := BuildValues(g)
	require.NoError(t, err)

	want := []ValueDesc{
		{ExpressionIndex: 0, Value: expr.Float3{0, 1, 0}},
		{ExpressionIndex: 1, Value: expr.Float(0.5)},
		{ExpressionIndex: 3, Value: expr.Texture2D{Ref: "mask.png"}},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("BuildValues() mismatch (-want +got):\n%s", diff)
	}
	for _, v := range values {
		e := pool.MustGet(g.At(int(v.ExpressionIndex)))
		assert.True(t, e.Is(expr.FlagValue), "index %d", v.ExpressionIndex)
	}
}

func TestBuildValues_Errors(t *testing.T) {
	t.Run("payload does not match tag", func(t *testing.T) {
		tree := model.NewTree("fx")
		pool := expr.NewPool()
		h := pool.Parameter(expr.Float(1))
		pool.MustGet(h).Value = expr.Int(1)
		tree.AddParameter("p", h)

		_, err := BuildValues(compile(t, tree, pool))
		require.ErrorIs(t, err, ErrInconsistent)
	})

	t.Run("unknown kind", func(t *testing.T) {
		tree := model.NewTree("fx")
		pool := expr.NewPool()
		h := pool.Parameter(expr.Float(1))
		pool.MustGet(h).Type = expr.ValueType(200)
		tree.AddParameter("p", h)

		_, err := BuildValues(compile(t, tree, pool))
		require.ErrorIs(t, err, ErrTypeCoverage)
	})
}

func TestRefreshValues(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	rate := pool.Parameter(expr.Float(10))
	p := tree.AddParameter("rate", rate)
	curve := pool.Parameter(expr.Curve{Keys: []expr.Keyframe{{Time: 0, Value: 1}}})
	tree.AddParameter("falloff", curve)

	g := compile(t, tree, pool)
	values, err := BuildValues(g)
	require.NoError(t, err)
	before := append([]ValueDesc(nil), values...)

	require.NoError(t, tree.SetParameterValue(pool, p, expr.Float(20)))
	require.NoError(t, RefreshValues(g, values))

	require.Len(t, values, 2)
	assert.Equal(t, expr.Float(20), values[0].Value)
	for i := range values {
		assert.Equal(t, before[i].ExpressionIndex, values[i].ExpressionIndex)
		assert.Equal(t, uint32(g.FlattenedIndex(g.At(int(values[i].ExpressionIndex)))), values[i].ExpressionIndex)
	}
}

func TestRefreshValues_DetectsDrift(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	tree.AddParameter("a", pool.Parameter(expr.Float(1)))
	tree.AddParameter("b", pool.Parameter(expr.Float(2)))
	g := compile(t, tree, pool)

	values, err := BuildValues(g)
	require.NoError(t, err)

	shifted := append([]ValueDesc(nil), values...)
	shifted[1].ExpressionIndex = 7
	require.ErrorIs(t, RefreshValues(g, shifted), ErrInconsistent)

	require.ErrorIs(t, RefreshValues(g, values[:1]), ErrInconsistent)
	require.ErrorIs(t, RefreshValues(g, append(values, ValueDesc{ExpressionIndex: 9})), ErrInconsistent)
}

func TestBuildSemantics_SharedExpressionAndSpawnerSkipped(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	spawn := tree.AddContext(model.ContextSpawner, "spawn")
	rate := tree.AddBlock(spawn, "rate", model.SpawnerConstantRate)
	tree.SetSlot(rate, "Rate", pool.Constant(expr.Float(5)))
	update := tree.AddContext(model.ContextUpdate, "update")
	a := tree.AddBlock(update, "a", model.SpawnerNone)
	b := tree.AddBlock(update, "b", model.SpawnerNone)
	shared := pool.Constant(expr.Float(1))
	tree.SetSlot(a, "Size", shared)
	tree.SetSlot(b, "Scale", shared)

	g := compile(t, tree, pool)
	semantics, err := BuildSemantics(tree, g, nil)
	require.NoError(t, err)

	idx := uint32(g.FlattenedIndex(shared))
	assert.Equal(t, []SemanticDesc{
		{ContextID: 1, BlockID: 0, ExpressionIndex: idx, Name: "Size"},
		{ContextID: 1, BlockID: 1, ExpressionIndex: idx, Name: "Scale"},
	}, semantics)
}

func TestBuildSemantics_UnmappedIsInconsistent(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	update := tree.AddContext(model.ContextUpdate, "update")
	g := compile(t, tree, pool)
	tree.SetSlot(update, "late", pool.Constant(expr.Float(1)))

	_, err := BuildSemantics(tree, g, nil)
	require.ErrorIs(t, err, ErrInconsistent)
}

func TestBuildExposed(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	color := pool.Parameter(expr.Float4{1, 1, 1, 1})
	pc := tree.AddParameter("color", color)
	tree.SetExposed(pc, true, "Main Color")
	hidden := tree.AddParameter("hidden", pool.Parameter(expr.Float(0)))
	tree.SetExposed(hidden, false, "")
	orphan := tree.AddParameter("orphan", expr.InvalidHandle)
	tree.SetExposed(orphan, true, "")

	g := compile(t, tree, pool)
	exposed := BuildExposed(tree, g)

	assert.Equal(t, []ExposedDesc{{Name: "Main Color", ExpressionIndex: uint32(g.FlattenedIndex(color))}}, exposed)
}

func TestBuildEventAttributes(t *testing.T) {
	tree := model.NewTree("fx")
	spawn := tree.AddContext(model.ContextSpawner, "spawn")
	initCtx := tree.AddContext(model.ContextInitialize, "init")
	update := tree.AddContext(model.ContextUpdate, "update")
	require.NoError(t, tree.Link(spawn, initCtx))
	require.NoError(t, tree.Link(initCtx, update))
	tree.AddAttribute(initCtx, model.Attribute{Name: "position", Type: expr.TypeFloat3, Location: model.LocationSource})
	tree.AddAttribute(initCtx, model.Attribute{Name: "age", Type: expr.TypeFloat, Location: model.LocationCurrent})
	tree.AddAttribute(update, model.Attribute{Name: "color", Type: expr.TypeFloat4, Location: model.LocationSource})

	assert.Equal(t, []EventAttributeDesc{{Name: "position", Type: expr.TypeFloat3}}, BuildEventAttributes(tree))
}

func TestBuildSpawners(t *testing.T) {
	testCases := []struct {
		name     string
		spawner  model.SpawnerType
		callback string
		wantErr  bool
	}{
		{name: "constant rate without callback", spawner: model.SpawnerConstantRate},
		{name: "burst without callback", spawner: model.SpawnerBurst},
		{name: "variable rate without callback", spawner: model.SpawnerVariableRate},
		{name: "custom with callback", spawner: model.SpawnerCustomCallback, callback: "Scripts/Pulse"},
		{name: "custom without callback", spawner: model.SpawnerCustomCallback, wantErr: true},
		{name: "rate with callback", spawner: model.SpawnerConstantRate, callback: "Scripts/Pulse", wantErr: true},
		{name: "plain block in spawner stage", spawner: model.SpawnerNone, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree := model.NewTree("fx")
			spawn := tree.AddContext(model.ContextSpawner, "spawn")
			blk := tree.AddBlock(spawn, "s", tc.spawner)
			tree.SetSpawner(blk, tc.spawner, tc.callback)

			descs, err := BuildSpawners(tree, spawn)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrSpawnerConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []SpawnerDesc{{Type: tc.spawner, Callback: tc.callback}}, descs)
		})
	}
}

func TestBuildSpawners_NotASpawnerStage(t *testing.T) {
	tree := model.NewTree("fx")
	update := tree.AddContext(model.ContextUpdate, "update")
	_, err := BuildSpawners(tree, update)
	require.ErrorIs(t, err, ErrSpawnerConfig)
}
