package exprgraph

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/specialistvlad/fxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	ctx, _ := testutil.Context(t)
	return ctx
}

func mustApply(t *testing.T, p *expr.Pool, op expr.Op, operands ...expr.Handle) expr.Handle {
	t.Helper()
	h, err := p.Apply(op, operands...)
	require.NoError(t, err)
	return h
}

func TestCompile_SingleConstant(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	ctx := tree.AddContext(model.ContextInitialize, "init")
	blk := tree.AddBlock(ctx, "set lifetime", model.SpawnerNone)
	c := pool.Constant(expr.Float(2))
	tree.SetSlot(blk, "Lifetime", c)

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, 0, g.FlattenedIndex(c))

	idx, ok := g.ReducedIndex(c)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []Desc{{Op: expr.OpValue, Data: [4]int32{-1, -1, -1, -1}}}, g.Descs())
}

func TestCompile_LeafAtHandleZero(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	first := pool.Constant(expr.Float(2))
	require.Equal(t, expr.Handle(0), first)
	second := pool.Parameter(expr.Float(3))
	ctx := tree.AddContext(model.ContextInitialize, "init")
	blk := tree.AddBlock(ctx, "set lifetime", model.SpawnerNone)
	tree.SetSlot(blk, "Lifetime", first)
	tree.SetSlot(blk, "Size", second)

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	for _, d := range g.Descs() {
		assert.Equal(t, Desc{Op: expr.OpValue, Data: [4]int32{-1, -1, -1, -1}}, d)
	}
}

func TestCompile_DeduplicatesEquivalentSubtrees(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	ctx := tree.AddContext(model.ContextUpdate, "update")
	b0 := tree.AddBlock(ctx, "a", model.SpawnerNone)
	b1 := tree.AddBlock(ctx, "b", model.SpawnerNone)

	// Two separately built copies of (1 + 2) * time.
	build := func() expr.Handle {
		sum := mustApply(t, pool, expr.OpAdd, pool.Constant(expr.Float(1)), pool.Constant(expr.Float(2)))
		return mustApply(t, pool, expr.OpMultiply, sum, mustApply(t, pool, expr.OpTotalTime))
	}
	first, second := build(), build()
	require.NotEqual(t, first, second)
	tree.SetSlot(b0, "x", first)
	tree.SetSlot(b1, "x", second)

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)

	i0, ok := g.ReducedIndex(first)
	require.True(t, ok)
	i1, ok := g.ReducedIndex(second)
	require.True(t, ok)
	assert.Equal(t, i0, i1)
	// 1, 2, add, time, multiply
	assert.Equal(t, 5, g.Len())

	want := []Desc{
		{Op: expr.OpValue, Data: [4]int32{-1, -1, -1, -1}},
		{Op: expr.OpValue, Data: [4]int32{-1, -1, -1, -1}},
		{Op: expr.OpAdd, Data: [4]int32{0, 1, -1, -1}},
		{Op: expr.OpTotalTime, Data: [4]int32{-1, -1, -1, -1}},
		{Op: expr.OpMultiply, Data: [4]int32{2, 3, -1, -1}},
	}
	if diff := cmp.Diff(want, g.Descs()); diff != "" {
		t.Errorf("Descs() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_ParametersAreCanonicalByIdentity(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	pa := pool.Parameter(expr.Float(1))
	pb := pool.Parameter(expr.Float(1))
	tree.AddParameter("a", pa)
	tree.AddParameter("b", pb)

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.NotEqual(t, g.FlattenedIndex(pa), g.FlattenedIndex(pb))
}

func TestCompile_ConstantsCollapseByPayload(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	ctx := tree.AddContext(model.ContextUpdate, "update")
	blk := tree.AddBlock(ctx, "b", model.SpawnerNone)
	c1 := pool.Constant(expr.Gradient{Alphas: []expr.AlphaKey{{Time: 0, Alpha: 1}}})
	c2 := pool.Constant(expr.Gradient{Alphas: []expr.AlphaKey{{Time: 0, Alpha: 1}}})
	c3 := pool.Constant(expr.Gradient{Alphas: []expr.AlphaKey{{Time: 1, Alpha: 1}}})
	tree.SetSlot(blk, "a", c1)
	tree.SetSlot(blk, "b", c2)
	tree.SetSlot(blk, "c", c3)

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	r1, _ := g.Reduce(c1)
	r2, _ := g.Reduce(c2)
	assert.Equal(t, r1, r2)
}

func TestCompile_StableAcrossRebuilds(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	ctx := tree.AddContext(model.ContextUpdate, "update")
	blk := tree.AddBlock(ctx, "b", model.SpawnerNone)
	speed := pool.Parameter(expr.Float(3))
	tree.AddParameter("speed", speed)
	tree.SetSlot(blk, "velocity", mustApply(t, pool, expr.OpCombine3, speed, pool.Constant(expr.Float(0)), speed))

	g1, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)
	g2, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)

	assert.Equal(t, g1.Expressions(), g2.Expressions())
	assert.Equal(t, g1.Descs(), g2.Descs())
}

func TestCompile_Errors(t *testing.T) {
	t.Run("dangling slot", func(t *testing.T) {
		tree := model.NewTree("fx")
		ctx := tree.AddContext(model.ContextUpdate, "update")
		tree.SetSlot(ctx, "x", expr.Handle(42))

		_, err := Compile(testContext(t), tree, expr.NewPool())
		require.ErrorIs(t, err, ErrDangling)
		assert.Contains(t, err.Error(), `slot "x"`)
	})

	t.Run("cycle", func(t *testing.T) {
		tree := model.NewTree("fx")
		pool := expr.NewPool()
		a := pool.Op(expr.OpNegate, expr.TypeFloat, expr.Handle(1))
		pool.Op(expr.OpNegate, expr.TypeFloat, a)
		ctx := tree.AddContext(model.ContextUpdate, "update")
		tree.SetSlot(ctx, "x", a)

		_, err := Compile(testContext(t), tree, pool)
		require.ErrorIs(t, err, ErrCycle)
	})
}

func TestBuildMapper(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	ctx := tree.AddContext(model.ContextUpdate, "update")
	b0 := tree.AddBlock(ctx, "a", model.SpawnerNone)
	b1 := tree.AddBlock(ctx, "b", model.SpawnerNone)
	shared := pool.Constant(expr.Float(1))
	dup := pool.Constant(expr.Float(1))
	other := pool.Constant(expr.Float(2))
	tree.SetSlot(ctx, "capacity", other)
	tree.SetSlot(b0, "Lifetime", shared)
	tree.SetSlot(b1, "Size", dup)
	tree.SetSlot(b1, "Unbound", expr.InvalidHandle)

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)
	m, err := g.BuildMapper(tree, ctx)
	require.NoError(t, err)

	assert.Equal(t, []expr.Handle{other, shared}, m.Expressions())
	assert.Equal(t, []Binding{{BlockID: StageBlockID, Name: "capacity"}}, m.Bindings(other))
	assert.Equal(t, []Binding{{BlockID: 0, Name: "Lifetime"}, {BlockID: 1, Name: "Size"}}, m.Bindings(shared))
}

func TestBuildMapper_NotCompiled(t *testing.T) {
	tree := model.NewTree("fx")
	pool := expr.NewPool()
	ctx := tree.AddContext(model.ContextUpdate, "update")

	g, err := Compile(testContext(t), tree, pool)
	require.NoError(t, err)

	// Bound after compilation.
	tree.SetSlot(ctx, "late", pool.Constant(expr.Float(1)))
	_, err = g.BuildMapper(tree, ctx)
	require.ErrorIs(t, err, ErrNotCompiled)

	_, err = g.BuildMapper(tree, tree.Root())
	require.Error(t, err)
}
