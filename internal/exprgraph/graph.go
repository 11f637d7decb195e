package exprgraph

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
)

var (
	// ErrDangling is returned when a slot or operand references an
	// expression that does not exist in the pool.
	ErrDangling = errors.New("dangling expression reference")
	// ErrCycle is returned when an expression depends on itself.
	ErrCycle = errors.New("expression cycle")
)

var hashKey = []byte("fxgraph-reduction-key-0123456789")

// Desc is the evaluator record of one flattened expression.
type Desc struct {
	Op   expr.Op
	Data [expr.MaxOperands]int32
}

// Graph is the reduced, flattened expression list of one compiled tree.
type Graph struct {
	pool    *expr.Pool
	flat    []expr.Handle
	index   map[expr.Handle]int
	reduced map[expr.Handle]expr.Handle

	// operands holds the reduced operands of each canonical node.
	operands map[expr.Handle][expr.MaxOperands]expr.Handle
}

// Empty returns a valid graph with no expressions.
func Empty(pool *expr.Pool) *Graph {
	return &Graph{
		pool:     pool,
		index:    map[expr.Handle]int{},
		reduced:  map[expr.Handle]expr.Handle{},
		operands: map[expr.Handle][expr.MaxOperands]expr.Handle{},
	}
}

type reducer struct {
	g        *Graph
	buckets  map[uint64][]expr.Handle
	visiting map[expr.Handle]bool
	buf      []byte
}

// Compile reduces every expression reachable from the tree's root.
func Compile(ctx context.Context, tree *model.Tree, pool *expr.Pool) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	r := &reducer{
		g:        Empty(pool),
		buckets:  map[uint64][]expr.Handle{},
		visiting: map[expr.Handle]bool{},
	}

	for _, h := range tree.Dependencies() {
		n := tree.Node(h)
		for _, s := range tree.Slots(h) {
			if s.Expr == expr.InvalidHandle {
				continue
			}
			if _, err := r.reduce(s.Expr); err != nil {
				return nil, fmt.Errorf("%s %q slot %q: %w", n.Kind, n.Name, s.Name, err)
			}
		}
		if n.Kind == model.KindParameter && n.Output != expr.InvalidHandle {
			if _, err := r.reduce(n.Output); err != nil {
				return nil, fmt.Errorf("parameter %q output: %w", n.Name, err)
			}
		}
	}

	logger.Debug("Expressions reduced.", "original", len(r.g.reduced), "flattened", len(r.g.flat))
	return r.g, nil
}

func (r *reducer) reduce(h expr.Handle) (expr.Handle, error) {
	if c, ok := r.g.reduced[h]; ok {
		return c, nil
	}
	e, ok := r.g.pool.Get(h)
	if !ok {
		return expr.InvalidHandle, fmt.Errorf("expression %d: %w", h, ErrDangling)
	}
	if r.visiting[h] {
		return expr.InvalidHandle, fmt.Errorf("expression %d: %w", h, ErrCycle)
	}
	r.visiting[h] = true
	defer delete(r.visiting, h)

	var operands [expr.MaxOperands]expr.Handle
	for i, o := range e.Operands {
		operands[i] = expr.InvalidHandle
		if o == expr.InvalidHandle {
			continue
		}
		c, err := r.reduce(o)
		if err != nil {
			return expr.InvalidHandle, err
		}
		operands[i] = c
	}

	// Parameters are never merged.
	if e.Is(expr.FlagValue) && !e.Is(expr.FlagConstant) {
		return r.intern(h, operands), nil
	}

	key, err := r.hash(e, operands)
	if err != nil {
		return expr.InvalidHandle, err
	}
	for _, c := range r.buckets[key] {
		if r.same(c, e, operands) {
			r.g.reduced[h] = c
			return c, nil
		}
	}
	r.buckets[key] = append(r.buckets[key], h)
	return r.intern(h, operands), nil
}

// intern makes h canonical and appends it to the list.
func (r *reducer) intern(h expr.Handle, operands [expr.MaxOperands]expr.Handle) expr.Handle {
	r.g.reduced[h] = h
	r.g.operands[h] = operands
	r.g.index[h] = len(r.g.flat)
	r.g.flat = append(r.g.flat, h)
	return h
}

func (r *reducer) hash(e *expr.Expression, operands [expr.MaxOperands]expr.Handle) (uint64, error) {
	b := r.buf[:0]
	b = binary.LittleEndian.AppendUint32(b, uint32(e.Op))
	b = append(b, byte(e.Type), byte(e.Flags))
	for _, o := range operands {
		b = binary.LittleEndian.AppendUint32(b, uint32(o))
	}
	if e.Is(expr.FlagValue) {
		b = expr.AppendKey(b, e.Value)
	}
	r.buf = b

	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(b)
	return hash.Sum64(), err
}

// same confirms a hash match structurally.
func (r *reducer) same(canonical expr.Handle, e *expr.Expression, operands [expr.MaxOperands]expr.Handle) bool {
	c := r.g.pool.MustGet(canonical)
	if c.Op != e.Op || c.Type != e.Type || c.Flags != e.Flags || r.g.operands[canonical] != operands {
		return false
	}
	return !e.Is(expr.FlagValue) || expr.Equal(c.Value, e.Value)
}

// Pool is the arena the graph's handles point into.
func (g *Graph) Pool() *expr.Pool { return g.pool }

// Len is the length of the flattened list.
func (g *Graph) Len() int { return len(g.flat) }

// At returns the canonical handle at position i.
func (g *Graph) At(i int) expr.Handle { return g.flat[i] }

// Expressions returns a copy of the flattened list.
func (g *Graph) Expressions() []expr.Handle {
	return append([]expr.Handle(nil), g.flat...)
}

// FlattenedIndex returns the position of a canonical handle, or -1.
func (g *Graph) FlattenedIndex(canonical expr.Handle) int {
	if i, ok := g.index[canonical]; ok {
		return i
	}
	return -1
}

// Reduce maps any compiled handle to its canonical handle.
func (g *Graph) Reduce(original expr.Handle) (expr.Handle, bool) {
	c, ok := g.reduced[original]
	return c, ok
}

// ReducedIndex maps any compiled handle to its flattened position.
func (g *Graph) ReducedIndex(original expr.Handle) (int, bool) {
	c, ok := g.reduced[original]
	if !ok {
		return -1, false
	}
	return g.index[c], true
}

// Descs serializes the flattened list for the evaluator.
func (g *Graph) Descs() []Desc {
	out := make([]Desc, len(g.flat))
	for i, h := range g.flat {
		d := Desc{Op: g.pool.MustGet(h).Op}
		for j, o := range g.operands[h] {
			d.Data[j] = -1
			if o != expr.InvalidHandle {
				d.Data[j] = int32(g.index[o])
			}
		}
		out[i] = d
	}
	return out
}
