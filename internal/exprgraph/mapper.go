package exprgraph

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
)

// StageBlockID is the block id reported for slots bound on the stage itself.
const StageBlockID = -1

// ErrNotCompiled is returned when a binding references an expression that
// the graph did not reduce.
var ErrNotCompiled = errors.New("expression not in compiled graph")

// Binding is one use of an expression by a block of a stage.
type Binding struct {
	BlockID int32
	Name    string
}

// Mapper is the binding table of one stage: canonical expressions, in first
// use order, with every block slot that consumes them.
type Mapper struct {
	order    []expr.Handle
	bindings map[expr.Handle][]Binding
}

// BuildMapper collects the slot bindings of stage and of its blocks.
func (g *Graph) BuildMapper(tree *model.Tree, stage model.Handle) (*Mapper, error) {
	n := tree.Node(stage)
	if n == nil || n.Kind != model.KindContext {
		return nil, fmt.Errorf("build mapper: node %d is not a context", stage)
	}
	m := &Mapper{bindings: map[expr.Handle][]Binding{}}

	if err := m.collect(g, tree, stage, StageBlockID); err != nil {
		return nil, err
	}
	for i, b := range tree.Children(stage) {
		if err := m.collect(g, tree, b, int32(i)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mapper) collect(g *Graph, tree *model.Tree, h model.Handle, blockID int32) error {
	for _, s := range tree.Slots(h) {
		if s.Expr == expr.InvalidHandle {
			continue
		}
		c, ok := g.Reduce(s.Expr)
		if !ok {
			return fmt.Errorf("%q slot %q: expression %d: %w", tree.Node(h).Name, s.Name, s.Expr, ErrNotCompiled)
		}
		if _, seen := m.bindings[c]; !seen {
			m.order = append(m.order, c)
		}
		m.bindings[c] = append(m.bindings[c], Binding{BlockID: blockID, Name: s.Name})
	}
	return nil
}

// Expressions returns the bound canonical expressions in first use order.
func (m *Mapper) Expressions() []expr.Handle {
	return append([]expr.Handle(nil), m.order...)
}

// Bindings returns the uses of a canonical expression.
func (m *Mapper) Bindings(canonical expr.Handle) []Binding {
	return append([]Binding(nil), m.bindings[canonical]...)
}

// Len is the number of distinct bound expressions.
func (m *Mapper) Len() int { return len(m.order) }
