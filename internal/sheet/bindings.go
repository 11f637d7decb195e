package sheet

import (
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/exprgraph"
	"github.com/specialistvlad/fxgraph/internal/model"
)

// ContextSlotBlockID is the block id of bindings made on a stage itself.
const ContextSlotBlockID = exprgraph.StageBlockID

// SemanticDesc binds a flattened expression to a named input of a block.
type SemanticDesc struct {
	ContextID       uint32
	BlockID         int32
	ExpressionIndex uint32
	Name            string
}

// ExposedDesc publishes a parameter to the runtime.
type ExposedDesc struct {
	Name            string
	ExpressionIndex uint32
}

// EventAttributeDesc is an attribute carried by spawn events.
type EventAttributeDesc struct {
	Name string
	Type expr.ValueType
}

// BuildSemantics emits one descriptor per (expression, block) use in every
// non-spawner stage. mappers may hold prebuilt stage tables; missing ones are
// built from g.
func BuildSemantics(tree *model.Tree, g *exprgraph.Graph, mappers map[model.Handle]*exprgraph.Mapper) ([]SemanticDesc, error) {
	var out []SemanticDesc
	for _, stage := range tree.Contexts() {
		if tree.Node(stage).Context == model.ContextSpawner {
			continue
		}
		m, ok := mappers[stage]
		if !ok {
			var err error
			if m, err = g.BuildMapper(tree, stage); err != nil {
				return nil, fmt.Errorf("stage %q: %v: %w", tree.Node(stage).Name, err, ErrInconsistent)
			}
		}
		contextID := uint32(tree.IndexOf(stage))
		for _, e := range m.Expressions() {
			idx := g.FlattenedIndex(e)
			for _, b := range m.Bindings(e) {
				if idx < 0 {
					return nil, fmt.Errorf("stage %q: mapped expression %q not in flattened graph: %w", tree.Node(stage).Name, b.Name, ErrInconsistent)
				}
				out = append(out, SemanticDesc{
					ContextID:       contextID,
					BlockID:         b.BlockID,
					ExpressionIndex: uint32(idx),
					Name:            b.Name,
				})
			}
		}
	}
	return out, nil
}

// BuildExposed lists exposed parameters whose output resolves in g.
// Parameters without a resolvable output are skipped.
func BuildExposed(tree *model.Tree, g *exprgraph.Graph) []ExposedDesc {
	var out []ExposedDesc
	for _, h := range tree.Parameters() {
		p := tree.Node(h)
		if !p.Exposed || p.Output == expr.InvalidHandle {
			continue
		}
		idx, ok := g.ReducedIndex(p.Output)
		if !ok {
			continue
		}
		out = append(out, ExposedDesc{Name: p.ExposedName, ExpressionIndex: uint32(idx)})
	}
	return out
}

// BuildEventAttributes collects, for every spawner stage, the source-located
// attributes of each stage it feeds.
func BuildEventAttributes(tree *model.Tree) []EventAttributeDesc {
	var out []EventAttributeDesc
	for _, stage := range tree.Contexts() {
		if tree.Node(stage).Context != model.ContextSpawner {
			continue
		}
		for _, linked := range tree.Outputs(stage) {
			for _, a := range tree.Node(linked).Attributes {
				if a.Location == model.LocationSource {
					out = append(out, EventAttributeDesc{Name: a.Name, Type: a.Type})
				}
			}
		}
	}
	return out
}
