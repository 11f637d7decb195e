package sheet

import "github.com/specialistvlad/fxgraph/internal/exprgraph"

// Sheet is everything the runtime evaluator needs from one rebuild.
type Sheet struct {
	Expressions     []exprgraph.Desc
	Values          []ValueDesc
	Semantics       []SemanticDesc
	Exposed         []ExposedDesc
	EventAttributes []EventAttributeDesc
}
