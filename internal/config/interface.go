package config

import (
	"context"

	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
)

// GraphLoader is the interface for a format-specific graph loader.
type GraphLoader interface {
	// Load reads the graph file at path and translates it into a node tree
	// whose slots reference expressions in the returned pool.
	Load(ctx context.Context, path string) (*model.Tree, *expr.Pool, error)
}
