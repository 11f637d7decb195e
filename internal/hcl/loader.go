package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
)

// Loader parses graph files. It holds no state between loads.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the graph file at path.
func (l *Loader) Load(ctx context.Context, path string) (*model.Tree, *expr.Pool, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return l.decode(ctx, path, file)
}

// LoadSource parses graph source held in memory. filename is used for
// diagnostics and as the tree's source path.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*model.Tree, *expr.Pool, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, file)
}

func (l *Loader) decode(ctx context.Context, path string, file *hcl.File) (*model.Tree, *expr.Pool, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)
	ctx = ctxlog.WithLogger(ctx, logger)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if len(root.Graphs) != 1 {
		return nil, nil, fmt.Errorf("%s: expected exactly one graph block, found %d", path, len(root.Graphs))
	}

	tree, pool, err := l.translateGraph(ctx, root.Graphs[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	tree.Source = model.NewFSInfo(path)

	logger.Debug("HCL graph loaded.",
		ctxlog.GraphKey, root.Graphs[0].Name,
		"contexts", len(tree.Contexts()),
		"parameters", len(tree.Parameters()),
		"expressions", pool.Len(),
	)
	return tree, pool, nil
}
