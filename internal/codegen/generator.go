package codegen

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/exprgraph"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/viant/afs"
)

// Request is the input of one stage's code generation.
type Request struct {
	// Index is the sequence number of the request within one rebuild. It
	// determines the artifact file name.
	Index     int
	Stage     model.Handle
	Generator string
	Tree      *model.Tree
	Graph     *exprgraph.Graph
	Mapper    *exprgraph.Mapper
}

// Output is generated source text and its kind.
type Output struct {
	Text    string
	Compute bool
}

// Generator produces the source of one stage.
type Generator interface {
	Generate(ctx context.Context, req Request) (Output, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Output, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Output, error) {
	return f(ctx, req)
}

// Importer turns a written cache file into an artifact.
type Importer interface {
	Import(ctx context.Context, path string, kind Kind) (*Artifact, error)
}

// FileImporter imports artifacts by reading the cache file back.
type FileImporter struct {
	fs afs.Service
}

// NewFileImporter returns an importer reading through fs.
func NewFileImporter(fs afs.Service) *FileImporter {
	return &FileImporter{fs: fs}
}

// Import reads the file at path and wraps it in a new artifact.
func (i *FileImporter) Import(ctx context.Context, path string, kind Kind) (*Artifact, error) {
	data, err := i.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return NewArtifact(path, kind, string(data)), nil
}
