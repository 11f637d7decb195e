package app

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/codegen"
	"github.com/specialistvlad/fxgraph/internal/compiler"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
	"gopkg.in/yaml.v3"
)

type dumpDoc struct {
	Graph           string          `yaml:"graph"`
	Container       string          `yaml:"container"`
	Expressions     []dumpExpr      `yaml:"expressions"`
	Values          []dumpValue     `yaml:"values"`
	Semantics       []dumpSemantic  `yaml:"semantics"`
	Exposed         []dumpExposed   `yaml:"exposed,omitempty"`
	EventAttributes []dumpAttribute `yaml:"event_attributes,omitempty"`
	Spawners        []dumpSpawner   `yaml:"spawners,omitempty"`
	Artifacts       []dumpArtifact  `yaml:"artifacts,omitempty"`
}

type dumpExpr struct {
	Index    int     `yaml:"index"`
	Op       string  `yaml:"op"`
	Operands []int32 `yaml:"operands,flow,omitempty"`
}

type dumpValue struct {
	Index uint32         `yaml:"index"`
	Type  expr.ValueType `yaml:"type"`
	Value expr.Value     `yaml:"value"`
}

type dumpSemantic struct {
	Context uint32 `yaml:"context"`
	Block   int32  `yaml:"block"`
	Index   uint32 `yaml:"index"`
	Name    string `yaml:"name"`
}

type dumpExposed struct {
	Name  string `yaml:"name"`
	Index uint32 `yaml:"index"`
}

type dumpAttribute struct {
	Name string         `yaml:"name"`
	Type expr.ValueType `yaml:"type"`
}

type dumpSpawner struct {
	Context uint32         `yaml:"context"`
	Events  []string       `yaml:"events,flow"`
	Blocks  []dumpSpawnBlk `yaml:"blocks"`
}

type dumpSpawnBlk struct {
	Type     model.SpawnerType `yaml:"type"`
	Callback string            `yaml:"callback,omitempty"`
}

type dumpArtifact struct {
	Path   string       `yaml:"path"`
	Kind   codegen.Kind `yaml:"kind"`
	Digest string       `yaml:"digest"`
}

// Dump compiles the graph at path and writes its sheet, spawners and
// artifacts to the output as YAML.
func (a *App) Dump(ctx context.Context, path string) error {
	ctx = a.withLogger(ctx)

	u, err := a.open(ctx, path, compiler.Options{Cache: a.newCache()})
	if err != nil {
		return err
	}
	defer u.compiler.Close()

	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(newDumpDoc(u)); err != nil {
		return fmt.Errorf("failed to encode dump: %w", err)
	}
	return enc.Close()
}

func newDumpDoc(u *unit) dumpDoc {
	s := u.asset.Sheet()
	doc := dumpDoc{
		Graph:     u.tree.Node(u.tree.Root()).Name,
		Container: u.compiler.Container(),
	}

	for i, d := range s.Expressions {
		e := dumpExpr{Index: i, Op: d.Op.String()}
		for _, o := range d.Data {
			if o >= 0 {
				e.Operands = append(e.Operands, o)
			}
		}
		doc.Expressions = append(doc.Expressions, e)
	}
	for _, v := range s.Values {
		doc.Values = append(doc.Values, dumpValue{Index: v.ExpressionIndex, Type: v.Value.Kind(), Value: v.Value})
	}
	for _, sem := range s.Semantics {
		doc.Semantics = append(doc.Semantics, dumpSemantic{
			Context: sem.ContextID,
			Block:   sem.BlockID,
			Index:   sem.ExpressionIndex,
			Name:    sem.Name,
		})
	}
	for _, e := range s.Exposed {
		doc.Exposed = append(doc.Exposed, dumpExposed{Name: e.Name, Index: e.ExpressionIndex})
	}
	for _, attr := range s.EventAttributes {
		doc.EventAttributes = append(doc.EventAttributes, dumpAttribute{Name: attr.Name, Type: attr.Type})
	}
	for _, sp := range u.asset.Spawners() {
		ds := dumpSpawner{Context: sp.ContextIndex, Events: sp.Events}
		for _, d := range sp.Descs {
			ds.Blocks = append(ds.Blocks, dumpSpawnBlk{Type: d.Type, Callback: d.Callback})
		}
		doc.Spawners = append(doc.Spawners, ds)
	}
	for _, art := range u.asset.Artifacts() {
		doc.Artifacts = append(doc.Artifacts, dumpArtifact{
			Path:   art.Path,
			Kind:   art.Kind,
			Digest: hex.EncodeToString(art.Digest[:]),
		})
	}
	return doc
}
