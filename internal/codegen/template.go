package codegen

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/specialistvlad/fxgraph/internal/model"
)

const computeSource = `// {{.Graph}} / {{.Stage}} ({{.Type}})
#pragma kernel CSMain

{{range .Uniforms}}{{.Type}} {{.Name}}; // expression {{.Index}}, block {{.Block}}
{{end}}
[numthreads(64, 1, 1)]
void CSMain(uint3 id : SV_DispatchThreadID)
{
{{range .Blocks}}	// {{.}}
{{end}}}
`

const shaderSource = `// {{.Graph}} / {{.Stage}} ({{.Type}})
Shader "Hidden/FX/{{.Graph}}/{{.Stage}}"
{
	SubShader
	{
		Pass
		{
			HLSLPROGRAM
			#pragma vertex VSMain
			#pragma fragment PSMain
{{range .Uniforms}}			{{.Type}} {{.Name}}; // expression {{.Index}}, block {{.Block}}
{{end}}{{range .Blocks}}			// {{.}}
{{end}}			ENDHLSL
		}
	}
}
`

var (
	computeTemplate = template.Must(template.New("compute").Parse(computeSource))
	shaderTemplate  = template.Must(template.New("shader").Parse(shaderSource))
)

type uniform struct {
	Name  string
	Type  string
	Index int
	Block int32
}

type stageView struct {
	Graph    string
	Stage    string
	Type     string
	Uniforms []uniform
	Blocks   []string
}

// TemplateGenerator renders simulation stages as compute kernels and output
// stages as shaders. Uniforms are declared for every bound expression.
type TemplateGenerator struct{}

// Generate implements Generator.
func (TemplateGenerator) Generate(ctx context.Context, req Request) (Output, error) {
	stage := req.Tree.Node(req.Stage)
	if stage == nil || stage.Kind != model.KindContext {
		return Output{}, fmt.Errorf("generate: node %d is not a stage", req.Stage)
	}

	view := stageView{
		Graph: req.Tree.Node(req.Tree.Root()).Name,
		Stage: stage.Name,
		Type:  stage.Context.String(),
	}
	for _, e := range req.Mapper.Expressions() {
		idx := req.Graph.FlattenedIndex(e)
		typ := req.Graph.Pool().MustGet(e).Type
		for _, b := range req.Mapper.Bindings(e) {
			view.Uniforms = append(view.Uniforms, uniform{
				Name:  identifier(b.Name),
				Type:  hlslType(typ.String()),
				Index: idx,
				Block: b.BlockID,
			})
		}
	}
	for _, b := range req.Tree.Children(req.Stage) {
		view.Blocks = append(view.Blocks, req.Tree.Node(b).Name)
	}

	tmpl, compute := computeTemplate, true
	if stage.Context == model.ContextOutput {
		tmpl, compute = shaderTemplate, false
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, view); err != nil {
		return Output{}, fmt.Errorf("failed to render stage %q: %w", stage.Name, err)
	}
	return Output{Text: sb.String(), Compute: compute}, nil
}

func identifier(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return "u_" + sb.String()
}

func hlslType(t string) string {
	switch t {
	case "transform":
		return "float4x4"
	case "texture2d":
		return "Texture2D"
	case "texture3d":
		return "Texture3D"
	case "curve", "gradient":
		return "float4"
	case "mesh":
		return "ByteAddressBuffer"
	}
	return t
}
