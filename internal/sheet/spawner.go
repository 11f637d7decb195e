package sheet

import (
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/model"
)

// StartEventName is the event every spawner registration is linked to.
const StartEventName = "OnStart"

// SpawnerDesc describes one spawning behavior of a spawner stage.
// Callback is set if and only if Type is model.SpawnerCustomCallback.
type SpawnerDesc struct {
	Type     model.SpawnerType
	Callback string
}

// BuildSpawners maps the blocks of a spawner stage to descriptors in
// authored order.
func BuildSpawners(tree *model.Tree, stage model.Handle) ([]SpawnerDesc, error) {
	s := tree.Node(stage)
	if s == nil || s.Kind != model.KindContext || s.Context != model.ContextSpawner {
		return nil, fmt.Errorf("node %d is not a spawner stage: %w", stage, ErrSpawnerConfig)
	}

	children := tree.Children(stage)
	out := make([]SpawnerDesc, 0, len(children))
	for _, h := range children {
		b := tree.Node(h)
		switch {
		case b.Kind != model.KindBlock || b.Spawner == model.SpawnerNone:
			return nil, fmt.Errorf("stage %q: %s %q is not a spawner: %w", s.Name, b.Kind, b.Name, ErrSpawnerConfig)
		case b.Spawner == model.SpawnerCustomCallback && b.Callback == "":
			return nil, fmt.Errorf("stage %q: spawner %q of type %s requires a callback: %w", s.Name, b.Name, b.Spawner, ErrSpawnerConfig)
		case b.Spawner != model.SpawnerCustomCallback && b.Callback != "":
			return nil, fmt.Errorf("stage %q: spawner %q of type %s does not accept a callback: %w", s.Name, b.Name, b.Spawner, ErrSpawnerConfig)
		}
		out = append(out, SpawnerDesc{Type: b.Spawner, Callback: b.Callback})
	}
	return out, nil
}
