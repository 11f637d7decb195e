// This file translates the decoded HCL schema into a model.Tree.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// scope resolves references made by slot expressions.
type scope struct {
	pool   *expr.Pool
	params map[string]expr.Handle
}

func (l *Loader) translateGraph(ctx context.Context, g *Graph) (*model.Tree, *expr.Pool, error) {
	logger := ctxlog.FromContext(ctx).With(ctxlog.GraphKey, g.Name)
	logger.Debug("Translating HCL graph to tree.")

	tree := model.NewTree(g.Name)
	sc := &scope{pool: expr.NewPool(), params: make(map[string]expr.Handle)}

	for _, p := range g.Parameters {
		if _, dup := sc.params[p.Name]; dup {
			return nil, nil, fmt.Errorf("parameter %q declared twice", p.Name)
		}
		v, err := parameterValue(p)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		out := sc.pool.Parameter(v)
		h := tree.AddParameter(p.Name, out)
		if p.Exposed {
			tree.SetExposed(h, true, p.ExposedName)
		}
		sc.params[p.Name] = out
	}

	stages := make(map[string]model.Handle, len(g.Contexts))
	for _, c := range g.Contexts {
		if _, dup := stages[c.Name]; dup {
			return nil, nil, fmt.Errorf("context %q declared twice", c.Name)
		}
		h, err := l.translateContext(ctx, tree, sc, c)
		if err != nil {
			return nil, nil, fmt.Errorf("context %q: %w", c.Name, err)
		}
		stages[c.Name] = h
	}

	for _, c := range g.Contexts {
		for _, out := range c.Outputs {
			to, ok := stages[out]
			if !ok {
				return nil, nil, fmt.Errorf("context %q: output %q is not a context of this graph", c.Name, out)
			}
			if err := tree.Link(stages[c.Name], to); err != nil {
				return nil, nil, fmt.Errorf("context %q: %w", c.Name, err)
			}
		}
	}

	return tree, sc.pool, nil
}

func (l *Loader) translateContext(ctx context.Context, tree *model.Tree, sc *scope, c *Context) (model.Handle, error) {
	typ, err := model.ParseContextType(c.Type)
	if err != nil {
		return model.NoHandle, err
	}
	h := tree.AddContext(typ, c.Name)
	if c.Generator != "" {
		tree.SetGenerator(h, c.Generator)
	}

	for _, a := range c.Attributes {
		t, err := expr.ParseValueType(a.Type)
		if err != nil {
			return model.NoHandle, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		loc := model.LocationCurrent
		if a.Location != "" {
			if loc, err = model.ParseLocation(a.Location); err != nil {
				return model.NoHandle, fmt.Errorf("attribute %q: %w", a.Name, err)
			}
		}
		tree.AddAttribute(h, model.Attribute{Name: a.Name, Type: t, Location: loc})
	}

	if err := l.translateSlots(ctx, tree, sc, h, c.Slots); err != nil {
		return model.NoHandle, err
	}

	for _, b := range c.Blocks {
		spawner, err := model.ParseSpawnerType(b.Spawner)
		if err != nil {
			return model.NoHandle, fmt.Errorf("block %q: %w", b.Name, err)
		}
		bh := tree.AddBlock(h, b.Name, spawner)
		if b.Callback != "" {
			tree.SetSpawner(bh, spawner, b.Callback)
		}
		if err := l.translateSlots(ctx, tree, sc, bh, b.Slots); err != nil {
			return model.NoHandle, fmt.Errorf("block %q: %w", b.Name, err)
		}
	}
	return h, nil
}

// translateSlots binds every entry of a `slots = { ... }` object in written
// order.
func (l *Loader) translateSlots(ctx context.Context, tree *model.Tree, sc *scope, h model.Handle, slots hcl.Expression) error {
	if !isExprDefined(ctx, slots, "slots") {
		return nil
	}
	obj, ok := slots.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return fmt.Errorf("slots must be an object literal, got %T", slots)
	}
	for _, item := range obj.Items {
		key, diags := item.KeyExpr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("invalid slot name: %w", diags)
		}
		if key.Type() != cty.String || key.IsNull() {
			return fmt.Errorf("slot names must be strings, got %s", key.Type().FriendlyName())
		}
		name := key.AsString()
		e, err := sc.translate(item.ValueExpr)
		if err != nil {
			return fmt.Errorf("slot %q: %w", name, err)
		}
		tree.SetSlot(h, name, e)
	}
	return nil
}
