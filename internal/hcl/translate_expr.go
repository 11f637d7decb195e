// This file translates HCL slot expressions into expression pool entries.

package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/fxgraph/internal/expr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var binaryOps = map[*hclsyntax.Operation]expr.Op{
	hclsyntax.OpAdd:      expr.OpAdd,
	hclsyntax.OpSubtract: expr.OpSubtract,
	hclsyntax.OpMultiply: expr.OpMultiply,
	hclsyntax.OpDivide:   expr.OpDivide,
}

var combineOps = map[int]expr.Op{2: expr.OpCombine2, 3: expr.OpCombine3, 4: expr.OpCombine4}

func (sc *scope) translate(e hclsyntax.Expression) (expr.Handle, error) {
	switch v := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		f, err := number(v.Val)
		if err != nil {
			return expr.InvalidHandle, rangeErr(v.SrcRange, err)
		}
		return sc.pool.Constant(expr.Float(f)), nil

	case *hclsyntax.ParenthesesExpr:
		return sc.translate(v.Expression)

	case *hclsyntax.ScopeTraversalExpr:
		return sc.reference(v.Traversal)

	case *hclsyntax.UnaryOpExpr:
		if v.Op != hclsyntax.OpNegate {
			return expr.InvalidHandle, rangeErr(v.SrcRange, fmt.Errorf("unsupported unary operator"))
		}
		if lit, ok := v.Val.(*hclsyntax.LiteralValueExpr); ok {
			f, err := number(lit.Val)
			if err != nil {
				return expr.InvalidHandle, rangeErr(v.SrcRange, err)
			}
			return sc.pool.Constant(expr.Float(-f)), nil
		}
		operand, err := sc.translate(v.Val)
		if err != nil {
			return expr.InvalidHandle, err
		}
		return sc.apply(v.SrcRange, expr.OpNegate, operand)

	case *hclsyntax.BinaryOpExpr:
		op, ok := binaryOps[v.Op]
		if !ok {
			return expr.InvalidHandle, rangeErr(v.SrcRange, fmt.Errorf("unsupported binary operator"))
		}
		lhs, err := sc.translate(v.LHS)
		if err != nil {
			return expr.InvalidHandle, err
		}
		rhs, err := sc.translate(v.RHS)
		if err != nil {
			return expr.InvalidHandle, err
		}
		return sc.apply(v.SrcRange, op, lhs, rhs)

	case *hclsyntax.TupleConsExpr:
		return sc.tuple(v)

	case *hclsyntax.FunctionCallExpr:
		return sc.call(v)
	}
	return expr.InvalidHandle, rangeErr(e.Range(), fmt.Errorf("unsupported expression %T", e))
}

func (sc *scope) reference(t hcl.Traversal) (expr.Handle, error) {
	if len(t) != 2 || t.RootName() != "param" {
		return expr.InvalidHandle, rangeErr(t.SourceRange(), fmt.Errorf("unknown reference, expected param.<name>"))
	}
	attr, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return expr.InvalidHandle, rangeErr(t.SourceRange(), fmt.Errorf("unknown reference, expected param.<name>"))
	}
	h, ok := sc.params[attr.Name]
	if !ok {
		return expr.InvalidHandle, rangeErr(t.SourceRange(), fmt.Errorf("unknown parameter %q", attr.Name))
	}
	return h, nil
}

// tuple turns [x, y, ...] into a vector constant when every element is a
// number literal, and into a float2/3/4 combine otherwise.
func (sc *scope) tuple(v *hclsyntax.TupleConsExpr) (expr.Handle, error) {
	op, ok := combineOps[len(v.Exprs)]
	if !ok {
		return expr.InvalidHandle, rangeErr(v.SrcRange, fmt.Errorf("vectors have 2 to 4 components, got %d", len(v.Exprs)))
	}

	if val, diags := v.Value(nil); !diags.HasErrors() && val.IsWhollyKnown() {
		var fs []float32
		if conv, err := convert.Convert(val, cty.List(cty.Number)); err == nil {
			if err := gocty.FromCtyValue(conv, &fs); err == nil {
				return sc.pool.Constant(vector(fs)), nil
			}
		}
	}

	operands := make([]expr.Handle, len(v.Exprs))
	for i, e := range v.Exprs {
		h, err := sc.translate(e)
		if err != nil {
			return expr.InvalidHandle, err
		}
		operands[i] = h
	}
	return sc.apply(v.SrcRange, op, operands...)
}

func (sc *scope) call(v *hclsyntax.FunctionCallExpr) (expr.Handle, error) {
	switch v.Name {
	case "texture2d", "texture3d", "mesh":
		if len(v.Args) != 1 {
			return expr.InvalidHandle, rangeErr(v.NameRange, fmt.Errorf("%s takes one asset reference", v.Name))
		}
		val, diags := v.Args[0].Value(nil)
		if diags.HasErrors() {
			return expr.InvalidHandle, diags
		}
		var ref string
		if err := gocty.FromCtyValue(val, &ref); err != nil {
			return expr.InvalidHandle, rangeErr(v.NameRange, fmt.Errorf("%s: %w", v.Name, err))
		}
		switch v.Name {
		case "texture2d":
			return sc.pool.Constant(expr.Texture2D{Ref: ref}), nil
		case "texture3d":
			return sc.pool.Constant(expr.Texture3D{Ref: ref}), nil
		default:
			return sc.pool.Constant(expr.Mesh{Ref: ref}), nil
		}
	}

	op, ok := expr.LookupFunc(v.Name)
	if !ok {
		return expr.InvalidHandle, rangeErr(v.NameRange, fmt.Errorf("unknown function %q", v.Name))
	}
	operands := make([]expr.Handle, len(v.Args))
	for i, a := range v.Args {
		h, err := sc.translate(a)
		if err != nil {
			return expr.InvalidHandle, err
		}
		operands[i] = h
	}
	return sc.apply(v.NameRange, op, operands...)
}

func (sc *scope) apply(r hcl.Range, op expr.Op, operands ...expr.Handle) (expr.Handle, error) {
	h, err := sc.pool.Apply(op, operands...)
	if err != nil {
		return expr.InvalidHandle, rangeErr(r, err)
	}
	return h, nil
}

func number(v cty.Value) (float32, error) {
	if v.IsNull() || v.Type() != cty.Number {
		return 0, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	var f float32
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func vector(fs []float32) expr.Value {
	switch len(fs) {
	case 2:
		return expr.Float2{fs[0], fs[1]}
	case 3:
		return expr.Float3{fs[0], fs[1], fs[2]}
	}
	return expr.Float4{fs[0], fs[1], fs[2], fs[3]}
}

func rangeErr(r hcl.Range, err error) error {
	return fmt.Errorf("%s: %w", r.String(), err)
}
