package hcl

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
)

// isExprDefined reports whether an optional attribute was written in the
// source. gohcl fills omitted hcl.Expression fields with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(ctx context.Context, e hcl.Expression, attrName string) bool {
	if e == nil {
		return false
	}
	r := e.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checked optional attribute.", "attribute", attrName, "range", r.String(), "defined", defined)
	return defined
}
