package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(buf *bytes.Buffer) context.Context {
	return WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	ctx := With(newContext(&buf), "stage", "update")

	FromContext(ctx).Info("Compiled.")
	assert.Contains(t, buf.String(), "stage=update")
}

func TestWithGraph_TagsOnce(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithGraph(newContext(&buf), "fx/smoke.hcl")
	same := WithGraph(ctx, "fx/smoke.hcl")
	require.Same(t, ctx, same)

	FromContext(same).Info("Rebuild finished.")
	assert.Equal(t, 1, strings.Count(buf.String(), "graph=fx/smoke.hcl"))
}

func TestWithGraph_Retag(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithGraph(WithGraph(newContext(&buf), "a.hcl"), "b.hcl")
	FromContext(WithGraph(ctx, "b.hcl")).Info("Saved.")

	assert.Equal(t, 1, strings.Count(buf.String(), "graph=b.hcl"))
}

func TestFromContext_PanicsWithoutLogger(t *testing.T) {
	assert.Panics(t, func() { FromContext(context.Background()) })
}
