package subasset

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	id, kind, name string
}

func (o *fakeObject) ObjectID() string               { return o.id }
func (o *fakeObject) ObjectKind() string             { return o.kind }
func (o *fakeObject) ObjectName() string             { return o.name }
func (o *fakeObject) SetObjectName(name string)      { o.name = name }
func (o *fakeObject) ObjectPayload() ([]byte, error) { return []byte(o.id), nil }

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestSync_Converges(t *testing.T) {
	ctx, _ := testutil.Context(t)
	storage := NewMemoryStorage()
	require.NoError(t, storage.Register(ctx, "fx.hcl"))
	syncer := NewSynchronizer(storage)

	a := &fakeObject{id: "a", kind: "FXContext"}
	b := &fakeObject{id: "b", kind: "Shader"}

	modified, err := syncer.Sync(ctx, "fx.hcl", []Object{a, b, a})
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, "FXContext", a.ObjectName())
	assert.Equal(t, "Shader", b.ObjectName())

	records, err := storage.LoadAll(ctx, "fx.hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"fx.hcl", "a", "b"}, ids(records))

	modified, err = syncer.Sync(ctx, "fx.hcl", []Object{a, b})
	require.NoError(t, err)
	assert.False(t, modified, "second pass with the same set must not modify storage")

	c := &fakeObject{id: "c", kind: "ComputeShader"}
	modified, err = syncer.Sync(ctx, "fx.hcl", []Object{b, c})
	require.NoError(t, err)
	assert.True(t, modified)

	records, err = storage.LoadAll(ctx, "fx.hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"fx.hcl", "b", "c"}, ids(records), "the container record is never removed")
}

func TestSync_NotPersistent(t *testing.T) {
	ctx, _ := testutil.Context(t)
	storage := NewMemoryStorage()

	modified, err := NewSynchronizer(storage).Sync(ctx, "scratch.hcl", []Object{&fakeObject{id: "a"}})
	require.NoError(t, err)
	assert.False(t, modified)
}

type failingStorage struct {
	*MemoryStorage
}

func (failingStorage) Add(context.Context, string, Object) error { return errors.New("disk full") }

func TestSync_PropagatesStorageErrors(t *testing.T) {
	ctx, _ := testutil.Context(t)
	storage := failingStorage{NewMemoryStorage()}
	require.NoError(t, storage.Register(ctx, "fx.hcl"))

	_, err := NewSynchronizer(storage).Sync(ctx, "fx.hcl", []Object{&fakeObject{id: "a", kind: "X"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
