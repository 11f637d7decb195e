package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverridesDefaults(t *testing.T) {
	m, err := Parse([]byte(`
cache_root: build/fx
graphs:
  - assets/**/*.hcl
notify:
  url: http://localhost:7456
  namespace: /editor
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "build/fx", m.CacheRoot)
	assert.Equal(t, ".fxcache/subassets.db", m.StorePath)
	assert.Equal(t, []string{"assets/**/*.hcl"}, m.Graphs)
	assert.Equal(t, Notify{URL: "http://localhost:7456", Namespace: "/editor"}, m.Notify)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, m.Log)
	require.NoError(t, m.Validate())
}

func TestParse_EmptyIsDefault(t *testing.T) {
	m, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), m)
	require.NoError(t, m.Validate())
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("cache_dir: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_dir")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("store: data/fx.db\n"), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/fx.db", m.StorePath)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Model)
	}{
		{"empty cache root", func(m *Model) { m.CacheRoot = "" }},
		{"empty store", func(m *Model) { m.StorePath = "" }},
		{"no graphs", func(m *Model) { m.Graphs = nil }},
		{"bad pattern", func(m *Model) { m.Graphs = []string{"assets/[a-"} }},
		{"bad level", func(m *Model) { m.Log.Level = "trace" }},
		{"bad format", func(m *Model) { m.Log.Format = "xml" }},
		{"relative notify url", func(m *Model) { m.Notify.URL = "localhost/editor" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Default()
			tc.mutate(m)
			require.ErrorIs(t, m.Validate(), ErrInvalid)
		})
	}
}
