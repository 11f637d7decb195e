package main

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/cli"
	"github.com/specialistvlad/fxgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"compile", "--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_LoadError(t *testing.T) {
	t.Chdir(testutil.WriteFiles(t, map[string]string{
		"main.hcl": `
graph "broken" {
  context "a" {
    // Missing closing brace here
`,
	}))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"compile", "--cache-root", t.TempDir()})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load graph main.hcl")
}
