package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/hcl"
	"github.com/specialistvlad/fxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graph = `
graph "sparks" {
  context "update" {
    type      = "update"
    generator = "template"

    block "drag" {
      slots = { Drag = 0.1 }
    }
  }
}
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut, hcl.NewLoader())
	return out.String(), errOut.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "compile")
	assert.Contains(t, out, "dump")
}

func TestExecute_UsageErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	exitErr := requireExitCode(t, func() error { _, _, err := execute(t, "compile", "--nope"); return err }(), 2)
	assert.Contains(t, exitErr.Message, "unknown flag: --nope")

	exitErr = requireExitCode(t, func() error { _, _, err := execute(t, "compile", "--log-level", "trace"); return err }(), 2)
	assert.Contains(t, exitErr.Message, "log level")

	exitErr = requireExitCode(t, func() error { _, _, err := execute(t, "compile", "--config", "missing.yaml"); return err }(), 2)
	assert.Contains(t, exitErr.Message, "missing.yaml")

	_, _, err := execute(t, "dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestExecute_CompileWithProjectConfig(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"fxgraph.yaml": "cache_root: build/cache\ngraphs: [\"fx/**/*.hcl\"]\nlog:\n  format: text\n",
		"fx/sparks.hcl": graph,
		// Not matched by the configured pattern.
		"sparks.hcl": "not a graph",
	})
	t.Chdir(dir)

	out, logs, err := execute(t, "compile")
	require.NoError(t, err)
	assert.Contains(t, out, "compiled fx/sparks.hcl: ")
	assert.Contains(t, logs, "Compilation finished.")

	_, err = os.Stat(filepath.Join(dir, "build", "cache", "fx", "sparks", "Temp_a_0.compute"))
	require.NoError(t, err)
}

func TestExecute_FlagsOverrideConfig(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"sparks.hcl": graph})
	t.Chdir(dir)

	out, _, err := execute(t, "save", "--cache-root", "out", "--store", "db/fx.db", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "saved sparks.hcl: ")

	_, err = os.Stat(filepath.Join(dir, "db", "fx.db"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out", "sparks", "Temp_a_0.compute"))
	require.NoError(t, err)
}

func TestExecute_Dump(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"sparks.hcl": graph})
	t.Chdir(dir)

	out, _, err := execute(t, "dump", "sparks.hcl", "--cache-root", "out")
	require.NoError(t, err)
	assert.Contains(t, out, "graph: sparks")
	assert.Contains(t, out, "name: Drag")
}
