package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/config"
	"github.com/specialistvlad/fxgraph/internal/hcl"
	"github.com/specialistvlad/fxgraph/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The cache and
// store live in a fresh temporary directory. Logs are captured at debug
// level and printed at the end of the test when FXGRAPH_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg *config.Model) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	if cfg == nil {
		cfg = config.Default()
	}
	work := t.TempDir()
	cfg.CacheRoot = filepath.Join(work, "cache")
	cfg.StorePath = filepath.Join(work, "store", "subassets.db")
	cfg.Log.Level = "debug"
	cfg.Log.Format = "text"

	out := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(out, logBuffer, cfg, hcl.NewLoader())

	t.Cleanup(func() {
		if os.Getenv(testutil.LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
