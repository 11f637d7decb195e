package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that some line of the captured log output holds msg
// and every one of attrs (for example "graph=fx/smoke.hcl").
func AssertLogged(t *testing.T, logs string, msg string, attrs ...string) {
	t.Helper()

	for _, line := range strings.Split(logs, "\n") {
		if !strings.Contains(line, msg) {
			continue
		}
		found := true
		for _, a := range attrs {
			if !strings.Contains(line, a) {
				found = false
				break
			}
		}
		if found {
			return
		}
	}
	require.Failf(t, "log line not found", "expected a line with %q and %v in:\n%s", msg, attrs, logs)
}

// AssertLogOrder checks that the first occurrence of before precedes the
// first occurrence of after.
func AssertLogOrder(t *testing.T, logs string, before, after string) {
	t.Helper()

	i := strings.Index(logs, before)
	j := strings.Index(logs, after)
	require.NotEqual(t, -1, i, "expected %q in log output", before)
	require.NotEqual(t, -1, j, "expected %q in log output", after)
	require.Less(t, i, j, "expected %q to be logged before %q", before, after)
}
