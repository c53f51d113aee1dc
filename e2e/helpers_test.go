package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testCase holds an isolated config and state directory
type testCase struct {
	t         *testing.T
	dir       string
	storePath string
}

// newTestCase creates a test case with its own directories
func newTestCase(t *testing.T) *testCase {
	t.Helper()

	dir := t.TempDir()
	return &testCase{
		t:         t,
		dir:       dir,
		storePath: filepath.Join(dir, "state", "store.json"),
	}
}

// run executes the binary and returns stdout, stderr and the exit code
func (tc *testCase) run(args ...string) (stdout, stderr string, exitCode int) {
	tc.t.Helper()

	cmd := exec.Command(env.binaryPath, append([]string{"--no-color"}, args...)...)
	cmd.Dir = tc.dir
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tc.dir, "config"),
		"PWFORGE_CONFIG=",
		"PWFORGE_HISTORY_FILE="+tc.storePath,
	)

	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	err := cmd.Run()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return out.String(), errOut.String(), exitError.ExitCode()
		}
		tc.t.Fatalf("Failed to run pwforge: %v\nStderr: %s", err, errOut.String())
	}

	return out.String(), errOut.String(), 0
}

// generate runs the binary and returns the generated password
func (tc *testCase) generate(args ...string) string {
	tc.t.Helper()

	stdout, stderr, code := tc.run(args...)
	require.Equal(tc.t, 0, code, "stderr: %s", stderr)

	return strings.SplitN(stdout, "\n", 2)[0]
}

// writeConfig writes a config file and returns its path
func (tc *testCase) writeConfig(content string) string {
	tc.t.Helper()

	path := filepath.Join(tc.dir, "config.yaml")
	require.NoError(tc.t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// historyLines returns the entries printed by --history
func (tc *testCase) historyLines() []string {
	tc.t.Helper()

	stdout, _, code := tc.run("--history")
	require.Equal(tc.t, 0, code)

	var entries []string
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 3 && !strings.HasPrefix(line, "History") {
			entries = append(entries, fields[1])
		}
	}
	return entries
}

// countQuarantined counts corrupt store copies next to the store
func (tc *testCase) countQuarantined() int {
	tc.t.Helper()

	entries, err := os.ReadDir(filepath.Dir(tc.storePath))
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), filepath.Base(tc.storePath)+".corrupt_") {
			count++
		}
	}
	return count
}
