package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNoClasses verifies an empty class selection warns and records nothing.
func TestNoClasses(t *testing.T) {
	tc := newTestCase(t)

	stdout, _, exitCode := tc.run("--upper=false", "--lower=false", "--numbers=false", "--symbols=false")

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "warning: no character classes selected")
	assert.Empty(t, tc.historyLines())
}

// TestInvalidLength verifies an out-of-range length fails.
func TestInvalidLength(t *testing.T) {
	tc := newTestCase(t)

	_, stderr, exitCode := tc.run("-l", "0")

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "invalid password length")
}

// TestUnknownClass verifies an unknown --classes name fails before generating.
func TestUnknownClass(t *testing.T) {
	tc := newTestCase(t)

	stdout, stderr, exitCode := tc.run("--classes", "upper,emoji")

	assert.Equal(t, 1, exitCode)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unknown character class")
}

// TestClearHistoryWithNoHistory verifies the conflicting pair is rejected
// and the saved history is kept.
func TestClearHistoryWithNoHistory(t *testing.T) {
	tc := newTestCase(t)
	tc.generate()

	_, stderr, exitCode := tc.run("--clear-history", "--no-history")

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "cannot be combined")
	assert.Len(t, tc.historyLines(), 1)
}

// TestUnwritableStore verifies a history write failure is surfaced while
// the password is still printed.
func TestUnwritableStore(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	tc := newTestCase(t)
	stateDir := filepath.Dir(tc.storePath)
	require.NoError(t, os.MkdirAll(stateDir, 0500))
	t.Cleanup(func() { _ = os.Chmod(stateDir, 0700) })

	stdout, stderr, exitCode := tc.run()

	assert.Equal(t, 1, exitCode)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stderr, "history could not be saved")
}

// TestInvalidConfig verifies config validation errors fail the run.
func TestInvalidConfig(t *testing.T) {
	tc := newTestCase(t)
	configPath := tc.writeConfig(`
defaults:
  length: -5
`)

	_, stderr, exitCode := tc.run("--config", configPath)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "failed to load configuration")
}
