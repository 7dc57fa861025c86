//go:build basic

// Package integration contains integration tests for chartpress.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChartpressVersion verifies the binary starts and reports its version.
func TestChartpressVersion(t *testing.T) {
	output, err := runChartpressCommand(t, ".", "version")
	require.NoError(t, err)
	assert.Contains(t, output, "chartpress CLI")
	assert.Contains(t, output, "Version:")
}

// TestChartpressLedgerUpdate drives the ledger file tooling end to end.
func TestChartpressLedgerUpdate(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(ledgerPath, []byte("# Charts\n"), 0o644))

	// First release creates the entry
	_, err := runChartpressCommand(t, dir,
		"ledger", "update", ledgerPath, "v1.0.0",
		"--uri", "https://example.com/releases/v1.0.0")
	require.NoError(t, err)

	data, err := os.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "* [v1.0.0](https://example.com/releases/v1.0.0)")

	// Second release lands above the first
	_, err = runChartpressCommand(t, dir,
		"ledger", "update", ledgerPath, "v1.1.0",
		"--uri", "https://example.com/releases/v1.1.0")
	require.NoError(t, err)

	data, err = os.ReadFile(ledgerPath)
	require.NoError(t, err)
	content := string(data)
	assert.Less(t,
		strings.Index(content, "[v1.1.0]"), strings.Index(content, "[v1.0.0]"),
		"newer release should be listed first")

	// Re-releasing a tag must not duplicate it
	_, err = runChartpressCommand(t, dir,
		"ledger", "update", ledgerPath, "v1.0.0",
		"--uri", "https://example.com/releases/v1.0.0-rebuilt")
	require.NoError(t, err)

	data, err = os.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "[v1.0.0]"))
	assert.Contains(t, string(data), "v1.0.0-rebuilt")
}

// TestChartpressLedgerPreviewRequiresLink checks flag validation.
func TestChartpressLedgerPreviewRequiresLink(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(ledgerPath, []byte("# Charts\n"), 0o644))

	output, err := runChartpressCommand(t, dir,
		"ledger", "preview", "v1.0.0", "--document-file", ledgerPath)
	require.Error(t, err)
	assert.Contains(t, output, "--uri or --target-repo")
}

// TestChartpressHistorySQLite exercises the history store through the CLI.
func TestChartpressHistorySQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // Keep the default SQLite db inside the test sandbox

	_, err := runChartpressCommand(t, dir, "history", "clear")
	require.NoError(t, err)

	output, err := runChartpressCommand(t, dir, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "History Backend: sqlite")
	assert.Contains(t, output, "Total Runs: 0")

	_, err = runChartpressCommand(t, dir, "history", "migrate")
	require.NoError(t, err)
}
