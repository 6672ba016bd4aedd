package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend-dev/clearspend/internal/config"
)

// run executes the CLI in-process and returns combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// workspace creates an initialized directory with the testdata statements
// copied into its import dir, and returns flags pointing at it.
func workspace(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir))

	names := []string{
		"checking_2026-01.csv",
		"credit_2026-01.csv",
		"savings_2026-01.csv",
		"positions_2026-01-31.csv",
	}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("../../testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "import", name), data, 0o644))
	}

	// keep the store and audit log inside the temp dir
	cfgPath := filepath.Join(dir, "clearspend.yaml")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Store.DBPath = filepath.Join(dir, "data", "clearspend.db")
	cfg.Store.AuditLogPath = filepath.Join(dir, "logs", "reclass-log.csv")
	require.NoError(t, config.Save(cfgPath, cfg))

	return []string{
		"--config", cfgPath,
		"--import-dir", filepath.Join(dir, "import"),
	}
}

func TestInitCreatesWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir))

	for _, d := range []string{"import", "data", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, "clearspend.yaml"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestInitReportsWorkspacePath(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized clearspend workspace at")
	assert.Contains(t, out, dir)
}

func TestInitRefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir))
	assert.Error(t, runInit(io.Discard, dir))
}

func TestLoadCommand(t *testing.T) {
	flags := workspace(t)
	out, err := run(t, append([]string{"load"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Loaded 10 transactions across 1 months")
	assert.Contains(t, out, "Transfer pairs matched: 1")
	assert.Contains(t, out, "Positions: 2")
}

func TestSummaryCommand(t *testing.T) {
	flags := workspace(t)
	out, err := run(t, append([]string{"summary"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "2026-01")
	assert.Contains(t, out, "5000.00")
	assert.Contains(t, out, "238.00")
	assert.Contains(t, out, "Interest earned")
	assert.Contains(t, out, "Portfolio value: 37012.50")
}

func TestBudgetCommand(t *testing.T) {
	flags := workspace(t)
	out, err := run(t, append([]string{"budget", "--month", "2026-01"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Budget for 2026-01")
	assert.Contains(t, out, "needs")
	assert.Contains(t, out, "wants")
	assert.Contains(t, out, "savings")
	assert.Contains(t, out, "Total spent: 238.00")
}

func TestMerchantsCommand(t *testing.T) {
	flags := workspace(t)
	out, err := run(t, append([]string{"merchants", "--top", "3"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "amazon com")
	assert.Contains(t, out, "trader joe's")
}

func TestTransactionsCommandFilters(t *testing.T) {
	flags := workspace(t)
	out, err := run(t, append([]string{"transactions", "--category", "Groceries"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "TRADER JOE'S #510")
	assert.Contains(t, out, "SAFEWAY #1121")
	assert.NotContains(t, out, "NETFLIX.COM")
}

func TestReclassifyCommandPersists(t *testing.T) {
	flags := workspace(t)
	key := "2026-01-28|CVS PHARMACY #1234|25.34|0.00"

	out, err := run(t, append([]string{"reclassify", key, "Insurance"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Reclassified")

	// the override survives a fresh session
	out, err = run(t, append([]string{"transactions", "--category", "Insurance"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "CVS PHARMACY #1234")
}

func TestReclassifyRejectsMalformedKey(t *testing.T) {
	flags := workspace(t)
	_, err := run(t, append([]string{"reclassify", "not-a-key", "Dining"}, flags...)...)
	assert.Error(t, err)
}
