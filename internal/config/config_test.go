package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clearspend.yaml")

	cfg := Default()
	cfg.Income.Keyword = "PAYROLL"
	cfg.FixedAmounts["Housing"] = 2150

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Categories, got.Categories)
	assert.Equal(t, cfg.Ratios, got.Ratios)
	assert.Equal(t, "PAYROLL", got.Income.Keyword)
	assert.Equal(t, 2150.0, got.FixedAmounts["Housing"])
}

func TestValidateUnknownGroup(t *testing.T) {
	cfg := Default()
	cfg.Groups["luxuries"] = []string{"Dining"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown group "luxuries"`)
}

func TestValidateUnknownRatioKey(t *testing.T) {
	cfg := Default()
	cfg.Ratios["fun"] = 0.1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown ratio key "fun"`)
}

func TestValidateUndeclaredCategory(t *testing.T) {
	cfg := Default()
	cfg.Groups[GroupWants] = append(cfg.Groups[GroupWants], "Gadgets")
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared category "Gadgets"`)
}

func TestValidateRatioRange(t *testing.T) {
	cfg := Default()
	cfg.Ratios[RatioWants] = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidateFixedAmountCategory(t *testing.T) {
	cfg := Default()
	cfg.FixedAmounts["Yachts"] = 100
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared category "Yachts"`)
}

func TestRatiosNeedNotSumToOne(t *testing.T) {
	cfg := Default()
	cfg.Ratios[RatioSavings] = 0.05
	assert.NoError(t, cfg.Validate())
}

func TestGroupFor(t *testing.T) {
	cfg := Default()

	g, ok := cfg.GroupFor("Groceries")
	assert.True(t, ok)
	assert.Equal(t, GroupNeeds, g)

	g, ok = cfg.GroupFor("Dining")
	assert.True(t, ok)
	assert.Equal(t, GroupWants, g)

	_, ok = cfg.GroupFor("Crypto")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clearspend.yaml")
	bad := "categories: [A]\ngroups:\n  mystery: [A]\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
