package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.FiscalYear = "FY21"
	cfg.OnError = PolicySkipLine
	cfg.Extensions = []string{".txt", ".rpt"}
	cfg.ErrorReport = "errors.csv"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "FY21", got.FiscalYear)
	assert.Equal(t, PolicySkipLine, got.OnError)
	assert.Equal(t, []string{".txt", ".rpt"}, got.Extensions)
	assert.Equal(t, "errors.csv", got.ErrorReport)
	assert.Equal(t, "info", got.LogLevel)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, PolicyAbort, cfg.OnError)
	assert.Equal(t, []string{".txt"}, cfg.Extensions)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.FiscalYear)
	assert.Empty(t, cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("fiscal_year: FY19\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FY19", cfg.FiscalYear)
	assert.Equal(t, PolicyAbort, cfg.OnError)
	assert.Equal(t, []string{".txt"}, cfg.Extensions)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("on_error: retry\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid on_error")
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "DEBUG"
	assert.NoError(t, cfg.Validate())
	cfg.LogLevel = "chatty"
	assert.Error(t, cfg.Validate())
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "on_error: abort")
	assert.Contains(t, contents, "log_level: info")
	assert.Contains(t, contents, "- .txt")
}

func TestResolveFiscalYear(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "FY21", cfg.ResolveFiscalYear("data/reports/FY21/"))
	cfg.FiscalYear = "2021"
	assert.Equal(t, "2021", cfg.ResolveFiscalYear("data/reports/FY21"))
}

func TestResolveOutput(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("data", "reports", "FY21.json"), cfg.ResolveOutput("data/reports/FY21/", "FY21"))
	cfg.Output = "out.json"
	assert.Equal(t, "out.json", cfg.ResolveOutput("data/reports/FY21", "FY21"))
}
