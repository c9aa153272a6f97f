package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file looked up in the working directory.
const FileName = "capbudget.yaml"

// ErrorPolicy selects what a run does when a report line cannot be parsed.
type ErrorPolicy string

const (
	// PolicyAbort fails the whole run and discards the output.
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkipFile drops the offending file's records and carries on.
	PolicySkipFile ErrorPolicy = "skip-file"
	// PolicySkipLine ignores the offending line.
	PolicySkipLine ErrorPolicy = "skip-line"
)

// Policies lists the accepted error policies.
var Policies = []ErrorPolicy{PolicyAbort, PolicySkipFile, PolicySkipLine}

// Config represents capbudget.yaml.
type Config struct {
	FiscalYear  string      `yaml:"fiscal_year"`
	Output      string      `yaml:"output"`
	Extensions  []string    `yaml:"extensions"`
	OnError     ErrorPolicy `yaml:"on_error"`
	ErrorReport string      `yaml:"error_report"`
	XLSX        string      `yaml:"xlsx"`
	LogLevel    string      `yaml:"log_level"`
}

// Load reads a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Extensions: []string{".txt"},
		OnError:    PolicyAbort,
		LogLevel:   "info",
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(Policies, c.OnError) {
		return fmt.Errorf("invalid on_error %q (want one of %v)", c.OnError, Policies)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// ResolveFiscalYear returns the configured fiscal year, falling back to the
// name of the input directory ("reports/FY21" gives "FY21").
func (c *Config) ResolveFiscalYear(inputDir string) string {
	if c.FiscalYear != "" {
		return c.FiscalYear
	}
	return filepath.Base(filepath.Clean(inputDir))
}

// ResolveOutput returns the configured output path, falling back to
// <fy>.json next to the input directory.
func (c *Config) ResolveOutput(inputDir, fiscalYear string) string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(filepath.Dir(filepath.Clean(inputDir)), fiscalYear+".json")
}
