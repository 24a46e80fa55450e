package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nao-Mk2/pod-schedule/internal/logging"
	"github.com/Nao-Mk2/pod-schedule/internal/notice"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, notice.DefaultMonths, cfg.Months)
	assert.Equal(t, map[string]string{"CDT": "US/Central"}, cfg.Zones)
	assert.Equal(t, FormatHTML, cfg.Format)

	flags, err := cfg.DebugFlags()
	require.NoError(t, err)
	assert.Equal(t, logging.Default, flags)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "pod-schedule.toml", `
months = ["AUG", "SEP"]
default_zone = "America/Chicago"
debug = ["parse-error", "parse-time"]
format = "json"
strict = true

[zones]
cst = "US/Central"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"AUG", "SEP"}, cfg.Months)
	assert.Equal(t, map[string]string{"CDT": "US/Central", "CST": "US/Central"}, cfg.Zones)
	assert.Equal(t, "America/Chicago", cfg.DefaultZone)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Strict)

	flags, err := cfg.DebugFlags()
	require.NoError(t, err)
	assert.Equal(t, logging.ParseError|logging.ParseTime, flags)

	g, err := cfg.Grammar()
	require.NoError(t, err)
	assert.Equal(t, notice.Pod, g.Classify("DAL05 POD 3 6:00 PM CST").Kind)
	assert.Equal(t, notice.Unmatched, g.Classify("11-OCT").Kind)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pod-schedule.yaml", `
months: [SEP, OCT]
zones:
  EDT: America/New_York
debug: []
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"SEP", "OCT"}, cfg.Months)
	assert.Equal(t, "America/New_York", cfg.Zones["EDT"])
	assert.Equal(t, FormatHTML, cfg.Format, "unset keys keep defaults")

	flags, err := cfg.DebugFlags()
	require.NoError(t, err)
	assert.Equal(t, logging.None, flags, "an explicit empty list silences diagnostics")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config not found")

	_, err = Load(writeFile(t, "cfg.json", `{}`))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "cfg.toml", `months = [`))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"bad debug", func(c *Config) { c.Debug = []string{"loud"} }},
		{"bad zone", func(c *Config) { c.Zones["XYZ"] = "Nowhere/Land" }},
		{"bad month", func(c *Config) { c.Months = []string{"AUGUST"} }},
		{"no months", func(c *Config) { c.Months = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
