// Package config loads the optional settings file. TOML and YAML are both
// accepted; the format is picked from the file extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Nao-Mk2/pod-schedule/internal/logging"
	"github.com/Nao-Mk2/pod-schedule/internal/notice"
	"github.com/Nao-Mk2/pod-schedule/internal/resolve"
)

const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Config holds the notice grammar and output settings.
type Config struct {
	Months      []string          `toml:"months" yaml:"months"`             // date header month abbreviations
	Zones       map[string]string `toml:"zones" yaml:"zones"`               // zone token -> IANA region, merged over the defaults
	DefaultZone string            `toml:"default_zone" yaml:"default_zone"` // region for times without a token
	Debug       []string          `toml:"debug" yaml:"debug"`               // diagnostic categories, e.g. ["parse-error", "parse-time"]
	Format      string            `toml:"format" yaml:"format"`             // "html" or "json"
	Strict      bool              `toml:"strict" yaml:"strict"`             // non-zero exit when the report has errors
}

// Default returns the built-in configuration.
func Default() *Config {
	zones := make(map[string]string, len(resolve.DefaultZones))
	for k, v := range resolve.DefaultZones {
		zones[k] = v
	}
	return &Config{
		Months:      append([]string(nil), notice.DefaultMonths...),
		Zones:       zones,
		DefaultZone: resolve.DefaultZone,
		Debug:       []string{logging.Default.String()},
		Format:      FormatHTML,
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config not found: %s (create it or use a different --config path)", path)
		}
		return nil, err
	}

	var file Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Default()
	cfg.merge(&file)
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if len(o.Months) > 0 {
		c.Months = o.Months
	}
	for token, region := range o.Zones {
		c.Zones[strings.ToUpper(token)] = region
	}
	if o.DefaultZone != "" {
		c.DefaultZone = o.DefaultZone
	}
	if o.Debug != nil {
		c.Debug = o.Debug
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.Strict {
		c.Strict = true
	}
}

// DebugFlags returns the enabled diagnostic categories.
func (c *Config) DebugFlags() (logging.Flags, error) {
	return logging.ParseFlags(c.Debug)
}

// Resolver builds the timestamp resolver for the configured zones.
func (c *Config) Resolver() (*resolve.Resolver, error) {
	return resolve.New(c.Zones, c.DefaultZone)
}

// Grammar builds the line grammar for the configured months and zones.
func (c *Config) Grammar() (*notice.Grammar, error) {
	tokens := make([]string, 0, len(c.Zones))
	for t := range c.Zones {
		tokens = append(tokens, t)
	}
	return notice.NewGrammar(c.Months, tokens)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q (use %s or %s)", c.Format, FormatHTML, FormatJSON)
	}
	if _, err := c.DebugFlags(); err != nil {
		return err
	}
	if _, err := c.Resolver(); err != nil {
		return err
	}
	if _, err := c.Grammar(); err != nil {
		return err
	}
	return nil
}
