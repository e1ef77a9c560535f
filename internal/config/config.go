package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode selects the discovery-name conflict algorithm.
type Mode string

const (
	ModeDetect Mode = "detect"
	ModeAvoid  Mode = "avoid"
	ModeNone   Mode = "none"
)

// Identifier schemes used in collision messages.
const (
	IdentifierEntityID     = "entityID"
	IdentifierNameFallback = "entityID-or-name"
)

// Config holds settings loaded from mdagg.yml.
type Config struct {
	Inputs []string `yaml:"inputs,omitempty"`
	Output string   `yaml:"output,omitempty"`
	Report string   `yaml:"report,omitempty"`

	// Name is the Name attribute of the output aggregate when several inputs
	// are combined.
	Name string `yaml:"name,omitempty"`

	Mode Mode `yaml:"mode,omitempty"`

	HomeAuthority         string            `yaml:"homeAuthority,omitempty"`
	AuthorityDisplayNames map[string]string `yaml:"authorityDisplayNames,omitempty"`
	DefaultDisplayName    string            `yaml:"defaultDisplayName,omitempty"`

	// RenameFormat has slot {0} for the trimmed original name and {1} for
	// the authority code. Text between single quotes is literal and '' is
	// a single quote, so '{0}' renders as {0}.
	RenameFormat string `yaml:"renameFormat,omitempty"`
	Identifier   string `yaml:"identifier,omitempty"`

	// DropErrors removes entities carrying Error statuses from the output.
	DropErrors *bool `yaml:"dropErrors,omitempty"`

	NameCheck NameCheck `yaml:"nameCheck,omitempty"`
	LogLevel  string    `yaml:"logLevel,omitempty"`
}

// NameCheck configures discovery-name validation.
type NameCheck struct {
	Disabled  bool `yaml:"disabled,omitempty"`
	MaxLength int  `yaml:"maxLength,omitempty"`
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	drop := true
	return &Config{
		Mode:                  ModeDetect,
		HomeAuthority:         "http://ukfederation.org.uk",
		AuthorityDisplayNames: map[string]string{},
		DefaultDisplayName:    "??",
		RenameFormat:          "[{1}] {0}",
		Identifier:            IdentifierEntityID,
		DropErrors:            &drop,
		NameCheck:             NameCheck{MaxLength: 64},
		LogLevel:              "info",
		Name:                  "mdagg",
	}
}

// ShouldDropErrors reports whether entities with errors are removed.
func (c *Config) ShouldDropErrors() bool {
	return c.DropErrors == nil || *c.DropErrors
}

// Load attempts to read mdagg.yml or mdagg.yaml from the given directory.
// Returns the defaults (not an error) if no config file exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"mdagg.yml", "mdagg.yaml"} {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Defaults(), nil
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late in a run.
func (c *Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeDetect, ModeAvoid, ModeNone:
	default:
		errs = append(errs, fmt.Errorf("mode %q: want %s, %s or %s", c.Mode, ModeDetect, ModeAvoid, ModeNone))
	}
	if c.Mode == ModeAvoid && c.HomeAuthority == "" {
		errs = append(errs, errors.New("homeAuthority is required in avoid mode"))
	}
	switch c.Identifier {
	case "", IdentifierEntityID, IdentifierNameFallback:
	default:
		errs = append(errs, fmt.Errorf("identifier %q: want %s or %s", c.Identifier, IdentifierEntityID, IdentifierNameFallback))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.NameCheck.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("nameCheck.maxLength must not be negative, got %d", c.NameCheck.MaxLength))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. An empty value means info.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logLevel %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// WriteDefault writes a starter config file to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	out, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
