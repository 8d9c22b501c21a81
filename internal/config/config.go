// Package config loads booklet profiles from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-booklet/internal/fileutil"
	"github.com/alnah/go-booklet/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// appDir is the directory searched under the user config directory.
const appDir = "go-booklet"

// Limits on user-supplied values.
const (
	MaxSignature   = 1024 // pages per signature
	MaxLengthMM    = 100  // gutter, overlap, margin
	MaxCreepMM     = 5    // per sheet
	MaxWorkers     = 32
	MaxStyleLength = 4096 // style name or CSS path
	MaxDirLength   = 4096
)

// Config holds a booklet profile.
// Lengths are in millimeters; conversion to points happens at the call site.
type Config struct {
	Placement PlacementConfig `yaml:"placement"`
	HTML      HTMLConfig      `yaml:"html"`
	Output    OutputConfig    `yaml:"output"`
}

// PlacementConfig defines imposition settings.
type PlacementConfig struct {
	Signature int     `yaml:"signature"` // pages per booklet, rounded up to a multiple of 4
	Mode      string  `yaml:"mode"`      // "book" or "gb" (empty = must be given on the command line)
	Gutter    float64 `yaml:"gutter"`    // mm
	Overlap   float64 `yaml:"overlap"`   // mm (default 0.2)
	Margin    float64 `yaml:"margin"`    // mm, all four sides
	Creep     float64 `yaml:"creep"`     // mm per sheet
	Scale     string  `yaml:"scale"`     // "fit" or "fill" (default "fill")
	Pad       string  `yaml:"pad"`       // "blank" or "last" (default "blank")
	Strict    bool    `yaml:"strict"`
}

// HTMLConfig defines HTML to PDF conversion settings.
type HTMLConfig struct {
	Style         string `yaml:"style"` // embedded style name or CSS file path
	Gutenberg     bool   `yaml:"gutenberg"`
	Timeout       string `yaml:"timeout"` // Go duration, e.g. "45s"
	Workers       int    `yaml:"workers"` // 0 = auto
	NoPageNumbers bool   `yaml:"noPageNumbers"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = current directory
}

// DefaultConfig returns the settings used when no profile is loaded.
func DefaultConfig() *Config {
	return &Config{
		Placement: PlacementConfig{
			Signature: 16,
			Overlap:   0.2,
			Scale:     "fill",
			Pad:       "blank",
		},
		HTML: HTMLConfig{
			Style:   "book",
			Timeout: "30s",
		},
	}
}

// TimeoutDuration returns HTML.Timeout parsed, or 0 when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.HTML.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTML.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: html.timeout %q: %v", ErrInvalidValue, c.HTML.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: html.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks enum values and numeric ranges.
// Called by LoadConfig, but also usable on a Config built by hand.
func (c *Config) Validate() error {
	p := c.Placement

	if p.Signature < 1 || p.Signature > MaxSignature {
		return fmt.Errorf("%w: placement.signature must be between 1 and %d, got %d", ErrInvalidValue, MaxSignature, p.Signature)
	}
	if err := validateEnum("placement.mode", p.Mode, "book", "gb"); err != nil {
		return err
	}
	if err := validateEnum("placement.scale", p.Scale, "fit", "fill"); err != nil {
		return err
	}
	if err := validateEnum("placement.pad", p.Pad, "blank", "last"); err != nil {
		return err
	}

	lengths := []struct {
		name  string
		value float64
		max   float64
	}{
		{"placement.gutter", p.Gutter, MaxLengthMM},
		{"placement.overlap", p.Overlap, MaxLengthMM},
		{"placement.margin", p.Margin, MaxLengthMM},
		{"placement.creep", p.Creep, MaxCreepMM},
	}
	for _, l := range lengths {
		if l.value < 0 || l.value > l.max {
			return fmt.Errorf("%w: %s must be between 0 and %g mm, got %g", ErrInvalidValue, l.name, l.max, l.value)
		}
	}

	if c.HTML.Workers < 0 || c.HTML.Workers > MaxWorkers {
		return fmt.Errorf("%w: html.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.HTML.Workers)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if err := validateFieldLength("html.style", c.HTML.Style, MaxStyleLength); err != nil {
		return err
	}
	return validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxDirLength)
}

// validateEnum accepts an empty value or one of allowed (case-insensitive).
func validateEnum(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	v := strings.ToLower(value)
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be %s)", ErrInvalidValue, field, value, strings.Join(allowed, " or "))
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads a profile from a file path or a config name.
// A value containing a path separator is read as a file; anything else is
// searched by name in the standard locations. Fields missing from the file
// keep their DefaultConfig values. There is no silent fallback when the
// file does not exist.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the files tried, in order, when resolving a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
