package config

// Notes:
// - Tests that resolve names change the working directory or XDG_CONFIG_HOME
//   and therefore do not run in parallel.
// - The user config lookup is exercised through XDG_CONFIG_HOME, which
//   os.UserConfigDir honors on Linux only; that case is skipped elsewhere.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestDefaultConfig - Built-in defaults
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	want := PlacementConfig{Signature: 16, Overlap: 0.2, Scale: "fill", Pad: "blank"}
	if diff := cmp.Diff(want, cfg.Placement); diff != "" {
		t.Errorf("Placement mismatch (-want +got):\n%s", diff)
	}
	if cfg.HTML.Style != "book" {
		t.Errorf("HTML.Style = %q, want %q", cfg.HTML.Style, "book")
	}
	if d, err := cfg.TimeoutDuration(); err != nil || d != 30*time.Second {
		t.Errorf("TimeoutDuration() = %v, %v, want 30s", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Enum and range checks
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "mode gb", modify: func(c *Config) { c.Placement.Mode = "gb" }},
		{name: "mode upper case", modify: func(c *Config) { c.Placement.Mode = "BOOK" }},
		{name: "signature rounded later", modify: func(c *Config) { c.Placement.Signature = 18 }},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Placement.Mode = "magazine" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown scale",
			modify:  func(c *Config) { c.Placement.Scale = "stretch" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown pad",
			modify:  func(c *Config) { c.Placement.Pad = "mirror" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "zero signature",
			modify:  func(c *Config) { c.Placement.Signature = 0 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative signature",
			modify:  func(c *Config) { c.Placement.Signature = -4 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "signature too large",
			modify:  func(c *Config) { c.Placement.Signature = MaxSignature + 4 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative gutter",
			modify:  func(c *Config) { c.Placement.Gutter = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "creep too large",
			modify:  func(c *Config) { c.Placement.Creep = MaxCreepMM + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.HTML.Workers = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad timeout",
			modify:  func(c *Config) { c.HTML.Timeout = "soon" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.HTML.Timeout = "0s" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "style too long",
			modify:  func(c *Config) { c.HTML.Style = strings.Repeat("a", MaxStyleLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading by path
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(*testing.T, *Config)
		wantErr error
	}{
		{
			name: "full profile",
			content: `placement:
  signature: 20
  mode: gb
  gutter: 3
  overlap: 0
  margin: 5
  creep: 0.1
  scale: fit
  pad: last
  strict: true
html:
  style: large-print
  gutenberg: true
  timeout: 45s
  workers: 2
output:
  defaultDir: out
`,
			check: func(t *testing.T, cfg *Config) {
				want := &Config{
					Placement: PlacementConfig{
						Signature: 20, Mode: "gb", Gutter: 3, Overlap: 0, Margin: 5,
						Creep: 0.1, Scale: "fit", Pad: "last", Strict: true,
					},
					HTML:   HTMLConfig{Style: "large-print", Gutenberg: true, Timeout: "45s", Workers: 2},
					Output: OutputConfig{DefaultDir: "out"},
				}
				if diff := cmp.Diff(want, cfg); diff != "" {
					t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:    "partial profile keeps defaults",
			content: "placement:\n  mode: book\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Placement.Mode != "book" {
					t.Errorf("Mode = %q, want book", cfg.Placement.Mode)
				}
				if cfg.Placement.Signature != 16 || cfg.Placement.Overlap != 0.2 {
					t.Errorf("defaults lost: signature=%d overlap=%g", cfg.Placement.Signature, cfg.Placement.Overlap)
				}
				if cfg.HTML.Style != "book" {
					t.Errorf("HTML.Style = %q, want book", cfg.HTML.Style)
				}
			},
		},
		{
			name:    "unknown field",
			content: "placement:\n  folds: 2\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "invalid yaml",
			content: "placement: [unclosed\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrConfigParse,
		},
		{
			name:    "invalid value",
			content: "placement:\n  scale: stretch\n",
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "profile.yaml")
			writeFile(t, path, tt.content)

			cfg, err := LoadConfig(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := LoadConfig(missing); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing) error = %v, want ErrConfigNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig_ByName - Name resolution in standard locations
// ---------------------------------------------------------------------------

func TestLoadConfig_ByName(t *testing.T) {
	t.Run("current directory yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "duplex.yaml"), "placement:\n  signature: 8\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("duplex")
		if err != nil {
			t.Fatalf("LoadConfig() unexpected error: %v", err)
		}
		if cfg.Placement.Signature != 8 {
			t.Errorf("Signature = %d, want 8", cfg.Placement.Signature)
		}
	})

	t.Run("yml extension", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "duplex.yml"), "placement:\n  signature: 12\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("duplex")
		if err != nil {
			t.Fatalf("LoadConfig() unexpected error: %v", err)
		}
		if cfg.Placement.Signature != 12 {
			t.Errorf("Signature = %d, want 12", cfg.Placement.Signature)
		}
	})

	t.Run("user config directory", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("XDG_CONFIG_HOME is only honored on Linux")
		}
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		writeFile(t, filepath.Join(home, appDir, "a5.yaml"), "placement:\n  mode: gb\n")
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig("a5")
		if err != nil {
			t.Fatalf("LoadConfig() unexpected error: %v", err)
		}
		if cfg.Placement.Mode != "gb" {
			t.Errorf("Mode = %q, want gb", cfg.Placement.Mode)
		}
	})

	t.Run("not found lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("nope")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "nope.yaml") || !strings.Contains(err.Error(), "nope.yml") {
			t.Errorf("error %q does not list the tried paths", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("duplex")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() returned %d paths, want at least 2", len(paths))
	}
	if paths[0] != "duplex.yaml" || paths[1] != "duplex.yml" {
		t.Errorf("SearchPaths()[:2] = %v, want local yaml then yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, appDir) {
			t.Errorf("user path %q does not contain %q", p, appDir)
		}
	}
}
