package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-booklet/internal/config"
)

const envPrefix = "BOOKLET_"

// envConfig holds overrides read from BOOKLET_* environment variables.
type envConfig struct {
	ConfigPath string        // BOOKLET_CONFIG
	Style      string        // BOOKLET_STYLE
	Timeout    time.Duration // BOOKLET_TIMEOUT
	OutputDir  string        // BOOKLET_OUTPUT_DIR
	Signature  int           // BOOKLET_SIGNATURE
}

// knownEnvVars lists valid BOOKLET_* environment variables.
var knownEnvVars = map[string]bool{
	"BOOKLET_CONFIG":     true,
	"BOOKLET_STYLE":      true,
	"BOOKLET_TIMEOUT":    true,
	"BOOKLET_OUTPUT_DIR": true,
	"BOOKLET_SIGNATURE":  true,
}

// loadEnvConfig reads the recognized variables. Values that do not parse
// are ignored with a warning on w.
func loadEnvConfig(env *Environment, w io.Writer) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.Getenv("BOOKLET_CONFIG"),
		Style:      env.Getenv("BOOKLET_STYLE"),
		OutputDir:  env.Getenv("BOOKLET_OUTPUT_DIR"),
	}

	if v := env.Getenv("BOOKLET_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			fmt.Fprintf(w, "warning: ignoring BOOKLET_TIMEOUT=%q (want a positive duration like 45s)\n", v)
		}
	}

	if v := env.Getenv("BOOKLET_SIGNATURE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Signature = n
		} else {
			fmt.Fprintf(w, "warning: ignoring BOOKLET_SIGNATURE=%q (want a positive integer)\n", v)
		}
	}

	return cfg
}

// warnUnknownEnvVars reports BOOKLET_* variables that are not recognized,
// which usually are typos.
func warnUnknownEnvVars(env *Environment, w io.Writer) {
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set variables on cfg. Flags are merged afterwards,
// giving flag > env > config file > default.
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	if e.Style != "" {
		cfg.HTML.Style = e.Style
	}
	if e.Timeout > 0 {
		cfg.HTML.Timeout = e.Timeout.String()
	}
	if e.OutputDir != "" {
		cfg.Output.DefaultDir = e.OutputDir
	}
	if e.Signature > 0 {
		cfg.Placement.Signature = e.Signature
	}
}
