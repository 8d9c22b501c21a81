package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-booklet/internal/config"
	"github.com/alnah/go-booklet/internal/hints"
)

// loadProfile builds the effective configuration from the config file named
// by configFlag (or BOOKLET_CONFIG) and the environment. Flags are merged
// by the caller.
func loadProfile(configFlag string, env *Environment) (*config.Config, error) {
	warnUnknownEnvVars(env, env.Stderr)
	envCfg := loadEnvConfig(env, env.Stderr)

	name := configFlag
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
