package main

import (
	"fmt"
	"io"

	"github.com/alnah/go-booklet/internal/yamlutil"
)

// runConfigCmd prints the effective profile (file, environment and
// defaults merged) as YAML, ready to be saved and edited.
func runConfigCmd(args []string, env *Environment) error {
	fs := newFlagSet("config")
	var configName string
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")

	if err := parseFlagSet(fs, args, env.Stdout, printConfigUsage); err != nil {
		return err
	}

	cfg, err := loadProfile(configName, env)
	if err != nil {
		return err
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: booklet config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
}
