package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-booklet"
	"github.com/alnah/go-booklet/internal/config"
	"github.com/alnah/go-booklet/internal/hints"
)

// Directory permissions for created output directories.
const dirPermissions = 0o750

// Sentinel errors for command arguments.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrTooManyInputs   = errors.New("impose takes exactly one input PDF")
	ErrModeRequired    = errors.New("choose a sequencing mode with --book or --gb")
	ErrModeConflict    = errors.New("--book and --gb are mutually exclusive")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// runImposeCmd imposes one PDF into booklet signatures.
func runImposeCmd(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseImposeFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	switch {
	case len(positional) == 0:
		return ErrNoInput
	case len(positional) > 1:
		return fmt.Errorf("%w, got %d", ErrTooManyInputs, len(positional))
	}
	input := positional[0]

	cfg, err := loadProfile(f.common.config, env)
	if err != nil {
		return err
	}
	if err := mergeImposeFlags(f, cfg); err != nil {
		return err
	}

	pc, err := placementConfig(cfg.Placement)
	if err != nil {
		return err
	}

	output, err := resolveImposeOutput(f.output, cfg.Output.DefaultDir, input)
	if err != nil {
		return err
	}

	var logger io.Writer = io.Discard
	if f.common.verbose {
		logger = env.Stderr
	}
	imposer := booklet.NewImposer(booklet.WithLogger(logger))

	start := env.Now()
	report, err := imposer.Impose(ctx, input, output, pc)
	if err != nil {
		return withImposeHint(err, input)
	}

	printImposeReport(env, report, output, f.common, env.Now().Sub(start))
	return nil
}

// mergeImposeFlags applies explicitly set flags over the profile.
func mergeImposeFlags(f *imposeFlags, cfg *config.Config) error {
	p := &cfg.Placement

	if f.book && f.gb {
		return ErrModeConflict
	}
	if f.book {
		p.Mode = string(booklet.ModeBook)
	}
	if f.gb {
		p.Mode = string(booklet.ModeGB)
	}

	if f.changed("signature") {
		if f.signature <= 0 {
			return fmt.Errorf("%w: %d%s", booklet.ErrInvalidSignature, f.signature, hints.ForSignature())
		}
		p.Signature = f.signature
	}
	if f.changed("gutter") {
		p.Gutter = f.gutter
	}
	if f.changed("overlap") {
		p.Overlap = f.overlap
	}
	if f.changed("margin") {
		p.Margin = f.margin
	}
	if f.changed("creep") {
		p.Creep = f.creep
	}
	if f.changed("pad") {
		p.Pad = f.pad
	}
	if f.changed("scale") {
		p.Scale = f.scale
	}
	if f.changed("strict") {
		p.Strict = f.strict
	}

	return cfg.Validate()
}

// placementConfig converts a profile section, in millimeters, into the
// library configuration, in points.
func placementConfig(p config.PlacementConfig) (booklet.PlacementConfig, error) {
	if p.Mode == "" {
		return booklet.PlacementConfig{}, ErrModeRequired
	}
	mode, err := booklet.ParseMode(p.Mode)
	if err != nil {
		return booklet.PlacementConfig{}, err
	}
	pad, err := booklet.ParsePadPolicy(p.Pad)
	if err != nil {
		return booklet.PlacementConfig{}, err
	}
	scale, err := booklet.ParseScaleMode(p.Scale)
	if err != nil {
		return booklet.PlacementConfig{}, err
	}

	return booklet.PlacementConfig{
		Signature: p.Signature,
		Mode:      mode,
		Gutter:    booklet.MM(p.Gutter),
		Overlap:   booklet.MM(p.Overlap),
		Margins:   booklet.UniformMargins(booklet.MM(p.Margin)),
		Creep:     booklet.MM(p.Creep),
		Scale:     scale,
		Padding:   pad,
		Strict:    p.Strict,
	}, nil
}

// resolveImposeOutput returns the explicit output path, or the default name
// placed in defaultDir (created if needed) or the current directory.
func resolveImposeOutput(explicit, defaultDir, input string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	name := booklet.DefaultOutputPath(input)
	if defaultDir == "" {
		return name, nil
	}
	if err := os.MkdirAll(defaultDir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: %w%s", ErrCreateOutputDir, err, hints.ForOutputDirectory())
	}
	return filepath.Join(defaultDir, name), nil
}

func withImposeHint(err error, input string) error {
	switch {
	case errors.Is(err, booklet.ErrProtectedSource):
		return fmt.Errorf("%w%s", err, hints.ForProtectedSource(input))
	case errors.Is(err, booklet.ErrInvalidSignature):
		return fmt.Errorf("%w%s", err, hints.ForSignature())
	case errors.Is(err, booklet.ErrWriteOutput):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}

func printImposeReport(env *Environment, r *booklet.Report, output string, common commonFlags, elapsed time.Duration) {
	// In verbose mode the imposer already logged every skipped placement.
	if !common.verbose {
		for _, pe := range r.Skipped {
			fmt.Fprintf(env.Stderr, "warning: skipped %v\n", pe)
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(env.Stderr, "warning: %d placement(s) skipped%s\n", len(r.Skipped), hints.ForSkippedPages())
	}

	if common.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "Created %s (%d booklet(s), %d sheet(s), %d page(s))\n",
		output, len(r.BookletSizes), r.Sheets, r.OutputPages)
	if common.verbose {
		fmt.Fprintf(env.Stdout, "Source pages: %d, sequence: %d, booklet sizes: %v, took %v\n",
			r.SourcePages, r.SequenceLength, r.BookletSizes, elapsed.Round(time.Millisecond))
	}
}
