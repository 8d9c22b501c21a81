package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-booklet"
)

// errHelpShown is returned after -h/--help printed a command's usage.
var errHelpShown = flag.ErrHelp

// ErrInvalidFlags wraps flag parsing errors.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// imposeFlags holds flags for the impose command. Lengths are in millimeters.
type imposeFlags struct {
	common    commonFlags
	output    string
	signature int
	book      bool
	gb        bool
	gutter    float64
	overlap   float64
	margin    float64
	creep     float64
	pad       string
	scale     string
	strict    bool

	changed func(name string) bool
}

// htmlFlags holds flags for the html command.
type htmlFlags struct {
	common        commonFlags
	output        string
	style         string
	title         string
	timeout       string
	workers       int
	gutenberg     bool
	noPageNumbers bool

	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress and timing")
}

// addImposeFlags registers the impose flags on fs.
func addImposeFlags(fs *flag.FlagSet, f *imposeFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default \"<input> - Booklet.pdf\")")
	fs.IntVarP(&f.signature, "signature", "s", booklet.DefaultSignature, "pages per signature, rounded up to a multiple of 4")
	fs.BoolVar(&f.book, "book", false, "drop the covers and add two blank pages at each end")
	fs.BoolVar(&f.gb, "gb", false, "prepend two blank pages (Project Gutenberg exports)")
	fs.Float64Var(&f.gutter, "gutter", 0, "blank channel at the fold, in mm")
	fs.Float64Var(&f.overlap, "overlap", booklet.DefaultOverlapMM, "bleed overlap at the spine, in mm")
	fs.Float64Var(&f.margin, "margin", 0, "unprintable border of the sheet, in mm")
	fs.Float64Var(&f.creep, "creep", 0, "creep compensation per sheet, in mm (0 = off)")
	fs.StringVar(&f.pad, "pad", string(booklet.PadBlank), "filler for the last signature: blank, last")
	fs.StringVar(&f.scale, "scale", string(booklet.ScaleFill), "page scaling: fill, fit")
	fs.BoolVar(&f.strict, "strict", false, "stop at the first page that cannot be placed")
	addCommonFlags(fs, &f.common)
}

// addHTMLFlags registers the html flags on fs.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output PDF file, or directory for several inputs")
	fs.StringVar(&f.style, "style", "", "embedded style name or CSS file path")
	fs.StringVar(&f.title, "title", "", "document title for Markdown input")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout (e.g. 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.BoolVar(&f.gutenberg, "gutenberg", false, "keep only the book text of a Project Gutenberg export")
	fs.BoolVar(&f.noPageNumbers, "no-page-numbers", false, "omit the page number footer")
	addCommonFlags(fs, &f.common)
}

// newFlagSet returns a FlagSet that reports errors instead of printing them.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	return fs
}

// parseFlagSet parses args, printing usage to w on -h.
func parseFlagSet(fs *flag.FlagSet, args []string, w io.Writer, usage func(io.Writer)) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(w)
			return errHelpShown
		}
		return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
	}
	return nil
}

// parseImposeFlags parses impose command flags and returns positional args.
func parseImposeFlags(args []string, w io.Writer) (*imposeFlags, []string, error) {
	fs := newFlagSet("impose")
	f := &imposeFlags{changed: fs.Changed}
	addImposeFlags(fs, f)

	if err := parseFlagSet(fs, args, w, printImposeUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseHTMLFlags parses html command flags and returns positional args.
func parseHTMLFlags(args []string, w io.Writer) (*htmlFlags, []string, error) {
	fs := newFlagSet("html")
	f := &htmlFlags{changed: fs.Changed}
	addHTMLFlags(fs, f)

	if err := parseFlagSet(fs, args, w, printHTMLUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
