package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: booklet <command> [flags] [args]")
	fmt.Fprintln(w, "       booklet <input.pdf> --book|--gb [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  impose      Impose a PDF into printable booklet signatures")
	fmt.Fprintln(w, "  html        Print HTML or Markdown books to A5 PDFs")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  doctor      Check the browser setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'booklet help <command>' for details on a specific command.")
}

// printImposeUsage prints usage for the impose command.
func printImposeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: booklet impose <input.pdf> --book|--gb [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Impose a PDF onto A4 landscape sheets for duplex printing and saddle")
	fmt.Fprintln(w, "stitching. Pages are split into signatures, each folded separately.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mode (exactly one, unless set in the config file):")
	fmt.Fprintln(w, "      --book                Drop the covers, add two blank pages at each end")
	fmt.Fprintln(w, "      --gb                  Prepend two blank pages (Project Gutenberg)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Signatures:")
	fmt.Fprintln(w, "  -s, --signature <n>       Pages per signature (default: 16)")
	fmt.Fprintln(w, "      --pad <s>             Filler for the last signature: blank, last")
	fmt.Fprintln(w, "      --strict              Stop at the first page that cannot be placed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Geometry (millimeters):")
	fmt.Fprintln(w, "      --gutter <f>          Blank channel at the fold (default: 0)")
	fmt.Fprintln(w, "      --overlap <f>         Bleed overlap at the spine (default: 0.2)")
	fmt.Fprintln(w, "      --margin <f>          Unprintable border of the sheet (default: 0)")
	fmt.Fprintln(w, "      --creep <f>           Creep compensation per sheet (default: 0)")
	fmt.Fprintln(w, "      --scale <s>           Page scaling: fill, fit (default: fill)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default: \"<input> - Booklet.pdf\")")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress and timing")
}

// printHTMLUsage prints usage for the html command.
func printHTMLUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: booklet html <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print HTML or Markdown (.md) books to A5 PDFs with 2 cm margins and")
	fmt.Fprintln(w, "centered page numbers, ready for 'booklet impose'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --gutenberg           Keep only the book text of a Project Gutenberg export")
	fmt.Fprintln(w, "      --title <s>           Document title for Markdown input")
	fmt.Fprintln(w, "      --style <name|path>   Embedded style (book, large-print) or CSS file")
	fmt.Fprintln(w, "      --no-page-numbers     Omit the page number footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF, or directory for several inputs")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load timeout (default: 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress and timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "impose":
		printImposeUsage(env.Stdout)
	case "html":
		printHTMLUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: booklet version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: booklet help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
