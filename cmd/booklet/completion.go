package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-booklet/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagNumber
	flagEnum // has predefined values
	flagFile // file with glob pattern
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma-separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional words
	FilePattern string   // glob for file arguments, comma-separated
}

// completionMeta holds completion hints the FlagSet cannot express.
type completionMeta struct {
	Values   func() []string
	FileGlob string
}

func fixed(values ...string) func() []string {
	return func() []string { return values }
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"pad":    {Values: fixed("blank", "last")},
	"scale":  {Values: fixed("fill", "fit")},
	"style":  {Values: assets.StyleNames, FileGlob: "*.css"},
	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {FileGlob: "*.pdf"},
}

// extractFlags converts a FlagSet into completion definitions.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "float64":
			fd.Type = flagNumber
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.Values != nil {
				fd.Type = flagEnum
				fd.Values = meta.Values()
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
			}
			fd.FileGlob = meta.FileGlob
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion. Flags come from
// the same registration functions the parsers use.
func getCommands() []commandDef {
	imposeSet := newFlagSet("impose")
	addImposeFlags(imposeSet, &imposeFlags{})

	htmlSet := newFlagSet("html")
	addHTMLFlags(htmlSet, &htmlFlags{})

	configSet := newFlagSet("config")
	configSet.StringP("config", "c", "", "config file name or path")

	doctorSet := newFlagSet("doctor")
	doctorSet.Bool("json", false, "machine-readable output")

	return []commandDef{
		{Name: "impose", Desc: "Impose a PDF into booklet signatures", Flags: extractFlags(imposeSet), FilePattern: "*.pdf"},
		{Name: "html", Desc: "Print HTML or Markdown books to A5 PDFs", Flags: extractFlags(htmlSet), FilePattern: "*.html,*.htm,*.md,*.markdown"},
		{Name: "config", Desc: "Print the effective configuration", Flags: extractFlags(configSet)},
		{Name: "doctor", Desc: "Check the browser setup", Flags: extractFlags(doctorSet)},
		{Name: "completion", Desc: "Generate shell completion script", Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: []string{"impose", "html", "config", "doctor", "completion", "version"}},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	var script string

	switch shell {
	case ShellBash:
		script = bashScript(cmds)
	case ShellZsh:
		script = zshScript(cmds)
	case ShellFish:
		script = fishScript(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}

	_, err := io.WriteString(w, script)
	return err
}

// runCompletionCmd handles the completion command.
func runCompletionCmd(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func globExts(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

// ---------------------------------------------------------------------------
// bash
// ---------------------------------------------------------------------------

// bashFiles returns a compgen call listing files matching glob.
func bashFiles(glob string) string {
	if glob == "" {
		return `compgen -f -- "$cur"`
	}
	exts := globExts(glob)
	if len(exts) == 1 {
		return fmt.Sprintf(`compgen -f -X '!*.%s' -- "$cur"`, exts[0])
	}
	return fmt.Sprintf(`compgen -f -X '!*.@(%s)' -- "$cur"`, strings.Join(exts, "|"))
}

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}

	b.WriteString("# bash completion for booklet\n\n")
	b.WriteString("_booklet() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") $(%s) )\n", strings.Join(names, " "), bashFiles("*.pdf"))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		pattern := c.Name
		if c.Name == "impose" {
			pattern += "|*.pdf"
		}
		fmt.Fprintf(&b, "    %s)\n", pattern)

		var words []string
		var valueCases strings.Builder
		for _, f := range c.Flags {
			opts := "--" + f.Long
			words = append(words, "--"+f.Long)
			if f.Short != "" {
				opts += "|-" + f.Short
				words = append(words, "-"+f.Short)
			}
			switch f.Type {
			case flagEnum:
				gen := fmt.Sprintf("compgen -W %q -- \"$cur\"", strings.Join(f.Values, " "))
				if f.FileGlob != "" {
					gen += "; " + bashFiles(f.FileGlob)
				}
				fmt.Fprintf(&valueCases, "            %s) COMPREPLY=( $(%s) ); return ;;\n", opts, gen)
			case flagFile:
				fmt.Fprintf(&valueCases, "            %s) COMPREPLY=( $(%s) ); return ;;\n", opts, bashFiles(f.FileGlob))
			case flagString, flagNumber:
				fmt.Fprintf(&valueCases, "            %s) return ;;\n", opts)
			}
		}

		if valueCases.Len() > 0 {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(valueCases.String())
			b.WriteString("        esac\n")
		}
		if len(words) > 0 {
			b.WriteString("        if [[ $cur == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(words, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=( $(%s) )\n", bashFiles(c.FilePattern))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _booklet booklet\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// zsh
// ---------------------------------------------------------------------------

var zshEscaper = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshFiles(glob string) string {
	exts := globExts(glob)
	if len(exts) == 1 {
		return fmt.Sprintf(`_files -g "*.%s"`, exts[0])
	}
	return fmt.Sprintf(`_files -g "*.(%s)"`, strings.Join(exts, "|"))
}

func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
		if f.FileGlob != "" {
			action = fmt.Sprintf(":%s:{_values %s %s; %s}", f.Long, f.Long, strings.Join(f.Values, " "), zshFiles(f.FileGlob))
		}
	case flagFile:
		action = ":file:" + zshFiles(f.FileGlob)
	case flagString, flagNumber:
		action = ":" + f.Long + ": "
	}

	desc := zshEscaper.Replace(f.Desc)
	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef booklet\n\n")
	b.WriteString("_booklet() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'booklet command' commands\n")
	fmt.Fprintf(&b, "        %s\n", zshFiles("*.pdf"))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		pattern := c.Name
		if c.Name == "impose" {
			pattern += "|*.pdf"
		}
		fmt.Fprintf(&b, "    %s)\n", pattern)
		b.WriteString("        _arguments -s")
		for _, f := range c.Flags {
			b.WriteString(" \\\n            " + zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n            '1:%s:(%s)'", c.Name, strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, " \\\n            '*:file:%s'", zshFiles(c.FilePattern))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _booklet booklet\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// fish
// ---------------------------------------------------------------------------

var fishEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	all := strings.Join(names, " ")

	b.WriteString("# fish completion for booklet\n\n")
	b.WriteString("complete -c booklet -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c booklet -n 'not __fish_seen_subcommand_from %s' -a %s -d '%s'\n",
			all, c.Name, fishEscaper.Replace(c.Desc))
	}
	fmt.Fprintf(&b, "complete -c booklet -n 'not __fish_seen_subcommand_from %s' -F\n", all)

	for _, c := range cmds {
		b.WriteString("\n")
		cond := fmt.Sprintf("-n '__fish_seen_subcommand_from %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c booklet %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagString, flagNumber:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'\n", fishEscaper.Replace(f.Desc))
			b.WriteString(line)
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c booklet %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "complete -c booklet %s -F\n", cond)
		}
	}
	return b.String()
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: booklet completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(booklet completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(booklet completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    booklet completion fish > ~/.config/fish/completions/booklet.fish")
}
