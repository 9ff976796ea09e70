package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell is a shell completion scripts are generated for.
type Shell string

// Supported shells.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned for a shell without a generator.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType decides how a flag value is completed.
type flagType int

const (
	flagBool   flagType = iota // no value
	flagString                 // free-form value
	flagInt                    // number
	flagFile                   // file path, filtered by FileExts
	flagDir                    // directory path
)

// flagDef describes one flag for completion.
type flagDef struct {
	Long     string
	Short    string
	Desc     string
	Type     flagType
	FileExts []string
}

// commandDef describes one command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // positional values, e.g. task names
}

// completionMeta refines the type pflag reports for a flag.
type completionMeta struct {
	Type     flagType
	FileExts []string
}

// flagCompletionMeta lists flags whose values are paths.
var flagCompletionMeta = map[string]completionMeta{
	"config":    {Type: flagFile, FileExts: []string{"yaml", "yml"}},
	"output":    {Type: flagDir},
	"posts-dir": {Type: flagDir},
	"templates": {Type: flagDir},
}

// taskNames are the arguments of "run".
var taskNames = []string{"styles", "posts", "images", "build"}

// shellNames are the arguments of "completion".
var shellNames = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// extractFlagsFromFlagSet converts a pflag set to flag definitions, sorted
// by long name.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		def := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		switch f.Value.Type() {
		case "bool":
			def.Type = flagBool
		case "int":
			def.Type = flagInt
		default:
			def.Type = flagString
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			def.Type = meta.Type
			def.FileExts = meta.FileExts
		}
		flags = append(flags, def)
	})
	return flags
}

// getCommands returns every command with its flags, in the order of the
// usage message.
func getCommands() []commandDef {
	buildFlags := func(cmd string) []flagDef {
		return extractFlagsFromFlagSet(newCommandFlagSet(cmd, &commandFlags{}))
	}

	commands := []commandDef{
		{Name: "build", Desc: "Compile styles, build posts and homepage, copy images", Flags: buildFlags("build")},
		{Name: "run", Desc: "Run tasks by name", Flags: buildFlags("run"), Args: taskNames},
		{Name: "styles", Desc: "Compile the stylesheets", Flags: buildFlags("styles")},
		{Name: "posts", Desc: "Build posts and the homepage", Flags: buildFlags("posts")},
		{Name: "images", Desc: "Copy images to the output directory", Flags: buildFlags("images")},
		{Name: "watch", Desc: "Build, then rebuild on changes", Flags: buildFlags("watch")},
		{Name: "config", Desc: "Print the effective configuration", Flags: buildFlags("config")},
		{Name: "doctor", Desc: "Check the system and the site setup", Flags: extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{}))},
		{Name: "completion", Desc: "Generate shell completion script", Args: shellNames},
		{Name: "version", Desc: "Show version information"},
	}

	names := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		names = append(names, c.Name)
	}
	names = append(names, "help")
	return append(commands, commandDef{Name: "help", Desc: "Show help for a command", Args: names})
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	commands := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, commands)
	case ShellZsh:
		return generateZsh(w, commands)
	case ShellFish:
		return generateFish(w, commands)
	case ShellPowerShell:
		return generatePowerShell(w, commands)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stderr)
		return fmt.Errorf("%w: completion needs a shell", errUsage)
	}
	switch args[0] {
	case "-h", "--help":
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell, got %s", errUsage, strings.Join(args, " "))
	}

	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

// printCompletionUsage prints usage for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shells: bash, zsh, fish, powershell")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  md2site completion bash > /etc/bash_completion.d/md2site")
	fmt.Fprintln(w, "  md2site completion zsh > \"${fpath[1]}/_md2site\"")
	fmt.Fprintln(w, "  md2site completion fish > ~/.config/fish/completions/md2site.fish")
	fmt.Fprintln(w, "  md2site completion powershell >> $PROFILE")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for md2site\n\n")
	b.WriteString("_md2site() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(commands), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		if cases := bashValueCases(c.Flags); cases != "" {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(cases)
			b.WriteString("        esac\n")
		}
		words := append(flagWords(c.Flags), c.Args...)
		if len(words) > 0 {
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o default -F _md2site md2site\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// bashValueCases returns the case arms completing flag values.
func bashValueCases(flags []flagDef) string {
	var b strings.Builder
	var free []string
	for _, f := range flags {
		if f.Type == flagBool {
			continue
		}
		pattern := strings.Join(flagForms(f), "|")
		switch f.Type {
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n", pattern)
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n", strings.Join(f.FileExts, "|"))
			b.WriteString("            return\n            ;;\n")
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n", pattern)
			b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
			b.WriteString("            return\n            ;;\n")
		default:
			free = append(free, pattern)
		}
	}
	if len(free) > 0 {
		fmt.Fprintf(&b, "        %s)\n", strings.Join(free, "|"))
		b.WriteString("            return\n            ;;\n")
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef md2site\n\n")
	b.WriteString("_md2site() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'md2site command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments -s")
		for _, f := range c.Flags {
			b.WriteString(" \\\n            ")
			b.WriteString(zshFlagSpec(f))
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, " \\\n            '*:%s:(%s)'", c.Name+" argument", strings.Join(c.Args, " "))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_md2site \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec returns the _arguments spec of one flag.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshQuote(f.Desc) + "]"

	var value string
	switch f.Type {
	case flagBool:
	case flagFile:
		value = fmt.Sprintf(":file:_files -g \"*.(%s)\"", strings.Join(f.FileExts, "|"))
	case flagDir:
		value = ":directory:_files -/"
	case flagInt:
		value = ":number: "
	default:
		value = ":" + f.Long + ": "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + value + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, value)
}

// zshQuote escapes text for a single-quoted _arguments description.
func zshQuote(s string) string {
	return strings.NewReplacer(
		"'", `'\''`,
		"[", `\[`,
		"]", `\]`,
		":", `\:`,
	).Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for md2site\n\n")
	b.WriteString("complete -c md2site -f\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c md2site -n __fish_use_subcommand -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		b.WriteString("\n")
		cond := fmt.Sprintf("-n '__fish_seen_subcommand_from %s'", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c md2site %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -l %s", f.Long)
			switch f.Type {
			case flagBool:
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -r -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -r")
			}
			fmt.Fprintf(&b, " -d %s\n", fishQuote(f.Desc))
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c md2site %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# powershell completion for md2site\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName md2site -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range commands {
		words := append(flagWords(c.Flags), c.Args...)
		quoted := make([]string, len(words))
		for i, word := range words {
			quoted[i] = psQuote(word)
		}
		fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($elements.Count -lt 2 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $candidates = $commands.Keys\n")
	b.WriteString("    } else {\n")
	b.WriteString("        $candidates = $commands[$elements[1]]\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// psQuote single-quotes s for PowerShell.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func commandNames(commands []commandDef) []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}

// flagForms returns "--long" and, when set, "-s".
func flagForms(f flagDef) []string {
	forms := []string{"--" + f.Long}
	if f.Short != "" {
		forms = append(forms, "-"+f.Short)
	}
	return forms
}

// flagWords returns every flag form, sorted.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, flagForms(f)...)
	}
	slices.Sort(words)
	return words
}
