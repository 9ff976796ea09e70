package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Compile styles, build posts and homepage, copy images")
	fmt.Fprintln(w, "  run        Run tasks by name (default: styles)")
	fmt.Fprintln(w, "  styles     Compile the stylesheets")
	fmt.Fprintln(w, "  posts      Build posts and the homepage")
	fmt.Fprintln(w, "  images     Copy images to the output directory")
	fmt.Fprintln(w, "  watch      Build, then rebuild on changes")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check the system and the site setup")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2site help <command>' for details on a specific command.")
}

// printSiteFlags prints the flags shared by build-like commands.
func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: site)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: www)")
	fmt.Fprintln(w, "      --posts-dir <dir>     Directory scanned for posts (default: .)")
	fmt.Fprintln(w, "      --templates <dir>     a-post.html and homepage.html (default: templates)")
	fmt.Fprintln(w, "  -w, --workers <n>         Posts built in parallel (0 = auto)")
	fmt.Fprintln(w, "      --recent <n>          Intros on the homepage (default: 7)")
	fmt.Fprintln(w, "      --drafts              Include posts marked draft: true")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting")
	fmt.Fprintln(w, "      --sass <cmd>          Sass compiler command (default: sass)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print edition:")
	fmt.Fprintln(w, "      --pdf                 Also print each post to <name>.pdf")
	fmt.Fprintln(w, "  -t, --timeout <d>         Print timeout per post (default: 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
}

// printCommandUsage prints usage for one command.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case "build":
		fmt.Fprintln(w, "Usage: md2site build [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Compile styles, build every post and the homepage, copy images.")
		fmt.Fprintln(w, "The three steps run concurrently.")
	case "run":
		fmt.Fprintln(w, "Usage: md2site run [task...] [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run tasks by name: styles, posts, images, build.")
		fmt.Fprintln(w, "Without a task, runs styles.")
	case "styles":
		fmt.Fprintln(w, "Usage: md2site styles [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Compile styles.source into styles.output under the output directory.")
		fmt.Fprintln(w, ".scss/.sass sources need a Sass compiler; .css files and directories")
		fmt.Fprintln(w, "of .css files are concatenated. Writes css/highlight.css when")
		fmt.Fprintln(w, "highlighting is on.")
	case "posts":
		fmt.Fprintln(w, "Usage: md2site posts [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Build every post with the a-post template, then index.html with the")
		fmt.Fprintln(w, "homepage template from the intros of the most recent posts.")
	case "images":
		fmt.Fprintln(w, "Usage: md2site images [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Copy assets.images into the output directory.")
	case "watch":
		fmt.Fprintln(w, "Usage: md2site watch [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Build once, then rebuild what changed: styles on stylesheet changes,")
		fmt.Fprintln(w, "posts on Markdown or template changes, images on image changes.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "      --debounce <d>        Wait for changes to settle (default: 300ms)")
	case "config":
		fmt.Fprintln(w, "Usage: md2site config [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the configuration after defaults, config file, environment")
		fmt.Fprintln(w, "and flags are merged.")
	case "doctor":
		fmt.Fprintln(w, "Usage: md2site doctor [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check the config, the posts directory, the Sass compiler and")
		fmt.Fprintln(w, "Chrome/Chromium. Chrome is required only for the print edition.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: site)")
		fmt.Fprintln(w, "      --pdf                 Check as if --pdf were given")
		fmt.Fprintln(w, "      --json                Print results as JSON")
		return
	case "completion":
		printCompletionUsage(w)
		return
	default:
		printUsage(w)
		return
	}
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build", "run", "styles", "posts", "images", "watch", "config", "doctor", "completion":
		printCommandUsage(env.Stdout, args[0])
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2site version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2site help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
