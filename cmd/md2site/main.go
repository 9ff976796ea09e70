// Command md2site builds a static blog from a directory of Markdown posts.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// A .env in the working directory feeds MD2SITE_* variables. Variables
	// already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(env.Stderr, "warning: loading .env: %v\n", err)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	verbose := slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose")
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		if verbose {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}))

	os.Exit(runMain(os.Args, env))
}

// runMain dispatches the command in args (args[0] is the program name) and
// returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2site %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}

	ctx, stop := notifyContext(env.Context())
	defer stop()

	var err error
	switch cmd {
	case "build", "styles", "posts", "images", "run":
		err = runTasks(ctx, cmd, rest, env)
	case "watch":
		err = runWatch(ctx, rest, env)
	case "config":
		err = runConfig(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		if errors.Is(err, errHelpRequested) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
