package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

var (
	errUsage         = errors.New("usage error")
	errHelpRequested = errors.New("help requested")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags override the site configuration.
type siteFlags struct {
	output      string
	postsDir    string
	templates   string
	workers     int
	recent      int
	recentSet   bool // 0 is a valid window, so only an explicit --recent applies
	drafts      bool
	pdf         bool
	timeout     string
	noHighlight bool
	sass        string
}

// commandFlags holds all flags for the build-like commands.
type commandFlags struct {
	common   commonFlags
	site     siteFlags
	debounce string // watch only
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
}

// addSiteFlags adds the configuration override flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.postsDir, "posts-dir", "", "directory scanned for posts")
	fs.StringVar(&f.templates, "templates", "", "directory with a-post.html and homepage.html")
	fs.IntVarP(&f.workers, "workers", "w", 0, "posts built in parallel (0 = auto)")
	fs.IntVar(&f.recent, "recent", 0, "number of intros on the homepage")
	fs.BoolVar(&f.drafts, "drafts", false, "include posts marked draft")
	fs.BoolVar(&f.pdf, "pdf", false, "also print each post to PDF")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF print timeout per post (e.g., 30s, 2m)")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.StringVar(&f.sass, "sass", "", "Sass compiler command")
}

// newCommandFlagSet declares the flags of a build-like command into f.
// Shell completion reads the same set.
func newCommandFlagSet(cmd string, f *commandFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	if cmd == "watch" {
		fs.StringVar(&f.debounce, "debounce", "", "wait for changes to settle (e.g., 300ms)")
	}
	return fs
}

// parseCommandFlags parses the flags of cmd and returns positional args.
func parseCommandFlags(cmd string, args []string, stderr io.Writer) (*commandFlags, []string, error) {
	f := &commandFlags{}
	fs := newCommandFlagSet(cmd, f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCommandUsage(stderr, cmd) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, errHelpRequested
		}
		return nil, nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	f.site.recentSet = fs.Changed("recent")

	return f, fs.Args(), nil
}
