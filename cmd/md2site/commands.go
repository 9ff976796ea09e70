package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/tasks"
	"github.com/alnah/go-md2site/internal/watch"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// runTasks runs build, styles, posts, images, or the tasks named after run.
func runTasks(ctx context.Context, cmd string, args []string, env *Environment) error {
	flags, positional, err := parseCommandFlags(cmd, args, env.Stderr)
	if err != nil {
		return err
	}

	ts, err := tasksFor(cmd, positional)
	if err != nil {
		return err
	}

	cfg, err := loadSiteConfig(flags, env)
	if err != nil {
		return err
	}

	runner, cleanup, err := newRunner(cfg, newLogger(env.Stderr, flags.common))
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := runner.Run(ctx, ts...)
	printReport(report, cfg, flags.common, env)
	return addHint(err, cfg)
}

// tasksFor maps a command and its arguments to tasks.
func tasksFor(cmd string, positional []string) ([]tasks.Task, error) {
	if cmd != "run" {
		if len(positional) > 0 {
			return nil, fmt.Errorf("%w: %s takes no arguments, got %s", errUsage, cmd, strings.Join(positional, " "))
		}
		return []tasks.Task{tasks.Task(cmd)}, nil
	}

	ts := make([]tasks.Task, 0, len(positional))
	for _, name := range positional {
		t, err := tasks.ParseTask(name)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil // empty runs the default task
}

// runWatch builds the whole site, then rebuilds on changes until ctx ends.
// Build failures are reported and watching goes on, so they can be fixed
// in place.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCommandFlags("watch", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: watch takes no arguments, got %s", errUsage, strings.Join(positional, " "))
	}

	cfg, err := loadSiteConfig(flags, env)
	if err != nil {
		return err
	}
	debounce, err := cfg.WatchDebounce()
	if err != nil {
		return err
	}
	rules, err := watch.Rules(cfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	runner, cleanup, err := newRunner(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	rebuild := func(ctx context.Context, ts ...tasks.Task) error {
		report, err := runner.Run(ctx, ts...)
		printReport(report, cfg, flags.common, env)
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", addHint(err, cfg))
		}
		return nil
	}

	_ = rebuild(ctx, tasks.Build)
	if ctx.Err() != nil {
		return nil
	}

	w := watch.New(rules, rebuild,
		watch.WithLogger(logger),
		watch.WithDebounce(debounce),
		watch.WithIgnore(cfg.Output.Dir),
	)
	if !flags.common.quiet {
		fmt.Fprintln(env.Stdout, "Watching for changes (Ctrl-C to stop)")
	}
	return w.Run(ctx)
}

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, positional, err := parseCommandFlags("config", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments", errUsage)
	}

	cfg, err := loadSiteConfig(flags, env)
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

// printReport outputs what a run produced. Failed posts go to stderr even
// in quiet mode.
func printReport(r *tasks.Report, cfg *config.Config, f commonFlags, env *Environment) {
	if r == nil {
		return
	}

	if r.Styles != nil && !f.quiet {
		for _, file := range r.Styles.Files {
			fmt.Fprintf(env.Stdout, "Created %s\n", file)
		}
		if r.Styles.Fallback && f.verbose {
			fmt.Fprintf(env.Stdout, "%s not found, used the default style\n", cfg.Styles.Source)
		}
	}

	if r.Posts != nil {
		printPosts(r.Posts, cfg, f, env)
	}

	if slices.Contains(r.Tasks, tasks.Images) && !f.quiet && r.Images > 0 {
		fmt.Fprintf(env.Stdout, "Copied %d image(s) to %s\n", r.Images, cfg.ImagesOutputDir())
	}

	if f.verbose {
		fmt.Fprintf(env.Stdout, "Done in %v\n", r.Duration.Round(time.Millisecond))
	}
}

// printPosts outputs post results in processing order, then the homepage.
func printPosts(b *md2site.BuildResult, cfg *config.Config, f commonFlags, env *Environment) {
	failed := 0
	for _, p := range b.Posts {
		if p.Err != nil {
			failed++
			if !errors.Is(p.Err, context.Canceled) {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", p.Post.Path, p.Err, hintFor(p.Err, cfg))
			}
			continue
		}
		if p.PrintErr != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s (pdf): %v%s\n", p.Post.Path, p.PrintErr, hintFor(p.PrintErr, cfg))
		}

		if f.quiet {
			continue
		}

		out := filepath.Join(cfg.Output.Dir, filepath.FromSlash(p.OutputPath))
		if f.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", p.Post.Path, out, p.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", out)
		}
	}

	if b.Homepage != "" && !f.quiet {
		fmt.Fprintf(env.Stdout, "Created %s (%d intros)\n", filepath.Join(cfg.Output.Dir, b.Homepage), len(b.Intros))
	}

	if !f.quiet && len(b.Posts) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(b.Posts)-failed, failed)
	}
}
