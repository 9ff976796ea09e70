package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/tasks"
)

// loadSiteConfig resolves the configuration: defaults, then the config
// file, then MD2SITE_* variables, then flags.
func loadSiteConfig(flags *commandFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	cfg, err := loadConfigFile(name)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile loads an explicitly named config, which must exist, or
// the default "site" config, which may be absent.
func loadConfigFile(name string) (*config.Config, error) {
	explicit := name != ""
	if !explicit {
		name = config.DefaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	switch {
	case err == nil:
		return cfg, nil
	case !explicit && errors.Is(err, config.ErrConfigNotFound):
		return config.DefaultConfig(), nil
	case errors.Is(err, config.ErrConfigNotFound):
		return nil, withHint(fmt.Errorf("loading config: %w", err), hints.ForConfigNotFound(config.SearchPaths(name)))
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *commandFlags, cfg *config.Config) {
	f := flags.site
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.postsDir != "" {
		cfg.Input.PostsDir = f.postsDir
	}
	if f.templates != "" {
		cfg.Templates.Dir = f.templates
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.recentSet {
		cfg.Homepage.Recent = f.recent
	}
	if f.drafts {
		cfg.Input.Drafts = true
	}
	if f.pdf {
		cfg.PDF.Enabled = true
	}
	if f.timeout != "" {
		cfg.PDF.Timeout = f.timeout
	}
	if f.noHighlight {
		cfg.Highlight.Enabled = false
	}
	if f.sass != "" {
		cfg.Styles.Command = f.sass
	}
	if flags.debounce != "" {
		cfg.Watch.Debounce = flags.debounce
	}
}

// newLogger builds the stderr logger: -v shows debug, -q only errors.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRunner creates the task runner for cfg. The returned cleanup closes
// the browsers of the print edition, if any were started.
func newRunner(cfg *config.Config, logger *slog.Logger) (*tasks.Runner, func(), error) {
	opts := []tasks.Option{tasks.WithLogger(logger)}
	cleanup := func() {}

	if cfg.PDF.Enabled {
		timeout, err := cfg.PDFTimeout()
		if err != nil {
			return nil, nil, err
		}
		pool := md2site.NewPrinterPool(md2site.ResolveWorkers(cfg.Workers), timeout)
		logger.Debug("print edition enabled", "browsers", pool.Size(), "timeout", timeout)
		opts = append(opts, tasks.WithPrinterPool(pool))
		cleanup = func() {
			if err := pool.Close(); err != nil {
				logger.Warn("closing browsers", "error", err)
			}
		}
	}

	return tasks.NewRunner(cfg, opts...), cleanup, nil
}

// hintError appends an actionable hint to an error message.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() + e.hint }
func (e *hintError) Unwrap() error { return e.err }

func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

// addHint attaches the hint matching err, if any.
func addHint(err error, cfg *config.Config) error {
	var h *hintError
	if errors.As(err, &h) {
		return err
	}
	return withHint(err, hintFor(err, cfg))
}

// hintFor returns the hint for a build or post error, or "".
func hintFor(err error, cfg *config.Config) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, md2site.ErrNoPosts):
		return hints.ForNoPosts(cfg.Input.PostsDir)
	case errors.Is(err, md2site.ErrTemplateNotFound),
		errors.Is(err, pipeline.ErrTemplateParse),
		errors.Is(err, pipeline.ErrTemplateExecute):
		return hints.ForTemplate(cfg.Templates.Dir)
	case errors.Is(err, md2site.ErrOutputConflict):
		return hints.ForOutputConflict()
	case errors.Is(err, exec.ErrNotFound):
		return hints.ForStyleCompiler(cfg.Styles.Command)
	case errors.Is(err, md2site.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, md2site.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, os.ErrPermission), errors.Is(err, md2site.ErrWriteHomepage):
		return hints.ForOutputDirectory()
	}
	return ""
}
