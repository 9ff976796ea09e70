// Package tasks runs the site build steps: stylesheets, posts and images.
// Independent steps run concurrently; "build" runs all of them.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/styles"
)

// Sentinel errors for task runs.
var (
	ErrCopyAssets  = errors.New("copying assets")
	ErrUnknownTask = errors.New("unknown task")
)

// Task names one build step.
type Task string

// Tasks. Styles is the default when none is named.
const (
	Styles Task = "styles"
	Posts  Task = "posts"
	Images Task = "images"
	Build  Task = "build"
)

// DefaultTask runs when Run is given no task.
const DefaultTask = Styles

// HighlightOutput is the highlight stylesheet, relative to the output dir.
const HighlightOutput = "css/highlight.css"

// Step functions, replaceable for tests.
type (
	PostsFunc  func(ctx context.Context) (*md2site.BuildResult, error)
	StylesFunc func(ctx context.Context) (*styles.Result, error)
	ImagesFunc func(ctx context.Context) (int, error)
)

// Report collects what each step produced. Fields of steps that did not
// run stay nil or zero.
type Report struct {
	Tasks    []Task
	Posts    *md2site.BuildResult
	Styles   *styles.Result
	Images   int
	Duration time.Duration
}

// Runner runs tasks against one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	printers md2site.PrinterPool
	posts    PostsFunc
	styles   StylesFunc
	images   ImagesFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPrinterPool prints posts to PDF with printers from pool.
func WithPrinterPool(pool md2site.PrinterPool) Option {
	return func(r *Runner) {
		r.printers = pool
	}
}

// WithPosts replaces the posts step.
func WithPosts(fn PostsFunc) Option {
	return func(r *Runner) { r.posts = fn }
}

// WithStyles replaces the styles step.
func WithStyles(fn StylesFunc) Option {
	return func(r *Runner) { r.styles = fn }
}

// WithImages replaces the images step.
func WithImages(fn ImagesFunc) Option {
	return func(r *Runner) { r.images = fn }
}

// NewRunner creates a Runner for cfg, which must be valid.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.posts == nil {
		r.posts = r.buildPosts
	}
	if r.styles == nil {
		r.styles = r.buildStyles
	}
	if r.images == nil {
		r.images = r.copyImages
	}
	return r
}

// ParseTask validates a task name.
func ParseTask(name string) (Task, error) {
	t := Task(strings.ToLower(strings.TrimSpace(name)))
	switch t {
	case Styles, Posts, Images, Build:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q (want styles, posts, images or build)", ErrUnknownTask, name)
}

// expand resolves build into its steps and drops duplicates, keeping the
// order steps were named in.
func expand(tasks []Task) []Task {
	if len(tasks) == 0 {
		tasks = []Task{DefaultTask}
	}
	var steps []Task
	for _, t := range tasks {
		names := []Task{t}
		if t == Build {
			names = []Task{Styles, Posts, Images}
		}
		for _, n := range names {
			if !slices.Contains(steps, n) {
				steps = append(steps, n)
			}
		}
	}
	return steps
}

// Run runs the named tasks concurrently. The first hard failure cancels the
// others. Failed posts are not a hard failure: the other steps finish and
// the error wrapping md2site.ErrBuildFailed is returned at the end.
func (r *Runner) Run(ctx context.Context, tasks ...Task) (*Report, error) {
	start := time.Now()
	report := &Report{Tasks: expand(tasks)}

	var postsErr error
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range report.Tasks {
		switch t {
		case Styles:
			g.Go(func() error {
				res, err := r.styles(ctx)
				report.Styles = res
				return err
			})
		case Posts:
			g.Go(func() error {
				res, err := r.posts(ctx)
				report.Posts = res
				if errors.Is(err, md2site.ErrBuildFailed) {
					postsErr = err
					return nil
				}
				return err
			})
		case Images:
			g.Go(func() error {
				n, err := r.images(ctx)
				report.Images = n
				return err
			})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownTask, t)
		}
	}

	err := g.Wait()
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}
	return report, postsErr
}

// buildPosts builds every post and the homepage. Templates are reloaded on
// each run so watch mode picks up edits.
func (r *Runner) buildPosts(ctx context.Context) (*md2site.BuildResult, error) {
	resolver, err := assets.NewResolver(r.cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}
	if !resolver.HasCustomLoader() {
		r.logger.Debug("templates dir not found, using embedded templates", "dir", r.cfg.Templates.Dir)
	}
	renderer, err := md2site.NewRenderer(resolver)
	if err != nil {
		return nil, err
	}

	opts := []md2site.Option{
		md2site.WithSource(os.DirFS(r.cfg.Input.PostsDir)),
		md2site.WithOutput(md2site.NewDirOutput(r.cfg.Output.Dir)),
		md2site.WithConverter(pipeline.NewGoldmarkConverter(
			pipeline.WithHighlighting(r.cfg.Highlight.Enabled),
			pipeline.WithHighlightStyle(r.cfg.Highlight.Style),
		)),
		md2site.WithRenderer(renderer),
		md2site.WithWorkers(r.cfg.Workers),
		md2site.WithRecent(r.cfg.Homepage.Recent),
		md2site.WithDrafts(r.cfg.Input.Drafts),
		md2site.WithDateFormat(r.cfg.Homepage.DateFormat),
		md2site.WithSite(md2site.SiteData{Title: r.cfg.Site.Title, BaseURL: r.cfg.Site.BaseURL}),
		md2site.WithHighlight(r.cfg.Highlight.Enabled),
		md2site.WithSkipDirs(skipDirs(r.cfg)...),
		md2site.WithLogger(r.logger),
	}
	if len(r.cfg.Input.Posts) > 0 {
		opts = append(opts, md2site.WithPosts(r.cfg.Input.Posts, r.cfg.Input.Reverse))
	}
	if r.printers != nil {
		opts = append(opts, md2site.WithPrinterPool(r.printers))
	}

	builder, err := md2site.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	return builder.Build(ctx)
}

// buildStyles compiles the stylesheet and the highlight stylesheet.
func (r *Runner) buildStyles(ctx context.Context) (*styles.Result, error) {
	opts := styles.Options{
		Source:  r.cfg.Styles.Source,
		Output:  filepath.Join(r.cfg.Output.Dir, filepath.FromSlash(r.cfg.Styles.Output)),
		Command: r.cfg.Styles.Command,
		Logger:  r.logger,
	}
	if r.cfg.Highlight.Enabled {
		opts.HighlightStyle = r.cfg.Highlight.Style
		opts.HighlightOutput = filepath.Join(r.cfg.Output.Dir, filepath.FromSlash(HighlightOutput))
	}
	return styles.Build(ctx, opts)
}

// copyImages copies the images directory verbatim. A missing directory is
// not an error: the site simply has no images.
func (r *Runner) copyImages(ctx context.Context) (int, error) {
	src := r.cfg.Assets.Images
	if src == "" || !fileutil.DirExists(src) {
		r.logger.Debug("no images directory", "dir", src)
		return 0, nil
	}
	n, err := fileutil.CopyDir(ctx, src, r.cfg.ImagesOutputDir())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return n, ctxErr
		}
		return n, fmt.Errorf("%w: %v", ErrCopyAssets, err)
	}
	r.logger.Debug("images copied", "count", n)
	return n, nil
}

// skipDirs returns the directories under the posts dir that never hold
// posts: the output and the templates.
func skipDirs(cfg *config.Config) []string {
	var dirs []string
	for _, d := range []string{cfg.Output.Dir, cfg.Templates.Dir} {
		if rel, ok := relativeTo(cfg.Input.PostsDir, d); ok {
			dirs = append(dirs, rel)
		}
	}
	return dirs
}

// relativeTo returns dir as a slash path relative to base when it lies
// strictly inside it.
func relativeTo(base, dir string) (string, bool) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
