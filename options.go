package md2site

import (
	"io/fs"
	"log/slog"
	"path"

	"github.com/alnah/go-md2site/internal/pipeline"
)

// DefaultRecent is the number of posts whose intro reaches the homepage.
const DefaultRecent = 7

// Option configures a Builder.
type Option func(*Builder)

// builderConfig holds the settings that are plain values.
type builderConfig struct {
	workers    int
	recent     int
	drafts     bool
	posts      []string
	reverse    bool
	dateFormat string
	site       SiteData
	highlight  bool
	skipDirs   []string
}

// WithSource sets the filesystem posts are read from. Default: os.DirFS(".").
func WithSource(fsys fs.FS) Option {
	return func(b *Builder) {
		b.source = fsys
	}
}

// WithOutput sets where pages are written. Default: a DirOutput on "www".
func WithOutput(out Output) Option {
	return func(b *Builder) {
		b.output = out
	}
}

// WithConverter replaces the goldmark converter.
func WithConverter(c pipeline.HTMLConverter) Option {
	return func(b *Builder) {
		b.converter = c
	}
}

// WithRenderer replaces the template renderer. The renderer must know the
// a-post and homepage templates.
func WithRenderer(r pipeline.Renderer) Option {
	return func(b *Builder) {
		b.renderer = r
	}
}

// WithWorkers sets the number of posts built concurrently.
// Zero or negative means ResolveWorkers(0).
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.cfg.workers = n
	}
}

// WithRecent sets how many posts, in processing order, get a homepage intro.
// Panics if n < 0 (programmer error, similar to time.NewTicker).
func WithRecent(n int) Option {
	if n < 0 {
		panic("md2site: WithRecent count must not be negative")
	}
	return func(b *Builder) {
		b.cfg.recent = n
	}
}

// WithDrafts includes posts marked draft: true when scanning.
func WithDrafts(include bool) Option {
	return func(b *Builder) {
		b.cfg.drafts = include
	}
}

// WithPosts replaces the directory scan with an explicit ordered list of
// slash-separated paths. reverse processes the list back to front.
func WithPosts(paths []string, reverse bool) Option {
	return func(b *Builder) {
		b.cfg.posts = append([]string(nil), paths...)
		b.cfg.reverse = reverse
	}
}

// WithDateFormat sets how post dates are shown, in dateutil token syntax
// or as a preset name.
func WithDateFormat(format string) Option {
	return func(b *Builder) {
		b.cfg.dateFormat = format
	}
}

// WithSite sets the values templates see as .Site.
func WithSite(site SiteData) Option {
	return func(b *Builder) {
		b.cfg.site = site
	}
}

// WithHighlight tells templates whether a highlight stylesheet exists.
func WithHighlight(enabled bool) Option {
	return func(b *Builder) {
		b.cfg.highlight = enabled
	}
}

// WithSkipDirs excludes slash-separated directories of the source from the
// scan, typically the output directory when it lives under the posts.
func WithSkipDirs(dirs ...string) Option {
	return func(b *Builder) {
		for _, d := range dirs {
			b.cfg.skipDirs = append(b.cfg.skipDirs, path.Clean(d))
		}
	}
}

// WithPrinterPool prints every written post to PDF with printers from pool.
func WithPrinterPool(pool PrinterPool) Option {
	return func(b *Builder) {
		b.printers = pool
	}
}

// WithLogger sets the structured logger. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}
