package md2site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// HomepageName is the output name of the homepage.
const HomepageName = "index.html"

// Builder turns a directory of Markdown posts into a static site.
// Create with NewBuilder, then call Build as often as needed; a Builder
// holds no per-build state.
type Builder struct {
	cfg       builderConfig
	source    fs.FS
	output    Output
	converter pipeline.HTMLConverter
	renderer  pipeline.Renderer
	printers  PrinterPool
	logger    *slog.Logger
}

// NewBuilder creates a Builder. Collaborators not set through options get
// production defaults: the working directory as source, "www" as output,
// goldmark for conversion and the embedded templates for rendering.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg: builderConfig{
			recent:     DefaultRecent,
			dateFormat: dateutil.DefaultDateFormat,
			highlight:  true,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.source == nil {
		b.source = os.DirFS(".")
	}
	if b.output == nil {
		b.output = NewDirOutput("www")
	}
	if b.converter == nil {
		b.converter = pipeline.NewGoldmarkConverter(pipeline.WithHighlighting(b.cfg.highlight))
	}
	if b.renderer == nil {
		r, err := NewRenderer(assets.NewEmbeddedLoader())
		if err != nil {
			return nil, err
		}
		b.renderer = r
	}
	if _, err := dateutil.Format(time.Unix(0, 0), b.cfg.dateFormat); err != nil {
		return nil, err
	}

	return b, nil
}

// NewRenderer loads the a-post and homepage templates from loader.
func NewRenderer(loader assets.Loader) (*pipeline.TemplateRenderer, error) {
	set, err := assets.LoadTemplateSet(loader)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		}
		return nil, err
	}
	return pipeline.NewTemplateRenderer(map[string]string{
		assets.PostTemplateName:     set.Post,
		assets.HomepageTemplateName: set.Homepage,
	})
}

// Build renders every post, then the homepage from the intros of the first
// posts in processing order.
//
// Per-post failures don't stop the build: the other posts are still written,
// failed ones are left out of the homepage, and the returned error wraps
// ErrBuildFailed alongside the complete result. The homepage is rendered
// only after every post has finished.
func (b *Builder) Build(ctx context.Context) (result *BuildResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()

	posts, err := b.Discover()
	if err != nil {
		return nil, err
	}
	b.logger.Debug("discovered posts", "count", len(posts))

	result = &BuildResult{Posts: b.buildPosts(ctx, posts)}
	if err := ctx.Err(); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}

	result.Intros = b.collectIntros(result.Posts)
	if err := b.writeHomepage(result.Intros); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.Homepage = HomepageName
	result.Duration = time.Since(start)

	b.logger.Debug("homepage written", "intros", len(result.Intros))

	if failed := result.Failed(); failed > 0 {
		return result, fmt.Errorf("%w: %d of %d posts failed", ErrBuildFailed, failed, len(posts))
	}
	return result, nil
}

// buildPosts runs posts through a bounded worker pool. Results are indexed
// by post position, so their order is the processing order whatever the
// completion order. Posts whose output name conflicts fail unwritten.
func (b *Builder) buildPosts(ctx context.Context, posts []Post) []PostResult {
	concurrency := min(ResolveWorkers(b.cfg.workers), len(posts))

	results := make([]PostResult, len(posts))
	conflicts := outputConflicts(posts)
	var wg sync.WaitGroup
	jobs := make(chan int, len(posts))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var printer Printer
			if b.printers != nil {
				printer = b.printers.Acquire()
				defer b.printers.Release(printer)
			}

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = PostResult{Post: posts[idx], Err: err}
					continue
				}
				if err := conflicts[idx]; err != nil {
					results[idx] = PostResult{Post: posts[idx], Err: err}
					b.logPost(results[idx])
					continue
				}
				results[idx] = b.buildPost(ctx, printer, posts[idx], idx < b.cfg.recent)
			}
		}()
	}

	for i := range posts {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// buildPost reads, converts, renders and writes one post. wantIntro is set
// for posts inside the homepage window.
func (b *Builder) buildPost(ctx context.Context, printer Printer, post Post, wantIntro bool) (result PostResult) {
	start := time.Now()
	result.Post = post
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("internal error: %v", r)
		}
		result.Duration = time.Since(start)
		b.logPost(result)
	}()

	content, err := fs.ReadFile(b.source, post.Path)
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrReadPost, post.Path, err)
		return result
	}

	meta, body, err := splitFrontMatter(content)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", post.Path, err)
		return result
	}
	meta.Title = resolveTitle(meta, body, post.Path)
	post.Meta = meta
	result.Post = post

	fragment, err := b.convert(ctx, string(body))
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrHTMLConversion, post.Path, err)
		return result
	}

	if wantIntro {
		intro, err := pipeline.ExtractIntro(fragment)
		if err != nil {
			result.Err = fmt.Errorf("%w: %s: extracting intro: %w", ErrHTMLConversion, post.Path, err)
			return result
		}
		result.Intro = intro
	}

	date, _ := dateutil.Format(meta.Date, b.cfg.dateFormat)
	var page bytes.Buffer
	err = b.renderer.Render(&page, assets.PostTemplateName, PostData{
		Compiled:    template.HTML(fragment), // #nosec G203 -- goldmark output, raw HTML disabled
		Title:       meta.Title,
		Description: meta.Description,
		Date:        date,
		Href:        post.Href(),
		Root:        rootPrefix(post.OutputName),
		Highlight:   b.cfg.highlight,
		Site:        b.cfg.site,
	})
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrRender, post.Path, err)
		return result
	}

	if err := b.output.WriteFile(post.OutputName, page.Bytes()); err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrWritePost, post.OutputName, err)
		return result
	}
	result.OutputPath = post.OutputName

	if printer != nil {
		result.PrintErr = b.print(ctx, printer, post.OutputName)
	}
	return result
}

// convert runs the Markdown stages: preprocess, goldmark, links.
func (b *Builder) convert(ctx context.Context, body string) (string, error) {
	fragment, err := b.converter.ToHTML(ctx, pipeline.Preprocess(body))
	if err != nil {
		return "", err
	}
	return pipeline.RewriteMarkdownLinks(fragment)
}

// print renders the written page to <name>.pdf next to it.
func (b *Builder) print(ctx context.Context, printer Printer, name string) error {
	root := b.output.Root()
	if root == "" {
		return fmt.Errorf("%w: output has no directory on disk", ErrPDFGeneration)
	}
	htmlPath, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := printer.PrintToPDF(ctx, htmlPath)
	if err != nil {
		return err
	}
	pdfName := fileutil.ReplaceExt(name, ".pdf")
	if err := b.output.WriteFile(pdfName, pdf); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWritePost, pdfName, err)
	}
	return nil
}

// collectIntros returns the homepage entries: the first recent posts in
// processing order, minus those that failed to build.
func (b *Builder) collectIntros(results []PostResult) []Intro {
	window := min(b.cfg.recent, len(results))
	intros := make([]Intro, 0, window)
	for _, r := range results[:window] {
		if r.Err != nil {
			continue
		}
		date, _ := dateutil.Format(r.Post.Meta.Date, b.cfg.dateFormat)
		intros = append(intros, Intro{
			Intro: template.HTML(r.Intro), // #nosec G203 -- re-serialized goldmark output
			Href:  r.Post.Href(),
			Title: r.Post.Meta.Title,
			Date:  date,
		})
	}
	return intros
}

func (b *Builder) writeHomepage(intros []Intro) error {
	var page bytes.Buffer
	err := b.renderer.Render(&page, assets.HomepageTemplateName, HomepageData{
		Intros: intros,
		Site:   b.cfg.site,
	})
	if err != nil {
		return fmt.Errorf("%w: homepage: %w", ErrRender, err)
	}
	if err := b.output.WriteFile(HomepageName, page.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHomepage, err)
	}
	return nil
}

func (b *Builder) logPost(r PostResult) {
	switch {
	case r.Err != nil:
		b.logger.Warn("post failed", "post", r.Post.Path, "error", r.Err)
	case r.PrintErr != nil:
		b.logger.Warn("print failed", "post", r.Post.Path, "error", r.PrintErr)
	default:
		b.logger.Debug("post built", "post", r.Post.Path, "output", r.OutputPath, "duration", r.Duration)
	}
}

// rootPrefix returns the relative path from an output file back to the
// site root: "" for "a.html", "../" for "2024/a.html".
func rootPrefix(outputName string) string {
	return strings.Repeat("../", strings.Count(outputName, "/"))
}
