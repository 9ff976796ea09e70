// Package md2site builds a static site from a directory of Markdown posts.
//
// # Quick Start
//
//	b, err := md2site.NewBuilder(
//	    md2site.WithSource(os.DirFS("posts")),
//	    md2site.WithOutput(md2site.NewDirOutput("www")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := b.Build(ctx)
//
// Every post becomes <name>.html in the output directory, and index.html
// lists the intros of the most recent posts.
//
// # Build Pipeline
//
// For each post, concurrently:
//
//  1. Front matter split (YAML --- or TOML +++)
//  2. Markdown preprocessing (line normalization, ==highlight== syntax)
//  3. Markdown to HTML via Goldmark (GFM, footnotes, chroma classes)
//  4. Links to other .md posts rewritten to .html
//  5. Intro extraction: first <h1> plus the element after it
//  6. a-post template render and write
//  7. Optional PDF print via headless Chrome (go-rod)
//
// Once every post has finished, the homepage template is rendered with the
// intros of the first posts in processing order (seven by default).
//
// # Ordering
//
// Scanned posts are processed most recent first by front matter date.
// Undated posts come after dated ones and ties break on path, so builds are
// reproducible. WithPosts fixes the order explicitly instead.
//
// # Templates
//
// Two html/template templates are used: a-post, with the converted body as
// .Compiled, and homepage, ranging over .Intros. Embedded defaults apply
// unless a renderer built from a custom directory is passed:
//
//	resolver, err := assets.NewResolver("templates")
//	renderer, err := md2site.NewRenderer(resolver)
//	b, err := md2site.NewBuilder(md2site.WithRenderer(renderer))
//
// # Testing
//
// Every collaborator is an interface (HTMLConverter, Renderer, Output,
// PrinterPool) and the source is an fs.FS, so builds run against
// fstest.MapFS and in-memory outputs.
package md2site
