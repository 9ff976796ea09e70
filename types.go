package md2site

import (
	"html/template"
	"time"
)

// Post identifies one Markdown source.
type Post struct {
	Path       string   // Slash-separated, relative to the source root
	OutputName string   // Path with its extension swapped for .html
	Meta       PostMeta // Front matter; filled when the post is read
}

// Href is the link to the post's page from the site root.
func (p Post) Href() string {
	return p.OutputName
}

// PostMeta is the front matter of a post.
type PostMeta struct {
	Title       string
	Date        time.Time // Zero when the post has no date
	Draft       bool
	Description string
}

// PostResult holds the outcome of building one post.
type PostResult struct {
	Post       Post
	OutputPath string // Output name of the written page; empty on failure
	Intro      string // Empty when the post has no <h1> or is outside the homepage window
	Err        error  // Read, convert, render or write failure
	PrintErr   error  // PDF print failure; the page itself was written
	Duration   time.Duration
}

// Failed reports whether any step for the post failed.
func (r PostResult) Failed() bool {
	return r.Err != nil || r.PrintErr != nil
}

// BuildResult holds the outcome of a whole build, posts in processing order.
type BuildResult struct {
	Posts    []PostResult
	Homepage string  // Output name of the homepage; empty when not written
	Intros   []Intro // Entries rendered on the homepage
	Duration time.Duration
}

// Failed counts posts with any failure.
func (r *BuildResult) Failed() int {
	n := 0
	for _, p := range r.Posts {
		if p.Failed() {
			n++
		}
	}
	return n
}

// SiteData is exposed to every template as .Site.
type SiteData struct {
	Title   string
	BaseURL string
}

// PostData is the context of the a-post template.
type PostData struct {
	Compiled    template.HTML // Converted post body
	Title       string
	Description string
	Date        string // Formatted with the configured date format
	Href        string
	Root        string // Relative prefix back to the site root, e.g. "../"
	Highlight   bool   // Whether css/highlight.css is generated
	Site        SiteData
}

// Intro is one homepage entry.
type Intro struct {
	Intro template.HTML // First <h1> and the element after it
	Href  string
	Title string
	Date  string
}

// HomepageData is the context of the homepage template.
type HomepageData struct {
	Intros []Intro
	Site   SiteData
}
