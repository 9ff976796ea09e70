package md2site

import (
	"cmp"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// IsMarkdown reports whether name has a .md or .markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Discover returns the posts to build in processing order.
//
// With an explicit list (WithPosts), that order is used as given, reversed
// on request; files are not opened here, so a missing one fails later with
// ErrReadPost. Otherwise the source is scanned for Markdown files, hidden
// entries and skipped directories aside, drafts are dropped unless
// WithDrafts, and posts are sorted most recent first. Undated posts follow
// dated ones and ties break on path.
func (b *Builder) Discover() ([]Post, error) {
	if len(b.cfg.posts) > 0 {
		return b.listedPosts(), nil
	}
	return b.scanPosts()
}

func (b *Builder) listedPosts() []Post {
	posts := make([]Post, 0, len(b.cfg.posts))
	for _, p := range b.cfg.posts {
		posts = append(posts, newPost(p))
	}
	if b.cfg.reverse {
		slices.Reverse(posts)
	}
	return posts
}

func (b *Builder) scanPosts() ([]Post, error) {
	var posts []Post
	err := fs.WalkDir(b.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if fileutil.IsHidden(d.Name()) || slices.Contains(b.cfg.skipDirs, p) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !IsMarkdown(p) {
			return nil
		}

		post := newPost(p)
		if meta, ok := b.peekMeta(p); ok {
			if meta.Draft && !b.cfg.drafts {
				b.logger.Debug("skipping draft", "post", p)
				return nil
			}
			post.Meta = meta
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning posts: %w", err)
	}
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}

	sortPosts(posts)
	return posts, nil
}

// peekMeta reads front matter for ordering. Failures are left for the
// build step to report against the post.
func (b *Builder) peekMeta(p string) (PostMeta, bool) {
	content, err := fs.ReadFile(b.source, p)
	if err != nil {
		return PostMeta{}, false
	}
	meta, _, err := splitFrontMatter(content)
	if err != nil {
		return PostMeta{}, false
	}
	return meta, true
}

// sortPosts orders posts by date descending, undated last, then by path.
func sortPosts(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		aDated, bDated := !a.Meta.Date.IsZero(), !b.Meta.Date.IsZero()
		switch {
		case aDated && !bDated:
			return -1
		case !aDated && bDated:
			return 1
		case aDated && bDated:
			if c := b.Meta.Date.Compare(a.Meta.Date); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

func newPost(p string) Post {
	return Post{
		Path:       p,
		OutputName: fileutil.ReplaceExt(p, ".html"),
	}
}

// outputConflicts finds posts that cannot get a page of their own: posts
// sharing an output name (a.md and a.markdown) and posts that would
// overwrite the homepage. Every post involved is reported, keyed by index.
func outputConflicts(posts []Post) map[int]error {
	byName := make(map[string][]int, len(posts))
	for i, p := range posts {
		byName[p.OutputName] = append(byName[p.OutputName], i)
	}

	conflicts := make(map[int]error)
	for name, idxs := range byName {
		switch {
		case name == HomepageName:
			for _, i := range idxs {
				conflicts[i] = fmt.Errorf("%w: %s would overwrite the homepage %s", ErrOutputConflict, posts[i].Path, HomepageName)
			}
		case len(idxs) > 1:
			paths := make([]string, len(idxs))
			for j, i := range idxs {
				paths[j] = posts[i].Path
			}
			for _, i := range idxs {
				conflicts[i] = fmt.Errorf("%w: %s all write %s", ErrOutputConflict, strings.Join(paths, ", "), name)
			}
		}
	}
	return conflicts
}
