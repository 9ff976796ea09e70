package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// markdownExts are the source extensions rewritten to .html in links.
var markdownExts = []string{".md", ".markdown"}

// RewriteMarkdownLinks points relative links between posts at their
// generated pages: <a href="other.md#x"> becomes <a href="other.html#x">.
//
// Left untouched:
//   - URLs with a scheme and protocol-relative URLs
//   - anchors and absolute paths
//   - links to anything that isn't a Markdown file
func RewriteMarkdownLinks(fragment string) (string, error) {
	if !containsMarkdownLink(fragment) {
		return fragment, nil
	}

	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	rewriteLinks(doc)
	return renderChildren(doc)
}

// containsMarkdownLink is a cheap pre-check that avoids a parse/render
// round trip for posts without links to other posts.
func containsMarkdownLink(fragment string) bool {
	for _, ext := range markdownExts {
		if strings.Contains(fragment, ext) {
			return true
		}
	}
	return false
}

func rewriteLinks(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key == "href" {
				n.Attr[i].Val = rewriteHref(attr.Val)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteLinks(c)
	}
}

// rewriteHref swaps a Markdown extension for .html, keeping query and fragment.
func rewriteHref(href string) string {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") {
		return href
	}

	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return href
	}

	ext := strings.ToLower(path.Ext(u.Path))
	for _, md := range markdownExts {
		if ext == md {
			u.Path = strings.TrimSuffix(u.Path, path.Ext(u.Path)) + ".html"
			return u.String()
		}
	}
	return href
}
