package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractIntro builds a post preview from an HTML fragment: the markup of
// the first <h1> in document order followed by the markup of the next
// sibling element. Whitespace between the two is dropped.
//
// A fragment without <h1> yields "" and no error. A heading with nothing
// after it yields the heading alone.
func ExtractIntro(fragment string) (string, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	heading := findFirst(doc, atom.H1)
	if heading == nil {
		return "", nil
	}

	var buf strings.Builder
	if err := html.Render(&buf, heading); err != nil {
		return "", err
	}
	if next := nextElementSibling(heading); next != nil {
		if err := html.Render(&buf, next); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
