package styles

import (
	"bytes"
	"fmt"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// WriteHighlightCSS writes the CSS classes of a chroma style, matching the
// class names the goldmark converter emits for code blocks.
func WriteHighlightCSS(w io.Writer, style string) error {
	s, ok := chromastyles.Registry[style]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, style)
	}
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, s)
}

// HighlightCSS returns the stylesheet for style.
func HighlightCSS(style string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHighlightCSS(&buf, style); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
