package pipeline

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors for template rendering.
var (
	// ErrTemplateParse indicates a template source failed to parse.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateExecute indicates a template failed while rendering data.
	ErrTemplateExecute = errors.New("template execution failed")

	// ErrUnknownTemplate indicates a render request for an undefined template.
	ErrUnknownTemplate = errors.New("unknown template")
)

// Renderer renders a named template with a data context.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// TemplateRenderer renders html/template templates that share one namespace,
// so a {{define}} in one source is callable from the others.
type TemplateRenderer struct {
	root *template.Template
}

// NewTemplateRenderer parses sources, keyed by template name, in name order.
func NewTemplateRenderer(sources map[string]string) (*TemplateRenderer, error) {
	root := template.New("").Option("missingkey=error")
	for _, name := range slices.Sorted(maps.Keys(sources)) {
		if _, err := root.New(name).Parse(sources[name]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
		}
	}
	return &TemplateRenderer{root: root}, nil
}

// Render executes the named template into w. Output is buffered so a
// failing template never leaves a half-written page behind.
func (r *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	tmpl := r.root.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateExecute, name, err)
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

// Compile-time interface check.
var _ Renderer = (*TemplateRenderer)(nil)
