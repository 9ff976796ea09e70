package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Resolver loads templates from a custom directory, falling back to the
// embedded defaults for templates the directory doesn't provide.
type Resolver struct {
	custom   Loader // nil when the site has no templates directory
	embedded Loader
}

// NewResolver creates a Resolver for dir.
// An empty or missing dir yields embedded templates only. A dir that exists
// but cannot be used returns ErrInvalidBasePath.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}

	custom, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

// LoadTemplate loads a template, trying the custom directory first.
// Only not-found errors fall back; validation and I/O errors are returned.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplate(name)
	}

	content, err := r.custom.LoadTemplate(name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrTemplateNotFound) {
		return "", fmt.Errorf("custom template %q: %w", name, err)
	}

	return r.embedded.LoadTemplate(name)
}

// HasCustomLoader reports whether a templates directory is in use.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
