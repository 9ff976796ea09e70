package md2site

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// filePermissions for generated pages, which are meant to be served.
const filePermissions = 0o644

// Output receives generated files.
type Output interface {
	// WriteFile stores data under a slash-separated name relative to the
	// output root, replacing any previous content.
	WriteFile(name string, data []byte) error

	// Root returns the output directory on disk, or "" for outputs that
	// don't live on disk.
	Root() string
}

// DirOutput writes files under a directory, creating subdirectories as needed.
type DirOutput struct {
	root string
}

// NewDirOutput creates a DirOutput rooted at dir.
func NewDirOutput(dir string) *DirOutput {
	return &DirOutput{root: dir}
}

// WriteFile writes name atomically under the root.
func (o *DirOutput) WriteFile(name string, data []byte) error {
	if !fs.ValidPath(name) || name == "." {
		return fmt.Errorf("invalid output name %q", name)
	}
	return fileutil.WriteFileAtomic(filepath.Join(o.root, filepath.FromSlash(name)), data, filePermissions)
}

// Root returns the output directory.
func (o *DirOutput) Root() string {
	return o.root
}

// Compile-time interface check.
var _ Output = (*DirOutput)(nil)
