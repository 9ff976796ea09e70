package md2site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirOutput_WriteFile(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "www")
	out := NewDirOutput(root)

	if err := out.WriteFile("2024/a.html", []byte("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := out.WriteFile("2024/a.html", []byte("second")); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "2024", "a.html"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
	if out.Root() != root {
		t.Errorf("Root() = %q, want %q", out.Root(), root)
	}
}

func TestDirOutput_InvalidNames(t *testing.T) {
	t.Parallel()

	out := NewDirOutput(t.TempDir())
	for _, name := range []string{"../escape.html", "/abs.html", ".", "", "a/../../b.html"} {
		if err := out.WriteFile(name, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) should fail", name)
		}
	}
}
