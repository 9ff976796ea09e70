package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		dir        func(t *testing.T) string
		wantCustom bool
		wantErr    error
	}{
		{
			name:       "empty dir uses embedded only",
			dir:        func(t *testing.T) string { return "" },
			wantCustom: false,
		},
		{
			name:       "missing dir uses embedded only",
			dir:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "templates") },
			wantCustom: false,
		},
		{
			name:       "existing dir is used",
			dir:        func(t *testing.T) string { return t.TempDir() },
			wantCustom: true,
		},
		{
			name: "file is rejected",
			dir: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "templates")
				if err := os.WriteFile(file, nil, 0o644); err != nil {
					t.Fatal(err)
				}
				return file
			},
			wantErr: ErrInvalidBasePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewResolver(tt.dir(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewResolver() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewResolver() error = %v", err)
			}
			if r.HasCustomLoader() != tt.wantCustom {
				t.Errorf("HasCustomLoader() = %v, want %v", r.HasCustomLoader(), tt.wantCustom)
			}
		})
	}
}

func TestResolver_LoadTemplateSet(t *testing.T) {
	t.Parallel()

	t.Run("partial override falls back per template", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTemplate(t, dir, HomepageTemplateName, "custom home")

		r, err := NewResolver(dir)
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}

		set, err := LoadTemplateSet(r)
		if err != nil {
			t.Fatalf("LoadTemplateSet() error = %v", err)
		}
		if set.Homepage != "custom home" {
			t.Errorf("Homepage = %q, want custom template", set.Homepage)
		}
		if !strings.Contains(set.Post, "{{.Compiled}}") {
			t.Errorf("Post should fall back to embedded template, got %q", set.Post)
		}
	})

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}

		set, err := LoadTemplateSet(r)
		if err != nil {
			t.Fatalf("LoadTemplateSet() error = %v", err)
		}
		if set.Post == "" || set.Homepage == "" {
			t.Error("embedded template set is incomplete")
		}
	})
}

type missingLoader struct{}

func (missingLoader) LoadTemplate(name string) (string, error) {
	return "", ErrTemplateNotFound
}

func TestLoadTemplateSet_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadTemplateSet(missingLoader{})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplateSet() error = %v, want ErrTemplateNotFound", err)
	}
	if !strings.Contains(err.Error(), PostTemplateName) {
		t.Errorf("error %q should name the template", err)
	}
}
