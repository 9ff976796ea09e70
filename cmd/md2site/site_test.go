package main

// Notes:
// - loadConfigFile: we test that the default name may be absent while an
//   explicit one must exist.
// - hintFor/addHint: we test which errors get hints and that hints are not
//   added twice. Hint wording is covered in internal/hints.
// - newLogger: we test level selection through Enabled, not output format.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadConfigFile - Explicit versus default config
// ---------------------------------------------------------------------------

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file fails with hint", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfigFile(filepath.Join(t.TempDir(), "site.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		var h *hintError
		if !errors.As(err, &h) {
			t.Errorf("error should carry a hint, got %T", err)
		}
	})

	t.Run("explicit file loads", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "site.yaml")
		writeFile(t, path, "site:\n  title: Notes\n")

		cfg, err := loadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Site.Title != "Notes" {
			t.Errorf("Site.Title = %q, want Notes", cfg.Site.Title)
		}
		if cfg.Output.Dir != config.DefaultOutputDir {
			t.Errorf("Output.Dir = %q, want default %q", cfg.Output.Dir, config.DefaultOutputDir)
		}
	})

	t.Run("parse error is not hidden", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "site.yaml")
		writeFile(t, path, "nope: true\n")

		_, err := loadConfigFile(path)
		if !errors.Is(err, config.ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"nil", nil, false},
		{"no posts", md2site.ErrNoPosts, true},
		{"template not found", fmt.Errorf("%w: a-post", md2site.ErrTemplateNotFound), true},
		{"compiler missing", fmt.Errorf("sass: %w", exec.ErrNotFound), true},
		{"page load", md2site.ErrPageLoad, true},
		{"deadline", context.DeadlineExceeded, true},
		{"homepage write", md2site.ErrWriteHomepage, true},
		{"output conflict", fmt.Errorf("%w: a.md, a.markdown all write a.html", md2site.ErrOutputConflict), true},
		{"conversion", md2site.ErrHTMLConversion, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err, cfg)
			if (got != "") != tt.wantHint {
				t.Errorf("hintFor(%v) = %q, want hint: %v", tt.err, got, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAddHint - Hints wrap without hiding the cause
// ---------------------------------------------------------------------------

func TestAddHint(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	t.Run("wraps and unwraps", func(t *testing.T) {
		t.Parallel()

		err := addHint(md2site.ErrNoPosts, cfg)
		if !errors.Is(err, md2site.ErrNoPosts) {
			t.Errorf("hinted error should unwrap to ErrNoPosts, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), md2site.ErrNoPosts.Error()) {
			t.Errorf("message should start with the cause, got %q", err.Error())
		}
		if err.Error() == md2site.ErrNoPosts.Error() {
			t.Error("message should carry a hint")
		}
	})

	t.Run("no double hint", func(t *testing.T) {
		t.Parallel()

		once := addHint(md2site.ErrNoPosts, cfg)
		twice := addHint(once, cfg)
		if once.Error() != twice.Error() {
			t.Errorf("hint added twice:\n%s\n---\n%s", once, twice)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		if err := addHint(nil, cfg); err != nil {
			t.Errorf("addHint(nil) = %v, want nil", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags commonFlags
		debug bool
		info  bool
	}{
		{"default", commonFlags{}, false, true},
		{"verbose", commonFlags{verbose: true}, true, true},
		{"quiet", commonFlags{quiet: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger := newLogger(io.Discard, tt.flags)
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.info {
				t.Errorf("info enabled = %v, want %v", got, tt.info)
			}
			if !logger.Enabled(ctx, slog.LevelError) {
				t.Error("errors should always be logged")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewRunner_NoPDF - No browsers without the print edition
// ---------------------------------------------------------------------------

func TestNewRunner_NoPDF(t *testing.T) {
	t.Parallel()

	runner, cleanup, err := newRunner(config.DefaultConfig(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner == nil || cleanup == nil {
		t.Fatal("newRunner should return a runner and a cleanup")
	}
	cleanup()
}

// ---------------------------------------------------------------------------
// TestNewRunner_PDF - The browser pool is sized from the workers
// ---------------------------------------------------------------------------

func TestNewRunner_PDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		timeout string
		wantLog string
		wantErr bool
	}{
		{name: "explicit workers", workers: 3, timeout: "45s", wantLog: "browsers=3 timeout=45s"},
		{name: "invalid timeout", workers: 1, timeout: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.PDF.Enabled = true
			cfg.PDF.Timeout = tt.timeout
			cfg.Workers = tt.workers

			var buf strings.Builder
			logger := newLogger(&buf, commonFlags{verbose: true})
			_, cleanup, err := newRunner(cfg, logger)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			// No browser starts until a post is printed.
			cleanup()

			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.wantLog)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
