package main

// Notes:
// - loadEnvConfig: we test every MD2SITE_* variable. Invalid and
//   non-positive worker counts are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that set variables override the config file and
//   unset ones leave it alone.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-md2site/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MD2SITE_CONFIG", "/path/to/site.yaml")
		t.Setenv("MD2SITE_OUTPUT_DIR", "/public")
		t.Setenv("MD2SITE_POSTS_DIR", "/posts")
		t.Setenv("MD2SITE_TEMPLATES_DIR", "/templates")
		t.Setenv("MD2SITE_WORKERS", "4")
		t.Setenv("MD2SITE_HIGHLIGHT_STYLE", "monokai")
		t.Setenv("MD2SITE_SASS", "dart-sass")

		cfg := loadEnvConfig()

		checks := []struct {
			field, got, want string
		}{
			{"ConfigPath", cfg.ConfigPath, "/path/to/site.yaml"},
			{"OutputDir", cfg.OutputDir, "/public"},
			{"PostsDir", cfg.PostsDir, "/posts"},
			{"TemplatesDir", cfg.TemplatesDir, "/templates"},
			{"HighlightStyle", cfg.HighlightStyle, "monokai"},
			{"Sass", cfg.Sass, "dart-sass"},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
			}
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		for _, v := range []string{"many", "0", "-2"} {
			t.Setenv("MD2SITE_WORKERS", v)
			if got := loadEnvConfig().Workers; got != 0 {
				t.Errorf("MD2SITE_WORKERS=%q: Workers = %d, want 0", v, got)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("unknown variable warns", func(t *testing.T) {
		t.Setenv("MD2SITE_OUTPUT", "/public")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "MD2SITE_OUTPUT ") {
			t.Errorf("expected warning for MD2SITE_OUTPUT, got %q", buf.String())
		}
	})

	t.Run("known variable is silent", func(t *testing.T) {
		t.Setenv("MD2SITE_OUTPUT_DIR", "/public")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "MD2SITE_OUTPUT_DIR") {
			t.Errorf("known variable should not warn, got %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			OutputDir:      "public",
			PostsDir:       "content",
			TemplatesDir:   "layouts",
			Workers:        3,
			HighlightStyle: "dracula",
			Sass:           "sassc",
		}, cfg)

		if cfg.Output.Dir != "public" {
			t.Errorf("Output.Dir = %q, want public", cfg.Output.Dir)
		}
		if cfg.Input.PostsDir != "content" {
			t.Errorf("Input.PostsDir = %q, want content", cfg.Input.PostsDir)
		}
		if cfg.Templates.Dir != "layouts" {
			t.Errorf("Templates.Dir = %q, want layouts", cfg.Templates.Dir)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
		if cfg.Highlight.Style != "dracula" {
			t.Errorf("Highlight.Style = %q, want dracula", cfg.Highlight.Style)
		}
		if cfg.Styles.Command != "sassc" {
			t.Errorf("Styles.Command = %q, want sassc", cfg.Styles.Command)
		}
	})

	t.Run("empty values keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Dir = "site"
		cfg.Workers = 2
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Output.Dir != "site" {
			t.Errorf("Output.Dir = %q, want site", cfg.Output.Dir)
		}
		if cfg.Workers != 2 {
			t.Errorf("Workers = %d, want 2", cfg.Workers)
		}
		if cfg.Styles.Command != config.DefaultStyleCommand {
			t.Errorf("Styles.Command = %q, want %q", cfg.Styles.Command, config.DefaultStyleCommand)
		}
	})
}
