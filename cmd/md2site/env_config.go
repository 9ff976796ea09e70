package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // MD2SITE_CONFIG: config file name or path
	OutputDir      string // MD2SITE_OUTPUT_DIR: output directory
	PostsDir       string // MD2SITE_POSTS_DIR: posts directory
	TemplatesDir   string // MD2SITE_TEMPLATES_DIR: templates directory
	Workers        int    // MD2SITE_WORKERS: parallel workers
	HighlightStyle string // MD2SITE_HIGHLIGHT_STYLE: chroma style name
	Sass           string // MD2SITE_SASS: Sass compiler command
}

// knownEnvVars lists valid MD2SITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2SITE_CONFIG":          true,
	"MD2SITE_OUTPUT_DIR":      true,
	"MD2SITE_POSTS_DIR":       true,
	"MD2SITE_TEMPLATES_DIR":   true,
	"MD2SITE_WORKERS":         true,
	"MD2SITE_HIGHLIGHT_STYLE": true,
	"MD2SITE_SASS":            true,
	"MD2SITE_CONTAINER":       true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("MD2SITE_CONFIG"),
		OutputDir:      os.Getenv("MD2SITE_OUTPUT_DIR"),
		PostsDir:       os.Getenv("MD2SITE_POSTS_DIR"),
		TemplatesDir:   os.Getenv("MD2SITE_TEMPLATES_DIR"),
		HighlightStyle: os.Getenv("MD2SITE_HIGHLIGHT_STYLE"),
		Sass:           os.Getenv("MD2SITE_SASS"),
	}

	// Invalid or non-positive values are ignored.
	if workers := os.Getenv("MD2SITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2SITE_* variables.
// Helps catch typos like MD2SITE_OUTPUT instead of MD2SITE_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2SITE_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.PostsDir != "" {
		cfg.Input.PostsDir = env.PostsDir
	}
	if env.TemplatesDir != "" {
		cfg.Templates.Dir = env.TemplatesDir
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.HighlightStyle != "" {
		cfg.Highlight.Style = env.HighlightStyle
	}
	if env.Sass != "" {
		cfg.Styles.Command = env.Sass
	}
}
