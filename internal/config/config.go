package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultConfigName is looked up when no --config is given.
const DefaultConfigName = "site"

// Defaults.
const (
	DefaultTitle          = "Blog"
	DefaultPostsDir       = "."
	DefaultOutputDir      = "www"
	DefaultTemplatesDir   = "templates"
	DefaultRecent         = 7
	DefaultHighlightStyle = "github"
	DefaultStyleSource    = "scss/main.scss"
	DefaultStyleOutput    = "css/style.css"
	DefaultStyleCommand   = "sass"
	DefaultImagesDir      = "images"
	DefaultDebounce       = 300 * time.Millisecond
	DefaultPDFTimeout     = 30 * time.Second
)

// Limits.
const (
	MaxTitleLength = 200
	MaxURLLength   = 2048
	MaxRecent      = 1000
	MaxWorkers     = 32
)

// Config holds all configuration for building a site.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Templates TemplatesConfig `yaml:"templates"`
	Homepage  HomepageConfig  `yaml:"homepage"`
	Highlight HighlightConfig `yaml:"highlight"`
	Styles    StylesConfig    `yaml:"styles"`
	Assets    AssetsConfig    `yaml:"assets"`
	Watch     WatchConfig     `yaml:"watch"`
	PDF       PDFConfig       `yaml:"pdf"`
	Workers   int             `yaml:"workers"` // 0 = GOMAXPROCS, capped
}

// SiteConfig holds values exposed to templates as .Site.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"baseURL"`
}

// InputConfig defines where posts come from.
type InputConfig struct {
	PostsDir string   `yaml:"postsDir"`
	Posts    []string `yaml:"posts"`   // Explicit order; empty = scan PostsDir
	Reverse  bool     `yaml:"reverse"` // Reverse the explicit list
	Drafts   bool     `yaml:"drafts"`  // Include draft: true posts
}

// OutputConfig defines the generated site location.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// TemplatesConfig defines where a-post.html and homepage.html are looked up.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// HomepageConfig controls the index page.
type HomepageConfig struct {
	Recent     int    `yaml:"recent"`     // Number of intros
	DateFormat string `yaml:"dateFormat"` // Token format or preset name
}

// HighlightConfig controls code block highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // Chroma style name
}

// StylesConfig controls stylesheet compilation.
type StylesConfig struct {
	Source  string `yaml:"source"`  // .scss/.sass file, .css file or directory of .css
	Output  string `yaml:"output"`  // Relative to output.dir
	Command string `yaml:"command"` // Sass compiler binary
}

// AssetsConfig defines copied asset directories.
type AssetsConfig struct {
	Images string `yaml:"images"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // Go duration, e.g. "300ms"
}

// PDFConfig controls the printed edition of posts.
type PDFConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // Go duration per post
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Site:      SiteConfig{Title: DefaultTitle},
		Input:     InputConfig{PostsDir: DefaultPostsDir},
		Output:    OutputConfig{Dir: DefaultOutputDir},
		Templates: TemplatesConfig{Dir: DefaultTemplatesDir},
		Homepage:  HomepageConfig{Recent: DefaultRecent, DateFormat: dateutil.DefaultDateFormat},
		Highlight: HighlightConfig{Enabled: true, Style: DefaultHighlightStyle},
		Styles: StylesConfig{
			Source:  DefaultStyleSource,
			Output:  DefaultStyleOutput,
			Command: DefaultStyleCommand,
		},
		Assets: AssetsConfig{Images: DefaultImagesDir},
		Watch:  WatchConfig{Debounce: DefaultDebounce.String()},
		PDF:    PDFConfig{Timeout: DefaultPDFTimeout.String()},
	}
}

// Validate checks ranges, enumerations and paths.
// Called automatically by LoadConfig, but available for callers that build
// or override a Config themselves.
func (c *Config) Validate() error {
	if err := validateFieldLength("site.title", c.Site.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.baseURL", c.Site.BaseURL, MaxURLLength); err != nil {
		return err
	}

	if c.Output.Dir == "" {
		return invalid("output.dir", "must not be empty")
	}
	if filepath.Clean(c.Output.Dir) == filepath.Clean(c.Input.PostsDir) {
		return invalid("output.dir", "must differ from input.postsDir")
	}

	for i, p := range c.Input.Posts {
		field := fmt.Sprintf("input.posts[%d]", i)
		if !fs.ValidPath(p) {
			return invalid(field, fmt.Sprintf("%q must be a relative slash-separated path", p))
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".md", ".markdown":
		default:
			return invalid(field, fmt.Sprintf("%q is not a Markdown file", p))
		}
	}

	if c.Homepage.Recent < 0 || c.Homepage.Recent > MaxRecent {
		return invalid("homepage.recent", fmt.Sprintf("must be between 0 and %d, got %d", MaxRecent, c.Homepage.Recent))
	}
	if c.Homepage.DateFormat != "" {
		if _, err := dateutil.Format(time.Unix(0, 0), c.Homepage.DateFormat); err != nil {
			return fmt.Errorf("%w: homepage.dateFormat: %v", ErrInvalidValue, err)
		}
	}

	if c.Highlight.Enabled {
		if _, ok := styles.Registry[c.Highlight.Style]; !ok {
			return invalid("highlight.style", fmt.Sprintf("unknown chroma style %q", c.Highlight.Style))
		}
	}

	if c.Styles.Output != "" && !fs.ValidPath(filepath.ToSlash(c.Styles.Output)) {
		return invalid("styles.output", "must be relative to output.dir")
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return invalid("workers", fmt.Sprintf("must be between 0 and %d, got %d", MaxWorkers, c.Workers))
	}

	if _, err := c.WatchDebounce(); err != nil {
		return err
	}
	if _, err := c.PDFTimeout(); err != nil {
		return err
	}

	return nil
}

// WatchDebounce parses watch.debounce; empty means DefaultDebounce.
func (c *Config) WatchDebounce() (time.Duration, error) {
	return parseDuration("watch.debounce", c.Watch.Debounce, DefaultDebounce)
}

// PDFTimeout parses pdf.timeout; empty means DefaultPDFTimeout.
func (c *Config) PDFTimeout() (time.Duration, error) {
	return parseDuration("pdf.timeout", c.PDF.Timeout, DefaultPDFTimeout)
}

// ImagesOutputDir is where images are copied: output.dir/<base of assets.images>.
func (c *Config) ImagesOutputDir() string {
	return filepath.Join(c.Output.Dir, filepath.Base(c.Assets.Images))
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 {
		return 0, invalid(field, "must be positive")
	}
	return d, nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, field, reason)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig, so keys absent from the file keep their defaults.
// If nameOrPath contains a path separator or a YAML extension it's a file
// path; otherwise it's a name searched in standard locations.
// Unknown keys are rejected. An empty file yields the defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	if err := yamlutil.Decode(f, cfg, true); err != nil && !errors.Is(err, yamlutil.ErrNilData) {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return strings.ContainsAny(s, "/\\") || ext == ".yaml" || ext == ".yml"
}

// SearchPaths lists the files tried for a config name, in order:
// ./name.yaml, ./name.yml, then the same under $XDG_CONFIG_HOME/go-md2site/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-md2site", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
