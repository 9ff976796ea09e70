// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors when
// printing PDF editions. Suggests the rod variables relevant to CI and Docker.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the print timeout.
func ForTimeout() string {
	return format("for long posts, raise pdf.timeout or use --timeout")
}

// ForConfigNotFound suggests --config and the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/site.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2site") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory write errors.
func ForOutputDirectory() string {
	return format("check the output directory (--output) exists and is writable")
}

// ForNoPosts returns hints when discovery finds nothing to build.
func ForNoPosts(postsDir string) string {
	return format("no .md files under " + postsDir + "; set input.postsDir or use --posts-dir (drafts need --drafts)")
}

// ForTemplate returns hints for template load or render errors.
func ForTemplate(templatesDir string) string {
	return format("templates in " + templatesDir + " must be named a-post.html and homepage.html; a-post uses .Compiled, homepage ranges over .Intros")
}

// ForStyleCompiler returns hints when the stylesheet compiler is missing.
func ForStyleCompiler(command string) string {
	return format("install " + command + " (npm install -g sass) or set styles.command / MD2SITE_SASS; plain .css sources need no compiler")
}

// ForOutputConflict returns hints when posts map to the same page.
func ForOutputConflict() string {
	return format("rename one of the posts; a.md and a.markdown both become a.html, and a top-level index.md would replace the homepage")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
