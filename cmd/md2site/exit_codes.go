package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/styles"
	"github.com/alnah/go-md2site/internal/tasks"
)

// Exit codes for the md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error, including failed posts
	ExitUsage   = 2 // Invalid flags, config, or templates
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors while printing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2site.ErrBrowserConnect) ||
		errors.Is(err, md2site.ErrPageCreate) ||
		errors.Is(err, md2site.ErrPageLoad) ||
		errors.Is(err, md2site.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/template errors (exit 2)
	if errors.Is(err, errUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, md2site.ErrTemplateNotFound) ||
		errors.Is(err, pipeline.ErrTemplateParse) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, styles.ErrUnknownHighlightStyle) ||
		errors.Is(err, tasks.ErrUnknownTask) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2site.ErrNoPosts) ||
		errors.Is(err, md2site.ErrWriteHomepage) ||
		errors.Is(err, tasks.ErrCopyAssets) {
		return ExitIO
	}

	return ExitGeneral
}
