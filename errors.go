package md2site

import "errors"

// Sentinel errors for site builds.
var (
	// Per-post failures. A post failing with one of these is left out of
	// the homepage; the rest of the build continues.
	ErrReadPost       = errors.New("failed to read post")
	ErrFrontMatter    = errors.New("invalid front matter")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrRender         = errors.New("template rendering failed")
	ErrWritePost      = errors.New("failed to write post")
	ErrOutputConflict = errors.New("output name conflict")

	// Build-level failures.
	ErrNoPosts          = errors.New("no posts found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrWriteHomepage    = errors.New("failed to write homepage")
	ErrBuildFailed      = errors.New("build failed")

	// Print edition failures.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
