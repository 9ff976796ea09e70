package styles

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// Options describes one stylesheet build.
type Options struct {
	Source          string // Sass file, CSS file or directory of CSS files
	Output          string // Path of the compiled stylesheet
	Command         string // Sass compiler command, "sass" when empty
	HighlightStyle  string // Chroma style; "" skips the highlight stylesheet
	HighlightOutput string // Path of the highlight stylesheet

	// Compiler overrides the command compiler used for Sass sources.
	Compiler Compiler
	Logger   *slog.Logger
}

// Result lists what a build wrote.
type Result struct {
	Files    []string
	Fallback bool // The source was missing and the default style was written
}

// Build compiles the site stylesheet and, when configured, the highlight
// stylesheet.
func Build(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := &Result{}

	switch {
	case opts.Source == "" || !exists(opts.Source):
		logger.Debug("stylesheet source missing, using default style", "source", opts.Source)
		if err := fileutil.WriteFileAtomic(opts.Output, []byte(assets.DefaultStyle()), 0o644); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStyleCompile, err)
		}
		result.Fallback = true
	case IsSass(opts.Source):
		compiler := opts.Compiler
		if compiler == nil {
			command := opts.Command
			if command == "" {
				command = "sass"
			}
			compiler = NewCommandCompiler(command)
		}
		if err := compiler.Compile(ctx, opts.Source, opts.Output); err != nil {
			return nil, err
		}
	default:
		if err := (ConcatCompiler{}).Compile(ctx, opts.Source, opts.Output); err != nil {
			return nil, err
		}
	}
	result.Files = append(result.Files, opts.Output)
	logger.Debug("stylesheet written", "output", opts.Output)

	if opts.HighlightStyle != "" && opts.HighlightOutput != "" {
		css, err := HighlightCSS(opts.HighlightStyle)
		if err != nil {
			return nil, err
		}
		if err := fileutil.WriteFileAtomic(opts.HighlightOutput, css, 0o644); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStyleCompile, err)
		}
		result.Files = append(result.Files, opts.HighlightOutput)
		logger.Debug("highlight stylesheet written", "style", opts.HighlightStyle)
	}

	return result, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
