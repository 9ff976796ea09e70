package styles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/process"
)

// Sentinel errors for stylesheet compilation.
var (
	ErrStyleCompile          = errors.New("compiling stylesheet")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// waitDelay bounds how long a cancelled compiler may keep its pipes open.
const waitDelay = 2 * time.Second

// Compiler turns a stylesheet source into a CSS file at dst.
type Compiler interface {
	Compile(ctx context.Context, src, dst string) error
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Cancelling ctx kills
// the whole process group, since compilers like dart-sass fork.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CommandCompiler compiles Sass by invoking a command line compiler:
// <command> --no-source-map <src> <dst>.
type CommandCompiler struct {
	Command string
	Runner  CommandRunner
}

// NewCommandCompiler creates a CommandCompiler with a real command runner.
func NewCommandCompiler(command string) *CommandCompiler {
	return &CommandCompiler{Command: command, Runner: &ExecRunner{}}
}

func (c *CommandCompiler) Compile(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrStyleCompile, err)
	}

	_, stderr, err := c.Runner.Run(ctx, c.Command, "--no-source-map", src, dst)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %s: %s: %w", ErrStyleCompile, c.Command, msg, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrStyleCompile, c.Command, err)
	}
	return nil
}

// ConcatCompiler copies a CSS file, or concatenates the .css files of a
// directory in name order.
type ConcatCompiler struct{}

func (ConcatCompiler) Compile(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStyleCompile, err)
	}

	files := []string{src}
	if info.IsDir() {
		files, err = cssFiles(src)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStyleCompile, err)
		}
	}

	var buf bytes.Buffer
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(f) // #nosec G304 -- configured stylesheet
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStyleCompile, err)
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}

	if err := fileutil.WriteFileAtomic(dst, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrStyleCompile, err)
	}
	return nil
}

// cssFiles lists the visible .css files of dir, sorted by name.
func cssFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || fileutil.IsHidden(e.Name()) || !strings.EqualFold(filepath.Ext(e.Name()), ".css") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// IsSass reports whether path is a Sass source.
func IsSass(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scss", ".sass":
		return true
	}
	return false
}

// Compile-time interface checks.
var (
	_ Compiler      = (*CommandCompiler)(nil)
	_ Compiler      = ConcatCompiler{}
	_ CommandRunner = (*ExecRunner)(nil)
)
