package md2site

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2site/internal/process"
)

// Printer renders a page written to disk into a PDF.
type Printer interface {
	PrintToPDF(ctx context.Context, htmlPath string) ([]byte, error)
	Close() error
}

// DefaultPrintTimeout bounds loading one page when the context has no deadline.
const DefaultPrintTimeout = 30 * time.Second

// Page geometry in inches (A4 with comfortable reading margins).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.6
)

// RodPrinter prints pages with headless Chrome through go-rod.
// Rod downloads Chromium on first use when no browser is configured.
// The browser starts lazily on the first print.
type RodPrinter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewRodPrinter creates a RodPrinter with the given page load timeout.
func NewRodPrinter(timeout time.Duration) *RodPrinter {
	if timeout <= 0 {
		timeout = DefaultPrintTimeout
	}
	return &RodPrinter{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (p *RodPrinter) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// No sandbox in CI and containers.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	p.launcher = l

	p.browser = rod.New().ControlURL(u)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		p.kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close shuts the browser down and reaps its process group.
func (p *RodPrinter) Close() error {
	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	p.kill()
	return err
}

func (p *RodPrinter) kill() {
	if p.launcher == nil {
		return
	}
	if pid := p.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	p.launcher.Kill()
	p.launcher = nil
}

// PrintToPDF opens htmlPath in headless Chrome and prints it. Relative
// stylesheets and images resolve against the page's own directory.
func (p *RodPrinter) PrintToPDF(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: fileURL(htmlPath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// pdfOptions prints backgrounds so highlighted code keeps its colors.
func pdfOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// fileURL converts an absolute path to a file:// URL, Windows paths included.
func fileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	if filepath.VolumeName(absPath) != "" {
		u.Path = "/" + u.Path
	}
	return u.String()
}

func floatPtr(v float64) *float64 {
	return &v
}

// Compile-time interface check.
var _ Printer = (*RodPrinter)(nil)
