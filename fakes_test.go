package md2site

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"
)

// memOutput is an in-memory Output.
type memOutput struct {
	mu     sync.Mutex
	root   string
	files  map[string][]byte
	writes map[string]int
	failOn map[string]error
}

func newMemOutput() *memOutput {
	return &memOutput{files: map[string][]byte{}, writes: map[string]int{}, failOn: map[string]error{}}
}

func (o *memOutput) WriteFile(name string, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.failOn[name]; err != nil {
		return err
	}
	o.files[name] = append([]byte(nil), data...)
	o.writes[name]++
	return nil
}

func (o *memOutput) Root() string { return o.root }

func (o *memOutput) file(name string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.files[name]
	return string(data), ok
}

func (o *memOutput) writeCount(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes[name]
}

func (o *memOutput) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Sorted(maps.Keys(o.files))
}

// mockConverter wraps content in <pre> and can fail or stall per input.
type mockConverter struct {
	mu     sync.Mutex
	inputs []string
	delays map[string]time.Duration
	errs   map[string]error
}

func (m *mockConverter) ToHTML(ctx context.Context, content string) (string, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, content)
	delay, err := m.delays[content], m.errs[content]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return "", err
	}
	return "<pre>" + content + "</pre>", nil
}

// mockRenderer prints the template name and records every data value.
type mockRenderer struct {
	mu    sync.Mutex
	calls map[string][]any
	errs  map[string]error
}

func newMockRenderer() *mockRenderer {
	return &mockRenderer{calls: map[string][]any{}, errs: map[string]error{}}
}

func (m *mockRenderer) Render(w io.Writer, name string, data any) error {
	m.mu.Lock()
	m.calls[name] = append(m.calls[name], data)
	err := m.errs[name]
	m.mu.Unlock()

	if err != nil {
		return err
	}
	switch d := data.(type) {
	case PostData:
		_, err = fmt.Fprintf(w, "%s|%s|%s", name, d.Title, d.Compiled)
	case HomepageData:
		_, err = fmt.Fprintf(w, "%s|%d", name, len(d.Intros))
	default:
		_, err = fmt.Fprint(w, name)
	}
	return err
}

func (m *mockRenderer) homepage() (HomepageData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := m.calls["homepage"]
	if len(calls) == 0 {
		return HomepageData{}, false
	}
	return calls[len(calls)-1].(HomepageData), true
}

// mockPrinter returns a fixed PDF and records printed paths.
type mockPrinter struct {
	mu      sync.Mutex
	printed []string
	err     error
	closed  bool
}

func (m *mockPrinter) PrintToPDF(ctx context.Context, htmlPath string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.printed = append(m.printed, htmlPath)
	if m.err != nil {
		return nil, m.err
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPrinter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// singlePrinterPool hands out the same printer to every worker.
type singlePrinterPool struct {
	printer  *mockPrinter
	acquired int
	released int
	mu       sync.Mutex
}

func (p *singlePrinterPool) Acquire() Printer {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	return p.printer
}

func (p *singlePrinterPool) Release(Printer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}
