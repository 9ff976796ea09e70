package md2site

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one post is built at a time.
	MinWorkers = 1

	// MaxWorkers caps default concurrency, which also bounds the number of
	// browsers (~200MB each) when printing.
	MaxWorkers = 8
)

// PrinterPool hands printers to build workers.
type PrinterPool interface {
	Acquire() Printer
	Release(Printer)
}

// LazyPrinterPool creates up to size printers on demand and reuses them.
// Printers are created lazily on first acquire to avoid startup delay.
type LazyPrinterPool struct {
	size     int
	create   func() Printer
	printers []Printer
	sem      chan Printer
	mu       sync.Mutex
	created  int
	closed   bool
}

// NewPrinterPool creates a pool of at most n RodPrinters with the given
// page load timeout.
func NewPrinterPool(n int, timeout time.Duration) *LazyPrinterPool {
	return newLazyPrinterPool(n, func() Printer { return NewRodPrinter(timeout) })
}

func newLazyPrinterPool(n int, create func() Printer) *LazyPrinterPool {
	if n < 1 {
		n = 1
	}
	return &LazyPrinterPool{
		size:     n,
		create:   create,
		printers: make([]Printer, 0, n),
		sem:      make(chan Printer, n),
	}
}

// Acquire gets a printer, creating one if the pool isn't full yet.
// Blocks while all printers are in use.
func (p *LazyPrinterPool) Acquire() Printer {
	select {
	case pr := <-p.sem:
		return pr
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		pr := p.create()

		p.mu.Lock()
		p.printers = append(p.printers, pr)
		p.mu.Unlock()

		return pr
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a printer to the pool. It is a no-op once the pool is
// closed. The send happens under the lock so it cannot race with Close
// closing the channel; it never blocks since the channel holds every
// printer ever created.
func (p *LazyPrinterPool) Release(pr Printer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.sem <- pr:
	default:
		// Released more times than acquired. Close still shuts it down.
	}
}

// Close shuts down every printer created so far.
func (p *LazyPrinterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	printers := p.printers
	p.mu.Unlock()

	var errs []error
	for _, pr := range printers {
		if err := pr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *LazyPrinterPool) Size() int {
	return p.size
}

// ResolveWorkers determines build concurrency.
// Priority: explicit workers > GOMAXPROCS (adjusted by automaxprocs in
// containers), capped at MaxWorkers.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	return max(MinWorkers, min(runtime.GOMAXPROCS(0), MaxWorkers))
}

// Compile-time interface check.
var _ PrinterPool = (*LazyPrinterPool)(nil)
