package booklet

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool hands out HTMLConverters for parallel HTML printing.
// Each converter owns a Chrome instance, so the pool holds at most size of
// them. Slots start empty and are filled on first acquire; a converter whose
// browser stopped answering is closed on release and its slot emptied, so the
// next acquire starts a fresh browser.
type ConverterPool struct {
	size int
	opts []HTMLOption

	// slots carries idle converters, or nil for a slot with no converter yet.
	slots chan *HTMLConverter

	mu     sync.Mutex
	live   map[*HTMLConverter]struct{}
	closed bool
}

// NewConverterPool creates a pool with capacity for n converters, each
// built with opts.
func NewConverterPool(n int, opts ...HTMLOption) *ConverterPool {
	if n < 1 {
		n = 1
	}

	p := &ConverterPool{
		size:  n,
		opts:  opts,
		slots: make(chan *HTMLConverter, n),
		live:  make(map[*HTMLConverter]struct{}, n),
	}
	for range n {
		p.slots <- nil
	}
	return p
}

// Acquire takes a converter from the pool, waiting while all are busy.
// Returns ctx.Err() if ctx ends first and ErrPoolClosed after Close.
func (p *ConverterPool) Acquire(ctx context.Context) (*HTMLConverter, error) {
	var c *HTMLConverter
	select {
	case got, ok := <-p.slots:
		if !ok {
			return nil, ErrPoolClosed
		}
		c = got
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if c == nil {
		// Empty slot. The browser itself starts on first Convert.
		var err error
		if c, err = NewHTMLConverter(p.opts...); err != nil {
			p.put(nil)
			return nil, err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A closed channel still delivers what was buffered before Close.
	if p.closed {
		_ = c.Close()
		return nil, ErrPoolClosed
	}
	p.live[c] = struct{}{}
	return c, nil
}

// Release returns c to the pool. A broken converter is closed and its slot
// emptied. Release after Close is a no-op.
func (p *ConverterPool) Release(c *HTMLConverter) {
	if c.Broken() {
		p.mu.Lock()
		_, owned := p.live[c]
		delete(p.live, c)
		p.mu.Unlock()

		if owned {
			_ = c.Close()
		}
		p.put(nil)
		return
	}
	p.put(c)
}

// put refills a slot. The send never blocks: there are never more than
// size converters and empty slots in circulation.
func (p *ConverterPool) put(c *HTMLConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.slots <- c
}

// Close closes every converter the pool created, busy ones included.
// Returns an aggregated error if several converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.slots)
	live := p.live
	p.live = nil
	p.mu.Unlock()

	var errs []error
	for c := range live {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	return min(max(n, MinPoolSize), MaxPoolSize)
}
