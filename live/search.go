// ABOUTME: Debounced free-text search that only delivers the latest result
// ABOUTME: Results for text the user has since changed are dropped, and Close tears everything down
package live

import (
	"context"
	"sync"
	"time"
)

// SearchBox debounces text input, runs a search for it, and delivers the result
// only when the text it ran for is still the current text.
type SearchBox[R any] struct {
	run     func(ctx context.Context, text string) (R, error)
	deliver func(text string, result R, err error)

	debounce *Debouncer
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	text   string
	closed bool

	// held while delivering
	deliverMu sync.Mutex
	inflight  sync.WaitGroup
}

// NewSearchBox wires run and deliver together. deliver must not call Close.
func NewSearchBox[R any](delay time.Duration, run func(context.Context, string) (R, error), deliver func(string, R, error)) *SearchBox[R] {
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchBox[R]{
		run:      run,
		deliver:  deliver,
		debounce: NewDebouncer(delay),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Set records new input and schedules a search for it.
func (b *SearchBox[R]) Set(text string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.text = text
	b.mu.Unlock()

	b.debounce.Trigger(func() { b.fire(text) })
}

// Text returns the current input.
func (b *SearchBox[R]) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *SearchBox[R]) fire(text string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.inflight.Add(1)
	b.mu.Unlock()
	defer b.inflight.Done()

	result, err := b.run(b.ctx, text)

	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	current, closed := b.text, b.closed
	b.mu.Unlock()
	if closed || text != current {
		return
	}
	b.deliver(text, result, err)
}

// Close cancels pending and in-flight searches. No deliver call starts or is
// running once Close returns.
func (b *SearchBox[R]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.debounce.Stop()
	b.cancel()

	// wait out a delivery already in progress
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()
}

// Wait blocks until every started search has finished. Tests use it after Close.
func (b *SearchBox[R]) Wait() {
	b.inflight.Wait()
}
