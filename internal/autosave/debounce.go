// ABOUTME: Debounced pending write: edits within the delay collapse into one save.
// ABOUTME: Last write wins; failures go to an error callback and are not retried.
package autosave

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is how long a pending value waits for further edits.
const DefaultDelay = time.Second

// SaveFunc persists a value.
type SaveFunc[T any] func(ctx context.Context, v T) error

// Debouncer holds at most one pending value and writes it once the delay
// passes without another Schedule.
type Debouncer[T any] struct {
	save    SaveFunc[T]
	delay   time.Duration
	onError func(error)

	// saveMu orders saves so an older value never lands after a newer one.
	saveMu sync.Mutex

	mu      sync.Mutex
	pending *T
	timer   *time.Timer
	closed  bool
	writes  int
}

// Option configures a Debouncer.
type Option[T any] func(*Debouncer[T])

// WithDelay overrides DefaultDelay.
func WithDelay[T any](d time.Duration) Option[T] {
	return func(db *Debouncer[T]) {
		if d > 0 {
			db.delay = d
		}
	}
}

// WithErrorHandler receives errors from timer-driven saves.
func WithErrorHandler[T any](fn func(error)) Option[T] {
	return func(db *Debouncer[T]) { db.onError = fn }
}

// New creates a Debouncer that writes through save.
func New[T any](save SaveFunc[T], opts ...Option[T]) *Debouncer[T] {
	d := &Debouncer[T]{save: save, delay: DefaultDelay, onError: func(error) {}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule replaces the pending value and restarts the delay.
func (d *Debouncer[T]) Schedule(v T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.pending = &v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
	return true
}

// Pending returns the value waiting to be written, if any.
func (d *Debouncer[T]) Pending() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		var zero T
		return zero, false
	}
	return *d.pending, true
}

// Writes returns how many saves have been attempted.
func (d *Debouncer[T]) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

func (d *Debouncer[T]) fire() {
	if err := d.Flush(context.Background()); err != nil {
		d.onError(err)
	}
}

// Flush writes the pending value now. It is a no-op when nothing is
// pending. A save already in progress finishes first.
func (d *Debouncer[T]) Flush(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.pending
	d.pending = nil
	if v != nil {
		d.writes++
	}
	d.mu.Unlock()

	if v == nil {
		return nil
	}
	return d.save(ctx, *v)
}

// Close flushes anything pending and rejects further Schedule calls.
func (d *Debouncer[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}
