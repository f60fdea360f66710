// ABOUTME: Tests for the debounced pending write.
// ABOUTME: Covers coalescing, explicit flush, close and error reporting.
package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	saved []int
}

func (r *recorder) save(_ context.Context, v int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, v)
	return nil
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.saved...)
}

func TestBurstCollapsesToOneWrite(t *testing.T) {
	r := &recorder{}
	d := New(r.save, WithDelay[int](20*time.Millisecond))

	for i := 1; i <= 5; i++ {
		require.True(t, d.Schedule(i))
	}

	assert.Eventually(t, func() bool { return len(r.values()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []int{5}, r.values())
	assert.Equal(t, 1, d.Writes())
}

func TestFlushWritesImmediately(t *testing.T) {
	r := &recorder{}
	d := New(r.save, WithDelay[int](time.Hour))

	d.Schedule(7)
	v, ok := d.Pending()
	require.True(t, ok)
	assert.Equal(t, 7, v)

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, []int{7}, r.values())

	_, ok = d.Pending()
	assert.False(t, ok)

	// Nothing pending: no second write.
	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, []int{7}, r.values())
}

func TestCloseFlushesAndRejects(t *testing.T) {
	r := &recorder{}
	d := New(r.save, WithDelay[int](time.Hour))

	d.Schedule(3)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, []int{3}, r.values())
	assert.False(t, d.Schedule(4))
}

func TestTimerErrorsGoToHandler(t *testing.T) {
	errs := make(chan error, 1)
	fail := func(context.Context, string) error { return errors.New("disk full") }
	d := New(fail,
		WithDelay[string](10*time.Millisecond),
		WithErrorHandler[string](func(err error) { errs <- err }),
	)

	d.Schedule("x")
	select {
	case err := <-errs:
		assert.EqualError(t, err, "disk full")
	case <-time.After(time.Second):
		t.Fatal("expected error callback")
	}
}

func TestFlushReturnsSaveError(t *testing.T) {
	d := New(func(context.Context, int) error { return errors.New("boom") })
	d.Schedule(1)
	assert.Error(t, d.Flush(context.Background()))
}

func TestCloseWaitsForRunningTimerSave(t *testing.T) {
	r := &recorder{}
	started := make(chan struct{}, 1)
	slow := func(ctx context.Context, v int) error {
		if v == 1 {
			started <- struct{}{}
			time.Sleep(50 * time.Millisecond)
		}
		return r.save(ctx, v)
	}
	d := New(slow, WithDelay[int](5*time.Millisecond))

	d.Schedule(1)
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timer save never started")
	}
	d.Schedule(2)
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, []int{1, 2}, r.values())
}

func TestConcurrentFlushesKeepLastValue(t *testing.T) {
	r := &recorder{}
	d := New(r.save, WithDelay[int](time.Millisecond))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		d.Schedule(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Flush(context.Background())
		}()
	}
	wg.Wait()
	require.NoError(t, d.Close(context.Background()))

	saved := r.values()
	require.NotEmpty(t, saved)
	assert.Equal(t, 50, saved[len(saved)-1])
	for i := 1; i < len(saved); i++ {
		assert.Less(t, saved[i-1], saved[i], "saves out of order: %v", saved)
	}
}
