// ABOUTME: Tests for the debouncer and latest-wins search box
// ABOUTME: Uses short delays and channels to pin down ordering
package live

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	d := NewDebouncer(testDelay)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Value
	for _, v := range []string{"a", "ab", "abc"} {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(v)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "abc", last.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(testDelay)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(3 * testDelay)
	assert.Zero(t, calls.Load())
}

func TestNewDebouncerDefaultsDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, NewDebouncer(0).delay)
}

type delivery struct {
	text   string
	result string
}

func collect() (func(string, string, error), func() []delivery) {
	var mu sync.Mutex
	var got []delivery
	deliver := func(text, result string, err error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, delivery{text, result})
	}
	snapshot := func() []delivery {
		mu.Lock()
		defer mu.Unlock()
		return append([]delivery(nil), got...)
	}
	return deliver, snapshot
}

func TestSearchBoxDebouncesTyping(t *testing.T) {
	var runs atomic.Int32
	deliver, got := collect()
	box := NewSearchBox(testDelay, func(ctx context.Context, text string) (string, error) {
		runs.Add(1)
		return "results for " + text, nil
	}, deliver)
	defer box.Close()

	box.Set("a")
	box.Set("ad")
	box.Set("ada")

	assert.Eventually(t, func() bool { return len(got()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []delivery{{"ada", "results for ada"}}, got())
	assert.Equal(t, int32(1), runs.Load())
}

func TestSearchBoxDropsSupersededResults(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)
	deliver, got := collect()

	box := NewSearchBox(testDelay, func(ctx context.Context, text string) (string, error) {
		started <- text
		if text == "ab" {
			<-release
		}
		return "results for " + text, nil
	}, deliver)
	defer box.Close()

	box.Set("ab")
	require.Equal(t, "ab", <-started)

	// the slow "ab" search is still running when the text changes
	box.Set("abc")
	require.Equal(t, "abc", <-started)
	assert.Eventually(t, func() bool { return len(got()) == 1 }, time.Second, time.Millisecond)

	close(release)
	time.Sleep(3 * testDelay)
	assert.Equal(t, []delivery{{"abc", "results for abc"}}, got())
}

func TestSearchBoxDeliversWhenTextReturns(t *testing.T) {
	deliver, got := collect()
	box := NewSearchBox(testDelay, func(ctx context.Context, text string) (string, error) {
		return text, nil
	}, deliver)
	defer box.Close()

	box.Set("ab")
	assert.Eventually(t, func() bool { return len(got()) == 1 }, time.Second, time.Millisecond)
	box.Set("abc")
	box.Set("ab")
	assert.Eventually(t, func() bool { return len(got()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, "ab", got()[1].text)
}

func TestSearchBoxCloseStopsEverything(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})
	deliver, got := collect()

	box := NewSearchBox(testDelay, func(ctx context.Context, text string) (string, error) {
		close(started)
		<-ctx.Done()
		close(canceled)
		return "", ctx.Err()
	}, deliver)

	box.Set("ab")
	<-started
	box.Close()

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("in-flight search was not canceled")
	}
	box.Wait()

	box.Set("abc")
	time.Sleep(3 * testDelay)
	assert.Empty(t, got())
	assert.Equal(t, "ab", box.Text())
}
