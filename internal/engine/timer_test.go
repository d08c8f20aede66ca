package engine

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a hand-advanced clock for timer tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestTimer_ElapsedWholeSeconds(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tm := newTimer(clock.Now, time.Hour)
	defer tm.Stop()

	if got := tm.Elapsed(); got != 0 {
		t.Fatalf("unstarted timer Elapsed() = %d, want 0", got)
	}

	tm.Start()
	clock.Advance(2500 * time.Millisecond)
	if got := tm.Elapsed(); got != 2 {
		t.Errorf("Elapsed() = %d, want 2 (whole seconds)", got)
	}

	clock.Advance(90 * time.Second)
	if got := tm.Elapsed(); got != 92 {
		t.Errorf("Elapsed() = %d, want 92", got)
	}
}

func TestTimer_Reset(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tm := newTimer(clock.Now, time.Hour)
	defer tm.Stop()

	tm.Start()
	clock.Advance(30 * time.Second)
	tm.Reset()
	clock.Advance(3 * time.Second)
	if got := tm.Elapsed(); got != 3 {
		t.Errorf("Elapsed() after Reset = %d, want 3", got)
	}
}

func TestTimer_TickStream(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tm := newTimer(clock.Now, 5*time.Millisecond)
	tm.Start()
	defer tm.Stop()

	clock.Advance(7 * time.Second)

	select {
	case elapsed := <-tm.Ticks():
		if elapsed != 7 {
			t.Errorf("tick carried %d, want 7", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("no tick within 1s")
	}
}

func TestTimer_StopIdempotent(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	tm.Stop()
	tm.Stop() // must not panic
}
