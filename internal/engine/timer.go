package engine

import (
	"sync"
	"time"
)

// tickInterval is the cadence of the elapsed-time observation stream.
const tickInterval = time.Second

// Timer tracks wall-clock time for one attempt. It never pauses: elapsed
// time keeps accruing whether or not anyone is observing, so idle gaps count
// as think-time.
type Timer struct {
	mu        sync.Mutex
	startedAt time.Time

	now      func() time.Time
	interval time.Duration

	ticks    chan int
	stop     chan struct{}
	stopOnce sync.Once
}

// NewTimer creates an unstarted timer sampling the system clock.
func NewTimer() *Timer {
	return newTimer(time.Now, tickInterval)
}

func newTimer(now func() time.Time, interval time.Duration) *Timer {
	return &Timer{
		now:      now,
		interval: interval,
		ticks:    make(chan int, 1),
		stop:     make(chan struct{}),
	}
}

// Start records the attempt start and begins the tick stream.
func (t *Timer) Start() {
	t.mu.Lock()
	t.startedAt = t.now()
	t.mu.Unlock()
	go t.loop()
}

func (t *Timer) loop() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			select {
			case t.ticks <- t.Elapsed():
			default:
				// Consumer is behind; drop the sample. Time still accrues.
			}
		}
	}
}

// Ticks returns the elapsed-seconds stream, emitting roughly once per
// second while the timer runs.
func (t *Timer) Ticks() <-chan int {
	return t.ticks
}

// Elapsed returns whole seconds since Start (or the latest Reset).
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startedAt.IsZero() {
		return 0
	}
	return int(t.now().Sub(t.startedAt) / time.Second)
}

// Reset re-arms the start time at now.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.startedAt = t.now()
	t.mu.Unlock()
}

// Stop ends the tick stream. Safe to call more than once.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}
