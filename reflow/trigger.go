package reflow

import (
	"sync"
	"time"
)

// Mode selects how a Trigger rate-limits its action.
type Mode int

const (
	// Debounce restarts the delay on every Fire and runs once the trigger
	// has been quiet for the whole interval.
	Debounce Mode = iota
	// Throttle runs immediately when the interval has elapsed since the
	// previous run, and otherwise schedules a single trailing run for the
	// remainder of the interval.
	Throttle
)

func (m Mode) String() string {
	switch m {
	case Debounce:
		return "debounce"
	case Throttle:
		return "throttle"
	default:
		return "unknown"
	}
}

// Trigger is a rate-limited action. At most one deferred run is pending at
// any time, and it always carries the value of the latest Fire.
//
// Trigger is safe for concurrent use. The action runs without the
// trigger's lock held, so it may call Fire again.
type Trigger[T any] struct {
	mode     Mode
	interval time.Duration
	clock    Clock
	action   func(T)

	mu      sync.Mutex
	lastRun time.Time
	ran     bool
	timer   Timer
	gen     uint64
	stopped bool
}

// NewTrigger returns a Trigger that runs action according to mode. A nil
// clock means SystemClock.
func NewTrigger[T any](mode Mode, interval time.Duration, clock Clock, action func(T)) *Trigger[T] {
	if clock == nil {
		clock = SystemClock()
	}
	if interval < 0 {
		interval = 0
	}
	return &Trigger[T]{
		mode:     mode,
		interval: interval,
		clock:    clock,
		action:   action,
	}
}

// Fire requests a run carrying v.
func (t *Trigger[T]) Fire(v T) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	if t.mode == Throttle {
		now := t.clock.Now()
		elapsed := now.Sub(t.lastRun)
		if !t.ran || elapsed >= t.interval {
			t.cancelLocked()
			t.lastRun = now
			t.ran = true
			t.mu.Unlock()
			t.run(v)
			return
		}
		t.scheduleLocked(t.interval-elapsed, v)
		t.mu.Unlock()
		return
	}

	t.scheduleLocked(t.interval, v)
	t.mu.Unlock()
}

// Pending reports whether a deferred run is scheduled.
func (t *Trigger[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop cancels any pending run. A stopped trigger ignores further Fire calls.
// Stop is idempotent.
func (t *Trigger[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.cancelLocked()
}

func (t *Trigger[T]) scheduleLocked(d time.Duration, v T) {
	t.cancelLocked()
	gen := t.gen
	t.timer = t.clock.AfterFunc(d, func() { t.fire(gen, v) })
}

// cancelLocked stops the pending timer and invalidates its generation, so a
// timer that already fired on another goroutine finds itself stale.
func (t *Trigger[T]) cancelLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *Trigger[T]) fire(gen uint64, v T) {
	t.mu.Lock()
	if t.stopped || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.gen++
	t.lastRun = t.clock.Now()
	t.ran = true
	t.mu.Unlock()
	t.run(v)
}

func (t *Trigger[T]) run(v T) {
	if t.action != nil {
		t.action(v)
	}
}
