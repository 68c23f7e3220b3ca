package reflow

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Stats counts scheduler activity since construction.
type Stats struct {
	Requests    int
	Layouts     int
	AutoLayouts int
	Unchanged   int
	Deferred    int
	Failures    int
}

// Scheduler keeps one editor instance sized to its container.
//
// RequestLayout may be called at any frequency from any goroutine. Layout
// calls to the editor never overlap and never start closer together than
// the minimum layout interval; requests that arrive too early are deferred
// to a single pending retry, never dropped.
type Scheduler struct {
	container Container
	primitive Primitive
	opts      options
	logger    *slog.Logger

	mu          sync.Mutex
	state       State
	editor      Editor
	retry       Timer
	signal      *Signal
	lastApplied *Size
	stats       Stats
}

// NewScheduler returns an unmounted Scheduler for container. primitive
// reports container resizes; it may be nil when only explicit triggers are
// used.
func NewScheduler(container Container, primitive Primitive, opts ...Option) *Scheduler {
	o := buildOptions(opts)
	return &Scheduler{
		container: container,
		primitive: primitive,
		opts:      o,
		logger:    o.logger,
	}
}

// Mount mounts an editor through capability and attaches it.
func (s *Scheduler) Mount(capability Capability) error {
	if capability == nil {
		return ErrNotMounted
	}
	if err := s.checkMountable(); err != nil {
		return err
	}
	ed, err := capability.Mount(s.container)
	if err != nil {
		return fmt.Errorf("mount editor: %w", err)
	}
	return s.Attach(ed)
}

// Attach takes ownership of an already mounted editor: it pushes the
// presentation options, schedules the initial layout, starts observing the
// container, and arranges for the editor's own disposal to dispose the
// scheduler.
func (s *Scheduler) Attach(ed Editor) error {
	if ed == nil {
		return ErrNotMounted
	}

	s.mu.Lock()
	if err := s.checkMountableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.editor = ed
	s.mu.Unlock()

	if s.opts.presentation != nil {
		if err := ed.UpdateOptions(s.opts.presentation); err != nil {
			s.logger.Debug("editor options update failed", "error", err)
		}
	}
	ed.OnDispose(s.Dispose)

	s.mu.Lock()
	if s.state.Phase == Disposed {
		s.mu.Unlock()
		return nil
	}
	next, act := s.state.Mount(s.opts.clock.Now(), s.opts.initialDelay)
	s.state = next
	s.applyLocked(act)
	sig := NewSignal(s.primitive, func([]Entry) { s.RequestLayout() },
		WithClock(s.opts.clock),
		WithLogger(s.logger),
		WithSignalInterval(s.opts.signalInterval),
	)
	s.signal = sig
	s.mu.Unlock()

	sig.Observe(s.container)
	return nil
}

// RequestLayout asks for the editor to be laid out against the container's
// current size. It is a no-op before mount and after dispose.
func (s *Scheduler) RequestLayout() {
	s.step(func(st State) (State, Action) {
		return st.Request(s.opts.clock.Now())
	}, true)
}

// Dispose tears the scheduler down: it cancels pending work, disconnects
// the resize signal, and releases the editor. Every later trigger is a
// no-op. Dispose is idempotent.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	next, act := s.state.Dispose()
	if act.Kind == ActNone {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.applyLocked(act)
	sig := s.signal
	s.signal = nil
	s.editor = nil
	s.lastApplied = nil
	s.mu.Unlock()

	if sig != nil {
		sig.Disconnect()
	}
}

// Phase returns the current lifecycle phase.
func (s *Scheduler) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase
}

// Stats returns a snapshot of the activity counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Observing reports whether the container resize signal is active.
func (s *Scheduler) Observing() bool {
	s.mu.Lock()
	sig := s.signal
	s.mu.Unlock()
	return sig != nil && sig.IsActive()
}

func (s *Scheduler) checkMountable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkMountableLocked()
}

func (s *Scheduler) checkMountableLocked() error {
	switch {
	case s.state.Phase == Disposed:
		return ErrDisposed
	case s.state.Phase != Unmounted || s.editor != nil:
		return ErrAlreadyMounted
	}
	return nil
}

func (s *Scheduler) onRetry(gen uint64) {
	s.step(func(st State) (State, Action) {
		return st.Retry(gen, s.opts.clock.Now())
	}, false)
}

// step applies one transition and performs its side effects.
func (s *Scheduler) step(transition func(State) (State, Action), request bool) {
	s.mu.Lock()
	if request {
		s.stats.Requests++
	}
	next, act := transition(s.state)
	s.state = next
	s.applyLocked(act)
	ed := s.editor
	s.mu.Unlock()

	if act.Kind == ActLayout {
		s.runLayout(ed)
	}
}

func (s *Scheduler) applyLocked(act Action) {
	switch act.Kind {
	case ActSchedule:
		s.stopRetryLocked()
		gen := act.Gen
		s.retry = s.opts.clock.AfterFunc(act.Delay, func() { s.onRetry(gen) })
		s.stats.Deferred++
	case ActLayout, ActCancel:
		s.stopRetryLocked()
	}
}

func (s *Scheduler) stopRetryLocked() {
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
}

func (s *Scheduler) runLayout(ed Editor) {
	if ed != nil {
		s.layout(ed)
	}

	s.mu.Lock()
	next, act := s.state.Complete(s.opts.clock.Now(), s.opts.minLayoutInterval)
	s.state = next
	s.applyLocked(act)
	s.mu.Unlock()
}

// layout measures the container and pushes the result to ed. Failures are
// logged at debug level and never propagate.
func (s *Scheduler) layout(ed Editor) {
	size, ok := s.measure()

	s.mu.Lock()
	if ok && s.lastApplied != nil && *s.lastApplied == size {
		s.stats.Unchanged++
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	var err error
	if ok {
		err = s.callLayout(ed, &size)
	} else {
		err = s.callLayout(ed, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.stats.Failures++
		s.lastApplied = nil
	case ok:
		s.stats.Layouts++
		applied := size
		s.lastApplied = &applied
	default:
		s.stats.AutoLayouts++
		s.lastApplied = nil
	}
	if err != nil && !IsNoise(err) {
		s.logger.Debug("editor layout failed", "error", err, "explicit", ok)
	}
}

// measure returns the explicit layout size for the container, or false
// when the container is missing, unmeasurable, or hidden.
func (s *Scheduler) measure() (Size, bool) {
	if s.container == nil {
		return Size{}, false
	}
	rect, err := s.container.Measure()
	if err != nil {
		if !errors.Is(err, ErrUnmeasurable) {
			s.logger.Debug("container measure failed", "error", err)
		}
		return Size{}, false
	}
	if rect.Empty() {
		return Size{}, false
	}
	w := int(math.Floor(rect.Width))
	h := s.opts.fixedHeight
	if h <= 0 {
		h = int(math.Floor(rect.Height))
	}
	if w <= 0 || h <= 0 {
		return Size{}, false
	}
	return Size{Width: w, Height: h}, true
}

func (s *Scheduler) callLayout(ed Editor, size *Size) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("editor layout panic: %v", r)
		}
	}()
	return ed.Layout(size)
}
