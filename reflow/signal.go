package reflow

import (
	"fmt"
	"log/slog"
	"sync"
)

// Signal is a rate-limited, failure-isolated view of a Primitive.
//
// Each delivered batch either invokes the callback immediately, when the
// minimum interval has passed since the previous invocation, or replaces the
// single pending trailing invocation. Once disconnected, a Signal never
// invokes its callback again and cannot be restarted.
type Signal struct {
	primitive Primitive
	callback  func([]Entry)
	logger    *slog.Logger
	trigger   *Trigger[[]Entry]

	mu        sync.Mutex
	observing bool
	destroyed bool
}

// NewSignal returns a Signal delivering rate-limited batches from p to
// callback. It does not start observing until Observe is called.
func NewSignal(p Primitive, callback func([]Entry), opts ...Option) *Signal {
	o := buildOptions(opts)
	s := &Signal{
		primitive: p,
		callback:  callback,
		logger:    o.logger,
	}
	s.trigger = NewTrigger(Throttle, o.signalInterval, o.clock, s.invoke)
	return s
}

// Observe starts watching target. It is a no-op when the signal is already
// observing, has been disconnected, or target is nil.
func (s *Signal) Observe(target Container) {
	s.mu.Lock()
	if s.observing || s.destroyed || target == nil || s.primitive == nil {
		s.mu.Unlock()
		return
	}
	s.observing = true
	s.mu.Unlock()

	if err := s.primitive.Observe(target, s.deliver); err != nil {
		s.mu.Lock()
		s.observing = false
		s.mu.Unlock()
		s.report("observe", err)
		return
	}

	// Disconnect may have run while the primitive was subscribing.
	s.mu.Lock()
	dead := s.destroyed
	s.mu.Unlock()
	if dead {
		s.release()
	}
}

// Disconnect stops the signal, cancels any pending invocation, and releases
// the primitive subscription. It is safe to call more than once and before
// Observe.
func (s *Signal) Disconnect() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	wasObserving := s.observing
	s.observing = false
	s.mu.Unlock()

	s.trigger.Stop()
	if wasObserving {
		s.release()
	}
}

// IsActive reports whether the signal is observing and not disconnected.
func (s *Signal) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observing && !s.destroyed
}

func (s *Signal) release() {
	if err := s.primitive.Disconnect(); err != nil {
		s.report("disconnect", err)
	}
}

func (s *Signal) deliver(entries []Entry) {
	defer s.recoverPanic("deliver")
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	dead := s.destroyed
	s.mu.Unlock()
	if dead {
		return
	}
	batch := make([]Entry, len(entries))
	copy(batch, entries)
	s.trigger.Fire(batch)
}

func (s *Signal) invoke(entries []Entry) {
	s.mu.Lock()
	dead := s.destroyed
	s.mu.Unlock()
	if dead || s.callback == nil {
		return
	}
	defer s.recoverPanic("callback")
	s.callback(entries)
}

func (s *Signal) recoverPanic(op string) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		s.report(op, err)
	}
}

// report swallows err. Benign primitive failures are dropped silently;
// anything else is logged at debug level.
func (s *Signal) report(op string, err error) {
	if IsNoise(err) {
		return
	}
	s.logger.Debug("resize signal failure", "op", op, "error", err)
}
