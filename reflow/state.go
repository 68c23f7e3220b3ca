package reflow

import "time"

// Phase is the lifecycle position of a Scheduler.
type Phase int

const (
	Unmounted Phase = iota
	Idle
	InProgress
	PendingRetry
	Disposed
)

func (p Phase) String() string {
	switch p {
	case Unmounted:
		return "unmounted"
	case Idle:
		return "idle"
	case InProgress:
		return "in-progress"
	case PendingRetry:
		return "pending-retry"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// ActionKind is the side effect a transition asks its driver to perform.
type ActionKind int

const (
	ActNone ActionKind = iota
	// ActLayout: measure the container and lay out the editor now, then
	// report completion with Complete.
	ActLayout
	// ActSchedule: replace the pending retry with one firing after Delay,
	// tagged with Gen.
	ActSchedule
	// ActCancel: cancel all pending deferred work.
	ActCancel
)

// Action is a side effect requested by a State transition.
type Action struct {
	Kind  ActionKind
	Delay time.Duration
	Gen   uint64
}

// State is the scheduler's finite-state value. Transitions are pure: they
// return the next State and the Action the driver must perform.
type State struct {
	Phase Phase
	// NotBefore is the earliest time the next layout may start.
	NotBefore time.Time
	// Gen identifies the current pending retry. A retry carrying any other
	// generation is stale.
	Gen uint64
	// Rerun records a request that arrived while a layout was in progress.
	Rerun bool
}

// Mount moves an unmounted state to PendingRetry with the initial layout
// scheduled after delay. Any other phase is unchanged.
func (s State) Mount(now time.Time, delay time.Duration) (State, Action) {
	if s.Phase != Unmounted {
		return s, Action{}
	}
	s.NotBefore = now.Add(delay)
	return s.schedule(delay)
}

// Request handles a layout request arriving at now.
func (s State) Request(now time.Time) (State, Action) {
	switch s.Phase {
	case Idle, PendingRetry:
		if !now.Before(s.NotBefore) {
			s.Phase = InProgress
			s.Gen++
			s.Rerun = false
			return s, Action{Kind: ActLayout}
		}
		return s.schedule(s.NotBefore.Sub(now))
	case InProgress:
		s.Rerun = true
	}
	return s, Action{}
}

// Retry handles a pending retry firing at now. Stale generations and
// retries that fire outside PendingRetry are ignored.
func (s State) Retry(gen uint64, now time.Time) (State, Action) {
	if s.Phase != PendingRetry || gen != s.Gen {
		return s, Action{}
	}
	return s.Request(now)
}

// Complete records the end of an in-progress layout at now. A request that
// arrived during the layout becomes exactly one pending retry.
func (s State) Complete(now time.Time, minInterval time.Duration) (State, Action) {
	if s.Phase != InProgress {
		return s, Action{}
	}
	s.NotBefore = now.Add(minInterval)
	if s.Rerun {
		s.Rerun = false
		return s.schedule(minInterval)
	}
	s.Phase = Idle
	return s, Action{}
}

// Dispose moves any phase to the terminal Disposed phase.
func (s State) Dispose() (State, Action) {
	if s.Phase == Disposed {
		return s, Action{}
	}
	s.Phase = Disposed
	s.Gen++
	s.Rerun = false
	return s, Action{Kind: ActCancel}
}

func (s State) schedule(d time.Duration) (State, Action) {
	s.Phase = PendingRetry
	s.Gen++
	return s, Action{Kind: ActSchedule, Delay: d, Gen: s.Gen}
}
