package reflow

import "time"

// Timer is a pending deferred call created by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// stopped before it fired.
	Stop() bool
}

// Clock is the time source used for all scheduling decisions.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
