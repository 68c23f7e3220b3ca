package reflow

import (
	"io"
	"log/slog"
	"time"
)

// Default intervals.
const (
	DefaultSignalInterval     = 50 * time.Millisecond
	DefaultMinLayoutInterval  = 100 * time.Millisecond
	DefaultInitialDelay       = 100 * time.Millisecond
	DefaultWindowDebounce     = 150 * time.Millisecond
	DefaultPropsDebounce      = 200 * time.Millisecond
	DefaultVisibilityDebounce = 300 * time.Millisecond
	DefaultFixedHeight        = 400
)

type options struct {
	clock  Clock
	logger *slog.Logger

	signalInterval    time.Duration
	minLayoutInterval time.Duration
	initialDelay      time.Duration
	fixedHeight       int
	presentation      Options

	windowDebounce     time.Duration
	propsDebounce      time.Duration
	visibilityDebounce time.Duration
}

// Option configures a Signal, Scheduler, or Sources.
type Option func(*options)

func defaultOptions() options {
	return options{
		clock:              SystemClock(),
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		signalInterval:     DefaultSignalInterval,
		minLayoutInterval:  DefaultMinLayoutInterval,
		initialDelay:       DefaultInitialDelay,
		fixedHeight:        DefaultFixedHeight,
		windowDebounce:     DefaultWindowDebounce,
		propsDebounce:      DefaultPropsDebounce,
		visibilityDebounce: DefaultVisibilityDebounce,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger used for debug-level failure reports.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSignalInterval sets the minimum interval between Signal callbacks.
func WithSignalInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.signalInterval = d
		}
	}
}

// WithMinLayoutInterval sets the minimum interval between layout calls.
func WithMinLayoutInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.minLayoutInterval = d
		}
	}
}

// WithInitialDelay sets how long after mount the first layout runs.
func WithInitialDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.initialDelay = d
		}
	}
}

// WithFixedHeight sets the layout height. Zero or negative follows the
// container's measured height.
func WithFixedHeight(h int) Option {
	return func(o *options) { o.fixedHeight = h }
}

// WithPresentation sets the options pushed to the editor on mount.
func WithPresentation(p Options) Option {
	return func(o *options) { o.presentation = p }
}

// WithDebounce sets the Sources intervals. Zero values keep the defaults.
func WithDebounce(window, visibility, props time.Duration) Option {
	return func(o *options) {
		if window > 0 {
			o.windowDebounce = window
		}
		if visibility > 0 {
			o.visibilityDebounce = visibility
		}
		if props > 0 {
			o.propsDebounce = props
		}
	}
}
