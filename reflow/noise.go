package reflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoise marks a failure reported by the host resize primitive that is
// known to be benign.
var ErrNoise = errors.New("benign resize notification")

// NoisePatterns are the message fragments that identify benign resize
// primitive failures.
var NoisePatterns = []string{
	"ResizeObserver",
	"undelivered notifications",
	"ResizeObserver loop",
	"loop limit exceeded",
}

// NoiseError wraps a benign primitive failure. It matches ErrNoise.
type NoiseError struct {
	Op  string
	Err error
}

func (e *NoiseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrNoise)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NoiseError) Unwrap() error { return e.Err }

func (e *NoiseError) Is(target error) bool { return target == ErrNoise }

// IsNoise reports whether err is a benign resize primitive failure, either
// because it wraps ErrNoise or because its message matches NoisePatterns.
func IsNoise(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoise) {
		return true
	}
	return IsNoiseMessage(err.Error())
}

// IsNoiseMessage reports whether msg contains any of NoisePatterns.
func IsNoiseMessage(msg string) bool {
	if msg == "" {
		return false
	}
	for _, p := range NoisePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Classify wraps err in a NoiseError when it is benign and returns it
// unchanged otherwise.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ne *NoiseError
	if errors.As(err, &ne) {
		return err
	}
	if IsNoise(err) {
		return &NoiseError{Op: op, Err: err}
	}
	return err
}

type quietPrimitive struct {
	p Primitive
}

// QuietPrimitive wraps p so that benign failures from Observe and
// Disconnect are reported as success. Other failures pass through.
func QuietPrimitive(p Primitive) Primitive {
	if p == nil {
		return nil
	}
	if q, ok := p.(quietPrimitive); ok {
		return q
	}
	return quietPrimitive{p: p}
}

func (q quietPrimitive) Observe(target Container, fn func([]Entry)) error {
	if err := q.p.Observe(target, fn); err != nil && !IsNoise(err) {
		return err
	}
	return nil
}

func (q quietPrimitive) Disconnect() error {
	if err := q.p.Disconnect(); err != nil && !IsNoise(err) {
		return err
	}
	return nil
}

type noiseFilter struct {
	next slog.Handler
}

// NoiseFilter wraps a slog.Handler and drops records whose message, or any
// string or error attribute, identifies a benign resize primitive failure.
// Every other record reaches next unchanged.
func NoiseFilter(next slog.Handler) slog.Handler {
	if f, ok := next.(noiseFilter); ok {
		return f
	}
	return noiseFilter{next: next}
}

func (h noiseFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h noiseFilter) Handle(ctx context.Context, r slog.Record) error {
	if IsNoiseMessage(r.Message) {
		return nil
	}
	noisy := false
	r.Attrs(func(a slog.Attr) bool {
		if attrIsNoise(a) {
			noisy = true
			return false
		}
		return true
	})
	if noisy {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h noiseFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return noiseFilter{next: h.next.WithAttrs(attrs)}
}

func (h noiseFilter) WithGroup(name string) slog.Handler {
	return noiseFilter{next: h.next.WithGroup(name)}
}

func attrIsNoise(a slog.Attr) bool {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return IsNoiseMessage(v.String())
	case slog.KindGroup:
		for _, ga := range v.Group() {
			if attrIsNoise(ga) {
				return true
			}
		}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return IsNoise(err)
		}
	}
	return false
}
