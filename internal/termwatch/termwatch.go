// Package termwatch adapts a real terminal to the reflow interfaces: a
// SIGWINCH-driven resize Primitive and a Container measured with
// golang.org/x/term.
package termwatch

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/term"

	"github.com/iw2rmb/codeplay/reflow"
)

// ErrAlreadyObserving is returned when a Watcher is asked to observe twice.
var ErrAlreadyObserving = errors.New("termwatch: already observing")

// Watcher delivers one Entry per terminal resize signal, plus an initial
// observation when Observe starts. Deliveries run on the watcher's own
// goroutine.
type Watcher struct {
	notify func(chan<- os.Signal)

	mu   sync.Mutex
	sigs chan os.Signal
	done chan struct{}
	wg   sync.WaitGroup
}

func NewWatcher() *Watcher {
	return &Watcher{notify: notifyResize}
}

func (w *Watcher) Observe(target reflow.Container, fn func([]reflow.Entry)) error {
	if target == nil || fn == nil {
		return fmt.Errorf("termwatch: nil target or callback")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return ErrAlreadyObserving
	}
	w.sigs = make(chan os.Signal, 1)
	w.done = make(chan struct{})
	w.notify(w.sigs)

	w.wg.Add(1)
	go w.loop(target, fn, w.sigs, w.done)
	return nil
}

func (w *Watcher) loop(target reflow.Container, fn func([]reflow.Entry), sigs <-chan os.Signal, done <-chan struct{}) {
	defer w.wg.Done()
	deliver := func() {
		rect, err := target.Measure()
		if err != nil {
			return
		}
		select {
		case <-done:
		default:
			fn([]reflow.Entry{{Target: target, Rect: rect}})
		}
	}

	deliver()
	for {
		select {
		case <-done:
			return
		case <-sigs:
			deliver()
		}
	}
}

// Disconnect stops signal delivery and waits for the delivery goroutine to
// exit. It is idempotent and must not be called from inside the callback.
func (w *Watcher) Disconnect() error {
	w.mu.Lock()
	if w.done == nil {
		w.mu.Unlock()
		return nil
	}
	signal.Stop(w.sigs)
	close(w.done)
	w.done = nil
	w.sigs = nil
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// TermContainer measures a terminal file descriptor in cells.
type TermContainer struct {
	fd      int
	getSize func(fd int) (width, height int, err error)
}

func NewTermContainer(fd int) *TermContainer {
	return &TermContainer{fd: fd, getSize: term.GetSize}
}

// Measure reports the terminal size. A descriptor that is not a terminal
// is unmeasurable.
func (c *TermContainer) Measure() (reflow.Rect, error) {
	w, h, err := c.getSize(c.fd)
	if err != nil {
		return reflow.Rect{}, fmt.Errorf("%w: %v", reflow.ErrUnmeasurable, err)
	}
	return reflow.Rect{Width: float64(w), Height: float64(h)}, nil
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd int) bool { return term.IsTerminal(fd) }
