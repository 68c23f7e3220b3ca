package tui

import (
	"errors"
	"sync"

	"github.com/iw2rmb/codeplay/reflow"
)

var errPaneObserved = errors.New("pane already observed")

// Pane is the editor's container inside the app layout. The layout pass
// publishes the pane rectangle; Pane measures as that rectangle while the
// Code tab is showing and as empty while it is hidden. It is also the
// resize primitive for the container: every published change is delivered
// to the observer off the publishing goroutine.
type Pane struct {
	deliver func(func())

	mu      sync.Mutex
	rect    reflow.Rect
	visible bool
	fn      func([]reflow.Entry)
}

func NewPane() *Pane {
	return &Pane{deliver: func(f func()) { go f() }}
}

// Publish records the pane geometry from a layout pass.
func (p *Pane) Publish(width, height int, visible bool) {
	rect := reflow.Rect{Width: float64(max(width, 0)), Height: float64(max(height, 0))}
	if !visible {
		rect = reflow.Rect{}
	}

	p.mu.Lock()
	if rect == p.rect && visible == p.visible {
		p.mu.Unlock()
		return
	}
	p.rect, p.visible = rect, visible
	fn := p.fn
	p.mu.Unlock()

	if fn != nil {
		entries := []reflow.Entry{{Target: p, Rect: rect}}
		p.deliver(func() { fn(entries) })
	}
}

func (p *Pane) Measure() (reflow.Rect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rect, nil
}

// Observe registers fn. Like a browser resize observer it delivers the
// current geometry once when there is any.
func (p *Pane) Observe(target reflow.Container, fn func([]reflow.Entry)) error {
	p.mu.Lock()
	if p.fn != nil {
		p.mu.Unlock()
		return errPaneObserved
	}
	p.fn = fn
	rect := p.rect
	p.mu.Unlock()

	if !rect.Empty() {
		entries := []reflow.Entry{{Target: target, Rect: rect}}
		p.deliver(func() { fn(entries) })
	}
	return nil
}

func (p *Pane) Disconnect() error {
	p.mu.Lock()
	p.fn = nil
	p.mu.Unlock()
	return nil
}

// Observed reports whether an observer is registered.
func (p *Pane) Observed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fn != nil
}
