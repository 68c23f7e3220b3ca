package reflowtest

import (
	"sync"

	"github.com/iw2rmb/codeplay/reflow"
)

// Editor is a recording reflow.Editor.
type Editor struct {
	mu        sync.Mutex
	calls     []*reflow.Size
	options   []reflow.Options
	err       error
	onLayout  func(size *reflow.Size)
	disposers []func()
	active    int
	maxActive int
}

// NewEditor returns an Editor that accepts every layout.
func NewEditor() *Editor { return &Editor{} }

func (e *Editor) Layout(size *reflow.Size) error {
	e.mu.Lock()
	e.active++
	if e.active > e.maxActive {
		e.maxActive = e.active
	}
	if size != nil {
		cp := *size
		e.calls = append(e.calls, &cp)
	} else {
		e.calls = append(e.calls, nil)
	}
	hook := e.onLayout
	err := e.err
	e.mu.Unlock()

	if hook != nil {
		hook(size)
	}

	e.mu.Lock()
	e.active--
	e.mu.Unlock()
	return err
}

func (e *Editor) UpdateOptions(opts reflow.Options) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.options = append(e.options, opts)
	return nil
}

func (e *Editor) OnDispose(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposers = append(e.disposers, fn)
}

// Dispose simulates the editor tearing itself down.
func (e *Editor) Dispose() {
	e.mu.Lock()
	fns := e.disposers
	e.disposers = nil
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// FailWith makes every later Layout return err.
func (e *Editor) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// OnLayout installs a hook that runs inside Layout, while the scheduler
// considers the layout in progress.
func (e *Editor) OnLayout(fn func(size *reflow.Size)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onLayout = fn
}

// Calls returns the recorded layout sizes; nil entries are automatic
// layouts.
func (e *Editor) Calls() []*reflow.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*reflow.Size, len(e.calls))
	copy(out, e.calls)
	return out
}

// Options returns every options map pushed to the editor.
func (e *Editor) Options() []reflow.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]reflow.Options, len(e.options))
	copy(out, e.options)
	return out
}

// MaxConcurrent returns the highest number of overlapping Layout calls seen.
func (e *Editor) MaxConcurrent() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxActive
}

// Primitive is a manually driven reflow.Primitive. Emit keeps delivering
// after Disconnect, like a host that reports spuriously after disposal.
type Primitive struct {
	mu            sync.Mutex
	fn            func([]reflow.Entry)
	target        reflow.Container
	observeErr    error
	disconnectErr error
	observes      int
	disconnects   int
}

// NewPrimitive returns a Primitive that accepts subscriptions.
func NewPrimitive() *Primitive { return &Primitive{} }

func (p *Primitive) Observe(target reflow.Container, fn func([]reflow.Entry)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observes++
	if p.observeErr != nil {
		return p.observeErr
	}
	p.target = target
	p.fn = fn
	return nil
}

func (p *Primitive) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects++
	return p.disconnectErr
}

// FailObserve makes Observe return err.
func (p *Primitive) FailObserve(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observeErr = err
}

// FailDisconnect makes Disconnect return err.
func (p *Primitive) FailDisconnect(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnectErr = err
}

// Emit delivers one batch holding an entry per rect.
func (p *Primitive) Emit(rects ...reflow.Rect) {
	p.mu.Lock()
	fn, target := p.fn, p.target
	p.mu.Unlock()
	if fn == nil {
		return
	}
	entries := make([]reflow.Entry, 0, len(rects))
	for _, r := range rects {
		entries = append(entries, reflow.Entry{Target: target, Rect: r})
	}
	fn(entries)
}

// Observes returns how many times Observe was called.
func (p *Primitive) Observes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.observes
}

// Disconnects returns how many times Disconnect was called.
func (p *Primitive) Disconnects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disconnects
}

// Container is a settable reflow.Container.
type Container struct {
	mu   sync.Mutex
	rect reflow.Rect
	err  error
}

// NewContainer returns a Container measuring w x h.
func NewContainer(w, h float64) *Container {
	return &Container{rect: reflow.Rect{Width: w, Height: h}}
}

func (c *Container) Measure() (reflow.Rect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return reflow.Rect{}, c.err
	}
	return c.rect, nil
}

// Resize changes the measured size and clears any failure.
func (c *Container) Resize(w, h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rect = reflow.Rect{Width: w, Height: h}
	c.err = nil
}

// Fail makes Measure return err.
func (c *Container) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}
