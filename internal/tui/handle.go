package tui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/codeplay/editor"
	"github.com/iw2rmb/codeplay/reflow"
)

// layoutMsg carries one scheduler layout decision into the program. A nil
// size means automatic layout. Messages can arrive out of order; the model
// drops any seq not newer than the last one applied.
type layoutMsg struct {
	seq  uint64
	size *reflow.Size
}

type optionsMsg struct {
	opts reflow.Options
}

// editorHandle is the reflow.Editor the scheduler drives. The real editor
// lives inside the Bubble Tea model, so every call becomes a message. Posts
// never block the caller: the scheduler may call in while the program is
// busy inside Update.
type editorHandle struct {
	dispatch func(func())
	seq      atomic.Uint64

	mu        sync.Mutex
	send      func(tea.Msg)
	queue     []tea.Msg
	disposers []func()
	disposed  bool
}

func newEditorHandle() *editorHandle {
	return &editorHandle{dispatch: func(f func()) { go f() }}
}

// bind connects the handle to a running program and flushes queued posts.
func (h *editorHandle) bind(send func(tea.Msg)) {
	h.mu.Lock()
	h.send = send
	queued := h.queue
	h.queue = nil
	h.mu.Unlock()

	for _, msg := range queued {
		h.dispatch(func() { send(msg) })
	}
}

func (h *editorHandle) post(msg tea.Msg) error {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return reflow.ErrDisposed
	}
	send := h.send
	if send == nil {
		h.queue = append(h.queue, msg)
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	h.dispatch(func() { send(msg) })
	return nil
}

func (h *editorHandle) Layout(size *reflow.Size) error {
	var sz *reflow.Size
	if size != nil {
		s := *size
		sz = &s
	}
	return h.post(layoutMsg{seq: h.seq.Add(1), size: sz})
}

// UpdateOptions validates opts against the editor's option set before
// posting them. Valid keys still apply when others are rejected.
func (h *editorHandle) UpdateOptions(opts reflow.Options) error {
	_, err := editor.Options{}.Merge(opts)
	if perr := h.post(optionsMsg{opts: opts}); perr != nil {
		return perr
	}
	return err
}

func (h *editorHandle) OnDispose(fn func()) {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		fn()
		return
	}
	h.disposers = append(h.disposers, fn)
	h.mu.Unlock()
}

// dispose tears the editor down and runs the registered disposers once.
func (h *editorHandle) dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	fns := h.disposers
	h.disposers = nil
	h.queue = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
