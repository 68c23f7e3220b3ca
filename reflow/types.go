package reflow

import "errors"

var (
	// ErrNotMounted is returned when an operation needs a mounted editor.
	ErrNotMounted = errors.New("editor not mounted")
	// ErrAlreadyMounted is returned when a scheduler already owns an editor.
	ErrAlreadyMounted = errors.New("editor already mounted")
	// ErrDisposed is returned after the scheduler has been disposed.
	ErrDisposed = errors.New("scheduler disposed")
	// ErrUnmeasurable is returned by a Container that cannot be measured.
	ErrUnmeasurable = errors.New("container cannot be measured")
)

// Rect is a measured region in host units. Fractional sizes are allowed;
// layouts floor the width.
type Rect struct {
	Width  float64
	Height float64
}

// Empty reports whether r has no positive area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Size is an explicit editor layout size.
type Size struct {
	Width  int
	Height int
}

// Container is a measurable region the editor lives in. The scheduler only
// reads it.
type Container interface {
	Measure() (Rect, error)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func() (Rect, error)

func (f ContainerFunc) Measure() (Rect, error) { return f() }

// Entry is one observation delivered by a Primitive.
type Entry struct {
	Target Container
	Rect   Rect
}

// Primitive is the host's raw resize-notification mechanism. It may deliver
// in bursts, from any goroutine, and may report benign failures (see
// IsNoise).
type Primitive interface {
	Observe(target Container, fn func([]Entry)) error
	Disconnect() error
}

// Options is the editor presentation configuration pushed on mount.
type Options map[string]any

// Editor is a mounted editor instance. The scheduler drives it but does not
// implement it.
type Editor interface {
	// Layout resizes the editor. A nil size asks the editor to size itself.
	Layout(size *Size) error
	UpdateOptions(opts Options) error
	// OnDispose registers fn to run when the editor is torn down.
	OnDispose(fn func())
}

// Capability mounts editor instances into containers.
type Capability interface {
	Mount(container Container) (Editor, error)
}

// CapabilityFunc adapts a function to Capability.
type CapabilityFunc func(Container) (Editor, error)

func (f CapabilityFunc) Mount(c Container) (Editor, error) { return f(c) }

// Requester is anything with a layout entry point, usually a *Scheduler.
type Requester interface {
	RequestLayout()
}
