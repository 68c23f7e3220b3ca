package reflow

// Sources funnels the coarse trigger sources into one Requester, each
// through its own debounce: window resize and focus share the window
// interval, tab visibility uses the visibility interval, and property
// changes (language, theme) use the props interval.
type Sources struct {
	window     *Trigger[struct{}]
	visibility *Trigger[struct{}]
	props      *Trigger[struct{}]
}

// NewSources wires the trigger sources to target.
func NewSources(target Requester, opts ...Option) *Sources {
	o := buildOptions(opts)
	request := func(struct{}) {
		if target != nil {
			target.RequestLayout()
		}
	}
	return &Sources{
		window:     NewTrigger(Debounce, o.windowDebounce, o.clock, request),
		visibility: NewTrigger(Debounce, o.visibilityDebounce, o.clock, request),
		props:      NewTrigger(Debounce, o.propsDebounce, o.clock, request),
	}
}

// WindowResized reports a host window resize.
func (s *Sources) WindowResized() { s.window.Fire(struct{}{}) }

// FocusGained reports the host window regaining focus.
func (s *Sources) FocusGained() { s.window.Fire(struct{}{}) }

// VisibilityChanged reports the editor's view becoming visible or hidden.
// Only becoming visible requests a layout.
func (s *Sources) VisibilityChanged(visible bool) {
	if visible {
		s.visibility.Fire(struct{}{})
	}
}

// PropsChanged reports a presentation property change such as language or
// theme.
func (s *Sources) PropsChanged() { s.props.Fire(struct{}{}) }

// Stop cancels all pending debounced requests and ignores later reports.
func (s *Sources) Stop() {
	s.window.Stop()
	s.visibility.Stop()
	s.props.Stop()
}
