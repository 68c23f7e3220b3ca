package editor

// Clipboard provides editor-level clipboard integration. Failures are
// ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// Config configures the editor Model.
type Config struct {
	// Initial text for the internal buffer.
	Text string
	// Language is an identifier passed to the Highlighter.
	Language string

	Options Options
	Style   Style
	KeyMap  KeyMap

	Highlighter Highlighter
	Clipboard   Clipboard

	// OnChange runs synchronously inside Update whenever the text changes
	// through user input.
	OnChange func(ChangeEvent)

	// Forwarded to buffer.Options.
	HistoryLimit int
}
