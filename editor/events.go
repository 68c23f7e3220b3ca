package editor

import "github.com/iw2rmb/codeplay/buffer"

// ChangeEvent is pushed through Config.OnChange after an edit changes the
// text. Version is the buffer's text version.
type ChangeEvent struct {
	Version uint64
	Cursor  buffer.Pos
	Text    string
}

func buildChangeEvent(b *buffer.Buffer) ChangeEvent {
	return ChangeEvent{
		Version: b.TextVersion(),
		Cursor:  b.Cursor(),
		Text:    b.Text(),
	}
}
