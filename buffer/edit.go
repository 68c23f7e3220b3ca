package buffer

import (
	"strings"

	"github.com/iw2rmb/codeplay/internal/textwidth"
)

// InsertText inserts text at the cursor, or replaces the active selection.
// CRLF and lone CR line endings are normalized to LF.
func (b *Buffer) InsertText(s string) {
	s = normalizeNewlines(s)
	r, ok := b.Selection()
	if s == "" {
		if ok {
			b.DeleteSelection()
		}
		return
	}
	if !ok {
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.edit(r, s)
}

// InsertNewline inserts a line break at the cursor, or replaces the active
// selection.
func (b *Buffer) InsertNewline() {
	b.InsertText("\n")
}

// DeleteBackward applies backspace semantics.
func (b *Buffer) DeleteBackward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}

	row, col := b.cursor.Row, b.cursor.GraphemeCol
	switch {
	case row == 0 && col == 0:
		return
	case col > 0:
		b.edit(Range{Start: Pos{Row: row, GraphemeCol: col - 1}, End: b.cursor}, "")
	default:
		// Join with the previous line.
		prev := row - 1
		b.edit(Range{Start: Pos{Row: prev, GraphemeCol: len(b.lines[prev])}, End: b.cursor}, "")
	}
}

// DeleteForward applies delete-key semantics.
func (b *Buffer) DeleteForward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}

	row, col := b.cursor.Row, b.cursor.GraphemeCol
	last := len(b.lines) - 1
	switch {
	case row == last && col == len(b.lines[last]):
		return
	case col < len(b.lines[row]):
		b.edit(Range{Start: b.cursor, End: Pos{Row: row, GraphemeCol: col + 1}}, "")
	default:
		b.edit(Range{Start: b.cursor, End: Pos{Row: row + 1}}, "")
	}
}

// DeleteSelection deletes the active selection, if any.
func (b *Buffer) DeleteSelection() {
	r, ok := b.Selection()
	if !ok {
		return
	}
	b.edit(r, "")
}

// edit replaces r with text as one undoable step and leaves the cursor after
// the inserted text.
func (b *Buffer) edit(r Range, text string) {
	prev := b.snapshot()
	next, changed := b.replaceRange(r, text)
	if !changed {
		return
	}
	b.cursor = next
	b.sel = selectionState{}
	b.markTextChanged()
	b.recordUndo(prev)
}

func (b *Buffer) replaceRange(r Range, text string) (Pos, bool) {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	if r.IsEmpty() && text == "" {
		return b.cursor, false
	}
	if textForLinesRange(b.lines, r) == text {
		return b.cursor, false
	}

	startRow, startCol := r.Start.Row, r.Start.GraphemeCol
	endRow, endCol := r.End.Row, r.End.GraphemeCol
	prefix := append([]string(nil), b.lines[startRow][:startCol]...)
	suffix := append([]string(nil), b.lines[endRow][endCol:]...)

	parts := strings.Split(text, "\n")
	repl := make([][]string, 0, len(parts))
	for _, p := range parts {
		repl = append(repl, textwidth.Split(p))
	}
	lastPart := len(repl[len(repl)-1])
	next := Pos{Row: startRow + len(repl) - 1, GraphemeCol: lastPart}
	if len(repl) == 1 {
		next.GraphemeCol = len(prefix) + lastPart
	}
	repl[0] = append(prefix, repl[0]...)
	repl[len(repl)-1] = append(repl[len(repl)-1], suffix...)

	out := make([][]string, 0, len(b.lines)-(endRow-startRow)+len(repl))
	out = append(out, b.lines[:startRow]...)
	out = append(out, repl...)
	out = append(out, b.lines[endRow+1:]...)
	b.lines = out
	return next, true
}

func textForLinesRange(lines [][]string, r Range) string {
	r = NormalizeRange(r)
	if r.IsEmpty() {
		return ""
	}
	if r.Start.Row == r.End.Row {
		return textwidth.Join(lines[r.Start.Row][r.Start.GraphemeCol:r.End.GraphemeCol])
	}

	var sb strings.Builder
	for row := r.Start.Row; row <= r.End.Row; row++ {
		if row > r.Start.Row {
			sb.WriteByte('\n')
		}
		from, to := 0, len(lines[row])
		if row == r.Start.Row {
			from = r.Start.GraphemeCol
		}
		if row == r.End.Row {
			to = r.End.GraphemeCol
		}
		sb.WriteString(textwidth.Join(lines[row][from:to]))
	}
	return sb.String()
}
