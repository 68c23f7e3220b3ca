package buffer

import (
	"strings"

	"github.com/iw2rmb/codeplay/internal/textwidth"
)

// DefaultHistoryLimit bounds the undo stack when Options leaves it unset.
const DefaultHistoryLimit = 1000

type Options struct {
	// HistoryLimit caps undo entries. Zero means DefaultHistoryLimit; a
	// negative value disables history.
	HistoryLimit int
}

type selectionState struct {
	active bool
	anchor Pos
	end    Pos
}

// Buffer is the pure document state: text, cursor, and selection.
//
// Version advances on every observable change. TextVersion advances only
// when the text itself changes.
type Buffer struct {
	lines       [][]string
	version     uint64
	textVersion uint64

	cursor Pos
	sel    selectionState

	opt  Options
	hist historyState
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = DefaultHistoryLimit
	}
	return &Buffer{
		lines: splitLines(text),
		opt:   opt,
	}
}

func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(textwidth.Join(line))
	}
	return sb.String()
}

// SetText replaces the whole document as one undoable edit. The cursor is
// clamped into the new text and the selection is cleared.
func (b *Buffer) SetText(text string) {
	text = normalizeNewlines(text)
	if text == b.Text() {
		return
	}
	prev := b.snapshot()
	b.lines = splitLines(text)
	b.cursor = b.clampPos(b.cursor)
	b.sel = selectionState{}
	b.markTextChanged()
	b.recordUndo(prev)
}

func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) TextVersion() uint64 { return b.textVersion }

// LineCount returns the number of logical lines; it is at least 1.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the text of row, or "" when row is out of range.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return textwidth.Join(b.lines[row])
}

// LineClusters returns a copy of row's grapheme clusters.
func (b *Buffer) LineClusters(row int) []string {
	if row < 0 || row >= len(b.lines) {
		return nil
	}
	return append([]string(nil), b.lines[row]...)
}

func (b *Buffer) Cursor() Pos { return b.cursor }

func (b *Buffer) SetCursor(p Pos) {
	next := b.clampPos(p)
	if next == b.cursor {
		return
	}
	b.cursor = next
	b.version++
}

func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: b.sel.anchor, End: b.sel.end})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

func (b *Buffer) SetSelection(r Range) {
	clamped := ClampRange(r, len(b.lines), b.lineLen)
	next := selectionState{active: true, anchor: clamped.Start, end: clamped.End}
	if clamped.Start == clamped.End {
		next = selectionState{}
	}

	prevRange, prevOK := b.Selection()
	b.sel = next
	nextRange, nextOK := b.Selection()
	if prevOK == nextOK && prevRange == nextRange {
		return
	}
	b.version++
}

func (b *Buffer) ClearSelection() {
	_, had := b.Selection()
	b.sel = selectionState{}
	if had {
		b.version++
	}
}

// SelectedText returns the text covered by the active selection.
func (b *Buffer) SelectedText() string {
	r, ok := b.Selection()
	if !ok {
		return ""
	}
	return textForLinesRange(b.lines, r)
}

func (b *Buffer) markTextChanged() {
	b.version++
	b.textVersion++
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(text string) [][]string {
	parts := strings.Split(normalizeNewlines(text), "\n")
	lines := make([][]string, 0, len(parts))
	for _, s := range parts {
		lines = append(lines, textwidth.Split(s))
	}
	return lines
}
