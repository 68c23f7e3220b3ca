package buffer

import "github.com/iw2rmb/codeplay/internal/textwidth"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MovePage
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, extends the selection; if false clears it
	// Count is the row distance of a MovePage step. Zero means 1.
	Count int
}

func (b *Buffer) Move(m Move) {
	prevCursor := b.cursor
	prevSel := b.sel

	next := b.clampPos(b.moveCursor(prevCursor, m))

	nextSel := selectionState{}
	if m.Extend {
		anchor := prevCursor
		if prevSel.active && prevSel.anchor != prevSel.end {
			anchor = prevSel.anchor
		}
		if anchor != next {
			nextSel = selectionState{active: true, anchor: anchor, end: next}
		}
	}

	if prevCursor == next && prevSel == nextSel {
		return
	}
	b.cursor = next
	b.sel = nextSel
	b.version++
}

// SelectAll selects the whole document and puts the cursor at its end.
func (b *Buffer) SelectAll() {
	last := len(b.lines) - 1
	end := Pos{Row: last, GraphemeCol: len(b.lines[last])}
	b.SetSelection(Range{Start: Pos{}, End: end})
	if b.cursor != end {
		b.cursor = end
		b.version++
	}
}

func (b *Buffer) moveCursor(p Pos, m Move) Pos {
	switch m.Unit {
	case MoveGrapheme:
		return b.moveGrapheme(p, m.Dir)
	case MoveWord:
		return b.moveWord(p, m.Dir)
	case MoveLine:
		if m.Dir == DirLeft || m.Dir == DirRight {
			return p
		}
		return b.moveGrapheme(p, m.Dir)
	case MovePage:
		n := max(m.Count, 1)
		switch m.Dir {
		case DirUp:
			return b.vertical(p, -n)
		case DirDown:
			return b.vertical(p, n)
		}
		return p
	case MoveDoc:
		return b.moveDoc(p, m.Dir)
	}
	return p
}

func (b *Buffer) vertical(p Pos, delta int) Pos {
	row := clampInt(p.Row+delta, 0, len(b.lines)-1)
	return Pos{Row: row, GraphemeCol: min(p.GraphemeCol, len(b.lines[row]))}
}

func (b *Buffer) moveGrapheme(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.GraphemeCol
	last := len(b.lines) - 1

	switch dir {
	case DirLeft:
		if col > 0 {
			return Pos{Row: row, GraphemeCol: col - 1}
		}
		if row == 0 {
			return p
		}
		return Pos{Row: row - 1, GraphemeCol: len(b.lines[row-1])}
	case DirRight:
		if col < len(b.lines[row]) {
			return Pos{Row: row, GraphemeCol: col + 1}
		}
		if row == last {
			return p
		}
		return Pos{Row: row + 1}
	case DirUp:
		return b.vertical(p, -1)
	case DirDown:
		return b.vertical(p, 1)
	case DirHome:
		// Smart home: first non-blank, or column 0 when already there.
		indent := leadingSpace(b.lines[row])
		if col == indent {
			indent = 0
		}
		return Pos{Row: row, GraphemeCol: indent}
	case DirEnd:
		return Pos{Row: row, GraphemeCol: len(b.lines[row])}
	}
	return p
}

func (b *Buffer) moveWord(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.GraphemeCol
	line := b.lines[row]

	switch dir {
	case DirLeft:
		if col == 0 && row > 0 {
			return Pos{Row: row - 1, GraphemeCol: len(b.lines[row-1])}
		}
		return Pos{Row: row, GraphemeCol: prevWordBoundary(line, col)}
	case DirRight:
		if col == len(line) && row < len(b.lines)-1 {
			return Pos{Row: row + 1}
		}
		return Pos{Row: row, GraphemeCol: nextWordBoundary(line, col)}
	}
	return b.moveGrapheme(p, dir)
}

func (b *Buffer) moveDoc(p Pos, dir MoveDir) Pos {
	last := len(b.lines) - 1
	switch dir {
	case DirHome, DirUp:
		return Pos{}
	case DirEnd, DirDown:
		return Pos{Row: last, GraphemeCol: len(b.lines[last])}
	}
	return p
}

// LeadingWhitespace returns the indentation of row.
func (b *Buffer) LeadingWhitespace(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return textwidth.Join(b.lines[row][:leadingSpace(b.lines[row])])
}

func leadingSpace(line []string) int {
	n := 0
	for n < len(line) && textwidth.IsSpace(line[n]) {
		n++
	}
	return n
}

type class int

const (
	classSpace class = iota
	classWord
	classPunct
)

func classOf(cluster string) class {
	switch {
	case textwidth.IsSpace(cluster):
		return classSpace
	case textwidth.IsWord(cluster):
		return classWord
	}
	return classPunct
}

// Word boundaries skip whitespace, then a run of one class (identifier
// characters or punctuation), within a single logical line.
func prevWordBoundary(line []string, col int) int {
	i := clampInt(col, 0, len(line))
	for i > 0 && classOf(line[i-1]) == classSpace {
		i--
	}
	if i == 0 {
		return 0
	}
	c := classOf(line[i-1])
	for i > 0 && classOf(line[i-1]) == c {
		i--
	}
	return i
}

func nextWordBoundary(line []string, col int) int {
	i := clampInt(col, 0, len(line))
	for i < len(line) && classOf(line[i]) == classSpace {
		i++
	}
	if i == len(line) {
		return i
	}
	c := classOf(line[i])
	for i < len(line) && classOf(line[i]) == c {
		i++
	}
	return i
}
