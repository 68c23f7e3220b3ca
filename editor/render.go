package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/codeplay/buffer"
)

type visualRow struct {
	row  int
	seg  segment
	last bool // final segment of its logical line
}

type cellKind int

const (
	cellText cellKind = iota
	cellKeyword
	cellString
	cellComment
	cellNumber
	cellSelection
	cellCursor
)

func (m *Model) gutterDigits() int {
	if !m.opts.LineNumbers {
		return 0
	}
	return max(len(strconv.Itoa(m.buf.LineCount())), m.opts.LineNumbersMinChars, 1)
}

func (m *Model) gutterWidth() int {
	if d := m.gutterDigits(); d > 0 {
		return d + 1
	}
	return 0
}

// contentWidth is the text area width in cells, or 0 when unsized.
func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(m.width-m.gutterWidth(), 1)
}

func (m *Model) layoutRows() []visualRow {
	wrapWidth := 0
	if m.opts.WordWrap {
		wrapWidth = m.contentWidth()
	}
	rows := make([]visualRow, 0, m.buf.LineCount())
	for r := 0; r < m.buf.LineCount(); r++ {
		cl := m.buf.LineClusters(r)
		segs := wrapSegments(cl, lineWidths(cl, m.opts.TabSize), wrapWidth, true)
		for i, s := range segs {
			rows = append(rows, visualRow{row: r, seg: s, last: i == len(segs)-1})
		}
	}
	return rows
}

func (m *Model) renderContent() string {
	m.rows = m.layoutRows()

	cursor := m.buf.Cursor()
	sel, selOK := m.buf.Selection()
	digits := m.gutterDigits()

	out := make([]string, 0, len(m.rows))
	var cl []string
	var widths []int
	var spans []HighlightSpan
	lineRow := -1
	for _, vr := range m.rows {
		if vr.row != lineRow {
			lineRow = vr.row
			cl = m.buf.LineClusters(vr.row)
			widths = lineWidths(cl, m.opts.TabSize)
			spans = m.highlight(vr.row, cl)
		}

		var sb strings.Builder
		if digits > 0 {
			num := strings.Repeat(" ", digits)
			if vr.seg.start == 0 {
				num = fmt.Sprintf("%*d", digits, vr.row+1)
			}
			numStyle := m.cfg.Style.LineNum
			if vr.row == cursor.Row && m.focused {
				numStyle = m.cfg.Style.LineNumActive
			}
			sb.WriteString(numStyle.Render(num))
			sb.WriteString(m.cfg.Style.Gutter.Render(" "))
		}
		sb.WriteString(m.renderRow(vr, cl, widths, spans, cursor, sel, selOK))
		out = append(out, sb.String())
	}

	if m.opts.ScrollBeyondLastLine && m.height > 1 {
		for i := 0; i < m.height-1; i++ {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

func (m *Model) highlight(row int, cl []string) []HighlightSpan {
	if m.cfg.Highlighter == nil {
		return nil
	}
	spans, err := m.cfg.Highlighter.HighlightLine(LineContext{
		Row:      row,
		Text:     strings.Join(cl, ""),
		Language: m.cfg.Language,
	})
	if err != nil {
		return nil
	}
	return normalizeSpans(spans, len(cl))
}

func (m *Model) renderRow(vr visualRow, cl []string, widths []int, spans []HighlightSpan, cursor buffer.Pos, sel buffer.Range, selOK bool) string {
	active := m.opts.HighlightActiveLine && vr.row == cursor.Row
	base := m.cfg.Style.Text
	if active {
		base = m.cfg.Style.ActiveLine
	}

	// Horizontal clip window in cells, measured from the line start.
	cw := m.contentWidth()
	left, right := 0, -1
	if !m.opts.WordWrap && cw > 0 {
		left, right = m.xOffset, m.xOffset+cw
	}

	var sb, run strings.Builder
	runKind := cellText
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(m.styleFor(runKind, base).Render(run.String()))
			run.Reset()
		}
	}
	emit := func(kind cellKind, text string) {
		if kind != runKind {
			flush()
			runKind = kind
		}
		run.WriteString(text)
	}

	cell, used := 0, 0
	for i := 0; i < vr.seg.end; i++ {
		start := cell
		cell += widths[i]
		if i < vr.seg.start {
			continue
		}
		if start < left || (right >= 0 && cell > right) {
			continue
		}
		text := cl[i]
		if text == "\t" {
			text = strings.Repeat(" ", widths[i])
		}
		used += widths[i]

		pos := buffer.Pos{Row: vr.row, GraphemeCol: i}
		switch {
		case m.focused && pos == cursor:
			emit(cellCursor, text)
		case selOK && sel.Contains(pos):
			emit(cellSelection, text)
		default:
			emit(tokenKind(spans, i), text)
		}
	}
	if vr.last && m.focused && cursor.Row == vr.row && cursor.GraphemeCol == vr.seg.end {
		emit(cellCursor, " ")
		used++
	}
	if active && cw > 0 && used < cw {
		emit(cellText, strings.Repeat(" ", cw-used))
	}
	flush()
	return sb.String()
}

func tokenKind(spans []HighlightSpan, col int) cellKind {
	for _, sp := range spans {
		if col < sp.StartCol {
			break
		}
		if col < sp.EndCol {
			switch sp.Kind {
			case TokenKeyword:
				return cellKeyword
			case TokenString:
				return cellString
			case TokenComment:
				return cellComment
			case TokenNumber:
				return cellNumber
			}
		}
	}
	return cellText
}

func (m *Model) styleFor(kind cellKind, base lipgloss.Style) lipgloss.Style {
	st := m.cfg.Style
	switch kind {
	case cellKeyword:
		return st.Keyword.Inherit(base)
	case cellString:
		return st.String.Inherit(base)
	case cellComment:
		return st.Comment.Inherit(base)
	case cellNumber:
		return st.Number.Inherit(base)
	case cellSelection:
		return st.Selection.Inherit(base)
	case cellCursor:
		if m.opts.CursorStyle == CursorUnderline {
			return lipgloss.NewStyle().Underline(true).Inherit(base)
		}
		return st.Cursor
	}
	return base
}

// cursorRow returns the index into rows holding the cursor.
func cursorRow(rows []visualRow, cur buffer.Pos) int {
	for i, vr := range rows {
		if vr.row != cur.Row {
			continue
		}
		if cur.GraphemeCol < vr.seg.end || vr.last {
			return i
		}
	}
	return 0
}

// hitTest maps a cell inside the editor to a document position.
func (m *Model) hitTest(x, y int) buffer.Pos {
	if len(m.rows) == 0 {
		return buffer.Pos{}
	}
	idx := y + m.viewport.YOffset
	if idx < 0 {
		return buffer.Pos{}
	}
	if idx >= len(m.rows) {
		last := m.rows[len(m.rows)-1]
		return buffer.Pos{Row: last.row, GraphemeCol: last.seg.end}
	}
	vr := m.rows[idx]
	x -= m.gutterWidth()
	if x < 0 {
		return buffer.Pos{Row: vr.row, GraphemeCol: vr.seg.start}
	}
	if !m.opts.WordWrap {
		x += m.xOffset
	}

	widths := lineWidths(m.buf.LineClusters(vr.row), m.opts.TabSize)
	cell := 0
	for i := 0; i < vr.seg.start; i++ {
		cell += widths[i]
	}
	if m.opts.WordWrap {
		x += cell
	}
	for i := vr.seg.start; i < vr.seg.end; i++ {
		if x < cell+widths[i] {
			return buffer.Pos{Row: vr.row, GraphemeCol: i}
		}
		cell += widths[i]
	}
	end := vr.seg.end
	if !vr.last && end > vr.seg.start {
		end--
	}
	return buffer.Pos{Row: vr.row, GraphemeCol: end}
}
