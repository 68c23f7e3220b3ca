package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/codeplay/buffer"
	"github.com/iw2rmb/codeplay/internal/textwidth"
)

var closers = map[string]string{"(": ")", "[": "]", "{": "}", `"`: `"`, "'": "'", "`": "`"}

func (m Model) updateKey(msg tea.KeyMsg) Model {
	if !m.focused {
		return m
	}

	// Paste events insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if !m.opts.ReadOnly {
			m.buf.InsertText(string(msg.Runes))
		}
		return m
	}

	km := m.cfg.KeyMap
	mv := func(unit buffer.MoveUnit, dir buffer.MoveDir, extend bool) {
		m.buf.Move(buffer.Move{Unit: unit, Dir: dir, Extend: extend, Count: max(m.height-1, 1)})
	}
	edit := !m.opts.ReadOnly

	switch {
	case key.Matches(msg, km.Left):
		mv(buffer.MoveGrapheme, buffer.DirLeft, false)
	case key.Matches(msg, km.Right):
		mv(buffer.MoveGrapheme, buffer.DirRight, false)
	case key.Matches(msg, km.Up):
		mv(buffer.MoveLine, buffer.DirUp, false)
	case key.Matches(msg, km.Down):
		mv(buffer.MoveLine, buffer.DirDown, false)
	case key.Matches(msg, km.ShiftLeft):
		mv(buffer.MoveGrapheme, buffer.DirLeft, true)
	case key.Matches(msg, km.ShiftRight):
		mv(buffer.MoveGrapheme, buffer.DirRight, true)
	case key.Matches(msg, km.ShiftUp):
		mv(buffer.MoveLine, buffer.DirUp, true)
	case key.Matches(msg, km.ShiftDown):
		mv(buffer.MoveLine, buffer.DirDown, true)
	case key.Matches(msg, km.WordLeft):
		mv(buffer.MoveWord, buffer.DirLeft, false)
	case key.Matches(msg, km.WordRight):
		mv(buffer.MoveWord, buffer.DirRight, false)
	case key.Matches(msg, km.ShiftWordLeft):
		mv(buffer.MoveWord, buffer.DirLeft, true)
	case key.Matches(msg, km.ShiftWordRight):
		mv(buffer.MoveWord, buffer.DirRight, true)
	case key.Matches(msg, km.Home):
		mv(buffer.MoveLine, buffer.DirHome, false)
	case key.Matches(msg, km.End):
		mv(buffer.MoveLine, buffer.DirEnd, false)
	case key.Matches(msg, km.ShiftHome):
		mv(buffer.MoveLine, buffer.DirHome, true)
	case key.Matches(msg, km.ShiftEnd):
		mv(buffer.MoveLine, buffer.DirEnd, true)
	case key.Matches(msg, km.PageUp):
		mv(buffer.MovePage, buffer.DirUp, false)
	case key.Matches(msg, km.PageDown):
		mv(buffer.MovePage, buffer.DirDown, false)
	case key.Matches(msg, km.DocStart):
		mv(buffer.MoveDoc, buffer.DirHome, false)
	case key.Matches(msg, km.DocEnd):
		mv(buffer.MoveDoc, buffer.DirEnd, false)
	case key.Matches(msg, km.SelectAll):
		m.buf.SelectAll()

	case key.Matches(msg, km.Backspace):
		if edit {
			m.deleteBackward()
		}
	case key.Matches(msg, km.Delete):
		if edit {
			m.buf.DeleteForward()
		}
	case key.Matches(msg, km.Enter):
		if edit {
			m.newline()
		}
	case key.Matches(msg, km.Tab):
		if edit {
			m.indent()
		}

	case key.Matches(msg, km.Undo):
		if edit {
			m.buf.Undo()
		}
	case key.Matches(msg, km.Redo):
		if edit {
			m.buf.Redo()
		}
	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		m.copySelection()
		if edit {
			m.buf.DeleteSelection()
		}
	case key.Matches(msg, km.Paste):
		if edit {
			m.pasteClipboard()
		}

	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt && edit {
			m.typeText(string(msg.Runes))
		} else if msg.Type == tea.KeySpace && edit {
			m.typeText(" ")
		}
	}
	return m
}

// typeText inserts typed text. With AutoClosingBrackets a single opener
// inserts its closer after the cursor, and typing a closer that is already
// next to the cursor steps over it.
func (m *Model) typeText(s string) {
	if !m.opts.AutoClosingBrackets || textwidth.Count(s) != 1 {
		m.buf.InsertText(s)
		return
	}
	if _, sel := m.buf.Selection(); !sel && m.nextCluster() == s && isCloser(s) {
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight})
		return
	}
	closer, ok := closers[s]
	if !ok {
		m.buf.InsertText(s)
		return
	}
	if _, sel := m.buf.Selection(); sel || (s == closer && textwidth.IsWord(m.prevCluster())) {
		m.buf.InsertText(s)
		return
	}
	m.buf.InsertText(s + closer)
	m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft})
}

func isCloser(s string) bool {
	for _, c := range closers {
		if c == s {
			return true
		}
	}
	return false
}

// deleteBackward removes an empty auto-closed pair as a unit.
func (m *Model) deleteBackward() {
	if _, sel := m.buf.Selection(); !sel && m.opts.AutoClosingBrackets {
		if closer, ok := closers[m.prevCluster()]; ok && m.nextCluster() == closer {
			cur := m.buf.Cursor()
			m.buf.SetSelection(buffer.Range{
				Start: buffer.Pos{Row: cur.Row, GraphemeCol: cur.GraphemeCol - 1},
				End:   buffer.Pos{Row: cur.Row, GraphemeCol: cur.GraphemeCol + 1},
			})
			m.buf.DeleteSelection()
			return
		}
	}
	m.buf.DeleteBackward()
}

// newline keeps the current indentation and indents one more level after
// an opening bracket or a trailing colon.
func (m *Model) newline() {
	cur := m.buf.Cursor()
	indent := m.buf.LeadingWhitespace(cur.Row)
	prev := m.prevCluster()
	if prev == "{" || prev == "(" || prev == "[" || prev == ":" {
		unit := strings.Repeat(" ", max(m.opts.TabSize, 1))
		if closer, ok := closers[prev]; ok && m.nextCluster() == closer {
			m.buf.InsertText("\n" + indent + unit + "\n" + indent)
			m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirUp})
			m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd})
			return
		}
		indent += unit
	}
	m.buf.InsertText("\n" + indent)
}

// indent inserts spaces up to the next tab stop.
func (m *Model) indent() {
	size := max(m.opts.TabSize, 1)
	cur := m.buf.Cursor()
	line := m.buf.LineClusters(cur.Row)
	col := textwidth.Width(textwidth.Join(line[:min(cur.GraphemeCol, len(line))]), size)
	m.buf.InsertText(strings.Repeat(" ", textwidth.TabAdvance(col, size)))
}

func (m *Model) prevCluster() string {
	cur := m.buf.Cursor()
	line := m.buf.LineClusters(cur.Row)
	if cur.GraphemeCol == 0 || cur.GraphemeCol > len(line) {
		return ""
	}
	return line[cur.GraphemeCol-1]
}

func (m *Model) nextCluster() string {
	cur := m.buf.Cursor()
	line := m.buf.LineClusters(cur.Row)
	if cur.GraphemeCol >= len(line) {
		return ""
	}
	return line[cur.GraphemeCol]
}

func (m *Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	if s := m.buf.SelectedText(); s != "" {
		_ = m.cfg.Clipboard.WriteText(s)
	}
}

func (m *Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil || s == "" {
		return
	}
	m.buf.InsertText(s)
}

// updateMouse scrolls on the wheel and places the cursor on a left click.
// Coordinates are relative to the editor's top-left cell.
func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.buf.SetCursor(m.hitTest(msg.X, msg.Y))
		m.rebuildContent()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
