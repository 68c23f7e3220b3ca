package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/codeplay/buffer"
	"github.com/iw2rmb/codeplay/internal/textwidth"
	"github.com/iw2rmb/codeplay/reflow"
)

// Model is a Bubble Tea component that renders and edits a buffer.
type Model struct {
	cfg  Config
	opts Options
	buf  *buffer.Buffer

	focused bool

	viewport      viewport.Model
	width, height int
	xOffset       int
	rows          []visualRow

	lastTextVersion uint64
}

func New(cfg Config) Model {
	if len(cfg.KeyMap.Left.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}
	m := Model{
		cfg:      cfg,
		opts:     cfg.Options,
		buf:      buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit}),
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	m.lastTextVersion = m.buf.TextVersion()
	m.rebuildContent()
	return m
}

func (m Model) Buffer() *buffer.Buffer { return m.buf }

func (m Model) Init() tea.Cmd { return nil }

// Value returns the document text.
func (m Model) Value() string { return m.buf.Text() }

// SetValue replaces the document from the host side. It does not emit a
// ChangeEvent.
func (m Model) SetValue(text string) Model {
	m.buf.SetText(text)
	m.lastTextVersion = m.buf.TextVersion()
	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Language() string { return m.cfg.Language }

// SetLanguage switches the language identifier and its highlighter.
func (m Model) SetLanguage(lang string, h Highlighter) Model {
	m.cfg.Language = lang
	m.cfg.Highlighter = h
	m.rebuildContent()
	return m
}

func (m Model) Style() Style { return m.cfg.Style }

func (m Model) SetStyle(s Style) Model {
	m.cfg.Style = s
	m.rebuildContent()
	return m
}

func (m Model) Options() Options { return m.opts }

// UpdateOptions merges presentation options. Valid keys apply even when
// others are rejected.
func (m Model) UpdateOptions(p reflow.Options) (Model, error) {
	next, err := m.opts.Merge(p)
	m.opts = next
	m.rebuildContent()
	m.followCursor()
	return m, err
}

// SetSize is the explicit layout operation: the editor occupies exactly
// width x height cells.
func (m Model) SetSize(width, height int) Model {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.viewport.Width = m.width
	m.viewport.Height = m.height
	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Size() (width, height int) { return m.width, m.height }

// Relayout is the automatic layout operation: it recomputes wrapping and
// scrolling for the current size without changing it.
func (m Model) Relayout() Model {
	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m = m.updateKey(msg)
		m.afterEdit()
		return m, nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.height <= 0 {
		return m.renderContent()
	}
	return m.viewport.View()
}

func (m *Model) afterEdit() {
	m.rebuildContent()
	m.followCursor()
	if v := m.buf.TextVersion(); v != m.lastTextVersion {
		m.lastTextVersion = v
		if m.cfg.OnChange != nil {
			m.cfg.OnChange(buildChangeEvent(m.buf))
		}
	}
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

// followCursor scrolls so the cursor keeps CursorSurroundingLines of context
// and, without wrapping, stays inside the horizontal window.
func (m *Model) followCursor() {
	cur := m.buf.Cursor()
	if cw := m.contentWidth(); !m.opts.WordWrap && cw > 0 {
		line := m.buf.LineClusters(cur.Row)
		x := textwidth.Width(textwidth.Join(line[:min(cur.GraphemeCol, len(line))]), m.opts.TabSize)
		prev := m.xOffset
		if x < m.xOffset {
			m.xOffset = x
		} else if x >= m.xOffset+cw {
			m.xOffset = x - cw + 1
		}
		if m.xOffset != prev {
			m.rebuildContent()
		}
	} else {
		m.xOffset = 0
	}

	h := m.viewport.Height
	if h <= 0 {
		return
	}
	row := cursorRow(m.rows, cur)
	pad := min(m.opts.CursorSurroundingLines, (h-1)/2)
	y := m.viewport.YOffset
	switch {
	case row-pad < y:
		m.viewport.SetYOffset(row - pad)
	case row+pad >= y+h:
		m.viewport.SetYOffset(row + pad - h + 1)
	}
}
