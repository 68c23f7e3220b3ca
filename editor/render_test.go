package editor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRender_LineNumberAlignment_1To120(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("x")
	}

	m := New(Config{
		Text:    sb.String(),
		Options: Options{LineNumbers: true, LineNumbersMinChars: 3},
	})
	m = m.Blur()
	m = m.SetSize(10, 120)

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 120 {
		t.Fatalf("expected 120 lines, got %d", len(lines))
	}
	for i, line := range lines {
		wantPrefix := fmt.Sprintf("%3d x", i+1)
		if !strings.HasPrefix(line, wantPrefix) {
			t.Fatalf("line %d prefix: got %q, want prefix %q", i+1, line, wantPrefix)
		}
	}
}

func TestRender_MinCharsWidensGutter(t *testing.T) {
	m := New(Config{Text: "a", Options: Options{LineNumbers: true, LineNumbersMinChars: 5}})
	m = m.Blur()
	if got, want := m.renderContent(), "    1 a"; got != want {
		t.Fatalf("render: got %q, want %q", got, want)
	}
}

func TestRender_CursorCellUsesCursorStyle(t *testing.T) {
	m := New(Config{
		Text:  "ab",
		Style: Style{Cursor: lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)},
	})

	if got, want := m.renderContent(), " a b"; got != want {
		t.Fatalf("unexpected cursor rendering:\n got: %q\nwant: %q", got, want)
	}

	m.Buffer().Move(moveEnd)
	m = m.Relayout()
	if got, want := m.renderContent(), "ab   "; got != want {
		t.Fatalf("cursor at end of line:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_TabsExpandToTabStops(t *testing.T) {
	m := New(Config{Text: "\tx\nab\ty", Options: Options{TabSize: 4}})
	m = m.Blur()
	if got, want := m.renderContent(), "    x\nab  y"; got != want {
		t.Fatalf("render: got %q, want %q", got, want)
	}
}

func TestRender_ActiveLinePadsToContentWidth(t *testing.T) {
	m := New(Config{Text: "ab\ncd", Options: Options{HighlightActiveLine: true}})
	m = m.Blur()
	m = m.SetSize(6, 2)
	lines := strings.Split(m.renderContent(), "\n")
	if lines[0] != "ab    " || lines[1] != "cd" {
		t.Fatalf("render: got %q", lines)
	}
}

func TestRender_ScrollBeyondLastLine(t *testing.T) {
	m := New(Config{Text: "a", Options: Options{ScrollBeyondLastLine: true}})
	m = m.Blur()
	m = m.SetSize(5, 4)
	if got := strings.Count(m.renderContent(), "\n"); got != 3 {
		t.Fatalf("padding lines: got %d, want 3", got)
	}
}
