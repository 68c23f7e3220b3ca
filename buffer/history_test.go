package buffer

import (
	"fmt"
	"testing"
)

func TestBuffer_UndoRedo_BasicTyping(t *testing.T) {
	b := New("", Options{})
	if b.CanUndo() || b.CanRedo() {
		t.Fatalf("fresh buffer must have empty history")
	}

	b.InsertText("a")
	b.InsertNewline()
	b.InsertText("b")

	if !b.Undo() {
		t.Fatalf("expected Undo=true")
	}
	if got, want := b.Text(), "a\n"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := b.Cursor(), (Pos{Row: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}

	tv := b.TextVersion()
	if !b.Redo() {
		t.Fatalf("expected Redo=true")
	}
	if got, want := b.Text(), "a\nb"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if b.TextVersion() != tv+1 {
		t.Fatalf("redo must bump the text version")
	}
}

func TestBuffer_UndoRedo_EmptyStacksNoMutation(t *testing.T) {
	b := New("hi", Options{})
	v := b.Version()
	if b.Undo() || b.Redo() {
		t.Fatalf("expected Undo/Redo=false")
	}
	if b.Version() != v || b.Text() != "hi" {
		t.Fatalf("empty history must not mutate")
	}
}

func TestBuffer_NewEditClearsRedo(t *testing.T) {
	b := New("", Options{})
	b.InsertText("a")
	b.Undo()
	b.InsertText("b")
	if b.CanRedo() {
		t.Fatalf("a new edit must drop the redo stack")
	}
}

func TestBuffer_HistoryLimit(t *testing.T) {
	b := New("", Options{HistoryLimit: 3})
	for i := 0; i < 5; i++ {
		b.InsertText(fmt.Sprint(i))
	}
	n := 0
	for b.Undo() {
		n++
	}
	if n != 3 {
		t.Fatalf("undo steps=%d, want 3", n)
	}
	if got, want := b.Text(), "01"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	off := New("", Options{HistoryLimit: -1})
	off.InsertText("x")
	if off.CanUndo() {
		t.Fatalf("negative limit must disable history")
	}
}

func TestBuffer_UndoRestoresSelection(t *testing.T) {
	b := New("hello", Options{})
	sel := Range{Start: Pos{GraphemeCol: 1}, End: Pos{GraphemeCol: 3}}
	b.SetSelection(sel)
	b.InsertText("X")
	b.Undo()
	r, ok := b.Selection()
	if !ok || r != sel {
		t.Fatalf("selection=%v,%v, want %v", r, ok, sel)
	}
}
