package buffer

import "testing"

func TestBuffer_InsertText_MultiLine(t *testing.T) {
	b := New("ab", Options{})
	b.SetCursor(Pos{Row: 0, GraphemeCol: 1})
	v := b.Version()

	b.InsertText("X\nY")
	if got, want := b.Text(), "aX\nYb"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := b.Cursor(), (Pos{Row: 1, GraphemeCol: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	if got := b.Version(); got != v+1 {
		t.Fatalf("version=%d, want %d", got, v+1)
	}
	if b.TextVersion() != 1 {
		t.Fatalf("text version=%d, want 1", b.TextVersion())
	}
}

func TestBuffer_InsertText_ReplacesSelection(t *testing.T) {
	b := New("hello", Options{})
	b.SetSelection(Range{Start: Pos{Row: 0, GraphemeCol: 1}, End: Pos{Row: 0, GraphemeCol: 4}})

	b.InsertText("i")
	if got, want := b.Text(), "hio"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := b.Cursor(), (Pos{Row: 0, GraphemeCol: 2}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	if _, ok := b.Selection(); ok {
		t.Fatalf("expected selection cleared")
	}
}

func TestBuffer_InsertText_EmptyDeletesSelection(t *testing.T) {
	b := New("hello", Options{})
	b.InsertText("")
	if b.Version() != 0 {
		t.Fatalf("empty insert without selection must be a no-op")
	}
	b.SetSelection(Range{Start: Pos{}, End: Pos{Row: 0, GraphemeCol: 2}})
	b.InsertText("")
	if got := b.Text(); got != "llo" {
		t.Fatalf("text=%q, want %q", got, "llo")
	}
}

func TestBuffer_InsertText_Unicode(t *testing.T) {
	b := New("", Options{})
	b.InsertText("π")
	b.InsertText("テ")
	b.InsertText("é")

	if got, want := b.Cursor(), (Pos{Row: 0, GraphemeCol: 3}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	b.DeleteBackward()
	if got, want := b.Text(), "πテ"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestBuffer_Delete(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		cursor     Pos
		forward    bool
		wantText   string
		wantCursor Pos
	}{
		{"backspace joins lines", "ab\ncd", Pos{Row: 1}, false, "abcd", Pos{Row: 0, GraphemeCol: 2}},
		{"backspace at doc start", "ab", Pos{}, false, "ab", Pos{}},
		{"backspace mid line", "abc", Pos{GraphemeCol: 2}, false, "ac", Pos{GraphemeCol: 1}},
		{"delete joins lines", "ab\ncd", Pos{GraphemeCol: 2}, true, "abcd", Pos{GraphemeCol: 2}},
		{"delete at doc end", "ab", Pos{GraphemeCol: 2}, true, "ab", Pos{GraphemeCol: 2}},
		{"delete mid line", "abc", Pos{GraphemeCol: 1}, true, "ac", Pos{GraphemeCol: 1}},
	}
	for _, tc := range cases {
		b := New(tc.text, Options{})
		b.SetCursor(tc.cursor)
		if tc.forward {
			b.DeleteForward()
		} else {
			b.DeleteBackward()
		}
		if got := b.Text(); got != tc.wantText {
			t.Fatalf("%s: text=%q, want %q", tc.name, got, tc.wantText)
		}
		if got := b.Cursor(); got != tc.wantCursor {
			t.Fatalf("%s: cursor=%v, want %v", tc.name, got, tc.wantCursor)
		}
	}
}

func TestBuffer_DeleteSelection_MultiLine(t *testing.T) {
	b := New("one\ntwo\nthree", Options{})
	b.SetSelection(Range{Start: Pos{Row: 0, GraphemeCol: 1}, End: Pos{Row: 2, GraphemeCol: 2}})
	b.DeleteForward()
	if got, want := b.Text(), "oree"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := b.Cursor(), (Pos{Row: 0, GraphemeCol: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
}
