package textwidth

import "testing"

func TestSplit_KeepsCombiningMarksTogether(t *testing.T) {
	text := "e\u0301x"
	got := Split(text)
	if len(got) != 2 {
		t.Fatalf("clusters: got %q, want 2 clusters", got)
	}
	if got[0] != "e\u0301" {
		t.Fatalf("first cluster: got %q, want %q", got[0], "e\u0301")
	}
	if n := Count(text); n != 2 {
		t.Fatalf("count: got %d, want 2", n)
	}
	if Join(got) != text {
		t.Fatalf("join: got %q", Join(got))
	}
}

func TestCells(t *testing.T) {
	cases := []struct {
		name    string
		cluster string
		col     int
		want    int
	}{
		{"ascii", "a", 0, 1},
		{"wide", "界", 0, 2},
		{"tab at 0", "\t", 0, 4},
		{"tab at 3", "\t", 3, 1},
		{"tab at 4", "\t", 4, 4},
	}
	for _, tc := range cases {
		if got := Cells(tc.cluster, tc.col, 4); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestWidth(t *testing.T) {
	if got := Width("a\tb", 4); got != 5 {
		t.Fatalf("width: got %d, want 5", got)
	}
	if got := Width("世界", 4); got != 4 {
		t.Fatalf("width: got %d, want 4", got)
	}
}

func TestClassifiers(t *testing.T) {
	if !IsSpace(" ") || IsSpace("a") || IsSpace("") {
		t.Fatalf("IsSpace misclassified")
	}
	if !IsWord("_") || !IsWord("é") || IsWord(".") || IsWord("") {
		t.Fatalf("IsWord misclassified")
	}
}
