package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault_TableOrderAndTemplates(t *testing.T) {
	all := All()
	if len(all) != 11 {
		t.Fatalf("languages=%d, want 11", len(all))
	}
	if all[0].ID != "python" || all[len(all)-1].ID != "swift" {
		t.Fatalf("order: first=%s last=%s", all[0].ID, all[len(all)-1].ID)
	}
	for _, l := range all {
		if l.Template == "" || l.Label == "" || l.BaseName == "" {
			t.Fatalf("%s: incomplete entry %+v", l.ID, l)
		}
	}

	tmpl, err := Template("c")
	if err != nil {
		t.Fatalf("Template(c) err=%v", err)
	}
	if !strings.Contains(tmpl, `printf("Hello from C!\n");`) {
		t.Fatalf("c template: %q", tmpl)
	}
	if _, err := Template("cobol"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("Template(cobol) err=%v, want ErrUnknownLanguage", err)
	}
}

func TestNext_Wraps(t *testing.T) {
	if got := Next("python").ID; got != "javascript" {
		t.Fatalf("Next(python)=%s, want javascript", got)
	}
	if got := Next("swift").ID; got != "python" {
		t.Fatalf("Next(swift)=%s, want python", got)
	}
	if got := Next("nope").ID; got != "python" {
		t.Fatalf("Next(nope)=%s, want python", got)
	}
}

func TestDetectFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.py", "python"},
		{"/tmp/src/app.mjs", "javascript"},
		{"Hello.java", "java"},
		{"vec.hpp", "cpp"},
		{"lib.h", "c"},
		{"main.go", "go"},
		{"Rakefile", "ruby"},
		{"build.kts", "kotlin"},
		{"notes.txt", ""},
	}
	for _, tt := range tests {
		l, ok := DetectFromFilename(tt.path)
		got := ""
		if ok {
			got = l.ID
		}
		if got != tt.want {
			t.Fatalf("DetectFromFilename(%q)=%q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestInferFilename(t *testing.T) {
	tests := []struct {
		lang string
		code string
		want string
	}{
		{"java", "public class hello {}", "Hello.java"},
		{"java", "class Util {}\npublic class App {}", "App.java"},
		{"java", "interface X {}", "Main.java"},
		{"kotlin", "object Runner { }", "Runner.kt"},
		{"swift", "struct Point {}", "Point.swift"},
		{"cpp", "class Vec {};", "Vec.cpp"},
		{"python", "class Parser:\n  pass", "parser.py"},
		{"python", "print(1)", "main.py"},
		{"go", "package main\n", "main.go"},
		{"go", "package util\n", "util.go"},
		{"rust", "mod geometry;", "geometry.rs"},
		{"ruby", "class Stack\nend", "stack.rb"},
		{"javascript", "function App() {}", "App.js"},
		{"javascript", "function helper() {}", "main.js"},
		{"c", "int main() {}", "main.c"},
	}
	for _, tt := range tests {
		got, err := InferFilename(tt.code, tt.lang)
		if err != nil {
			t.Fatalf("%s: err=%v", tt.lang, err)
		}
		if got != tt.want {
			t.Fatalf("InferFilename(%q, %s)=%q, want %q", tt.code, tt.lang, got, tt.want)
		}
	}

	if _, err := InferFilename("x", "cobol"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("unknown language err=%v", err)
	}
}

func TestDownloadName(t *testing.T) {
	if got := DownloadName("Hello.java", "java"); got != "Hello.java" {
		t.Fatalf("got %q", got)
	}
	if got := DownloadName("  ", "rust"); got != "code.rs" {
		t.Fatalf("got %q, want code.rs", got)
	}
	if got := DownloadName("", "cobol"); got != "code.txt" {
		t.Fatalf("got %q, want code.txt", got)
	}
}

func TestNeedsRuntimeInput(t *testing.T) {
	tests := []struct {
		lang string
		code string
		want bool
	}{
		{"python", "name = input('who? ')", true},
		{"python", "print('hi')", false},
		{"go", "s := bufio.NewScanner(os.Stdin)", true},
		{"java", "new scanner(system.in)", true},
		{"rust", "println!(\"x\")", false},
		{"cobol", "ACCEPT X", false},
	}
	for _, tt := range tests {
		if got := NeedsRuntimeInput(tt.code, tt.lang); got != tt.want {
			t.Fatalf("NeedsRuntimeInput(%q, %s)=%v, want %v", tt.code, tt.lang, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"- id: x\n",
		"- {id: a, ext: a}\n- {id: a, ext: b}\n",
		"- {id: a, ext: a, globs: ['[']}\n",
		"- {id: a, ext: a, stdin_patterns: ['(']}\n",
		"not: [a list",
	}
	for _, src := range tests {
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("Parse(%q) err=nil, want error", src)
		}
	}
}
