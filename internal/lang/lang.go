// Package lang holds the table of playground languages: labels, file
// extensions, starter templates and the heuristics that name a source file
// or detect that a program reads standard input.
package lang

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var languagesYAML []byte

// ErrUnknownLanguage is returned for identifiers missing from the table.
var ErrUnknownLanguage = errors.New("unknown language")

// Language describes one supported language.
type Language struct {
	ID          string     `yaml:"id"`
	Label       string     `yaml:"label"`
	Ext         string     `yaml:"ext"`
	BaseName    string     `yaml:"base_name"`
	Template    string     `yaml:"template"`
	LineComment string     `yaml:"line_comment"`
	Keywords    []string   `yaml:"keywords"`
	Globs       []string   `yaml:"globs"`
	NameRules   []NameRule `yaml:"name_rules"`
	Stdin       []string   `yaml:"stdin_patterns"`

	globs []glob.Glob
	names []*regexp.Regexp
	stdin []*regexp.Regexp
}

// NameRule derives a file base name from the first capture of Pattern.
// Case is "", "lower" or "title". A capture listed in Except is skipped;
// when Only is set, the capture must match one of its entries ignoring case.
type NameRule struct {
	Pattern string   `yaml:"pattern"`
	Case    string   `yaml:"case"`
	Except  []string `yaml:"except"`
	Only    []string `yaml:"only"`
}

// Table is an ordered, indexed set of languages.
type Table struct {
	langs []*Language
	byID  map[string]*Language
}

// Parse decodes a YAML language list and compiles its patterns.
func Parse(data []byte) (*Table, error) {
	var langs []*Language
	if err := yaml.Unmarshal(data, &langs); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	t := &Table{byID: make(map[string]*Language, len(langs))}
	for _, l := range langs {
		if l.ID == "" || l.Ext == "" {
			return nil, fmt.Errorf("language %q: id and ext are required", l.ID)
		}
		if _, dup := t.byID[l.ID]; dup {
			return nil, fmt.Errorf("language %q: duplicate id", l.ID)
		}
		if err := l.compile(); err != nil {
			return nil, fmt.Errorf("language %q: %w", l.ID, err)
		}
		t.langs = append(t.langs, l)
		t.byID[l.ID] = l
	}
	return t, nil
}

func (l *Language) compile() error {
	for _, p := range l.Globs {
		g, err := glob.Compile(p)
		if err != nil {
			return fmt.Errorf("glob %q: %w", p, err)
		}
		l.globs = append(l.globs, g)
	}
	for _, r := range l.NameRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("name rule %q: %w", r.Pattern, err)
		}
		l.names = append(l.names, re)
	}
	for _, p := range l.Stdin {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return fmt.Errorf("stdin pattern %q: %w", p, err)
		}
		l.stdin = append(l.stdin, re)
	}
	return nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded language table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(languagesYAML)
		if err != nil {
			panic(fmt.Sprintf("lang: embedded table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// All returns the languages in selector order.
func (t *Table) All() []*Language {
	out := make([]*Language, len(t.langs))
	copy(out, t.langs)
	return out
}

func (t *Table) Lookup(id string) (*Language, bool) {
	l, ok := t.byID[id]
	return l, ok
}

// Template returns the starter program for id.
func (t *Table) Template(id string) (string, error) {
	l, ok := t.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
	}
	return l.Template, nil
}

// Next returns the language after id, wrapping around. Unknown ids yield
// the first language.
func (t *Table) Next(id string) *Language {
	for i, l := range t.langs {
		if l.ID == id {
			return t.langs[(i+1)%len(t.langs)]
		}
	}
	return t.langs[0]
}

// DetectFromFilename matches the base name of path against each language's
// globs in table order.
func (t *Table) DetectFromFilename(path string) (*Language, bool) {
	base := filepath.Base(path)
	for _, l := range t.langs {
		for _, g := range l.globs {
			if g.Match(base) {
				return l, true
			}
		}
	}
	return nil, false
}

// InferFilename names the file code would be saved as: the first matching
// name rule, or the language's default base name, plus its extension.
func (t *Table) InferFilename(code, id string) (string, error) {
	l, ok := t.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
	}
	return l.InferBaseName(code) + "." + l.Ext, nil
}

// InferBaseName returns the base name without extension.
func (l *Language) InferBaseName(code string) string {
	for i, re := range l.names {
		m := re.FindStringSubmatch(code)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		rule := l.NameRules[i]
		if contains(rule.Except, m[1], false) {
			continue
		}
		if len(rule.Only) > 0 && !contains(rule.Only, m[1], true) {
			continue
		}
		return applyCase(m[1], rule.Case)
	}
	return l.BaseName
}

// DownloadName picks the name a buffer is saved under: the current file
// name when known, otherwise code.<ext>, or code.txt for unknown languages.
func (t *Table) DownloadName(filename, id string) string {
	if f := strings.TrimSpace(filename); f != "" {
		return f
	}
	if l, ok := t.byID[id]; ok {
		return "code." + l.Ext
	}
	return "code.txt"
}

// NeedsRuntimeInput reports whether code appears to read standard input.
func (t *Table) NeedsRuntimeInput(code, id string) bool {
	l, ok := t.byID[id]
	if !ok {
		return false
	}
	for _, re := range l.stdin {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

func contains(list []string, s string, fold bool) bool {
	for _, v := range list {
		if v == s || (fold && strings.EqualFold(v, s)) {
			return true
		}
	}
	return false
}

func applyCase(s, mode string) string {
	switch mode {
	case "lower":
		return strings.ToLower(s)
	case "title":
		r, n := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(r)) + s[n:]
	}
	return s
}

// Package-level helpers over the embedded table.

func All() []*Language { return Default().All() }
func Lookup(id string) (*Language, bool) { return Default().Lookup(id) }
func Template(id string) (string, error) { return Default().Template(id) }
func Next(id string) *Language { return Default().Next(id) }
func DownloadName(filename, id string) string { return Default().DownloadName(filename, id) }

func DetectFromFilename(path string) (*Language, bool) {
	return Default().DetectFromFilename(path)
}

func InferFilename(code, id string) (string, error) {
	return Default().InferFilename(code, id)
}

func NeedsRuntimeInput(code, id string) bool {
	return Default().NeedsRuntimeInput(code, id)
}
