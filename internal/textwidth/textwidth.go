// Package textwidth splits text into grapheme clusters and measures terminal
// cell widths.
package textwidth

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Join concatenates clusters.
func Join(clusters []string) string {
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return clusters[0]
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// IsSpace reports whether every rune in cluster is whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsWord reports whether cluster starts with a letter, digit or underscore.
func IsWord(cluster string) bool {
	for _, r := range cluster {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// TabAdvance returns the cells a tab occupies when it starts at column col.
func TabAdvance(col, tabSize int) int {
	if tabSize <= 0 {
		tabSize = 4
	}
	if col < 0 {
		col = 0
	}
	return tabSize - col%tabSize
}

// Cells returns the terminal cell width of one cluster starting at column
// col. Zero-width clusters that uniseg measures wider fall back to uniseg.
func Cells(cluster string, col, tabSize int) int {
	if cluster == "\t" {
		return TabAdvance(col, tabSize)
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		if fb := uniseg.StringWidth(cluster); fb > w {
			w = fb
		}
	}
	if w < 0 {
		w = 0
	}
	return w
}

// Width returns the cell width of text when rendered from column 0.
func Width(text string, tabSize int) int {
	col := 0
	for _, c := range Split(text) {
		col += Cells(c, col, tabSize)
	}
	return col
}
