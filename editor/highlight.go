package editor

import (
	"sort"
	"strings"
	"unicode"

	"github.com/iw2rmb/codeplay/internal/textwidth"
)

// TokenKind selects the Style field a highlighted span renders with.
type TokenKind int

const (
	TokenKeyword TokenKind = iota
	TokenString
	TokenComment
	TokenNumber
)

// HighlightSpan marks grapheme columns [StartCol, EndCol) of one line.
type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     TokenKind
}

type LineContext struct {
	Row      int
	Text     string
	Language string
}

type Highlighter interface {
	HighlightLine(ctx LineContext) ([]HighlightSpan, error)
}

// KeywordHighlighter is a single-line lexical highlighter: keywords, quoted
// strings, numbers and line comments. Block comments are not tracked across
// lines.
type KeywordHighlighter struct {
	keywords    map[string]struct{}
	lineComment string
}

func NewKeywordHighlighter(keywords []string, lineComment string) *KeywordHighlighter {
	kw := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		kw[k] = struct{}{}
	}
	return &KeywordHighlighter{keywords: kw, lineComment: lineComment}
}

func (h *KeywordHighlighter) HighlightLine(ctx LineContext) ([]HighlightSpan, error) {
	cl := textwidth.Split(ctx.Text)
	var spans []HighlightSpan
	for i := 0; i < len(cl); {
		c := cl[i]
		switch {
		case h.lineComment != "" && strings.HasPrefix(textwidth.Join(cl[i:]), h.lineComment):
			return append(spans, HighlightSpan{StartCol: i, EndCol: len(cl), Kind: TokenComment}), nil
		case c == `"` || c == "'" || c == "`":
			j := i + 1
			for j < len(cl) && cl[j] != c {
				if cl[j] == `\` {
					j++
				}
				j++
			}
			j = min(j+1, len(cl))
			spans = append(spans, HighlightSpan{StartCol: i, EndCol: j, Kind: TokenString})
			i = j
		case textwidth.IsWord(c):
			j := i
			for j < len(cl) && (textwidth.IsWord(cl[j]) || (cl[j] == "." && isDigitCluster(cl[i]))) {
				j++
			}
			word := textwidth.Join(cl[i:j])
			if isDigitCluster(c) {
				spans = append(spans, HighlightSpan{StartCol: i, EndCol: j, Kind: TokenNumber})
			} else if _, ok := h.keywords[word]; ok {
				spans = append(spans, HighlightSpan{StartCol: i, EndCol: j, Kind: TokenKeyword})
			}
			i = j
		default:
			i++
		}
	}
	return spans, nil
}

func isDigitCluster(c string) bool {
	for _, r := range c {
		return unicode.IsDigit(r)
	}
	return false
}

// normalizeSpans clamps spans to the line and drops overlaps, keeping the
// earliest span.
func normalizeSpans(spans []HighlightSpan, lineLen int) []HighlightSpan {
	if len(spans) == 0 {
		return nil
	}
	out := make([]HighlightSpan, 0, len(spans))
	for _, sp := range spans {
		start := clamp(sp.StartCol, 0, lineLen)
		end := clamp(sp.EndCol, 0, lineLen)
		if end < start {
			start, end = end, start
		}
		if start == end {
			continue
		}
		out = append(out, HighlightSpan{StartCol: start, EndCol: end, Kind: sp.Kind})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartCol < out[j].StartCol })

	merged := out[:0]
	end := 0
	for _, sp := range out {
		if sp.StartCol < end {
			continue
		}
		merged = append(merged, sp)
		end = sp.EndCol
	}
	return merged
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
