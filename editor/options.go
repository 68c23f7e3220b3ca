package editor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iw2rmb/codeplay/reflow"
)

// ErrInvalidOption reports an option value of the wrong type or range.
var ErrInvalidOption = errors.New("invalid editor option")

// CursorStyle controls how the cursor cell is drawn.
type CursorStyle int

const (
	CursorLine CursorStyle = iota
	CursorBlock
	CursorUnderline
)

func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorUnderline:
		return "underline"
	default:
		return "line"
	}
}

// Options is the presentation option set applied to the editor on mount.
type Options struct {
	LineNumbers            bool
	LineNumbersMinChars    int
	WordWrap               bool
	ReadOnly               bool
	TabSize                int
	HighlightActiveLine    bool
	ScrollBeyondLastLine   bool
	CursorStyle            CursorStyle
	CursorSurroundingLines int
	AutoClosingBrackets    bool
}

// DefaultOptions returns the playground presentation: line numbers, soft
// wrap, two-space tabs, no scrolling past the last line, auto-closing
// brackets and no completion features.
func DefaultOptions() Options {
	return Options{
		LineNumbers:            true,
		LineNumbersMinChars:    3,
		WordWrap:               true,
		TabSize:                2,
		HighlightActiveLine:    true,
		CursorStyle:            CursorLine,
		CursorSurroundingLines: 3,
		AutoClosingBrackets:    true,
	}
}

// Presentation returns o in the key/value form accepted by Merge.
func (o Options) Presentation() reflow.Options {
	return reflow.Options{
		"lineNumbers":            onOff(o.LineNumbers),
		"lineNumbersMinChars":    o.LineNumbersMinChars,
		"wordWrap":               onOff(o.WordWrap),
		"readOnly":               o.ReadOnly,
		"tabSize":                o.TabSize,
		"renderLineHighlight":    map[bool]string{true: "line", false: "none"}[o.HighlightActiveLine],
		"scrollBeyondLastLine":   o.ScrollBeyondLastLine,
		"cursorStyle":            o.CursorStyle.String(),
		"cursorSurroundingLines": o.CursorSurroundingLines,
		"autoClosingBrackets":    map[bool]string{true: "always", false: "never"}[o.AutoClosingBrackets],
	}
}

// Merge applies the recognized keys of p over o. Unknown keys are ignored
// the way a richer editor ignores options it does not implement. Invalid
// values are skipped and reported together; valid keys still apply.
func (o Options) Merge(p reflow.Options) (Options, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		v := p[k]
		var err error
		switch k {
		case "lineNumbers":
			err = setSwitch(&o.LineNumbers, v, "on", "off")
		case "lineNumbersMinChars":
			err = setInt(&o.LineNumbersMinChars, v, 0)
		case "wordWrap":
			err = setSwitch(&o.WordWrap, v, "on", "off")
		case "readOnly":
			err = setSwitch(&o.ReadOnly, v, "true", "false")
		case "tabSize":
			err = setInt(&o.TabSize, v, 1)
		case "highlightActiveLine":
			err = setSwitch(&o.HighlightActiveLine, v, "line", "none")
		case "renderLineHighlight":
			err = setSwitch(&o.HighlightActiveLine, v, "line", "none")
		case "scrollBeyondLastLine":
			err = setSwitch(&o.ScrollBeyondLastLine, v, "true", "false")
		case "cursorStyle":
			err = setCursorStyle(&o.CursorStyle, v)
		case "cursorSurroundingLines":
			err = setInt(&o.CursorSurroundingLines, v, 0)
		case "autoClosingBrackets":
			err = setSwitch(&o.AutoClosingBrackets, v, "always", "never")
		default:
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%v", ErrInvalidOption, k, v))
		}
	}
	return o, errors.Join(errs...)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func setSwitch(dst *bool, v any, on, off string) error {
	switch x := v.(type) {
	case bool:
		*dst = x
		return nil
	case string:
		switch strings.ToLower(x) {
		case on, "on", "true":
			*dst = true
			return nil
		case off, "off", "false":
			*dst = false
			return nil
		}
	}
	return ErrInvalidOption
}

func setInt(dst *int, v any, minimum int) error {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) {
			return ErrInvalidOption
		}
		n = int(x)
	default:
		return ErrInvalidOption
	}
	if n < minimum {
		return ErrInvalidOption
	}
	*dst = n
	return nil
}

func setCursorStyle(dst *CursorStyle, v any) error {
	s, ok := v.(string)
	if !ok {
		return ErrInvalidOption
	}
	switch strings.ToLower(s) {
	case "line", "line-thin":
		*dst = CursorLine
	case "block", "block-outline":
		*dst = CursorBlock
	case "underline", "underline-thin":
		*dst = CursorUnderline
	default:
		return ErrInvalidOption
	}
	return nil
}
