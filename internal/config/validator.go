package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/iw2rmb/codeplay/internal/lang"
	"github.com/iw2rmb/codeplay/internal/logging"
)

// ValidationError is a single invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid field found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func ValidThemes() []string { return []string{"dark", "light", "auto"} }

func ValidCursorStyles() []string { return []string{"line", "block", "underline"} }

// Validate returns every invalid value in c.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		add("editor.tab_size", c.Editor.TabSize, "must be between 1 and 16")
	}
	if !slices.Contains(ValidCursorStyles(), c.Editor.CursorStyle) {
		add("editor.cursor_style", c.Editor.CursorStyle, "must be one of "+strings.Join(ValidCursorStyles(), ", "))
	}

	for field, v := range map[string]int{
		"layout.min_interval_ms":        c.Layout.MinIntervalMs,
		"layout.signal_interval_ms":     c.Layout.SignalIntervalMs,
		"layout.initial_delay_ms":       c.Layout.InitialDelayMs,
		"layout.window_debounce_ms":     c.Layout.WindowDebounceMs,
		"layout.visibility_debounce_ms": c.Layout.VisibilityDebounceMs,
		"layout.props_debounce_ms":      c.Layout.PropsDebounceMs,
		"layout.fixed_height":           c.Layout.FixedHeight,
	} {
		if v < 0 {
			add(field, v, "must not be negative")
		}
	}

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("backend.url", c.Backend.URL, "must be an absolute http(s) URL")
	}
	if c.Backend.TimeoutSeconds <= 0 {
		add("backend.timeout_seconds", c.Backend.TimeoutSeconds, "must be positive")
	}

	if !slices.Contains(ValidThemes(), c.UI.Theme) {
		add("ui.theme", c.UI.Theme, "must be one of "+strings.Join(ValidThemes(), ", "))
	}
	if _, ok := lang.Lookup(c.UI.Language); !ok {
		add("ui.language", c.UI.Language, "unknown language")
	}

	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Logging.Level)) {
		add("logging.level", c.Logging.Level, "must be one of debug, info, warn, error")
	}

	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })
	return errs
}
