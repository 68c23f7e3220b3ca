// Package config loads codeplay settings from defaults, a YAML file and
// CODEPLAY_* environment variables through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/codeplay/editor"
	"github.com/iw2rmb/codeplay/reflow"
)

// EnvPrefix is the environment variable prefix, e.g. CODEPLAY_UI_THEME.
const EnvPrefix = "CODEPLAY"

// ErrConfigExists is returned by WriteDefault when the target file exists.
var ErrConfigExists = errors.New("config file already exists")

// Config is the full configuration tree.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Layout  LayoutConfig  `mapstructure:"layout" yaml:"layout"`
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// EditorConfig is the presentation applied to the code editor on mount.
type EditorConfig struct {
	LineNumbers         bool   `mapstructure:"line_numbers" yaml:"line_numbers"`
	WordWrap            bool   `mapstructure:"word_wrap" yaml:"word_wrap"`
	TabSize             int    `mapstructure:"tab_size" yaml:"tab_size"`
	CursorStyle         string `mapstructure:"cursor_style" yaml:"cursor_style"`
	AutoClosingBrackets bool   `mapstructure:"auto_closing_brackets" yaml:"auto_closing_brackets"`
	HistoryLimit        int    `mapstructure:"history_limit" yaml:"history_limit"`
}

// LayoutConfig tunes the reflow scheduler. Durations are in milliseconds.
// FixedHeight 0 makes the editor follow the pane height.
type LayoutConfig struct {
	MinIntervalMs        int `mapstructure:"min_interval_ms" yaml:"min_interval_ms"`
	SignalIntervalMs     int `mapstructure:"signal_interval_ms" yaml:"signal_interval_ms"`
	InitialDelayMs       int `mapstructure:"initial_delay_ms" yaml:"initial_delay_ms"`
	WindowDebounceMs     int `mapstructure:"window_debounce_ms" yaml:"window_debounce_ms"`
	VisibilityDebounceMs int `mapstructure:"visibility_debounce_ms" yaml:"visibility_debounce_ms"`
	PropsDebounceMs      int `mapstructure:"props_debounce_ms" yaml:"props_debounce_ms"`
	FixedHeight          int `mapstructure:"fixed_height" yaml:"fixed_height"`
}

type BackendConfig struct {
	URL            string `mapstructure:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type UIConfig struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	Language string `mapstructure:"language" yaml:"language"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := editor.DefaultOptions()
	return &Config{
		Editor: EditorConfig{
			LineNumbers:         opts.LineNumbers,
			WordWrap:            opts.WordWrap,
			TabSize:             opts.TabSize,
			CursorStyle:         opts.CursorStyle.String(),
			AutoClosingBrackets: opts.AutoClosingBrackets,
			HistoryLimit:        1000,
		},
		Layout: LayoutConfig{
			MinIntervalMs:        int(reflow.DefaultMinLayoutInterval / time.Millisecond),
			SignalIntervalMs:     int(reflow.DefaultSignalInterval / time.Millisecond),
			InitialDelayMs:       int(reflow.DefaultInitialDelay / time.Millisecond),
			WindowDebounceMs:     int(reflow.DefaultWindowDebounce / time.Millisecond),
			VisibilityDebounceMs: int(reflow.DefaultVisibilityDebounce / time.Millisecond),
			PropsDebounceMs:      int(reflow.DefaultPropsDebounce / time.Millisecond),
			FixedHeight:          0,
		},
		Backend: BackendConfig{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		UI: UIConfig{
			Theme:    "dark",
			Language: "python",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers Default() with the global viper instance.
func SetDefaults() { setDefaults(viper.GetViper()) }

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("editor.line_numbers", d.Editor.LineNumbers)
	v.SetDefault("editor.word_wrap", d.Editor.WordWrap)
	v.SetDefault("editor.tab_size", d.Editor.TabSize)
	v.SetDefault("editor.cursor_style", d.Editor.CursorStyle)
	v.SetDefault("editor.auto_closing_brackets", d.Editor.AutoClosingBrackets)
	v.SetDefault("editor.history_limit", d.Editor.HistoryLimit)

	v.SetDefault("layout.min_interval_ms", d.Layout.MinIntervalMs)
	v.SetDefault("layout.signal_interval_ms", d.Layout.SignalIntervalMs)
	v.SetDefault("layout.initial_delay_ms", d.Layout.InitialDelayMs)
	v.SetDefault("layout.window_debounce_ms", d.Layout.WindowDebounceMs)
	v.SetDefault("layout.visibility_debounce_ms", d.Layout.VisibilityDebounceMs)
	v.SetDefault("layout.props_debounce_ms", d.Layout.PropsDebounceMs)
	v.SetDefault("layout.fixed_height", d.Layout.FixedHeight)

	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.timeout_seconds", d.Backend.TimeoutSeconds)

	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.language", d.UI.Language)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
}

// Load reads the global viper instance into a validated Config.
func Load() (*Config, error) { return LoadFrom(viper.GetViper()) }

// LoadFrom reads v into a validated Config.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Watch reloads v whenever its config file is written and passes the result
// to onChange. A file that fails validation reports the error and leaves
// the caller's current config in place.
func Watch(v *viper.Viper, onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(LoadFrom(v))
	})
	v.WatchConfig()
}

// PropsChanged reports whether moving from old to next changes anything
// the editor renders with: theme, language or editor presentation.
func PropsChanged(old, next *Config) bool {
	if old == nil || next == nil {
		return old != next
	}
	return old.UI != next.UI || old.Editor != next.Editor
}

// EditorOptions converts the editor section into editor.Options on top of
// the playground defaults.
func (c EditorConfig) EditorOptions() editor.Options {
	o := editor.DefaultOptions()
	o.LineNumbers = c.LineNumbers
	o.WordWrap = c.WordWrap
	o.TabSize = c.TabSize
	o.AutoClosingBrackets = c.AutoClosingBrackets
	switch c.CursorStyle {
	case "block":
		o.CursorStyle = editor.CursorBlock
	case "underline":
		o.CursorStyle = editor.CursorUnderline
	default:
		o.CursorStyle = editor.CursorLine
	}
	return o
}

// ReflowOptions converts the layout section into scheduler and sources
// options.
func (c LayoutConfig) ReflowOptions() []reflow.Option {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return []reflow.Option{
		reflow.WithMinLayoutInterval(ms(c.MinIntervalMs)),
		reflow.WithSignalInterval(ms(c.SignalIntervalMs)),
		reflow.WithInitialDelay(ms(c.InitialDelayMs)),
		reflow.WithFixedHeight(c.FixedHeight),
		reflow.WithDebounce(ms(c.WindowDebounceMs), ms(c.VisibilityDebounceMs), ms(c.PropsDebounceMs)),
	}
}

func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfigDir returns the user's codeplay config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeplay")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codeplay"
	}
	return filepath.Join(home, ".config", "codeplay")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Marshal renders c in the config file format.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes the default configuration to path. An existing file
// is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	data, err := Default().Marshal()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
