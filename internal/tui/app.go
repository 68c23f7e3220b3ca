// Package tui is the codeplay terminal application: a tabbed coding
// playground around the editor, wired to the reflow scheduler so the
// editor is resized whenever its pane changes.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/codeplay/editor"
	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/config"
	"github.com/iw2rmb/codeplay/internal/lang"
	"github.com/iw2rmb/codeplay/reflow"
)

type Tab int

const (
	TabCode Tab = iota
	TabTranslate
	TabOptimize
	TabTests
	tabCount
)

var tabNames = [tabCount]string{"Code", "Translate", "Optimize", "Tests"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

type promptKind int

const (
	promptNone promptKind = iota
	promptGenerate
	promptInput
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// quickPrompts cycle through the generate prompt with tab.
var quickPrompts = []string{
	"Create a function to sort an array",
	"Build a REST API endpoint",
	"Implement a binary search algorithm",
	"Create a class for data validation",
	"Write a function to reverse a string",
	"Build a simple calculator",
	"Create a file reader utility",
	"Implement a hash table",
}

// Options configures New.
type Options struct {
	Config  *config.Config
	Backend Backend
	Logger  *slog.Logger
	// Output enables OSC 52 clipboard copies and auto theme detection.
	Output *termenv.Output
	// SaveDir is where ctrl+s writes the buffer. Empty means the working
	// directory.
	SaveDir string
	// Text is the initial buffer. Empty means the language template.
	Text string
	// Filename names Text, e.g. the file it was read from.
	Filename string
	// Reflow options applied after the configured ones, e.g. a clock.
	Reflow []reflow.Option
}

// changeSink records editor change notifications raised inside Update.
type changeSink struct {
	changed bool
}

// runtime is the state shared by every copy of the model.
type runtime struct {
	pane    *Pane
	handle  *editorHandle
	sched   *reflow.Scheduler
	sources *reflow.Sources
	change  *changeSink
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	backend Backend
	logger  *slog.Logger
	keys    KeyMap
	rt      *runtime
	clip    *clipboard
	saveDir string

	width, height int
	lay           layout
	tab           Tab
	language      string
	target        string
	theme         string
	st            styles

	editor     editor.Model
	appliedSeq uint64
	filename   string
	written    bool
	editSeq    int

	output      string
	outputErr   bool
	explanation string
	issues      []backend.SyntaxIssue
	results     [tabCount]string

	prompt     textinput.Model
	promptKind promptKind
	quickIdx   int

	busy      string
	spinner   spinner.Model
	toast     string
	toastKind toastKind
}

// New builds the application and mounts the editor into its pane. Layout
// requests produced before Bind are queued.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	l, ok := lang.Lookup(cfg.UI.Language)
	if !ok {
		return Model{}, fmt.Errorf("%w: %s", lang.ErrUnknownLanguage, cfg.UI.Language)
	}
	theme := resolveTheme(cfg.UI.Theme, opts.Output)

	rt := &runtime{
		pane:   NewPane(),
		handle: newEditorHandle(),
		change: &changeSink{},
	}
	clip := &clipboard{out: opts.Output}
	text := l.Template
	if opts.Text != "" {
		text = opts.Text
	}
	edOpts := cfg.Editor.EditorOptions()
	ed := editor.New(editor.Config{
		Text:         text,
		Language:     l.ID,
		Options:      edOpts,
		Style:        editorStyle(theme),
		Highlighter:  highlighterFor(l),
		Clipboard:    clip,
		OnChange:     func(editor.ChangeEvent) { rt.change.changed = true },
		HistoryLimit: cfg.Editor.HistoryLimit,
	})

	ropts := append(cfg.Layout.ReflowOptions(),
		reflow.WithLogger(logger),
		reflow.WithPresentation(edOpts.Presentation()),
	)
	ropts = append(ropts, opts.Reflow...)
	rt.sched = reflow.NewScheduler(rt.pane, reflow.QuietPrimitive(rt.pane), ropts...)
	rt.sources = reflow.NewSources(rt.sched, ropts...)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := Model{
		cfg:      cfg,
		backend:  opts.Backend,
		logger:   logger,
		keys:     DefaultKeyMap(),
		rt:       rt,
		clip:     clip,
		saveDir:  opts.SaveDir,
		language: l.ID,
		target:   lang.Next(l.ID).ID,
		theme:    theme,
		st:       stylesFor(theme),
		editor:   ed,
		spinner:  sp,
		prompt:   ti,
	}
	m.written = strings.TrimSpace(text) != strings.TrimSpace(l.Template)
	m.filename = opts.Filename
	if m.filename == "" {
		m.filename, _ = lang.InferFilename(text, l.ID)
	}

	if err := rt.sched.Attach(rt.handle); err != nil {
		return Model{}, fmt.Errorf("mount editor: %w", err)
	}
	return m, nil
}

func highlighterFor(l *lang.Language) editor.Highlighter {
	return editor.NewKeywordHighlighter(l.Keywords, l.LineComment)
}

// Bind connects the model's editor handle to a running program. Call it
// with Program.Send before Program.Run.
func (m Model) Bind(send func(tea.Msg)) {
	m.rt.handle.bind(send)
}

func (m Model) Init() tea.Cmd { return nil }

// Tab returns the active tab.
func (m Model) Tab() Tab { return m.tab }

// Language returns the active language id.
func (m Model) Language() string { return m.language }

// Code returns the editor text.
func (m Model) Code() string { return m.editor.Value() }

// Scheduler exposes the layout scheduler for diagnostics.
func (m Model) Scheduler() *reflow.Scheduler { return m.rt.sched }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m = m.relayout()
		m.rt.sources.WindowResized()
		return m, nil

	case tea.FocusMsg:
		m.rt.sources.FocusGained()
		return m, nil

	case layoutMsg:
		if msg.seq <= m.appliedSeq {
			return m, nil
		}
		m.appliedSeq = msg.seq
		if msg.size == nil {
			m.editor = m.editor.Relayout()
		} else {
			m.editor = m.editor.SetSize(msg.size.Width, msg.size.Height)
		}
		return m, nil

	case optionsMsg:
		ed, err := m.editor.UpdateOptions(msg.opts)
		m.editor = ed
		if err != nil {
			m.logger.Debug("editor options rejected", "error", err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case runDoneMsg:
		return m.handleRun(msg), nil
	case generateDoneMsg:
		return m.handleGenerate(msg), nil
	case explainDoneMsg:
		return m.handleExplain(msg), nil
	case translateDoneMsg:
		return m.handleTranslate(msg), nil
	case optimizeDoneMsg:
		return m.handleOptimize(msg), nil
	case testsDoneMsg:
		return m.handleTests(msg), nil

	case syntaxTickMsg:
		if msg.seq != m.editSeq || !m.written || strings.TrimSpace(m.editor.Value()) == "" {
			return m, nil
		}
		return m, m.syntaxCheck()

	case syntaxDoneMsg:
		if msg.seq != m.editSeq {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Debug("syntax check failed", "error", msg.err)
			m.issues = []backend.SyntaxIssue{{Line: 1, Message: "Syntax check temporarily unavailable", Severity: "warning"}}
		} else {
			m.issues = msg.issues
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			return m.notify(toastError, "Save failed: "+msg.err.Error()), nil
		}
		return m.notify(toastSuccess, "Saved "+msg.path), nil

	case configChangedMsg:
		return m.applyConfig(msg.cfg, msg.err), nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		if m.tab != TabCode || m.promptKind != promptNone {
			return m, nil
		}
		msg.Y -= headerHeight + tabBarHeight
		if msg.Y < 0 || msg.Y >= m.lay.bodyHeight {
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	if m.promptKind != promptNone {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// relayout runs the layout pass and publishes the editor pane geometry.
func (m Model) relayout() Model {
	m.lay = computeLayout(m.width, m.height, m.promptKind != promptNone)
	m.prompt.Width = max(m.lay.width-len(m.prompt.Prompt)-1, 1)
	m.rt.pane.Publish(m.lay.width, m.lay.bodyHeight, m.tab == TabCode)
	return m
}

func (m Model) notify(kind toastKind, text string) Model {
	m.toastKind = kind
	m.toast = text
	return m
}

// shutdown disposes the editor; the scheduler follows through the
// editor's disposal hook and is then disposed directly as well.
func (m Model) shutdown() {
	m.rt.sources.Stop()
	m.rt.handle.dispose()
	m.rt.sched.Dispose()
}

func (m Model) applyConfig(cfg *config.Config, err error) Model {
	if err != nil {
		return m.notify(toastError, "Config reload failed: "+err.Error())
	}
	old := m.cfg
	m.cfg = cfg
	if !config.PropsChanged(old, cfg) {
		return m
	}

	if theme := resolveTheme(cfg.UI.Theme, m.clip.out); theme != m.theme {
		m = m.setTheme(theme)
	}
	if cfg.UI.Language != m.language {
		if l, ok := lang.Lookup(cfg.UI.Language); ok {
			m = m.setLanguage(l)
		}
	}
	ed, uerr := m.editor.UpdateOptions(cfg.Editor.EditorOptions().Presentation())
	m.editor = ed
	if uerr != nil {
		m.logger.Debug("editor options rejected", "error", uerr)
	}
	m.rt.sources.PropsChanged()
	return m.notify(toastInfo, "Configuration reloaded")
}

func (m Model) setTheme(theme string) Model {
	m.theme = theme
	m.st = stylesFor(theme)
	m.editor = m.editor.SetStyle(editorStyle(theme))
	return m
}

// setLanguage switches the active language. An untouched template is
// replaced by the new language's template; user code is kept.
func (m Model) setLanguage(l *lang.Language) Model {
	code := m.editor.Value()
	if cur, ok := lang.Lookup(m.language); ok {
		isTemplate := strings.TrimSpace(code) == strings.TrimSpace(cur.Template)
		if !m.written || isTemplate {
			m.editor = m.editor.SetValue(l.Template)
			m.written = false
			code = l.Template
		}
	}
	m.language = l.ID
	m.editor = m.editor.SetLanguage(l.ID, highlighterFor(l))
	m.filename, _ = lang.InferFilename(code, l.ID)
	m.issues = nil
	m.editSeq++
	if m.target == l.ID {
		m.target = lang.Next(l.ID).ID
	}
	return m
}

func (m Model) switchTab(t Tab) Model {
	prev := m.tab
	m.tab = t
	m = m.relayout()
	switch {
	case t == TabCode && prev != TabCode:
		m.editor = m.editor.Focus()
		m.rt.sources.VisibilityChanged(true)
	case t != TabCode && prev == TabCode:
		m.editor = m.editor.Blur()
		m.rt.sources.VisibilityChanged(false)
	}
	return m
}

// codeChanged updates derived state after the user edits the buffer.
func (m Model) codeChanged() Model {
	code := strings.TrimSpace(m.editor.Value())
	tmpl := ""
	if l, ok := lang.Lookup(m.language); ok {
		tmpl = strings.TrimSpace(l.Template)
	}
	m.written = code != "" && code != tmpl
	m.filename, _ = lang.InferFilename(m.editor.Value(), m.language)
	if code == "" {
		m.issues = nil
	}
	m.editSeq++
	return m
}
