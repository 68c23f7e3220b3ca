package tui

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/config"
	"github.com/iw2rmb/codeplay/reflow"
	"github.com/iw2rmb/codeplay/reflow/reflowtest"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	runs     []backend.RunRequest
	prompts  []string
	runRes   backend.RunResult
	runErr   error
	genRes   backend.GenerateResult
	trRes    backend.TranslateResult
	trTarget string
	issues   []backend.SyntaxIssue
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeBackend) Run(_ context.Context, req backend.RunRequest) (backend.RunResult, error) {
	f.record("run")
	f.mu.Lock()
	f.runs = append(f.runs, req)
	f.mu.Unlock()
	return f.runRes, f.runErr
}

func (f *fakeBackend) Generate(_ context.Context, prompt, _ string) (backend.GenerateResult, error) {
	f.record("generate")
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.genRes, nil
}

func (f *fakeBackend) Explain(_ context.Context, _, _ string) (backend.ExplainResult, error) {
	f.record("explain")
	return backend.ExplainResult{Explanation: "prints a greeting"}, nil
}

func (f *fakeBackend) Translate(_ context.Context, _, _, to string) (backend.TranslateResult, error) {
	f.record("translate")
	f.mu.Lock()
	f.trTarget = to
	f.mu.Unlock()
	return f.trRes, nil
}

func (f *fakeBackend) Optimize(_ context.Context, _, _ string) (backend.OptimizeResult, error) {
	f.record("optimize")
	return backend.OptimizeResult{Code: "optimized"}, nil
}

func (f *fakeBackend) GenerateTests(_ context.Context, _, _ string) (backend.TestsResult, error) {
	f.record("tests")
	return backend.TestsResult{Code: "tests"}, nil
}

func (f *fakeBackend) SyntaxCheck(_ context.Context, _, _ string) ([]backend.SyntaxIssue, error) {
	f.record("syntax")
	return f.issues, nil
}

// harness drives a Model on a fake clock with synchronous delivery, so a
// clock advance followed by pump applies every resulting layout.
type harness struct {
	t     *testing.T
	clock *reflowtest.FakeClock
	be    *fakeBackend
	dir   string
	model Model
	msgs  []tea.Msg
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	for _, fn := range mutate {
		fn(cfg)
	}
	h := &harness{
		t:     t,
		clock: reflowtest.NewFakeClock(),
		be:    &fakeBackend{},
		dir:   t.TempDir(),
	}
	m, err := New(Options{
		Config:  cfg,
		Backend: h.be,
		Logger:  slog.New(slog.DiscardHandler),
		SaveDir: h.dir,
		Reflow:  []reflow.Option{reflow.WithClock(h.clock)},
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	m.rt.pane.deliver = func(f func()) { f() }
	m.rt.handle.dispatch = func(f func()) { f() }
	m.Bind(func(msg tea.Msg) { h.msgs = append(h.msgs, msg) })
	h.model = m
	t.Cleanup(m.shutdown)
	h.pump()
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

func (h *harness) typeText(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// pump feeds posted editor messages back into the model.
func (h *harness) pump() {
	for len(h.msgs) > 0 {
		msg := h.msgs[0]
		h.msgs = h.msgs[1:]
		h.send(msg)
	}
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.pump()
}

// exec runs cmd and feeds its result back, skipping spinner ticks. Only
// use it on commands that do not sleep.
func (h *harness) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.exec(c)
		}
	case spinner.TickMsg:
	default:
		h.send(msg)
	}
}

func (h *harness) resize(w, hgt int) {
	h.send(tea.WindowSizeMsg{Width: w, Height: hgt})
}

func (h *harness) layoutMsgs() []layoutMsg {
	var out []layoutMsg
	for _, m := range h.msgs {
		if lm, ok := m.(layoutMsg); ok {
			out = append(out, lm)
		}
	}
	return out
}

func TestModel_LayoutFollowsPane(t *testing.T) {
	h := newHarness(t)
	h.resize(80, 24)
	h.advance(300 * time.Millisecond)

	if w, hgt := h.model.editor.Size(); w != 80 || hgt != 14 {
		t.Fatalf("editor size=%dx%d, want 80x14", w, hgt)
	}
	if st := h.model.Scheduler().Stats(); st.Layouts != 1 {
		t.Fatalf("layouts=%d, want 1 (stats %+v)", st.Layouts, st)
	}

	h.resize(100, 30)
	h.advance(300 * time.Millisecond)
	if w, hgt := h.model.editor.Size(); w != 100 || hgt != 18 {
		t.Fatalf("editor size=%dx%d, want 100x18", w, hgt)
	}
}

func TestModel_FixedHeightOverridesPane(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Layout.FixedHeight = 10 })
	h.resize(80, 40)
	h.advance(300 * time.Millisecond)

	if w, hgt := h.model.editor.Size(); w != 80 || hgt != 10 {
		t.Fatalf("editor size=%dx%d, want 80x10", w, hgt)
	}
}

func TestModel_HiddenTabRequestsAutomaticLayout(t *testing.T) {
	h := newHarness(t)
	h.resize(80, 24)
	h.advance(300 * time.Millisecond)

	h.key(tea.KeyCtrlN)
	if h.model.Tab() != TabTranslate {
		t.Fatalf("tab=%v, want Translate", h.model.Tab())
	}
	lms := h.layoutMsgs()
	if len(lms) != 1 || lms[0].size != nil {
		t.Fatalf("layout msgs=%+v, want one automatic layout", lms)
	}
	h.pump()
	if st := h.model.Scheduler().Stats(); st.AutoLayouts != 1 {
		t.Fatalf("auto layouts=%d, want 1", st.AutoLayouts)
	}
	if h.model.editor.Focused() {
		t.Fatalf("editor focused on hidden tab")
	}

	h.key(tea.KeyCtrlP)
	h.advance(400 * time.Millisecond)
	if h.model.Tab() != TabCode || !h.model.editor.Focused() {
		t.Fatalf("tab=%v focused=%v, want focused Code tab", h.model.Tab(), h.model.editor.Focused())
	}
	if st := h.model.Scheduler().Stats(); st.Layouts != 2 {
		t.Fatalf("layouts=%d, want 2 after the pane is shown again", st.Layouts)
	}
}

func TestModel_DropsStaleLayouts(t *testing.T) {
	h := newHarness(t)
	h.send(layoutMsg{seq: 50, size: &reflow.Size{Width: 40, Height: 10}})
	h.send(layoutMsg{seq: 49, size: &reflow.Size{Width: 20, Height: 5}})

	if w, hgt := h.model.editor.Size(); w != 40 || hgt != 10 {
		t.Fatalf("editor size=%dx%d, want 40x10", w, hgt)
	}

	h.send(layoutMsg{seq: 51})
	if w, hgt := h.model.editor.Size(); w != 40 || hgt != 10 {
		t.Fatalf("automatic layout changed size to %dx%d", w, hgt)
	}
}

func TestModel_LanguageCycle(t *testing.T) {
	h := newHarness(t)

	h.key(tea.KeyCtrlL)
	if h.model.Language() != "javascript" {
		t.Fatalf("language=%q, want javascript", h.model.Language())
	}
	if !strings.Contains(h.model.Code(), "Hello from JavaScript!") {
		t.Fatalf("code=%q, want the JavaScript template", h.model.Code())
	}
	if h.model.filename != "main.js" {
		t.Fatalf("filename=%q, want main.js", h.model.filename)
	}

	h.typeText("QQ")
	h.key(tea.KeyCtrlL)
	if h.model.Language() != "java" {
		t.Fatalf("language=%q, want java", h.model.Language())
	}
	if !strings.Contains(h.model.Code(), "QQ") {
		t.Fatalf("code=%q, user code was replaced", h.model.Code())
	}
	if h.model.target == h.model.language {
		t.Fatalf("target equals source language %q", h.model.target)
	}
}

func TestModel_ThemeToggle(t *testing.T) {
	h := newHarness(t)
	h.key(tea.KeyCtrlT)
	if h.model.theme != "light" {
		t.Fatalf("theme=%q, want light", h.model.theme)
	}
	h.key(tea.KeyCtrlT)
	if h.model.theme != "dark" {
		t.Fatalf("theme=%q, want dark", h.model.theme)
	}
}

func TestModel_RunShowsOutput(t *testing.T) {
	h := newHarness(t)
	h.be.runRes = backend.RunResult{Output: "Hello\n", Success: true, ExecutionTime: "0.01s", Filename: "main.py"}
	h.resize(120, 30)

	h.exec(h.key(tea.KeyCtrlR))

	if len(h.be.runs) != 1 {
		t.Fatalf("runs=%d, want 1", len(h.be.runs))
	}
	req := h.be.runs[0]
	if req.Language != "python" || req.Filename != "main.py" || req.Input != "" {
		t.Fatalf("request=%+v", req)
	}
	if h.model.busy != "" {
		t.Fatalf("busy=%q after completion", h.model.busy)
	}
	view := h.model.View()
	for _, want := range []string{"Output", "Hello", "Code executed successfully in 0.01s"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_RunAsksForInput(t *testing.T) {
	h := newHarness(t)
	h.model.editor = h.model.editor.SetValue("name = input()\nprint(name)")

	h.key(tea.KeyCtrlR)
	if h.model.promptKind != promptInput {
		t.Fatalf("promptKind=%v, want input prompt", h.model.promptKind)
	}
	if len(h.be.calls) != 0 {
		t.Fatalf("calls=%v before input was given", h.be.calls)
	}

	h.typeText(`Ada\nLovelace`)
	h.exec(h.key(tea.KeyEnter))

	if len(h.be.runs) != 1 || h.be.runs[0].Input != "Ada\nLovelace" {
		t.Fatalf("runs=%+v, want input with a real newline", h.be.runs)
	}
	if h.model.promptKind != promptNone {
		t.Fatalf("prompt still open")
	}
}

func TestModel_RunErrorShowsDetail(t *testing.T) {
	h := newHarness(t)
	h.be.runErr = &backend.APIError{Status: 400, Detail: "Code and language are required"}

	h.exec(h.key(tea.KeyCtrlR))

	if h.model.output != "Error: Code and language are required" || !h.model.outputErr {
		t.Fatalf("output=%q err=%v", h.model.output, h.model.outputErr)
	}
	if h.model.toast != "Code execution failed" || h.model.toastKind != toastError {
		t.Fatalf("toast=%q kind=%v", h.model.toast, h.model.toastKind)
	}
}

func TestModel_BusyBlocksSecondRequest(t *testing.T) {
	h := newHarness(t)
	if cmd := h.key(tea.KeyCtrlR); cmd == nil {
		t.Fatalf("run returned no command")
	}
	if cmd := h.key(tea.KeyCtrlE); cmd != nil {
		t.Fatalf("explain started while busy")
	}
	if h.model.toast != "Please wait: running" {
		t.Fatalf("toast=%q", h.model.toast)
	}
}

func TestModel_GenerateReplacesCode(t *testing.T) {
	h := newHarness(t)
	h.be.genRes = backend.GenerateResult{Code: "class Sorter:\n    pass", Explanation: "a sorter"}

	h.key(tea.KeyCtrlG)
	if h.model.promptKind != promptGenerate {
		t.Fatalf("promptKind=%v, want generate prompt", h.model.promptKind)
	}
	h.key(tea.KeyTab)
	h.exec(h.key(tea.KeyEnter))

	if len(h.be.prompts) != 1 || h.be.prompts[0] != quickPrompts[0] {
		t.Fatalf("prompts=%q, want %q", h.be.prompts, quickPrompts[0])
	}
	if h.model.Code() != "class Sorter:\n    pass" || !h.model.written {
		t.Fatalf("code=%q written=%v", h.model.Code(), h.model.written)
	}
	if h.model.filename != "sorter.py" {
		t.Fatalf("filename=%q, want sorter.py", h.model.filename)
	}
	if h.model.explanation != "a sorter" {
		t.Fatalf("explanation=%q", h.model.explanation)
	}
}

func TestModel_EmptyPromptIsRejected(t *testing.T) {
	h := newHarness(t)
	h.key(tea.KeyCtrlG)
	if cmd := h.key(tea.KeyEnter); cmd != nil {
		t.Fatalf("empty prompt started a request")
	}
	if h.model.toast != "Please enter a prompt" {
		t.Fatalf("toast=%q", h.model.toast)
	}

	h.key(tea.KeyCtrlG)
	h.key(tea.KeyEsc)
	if h.model.promptKind != promptNone || len(h.be.calls) != 0 {
		t.Fatalf("prompt=%v calls=%v after esc", h.model.promptKind, h.be.calls)
	}
}

func TestModel_TabActionsAndCopy(t *testing.T) {
	h := newHarness(t)
	h.be.trRes = backend.TranslateResult{Code: "console.log(1)"}
	h.resize(100, 30)

	h.key(tea.KeyCtrlN)
	h.exec(h.key(tea.KeyCtrlR))
	if h.be.trTarget != "javascript" {
		t.Fatalf("target=%q, want javascript", h.be.trTarget)
	}
	if !strings.Contains(h.model.View(), "console.log(1)") {
		t.Fatalf("view missing translation:\n%s", h.model.View())
	}

	h.key(tea.KeyCtrlC)
	if got, _ := h.model.clip.ReadText(); got != "console.log(1)" {
		t.Fatalf("clipboard=%q", got)
	}

	h.key(tea.KeyCtrlN)
	h.exec(h.key(tea.KeyCtrlR))
	h.key(tea.KeyCtrlN)
	h.exec(h.key(tea.KeyCtrlR))
	if h.model.results[TabOptimize] != "optimized" || h.model.results[TabTests] != "tests" {
		t.Fatalf("results=%q", h.model.results)
	}
	if got := strings.Join(h.be.calls, ","); got != "translate,optimize,tests" {
		t.Fatalf("calls=%s", got)
	}
}

func TestModel_TypingSchedulesSyntaxCheck(t *testing.T) {
	h := newHarness(t)
	h.be.issues = []backend.SyntaxIssue{{Line: 2, Message: "invalid syntax", Severity: "error"}}

	before := h.model.editSeq
	if cmd := h.typeText("QQ"); cmd == nil {
		t.Fatalf("edit returned no command")
	}
	if h.model.editSeq != before+1 || !h.model.written {
		t.Fatalf("editSeq=%d written=%v", h.model.editSeq, h.model.written)
	}

	if cmd := h.send(syntaxTickMsg{seq: before}); cmd != nil {
		t.Fatalf("stale tick started a check")
	}
	h.exec(h.send(syntaxTickMsg{seq: h.model.editSeq}))
	if len(h.model.issues) != 1 || h.model.issues[0].Message != "invalid syntax" {
		t.Fatalf("issues=%+v", h.model.issues)
	}

	h.send(syntaxDoneMsg{seq: before})
	if len(h.model.issues) != 1 {
		t.Fatalf("stale result cleared issues")
	}
}

func TestModel_SaveWritesFile(t *testing.T) {
	h := newHarness(t)
	h.exec(h.key(tea.KeyCtrlS))

	path := filepath.Join(h.dir, "main.py")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != h.model.Code() {
		t.Fatalf("saved=%q, want %q", data, h.model.Code())
	}
	if h.model.toast != "Saved "+path {
		t.Fatalf("toast=%q", h.model.toast)
	}
}

func TestModel_QuitDisposes(t *testing.T) {
	h := newHarness(t)
	h.resize(80, 24)
	h.advance(300 * time.Millisecond)

	cmd := h.key(tea.KeyCtrlQ)
	if cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command did not quit")
	}
	if p := h.model.Scheduler().Phase(); p != reflow.Disposed {
		t.Fatalf("phase=%v, want Disposed", p)
	}
	if h.model.rt.pane.Observed() {
		t.Fatalf("pane still observed after quit")
	}
	if err := h.model.rt.handle.Layout(nil); !errors.Is(err, reflow.ErrDisposed) {
		t.Fatalf("Layout after quit err=%v, want ErrDisposed", err)
	}
}

func TestModel_ConfigChange(t *testing.T) {
	h := newHarness(t)

	next := *h.model.cfg
	next.UI.Theme = "light"
	next.Editor.TabSize = 8
	h.send(ConfigChanged(&next, nil))
	if h.model.theme != "light" {
		t.Fatalf("theme=%q, want light", h.model.theme)
	}
	if got := h.model.editor.Options().TabSize; got != 8 {
		t.Fatalf("tab size=%d, want 8", got)
	}
	if h.model.toast != "Configuration reloaded" {
		t.Fatalf("toast=%q", h.model.toast)
	}

	h.send(ConfigChanged(nil, errors.New("bad yaml")))
	if h.model.toast != "Config reload failed: bad yaml" || h.model.cfg != &next {
		t.Fatalf("toast=%q", h.model.toast)
	}
}

func TestModel_ViewFitsTerminal(t *testing.T) {
	h := newHarness(t)
	h.resize(60, 20)
	h.advance(300 * time.Millisecond)

	lines := strings.Split(h.model.View(), "\n")
	if len(lines) != 20 {
		t.Fatalf("view lines=%d, want 20", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 60 {
			t.Fatalf("line %d width=%d, want <= 60: %q", i, w, l)
		}
	}
	if !strings.HasPrefix(ansi.Strip(lines[0]), "codeplay") {
		t.Fatalf("header=%q", lines[0])
	}

	h.key(tea.KeyCtrlG)
	if got := len(strings.Split(h.model.View(), "\n")); got != 20 {
		t.Fatalf("view lines with prompt=%d, want 20", got)
	}
}

func TestNew_OpensGivenText(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Language = "go"
	m, err := New(Options{
		Config:   cfg,
		Logger:   slog.New(slog.DiscardHandler),
		Text:     "package main\n\nfunc main() {}\n",
		Filename: "hello.go",
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	t.Cleanup(m.shutdown)

	if m.Code() != "package main\n\nfunc main() {}\n" || m.filename != "hello.go" || !m.written {
		t.Fatalf("code=%q filename=%q written=%v", m.Code(), m.filename, m.written)
	}

	cfg.UI.Language = "cobol"
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatalf("New() with unknown language err=nil")
	}
}
