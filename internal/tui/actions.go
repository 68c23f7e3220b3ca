package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/lang"
)

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptKind != promptNone {
		return m.updatePrompt(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount), nil
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount), nil
	case key.Matches(msg, m.keys.Language):
		m = m.setLanguage(lang.Next(m.language))
		m.rt.sources.PropsChanged()
		return m, nil
	case key.Matches(msg, m.keys.Target):
		m.target = lang.Next(m.target).ID
		if m.target == m.language {
			m.target = lang.Next(m.target).ID
		}
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		next := "light"
		if m.theme == "light" {
			next = "dark"
		}
		m = m.setTheme(next)
		m.rt.sources.PropsChanged()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		name := lang.DownloadName(m.filename, m.language)
		return m, saveCmd(m.saveDir, name, m.editor.Value())
	case key.Matches(msg, m.keys.Action):
		return m.action()
	case key.Matches(msg, m.keys.Generate):
		return m.openPrompt(promptGenerate)
	case key.Matches(msg, m.keys.Explain):
		return m.explain()
	case key.Matches(msg, m.keys.Check):
		if strings.TrimSpace(m.editor.Value()) == "" {
			return m, nil
		}
		return m.notify(toastInfo, "Checking syntax"), m.syntaxCheck()
	case m.tab != TabCode && key.Matches(msg, m.keys.Copy):
		text := m.results[m.tab]
		if text == "" {
			return m.notify(toastError, "Nothing to copy"), nil
		}
		_ = m.clip.WriteText(text)
		return m.notify(toastSuccess, "Copied to clipboard"), nil
	}

	if m.tab != TabCode {
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if !m.rt.change.changed {
		return m, cmd
	}
	m.rt.change.changed = false
	m = m.codeChanged()
	return m, tea.Batch(cmd, syntaxTick(m.editSeq))
}

func (m Model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	m.promptKind = kind
	m.prompt.Reset()
	switch kind {
	case promptGenerate:
		m.prompt.Placeholder = "Describe the code to generate (tab for examples)"
	case promptInput:
		m.prompt.Placeholder = `Program input, use \n between lines`
	}
	cmd := m.prompt.Focus()
	m = m.relayout()
	return m, tea.Batch(cmd, textinput.Blink)
}

func (m Model) closePrompt() Model {
	m.promptKind = promptNone
	m.prompt.Blur()
	return m.relayout()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closePrompt(), nil
	case tea.KeyEnter:
		kind, value := m.promptKind, m.prompt.Value()
		m = m.closePrompt()
		if kind == promptGenerate {
			return m.generate(value)
		}
		return m.run(strings.ReplaceAll(value, `\n`, "\n"))
	case tea.KeyTab:
		if m.promptKind == promptGenerate {
			m.prompt.SetValue(quickPrompts[m.quickIdx%len(quickPrompts)])
			m.prompt.CursorEnd()
			m.quickIdx++
			return m, nil
		}
	case tea.KeyCtrlQ:
		m.shutdown()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// startBusy runs cmd as the single in-flight backend request.
func (m Model) startBusy(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m.notify(toastInfo, "Please wait: "+strings.ToLower(m.busy)), nil
	}
	if m.backend == nil {
		return m.notify(toastError, "No backend configured"), nil
	}
	m.busy = label
	return m, tea.Batch(m.spinner.Tick, cmd)
}

// action runs the primary action of the active tab.
func (m Model) action() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabTranslate:
		return m.translate()
	case TabOptimize:
		return m.optimize()
	case TabTests:
		return m.generateTests()
	}
	if strings.TrimSpace(m.editor.Value()) == "" {
		return m.notify(toastError, "Please enter some code to run"), nil
	}
	if lang.NeedsRuntimeInput(m.editor.Value(), m.language) {
		return m.openPrompt(promptInput)
	}
	return m.run("")
}

func (m Model) run(input string) (tea.Model, tea.Cmd) {
	req := backend.RunRequest{
		Code:     m.editor.Value(),
		Language: m.language,
		Input:    input,
		Filename: m.filename,
	}
	be := m.backend
	return m.startBusy("Running", m.call(func(ctx context.Context) tea.Msg {
		res, err := be.Run(ctx, req)
		return runDoneMsg{res: res, err: err}
	}))
}

func (m Model) handleRun(msg runDoneMsg) Model {
	m.busy = ""
	if msg.err != nil {
		m.output = "Error: " + backend.Detail(msg.err)
		m.outputErr = true
		m.rt.sources.WindowResized()
		return m.notify(toastError, "Code execution failed")
	}
	res := msg.res
	m.output = res.Output
	m.outputErr = !res.Success
	if res.Filename != "" {
		m.filename = res.Filename
	}
	m.rt.sources.WindowResized()
	switch {
	case res.Success:
		text := "Code executed successfully"
		if res.ExecutionTime != "" {
			text += " in " + res.ExecutionTime
		}
		return m.notify(toastSuccess, text)
	case res.RuntimeInputDetected:
		return m.notify(toastError, "Program expects input: press "+m.keys.Action.Help().Key+" and provide it")
	}
	return m.notify(toastError, "Code execution failed")
}

func (m Model) generate(prompt string) (tea.Model, tea.Cmd) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return m.notify(toastError, "Please enter a prompt"), nil
	}
	be, language := m.backend, m.language
	return m.startBusy("Generating", m.call(func(ctx context.Context) tea.Msg {
		res, err := be.Generate(ctx, prompt, language)
		return generateDoneMsg{res: res, err: err}
	}))
}

func (m Model) handleGenerate(msg generateDoneMsg) Model {
	m.busy = ""
	if msg.err == nil && strings.TrimSpace(msg.res.Code) == "" {
		msg.err = fmt.Errorf("no code was generated")
	}
	if msg.err != nil {
		m.explanation = "Error: " + backend.Detail(msg.err)
		return m.notify(toastError, "Code generation failed")
	}
	m.editor = m.editor.SetValue(msg.res.Code)
	m.written = true
	m.explanation = msg.res.Explanation
	m.filename = msg.res.Filename
	if m.filename == "" {
		m.filename, _ = lang.InferFilename(msg.res.Code, m.language)
	}
	m.issues = nil
	m.editSeq++
	m.rt.sources.WindowResized()
	return m.notify(toastSuccess, "Code generated")
}

func (m Model) explain() (tea.Model, tea.Cmd) {
	code := m.editor.Value()
	if strings.TrimSpace(code) == "" {
		return m.notify(toastError, "Please enter some code to explain"), nil
	}
	be, language := m.backend, m.language
	return m.startBusy("Explaining", m.call(func(ctx context.Context) tea.Msg {
		res, err := be.Explain(ctx, code, language)
		return explainDoneMsg{res: res, err: err}
	}))
}

func (m Model) handleExplain(msg explainDoneMsg) Model {
	m.busy = ""
	m.rt.sources.WindowResized()
	if msg.err != nil {
		m.explanation = "Error: " + backend.Detail(msg.err)
		return m.notify(toastError, "Explanation failed")
	}
	m.explanation = msg.res.Explanation
	return m.notify(toastSuccess, "Explanation ready")
}

func (m Model) translate() (tea.Model, tea.Cmd) {
	code := m.editor.Value()
	if strings.TrimSpace(code) == "" {
		return m.notify(toastError, "Please enter some code to translate"), nil
	}
	be, from, to := m.backend, m.language, m.target
	return m.startBusy("Translating", m.call(func(ctx context.Context) tea.Msg {
		res, err := be.Translate(ctx, code, from, to)
		return translateDoneMsg{res: res, err: err}
	}))
}

func (m Model) handleTranslate(msg translateDoneMsg) Model {
	m.busy = ""
	if msg.err != nil {
		m.results[TabTranslate] = "Error: " + backend.Detail(msg.err)
		return m.notify(toastError, "Translation failed")
	}
	m.results[TabTranslate] = msg.res.Code
	m.explanation = msg.res.Explanation
	return m.notify(toastSuccess, "Translation ready")
}

func (m Model) optimize() (tea.Model, tea.Cmd) {
	code := m.editor.Value()
	if strings.TrimSpace(code) == "" {
		return m.notify(toastError, "Please enter some code to optimize"), nil
	}
	be, language := m.backend, m.language
	return m.startBusy("Optimizing", m.call(func(ctx context.Context) tea.Msg {
		res, err := be.Optimize(ctx, code, language)
		return optimizeDoneMsg{res: res, err: err}
	}))
}

func (m Model) handleOptimize(msg optimizeDoneMsg) Model {
	m.busy = ""
	if msg.err != nil {
		m.results[TabOptimize] = "Error: " + backend.Detail(msg.err)
		return m.notify(toastError, "Optimization failed")
	}
	m.results[TabOptimize] = msg.res.Code
	m.explanation = msg.res.Explanation
	return m.notify(toastSuccess, "Optimization ready")
}

func (m Model) generateTests() (tea.Model, tea.Cmd) {
	code := m.editor.Value()
	if strings.TrimSpace(code) == "" {
		return m.notify(toastError, "Please enter some code to test"), nil
	}
	be, language := m.backend, m.language
	return m.startBusy("Writing tests", m.call(func(ctx context.Context) tea.Msg {
		res, err := be.GenerateTests(ctx, code, language)
		return testsDoneMsg{res: res, err: err}
	}))
}

func (m Model) handleTests(msg testsDoneMsg) Model {
	m.busy = ""
	if msg.err != nil {
		m.results[TabTests] = "Error: " + backend.Detail(msg.err)
		return m.notify(toastError, "Test generation failed")
	}
	m.results[TabTests] = msg.res.Code
	m.explanation = msg.res.Explanation
	return m.notify(toastSuccess, "Tests ready")
}

// syntaxCheck checks the current text. It does not take the busy slot.
func (m Model) syntaxCheck() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	be, code, language, seq := m.backend, m.editor.Value(), m.language, m.editSeq
	return m.call(func(ctx context.Context) tea.Msg {
		issues, err := be.SyntaxCheck(ctx, code, language)
		return syntaxDoneMsg{seq: seq, issues: issues, err: err}
	})
}
