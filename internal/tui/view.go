package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/codeplay/internal/lang"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	sections := []string{m.viewHeader(), m.viewTabs()}
	if m.lay.bodyHeight > 0 {
		sections = append(sections, m.viewBody())
	}
	if m.promptKind != promptNone {
		sections = append(sections, m.viewPrompt())
	}
	if m.lay.panelHeight > 0 {
		sections = append(sections, m.viewPanel())
	}
	sections = append(sections, m.viewStatus())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	label := m.language
	if l, ok := lang.Lookup(m.language); ok {
		label = l.Label
	}
	line := m.st.Header.Render("codeplay") + " " + m.st.Muted.Render(label+" · "+m.filename)
	return fit(line, m.lay.width)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := TabCode; t < tabCount; t++ {
		name := t.String()
		if t == TabTranslate {
			if l, ok := lang.Lookup(m.target); ok {
				name += " → " + l.Label
			}
		}
		if t == m.tab {
			tabs = append(tabs, m.st.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.st.Tab.Render(name))
		}
	}
	return fit(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.lay.width)
}

func (m Model) viewBody() string {
	if m.tab == TabCode {
		return block(m.editor.View(), m.lay.width, m.lay.bodyHeight)
	}
	text := m.results[m.tab]
	if text == "" {
		hint := map[Tab]string{
			TabTranslate: "translate the code",
			TabOptimize:  "optimize the code",
			TabTests:     "generate unit tests",
		}[m.tab]
		text = m.st.Muted.Render(fmt.Sprintf("Press %s to %s.", m.keys.Action.Help().Key, hint))
	} else {
		text = m.st.Text.Render(text)
	}
	return block(text, m.lay.width, m.lay.bodyHeight)
}

func (m Model) viewPrompt() string {
	return fit(m.st.Prompt.Render(m.prompt.View()), m.lay.width)
}

// viewPanel renders output, problems and explanation, in that order, into
// the panel rows.
func (m Model) viewPanel() string {
	var lines []string
	if m.output != "" {
		lines = append(lines, m.st.Title.Render("Output"))
		style := m.st.Text
		if m.outputErr {
			style = m.st.Error
		}
		for _, l := range strings.Split(strings.TrimRight(m.output, "\n"), "\n") {
			lines = append(lines, style.Render(l))
		}
	}
	if len(m.issues) > 0 {
		lines = append(lines, m.st.Title.Render(fmt.Sprintf("Problems (%d)", len(m.issues))))
		for _, is := range m.issues {
			style := m.st.Warning
			if is.Severity == "error" {
				style = m.st.Error
			}
			lines = append(lines, style.Render(fmt.Sprintf("L%d %s: %s", is.Line, is.Severity, is.Message)))
		}
	}
	if m.explanation != "" {
		lines = append(lines, m.st.Title.Render("Explanation"))
		for _, l := range strings.Split(strings.TrimRight(m.explanation, "\n"), "\n") {
			lines = append(lines, m.st.Text.Render(l))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, m.st.Muted.Render("Run the program to see its output here."))
	}
	return block(strings.Join(lines, "\n"), m.lay.width, m.lay.panelHeight)
}

func (m Model) viewStatus() string {
	var left string
	switch {
	case m.busy != "":
		left = m.spinner.View() + " " + m.busy + "..."
	case m.toast != "":
		style := m.st.Muted
		switch m.toastKind {
		case toastSuccess:
			style = m.st.Success
		case toastError:
			style = m.st.Error
		}
		left = style.Render(m.toast)
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	right := m.st.Muted.Render(strings.Join(help, " · "))
	if left == "" {
		return fit(right, m.lay.width)
	}
	return fit(left+"  "+right, m.lay.width)
}

// fit truncates one rendered line to width cells.
func fit(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// block clips s to exactly height lines of at most width cells.
func block(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = fit(l, width)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
