package tui

// Fixed rows around the editor pane.
const (
	headerHeight = 1
	tabBarHeight = 1
	statusHeight = 1
	promptHeight = 1

	// panelMinLines is the smallest output panel, title included.
	panelMinLines = 4
)

// layout is the result of one layout pass over the terminal size.
type layout struct {
	width       int
	bodyHeight  int
	panelHeight int
	prompt      bool
}

// computeLayout splits a width x height terminal into header, tab bar,
// body (the editor pane on the Code tab), optional prompt line, output
// panel and status line. The panel takes a third of the free rows.
func computeLayout(width, height int, prompt bool) layout {
	free := height - headerHeight - tabBarHeight - statusHeight
	if prompt {
		free -= promptHeight
	}
	free = max(free, 0)

	panel := max(free/3, panelMinLines)
	panel = min(panel, free)
	return layout{
		width:       max(width, 0),
		bodyHeight:  free - panel,
		panelHeight: panel,
		prompt:      prompt,
	}
}
