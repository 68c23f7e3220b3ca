package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/config"
)

// syntaxCheckDelay is the quiet period after an edit before the automatic
// syntax check runs.
const syntaxCheckDelay = time.Second

type runDoneMsg struct {
	res backend.RunResult
	err error
}

type generateDoneMsg struct {
	res backend.GenerateResult
	err error
}

type explainDoneMsg struct {
	res backend.ExplainResult
	err error
}

type translateDoneMsg struct {
	res backend.TranslateResult
	err error
}

type optimizeDoneMsg struct {
	res backend.OptimizeResult
	err error
}

type testsDoneMsg struct {
	res backend.TestsResult
	err error
}

// syntaxDoneMsg is tagged with the edit sequence it checked so late
// results for older text are dropped.
type syntaxDoneMsg struct {
	seq    int
	issues []backend.SyntaxIssue
	err    error
}

type syntaxTickMsg struct {
	seq int
}

type savedMsg struct {
	path string
	err  error
}

type configChangedMsg struct {
	cfg *config.Config
	err error
}

// ConfigChanged wraps a reloaded configuration for Program.Send.
func ConfigChanged(cfg *config.Config, err error) tea.Msg {
	return configChangedMsg{cfg: cfg, err: err}
}

// Backend is the subset of the backend client the app calls.
type Backend interface {
	Run(ctx context.Context, req backend.RunRequest) (backend.RunResult, error)
	Generate(ctx context.Context, prompt, language string) (backend.GenerateResult, error)
	Explain(ctx context.Context, code, language string) (backend.ExplainResult, error)
	Translate(ctx context.Context, code, from, to string) (backend.TranslateResult, error)
	Optimize(ctx context.Context, code, language string) (backend.OptimizeResult, error)
	GenerateTests(ctx context.Context, code, language string) (backend.TestsResult, error)
	SyntaxCheck(ctx context.Context, code, language string) ([]backend.SyntaxIssue, error)
}

// call runs fn with the configured request timeout off the event loop.
func (m Model) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.cfg.Backend.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func saveCmd(dir, name, code string) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			return savedMsg{path: path, err: err}
		}
		return savedMsg{path: path}
	}
}

func syntaxTick(seq int) tea.Cmd {
	return tea.Tick(syntaxCheckDelay, func(time.Time) tea.Msg { return syntaxTickMsg{seq: seq} })
}
