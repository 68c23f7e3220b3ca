package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/codeplay"
	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/lang"
	"github.com/iw2rmb/codeplay/reflow"
	"github.com/iw2rmb/codeplay/reflow/reflowtest"
)

// executeCommand runs a cobra command with args and returns captured output.
func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Name() != "codeplay" {
		t.Fatalf("rootCmd.Name()=%q, want codeplay", rootCmd.Name())
	}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, want := range []string{"run", "trace", "languages", "config", "version"} {
		if !have[want] {
			t.Errorf("expected subcommand %q not found", want)
		}
	}
	for _, flag := range []string{"config", "backend", "language", "log-dir", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
	if rootCmd.Flags().Lookup("theme") == nil {
		t.Errorf("missing flag --theme")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "version")
	if err != nil {
		t.Fatalf("version err=%v", err)
	}
	if want := "codeplay " + codeplay.VersionTag() + "\n"; out != want {
		t.Fatalf("output=%q, want %q", out, want)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codeplay.yaml")

	out, err := executeCommand(t, rootCmd, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init err=%v", err)
	}
	if !strings.Contains(out, "Created "+path) {
		t.Fatalf("init output=%q", out)
	}

	out, err = executeCommand(t, rootCmd, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show err=%v", err)
	}
	for _, want := range []string{"# config file: " + path, "tab_size: 2", "language: python"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveInput(t *testing.T) {
	reads := "name = input()"
	tests := []struct {
		name  string
		flag  string
		code  string
		stdin string
		piped bool
		want  string
	}{
		{"flag wins", `a\nb`, reads, "ignored", true, "a\nb"},
		{"piped stdin", "", reads, "Ada\n", true, "Ada\n"},
		{"terminal stdin", "", reads, "Ada\n", false, ""},
		{"program without input", "", "print(1)", "Ada\n", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveInput(tt.flag, tt.code, "python", strings.NewReader(tt.stdin), tt.piped)
			if err != nil || got != tt.want {
				t.Fatalf("resolveInput()=%q err=%v, want %q", got, err, tt.want)
			}
		})
	}
}

func newRunClient(t *testing.T, status int, body string) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run" {
			t.Errorf("path=%s, want /run", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := backend.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() err=%v", err)
	}
	return c
}

func TestRunSource(t *testing.T) {
	req := backend.RunRequest{Code: "print(1)", Language: "python", Filename: "main.py"}

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		c := newRunClient(t, http.StatusOK, `{"output":"1","success":true}`)
		if err := runSource(context.Background(), &out, c, req); err != nil {
			t.Fatalf("runSource() err=%v", err)
		}
		if out.String() != "1\n" {
			t.Fatalf("output=%q, want %q", out.String(), "1\n")
		}
	})

	t.Run("program failure", func(t *testing.T) {
		var out bytes.Buffer
		c := newRunClient(t, http.StatusOK, `{"output":"NameError\n","success":false,"runtime_input_detected":true}`)
		err := runSource(context.Background(), &out, c, req)
		if !errors.Is(err, errProgramFailed) || !strings.Contains(err.Error(), "--input") {
			t.Fatalf("err=%v, want errProgramFailed mentioning --input", err)
		}
		if out.String() != "NameError\n" {
			t.Fatalf("output=%q", out.String())
		}
	})

	t.Run("backend error", func(t *testing.T) {
		c := newRunClient(t, http.StatusBadRequest, `{"detail":"Code and language are required"}`)
		err := runSource(context.Background(), new(bytes.Buffer), c, req)
		var apiErr *backend.APIError
		if !errors.As(err, &apiErr) || apiErr.Detail != "Code and language are required" {
			t.Fatalf("err=%v, want wrapped APIError", err)
		}
	})
}

func TestStartTrace(t *testing.T) {
	clock := reflowtest.NewFakeClock()
	container := reflowtest.NewContainer(80, 24)
	prim := reflowtest.NewPrimitive()
	var out bytes.Buffer

	sched, err := startTrace(&out, container, prim,
		reflow.WithClock(clock),
		reflow.WithFixedHeight(0),
		reflow.WithPresentation(reflow.Options{"tabSize": 2, "lineNumbers": "on"}),
	)
	if err != nil {
		t.Fatalf("startTrace() err=%v", err)
	}
	defer sched.Dispose()

	clock.Advance(100 * time.Millisecond)
	container.Resize(100, 30)
	prim.Emit(reflow.Rect{Width: 100, Height: 30})
	clock.Advance(100 * time.Millisecond)

	want := "option lineNumbers=on\noption tabSize=2\nlayout 80x24\nlayout 100x30\n"
	if got := out.String(); got != want {
		t.Fatalf("trace output=%q, want %q", got, want)
	}

	sched.Dispose()
	var stats bytes.Buffer
	printStats(&stats, sched.Stats())
	if !strings.HasPrefix(stats.String(), "requests=1 layouts=2 ") {
		t.Fatalf("stats=%q", stats.String())
	}
}

type fakeLister struct {
	health backend.Health
	langs  []backend.LanguageInfo
}

func (f fakeLister) Health(context.Context) (backend.Health, error) { return f.health, nil }

func (f fakeLister) Languages(context.Context) ([]backend.LanguageInfo, error) {
	return f.langs, nil
}

func TestPrintLanguages(t *testing.T) {
	var out bytes.Buffer
	printLanguages(&out, lang.All())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(lang.All()) || !strings.HasPrefix(lines[0], "python") {
		t.Fatalf("output=%q", out.String())
	}

	out.Reset()
	f := fakeLister{
		health: backend.Health{Status: "OK"},
		langs: []backend.LanguageInfo{
			{Value: "go", Label: "Go", Extension: "go"},
			{Value: "cobol", Label: "COBOL", Extension: "cob"},
		},
	}
	if err := printRemoteLanguages(context.Background(), &out, f); err != nil {
		t.Fatalf("printRemoteLanguages() err=%v", err)
	}
	got := out.String()
	if !strings.Contains(got, "runner unavailable") || !strings.Contains(got, "cobol") || !strings.Contains(got, "(not editable)") {
		t.Fatalf("output=%q", got)
	}
}
