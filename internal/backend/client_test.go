package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iw2rmb/codeplay"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient() err=%v", err)
	}
	return c
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8000", "ftp://host", "://x"} {
		if _, err := NewClient(u); err == nil {
			t.Fatalf("NewClient(%q) err=nil, want error", u)
		}
	}
	c, err := NewClient("http://localhost:8000/api/", WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient() err=%v", err)
	}
	if got := c.BaseURL(); got != "http://localhost:8000/api" {
		t.Fatalf("BaseURL()=%q", got)
	}
	if c.httpClient.Timeout != time.Second {
		t.Fatalf("timeout=%v, want 1s", c.httpClient.Timeout)
	}
}

func TestClient_RunSendsRequestAndDecodesResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/run" {
			t.Errorf("request=%s %s, want POST /run", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type=%q", ct)
		}
		if ua := r.Header.Get("User-Agent"); ua != codeplay.UserAgent() {
			t.Errorf("User-Agent=%q", ua)
		}
		var in RunRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		if in.Code != "print(1)" || in.Language != "python" || in.Filename != "main.py" {
			t.Errorf("request body=%+v", in)
		}
		_, _ = w.Write([]byte(`{"output":"1\n","success":true,"execution_time":"0.02s","memory":"3KB","filename":"main.py"}`))
	})

	got, err := c.Run(context.Background(), RunRequest{Code: "print(1)", Language: "python", Filename: "main.py"})
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	want := RunResult{Output: "1\n", Success: true, ExecutionTime: "0.02s", Memory: "3KB", Filename: "main.py"}
	if got != want {
		t.Fatalf("Run()=%+v, want %+v", got, want)
	}
}

func TestClient_APIErrorCarriesDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Code and language are required"}`, "Code and language are required"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","code"]}]}`, `[{"loc":["body","code"]}]`},
		{"plain body", http.StatusBadGateway, "upstream down\n", "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Explain(context.Background(), "x", "python")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err=%v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Detail != tt.detail {
				t.Fatalf("APIError=%+v, want status %d detail %q", apiErr, tt.status, tt.detail)
			}
			if got := Detail(err); got != tt.detail {
				t.Fatalf("Detail()=%q, want %q", got, tt.detail)
			}
		})
	}
}

func TestClient_Endpoints(t *testing.T) {
	paths := map[string]string{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		paths[r.URL.Path] = r.Method
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"OK","judge0_available":true}`))
		case "/languages":
			_, _ = w.Write([]byte(`{"languages":[{"value":"go","label":"Go","extension":"go"}]}`))
		case "/get-filename":
			_, _ = w.Write([]byte(`{"filename":"Hello.java","basename":"Hello","extension":"java","language":"java"}`))
		case "/generate":
			if body["mode"] != "code-generation" || body["prompt"] != "sort" {
				t.Errorf("generate body=%v", body)
			}
			_, _ = w.Write([]byte(`{"generatedCode":"x","explanation":"e","filename":"main.py"}`))
		case "/translate":
			if body["source_language"] != "python" || body["target_language"] != "go" {
				t.Errorf("translate body=%v", body)
			}
			_, _ = w.Write([]byte(`{"translatedCode":"y","targetLanguage":"go"}`))
		case "/optimize":
			_, _ = w.Write([]byte(`{"optimizedCode":"z"}`))
		case "/generate-tests":
			_, _ = w.Write([]byte(`{"testCode":"t"}`))
		case "/syntax-check":
			_, _ = w.Write([]byte(`{"errors":[{"line":3,"message":"missing colon","severity":"error"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	if h, err := c.Health(ctx); err != nil || h.Status != "OK" || !h.Judge0Available {
		t.Fatalf("Health()=%+v err=%v", h, err)
	}
	if l, err := c.Languages(ctx); err != nil || len(l) != 1 || l[0].Value != "go" {
		t.Fatalf("Languages()=%+v err=%v", l, err)
	}
	if f, err := c.Filename(ctx, "class Hello {}", "java"); err != nil || f.Basename != "Hello" {
		t.Fatalf("Filename()=%+v err=%v", f, err)
	}
	if g, err := c.Generate(ctx, "sort", "python"); err != nil || g.Code != "x" || g.Filename != "main.py" {
		t.Fatalf("Generate()=%+v err=%v", g, err)
	}
	if tr, err := c.Translate(ctx, "print(1)", "python", "go"); err != nil || tr.Code != "y" {
		t.Fatalf("Translate()=%+v err=%v", tr, err)
	}
	if o, err := c.Optimize(ctx, "a", "go"); err != nil || o.Code != "z" {
		t.Fatalf("Optimize()=%+v err=%v", o, err)
	}
	if ts, err := c.GenerateTests(ctx, "a", "go"); err != nil || ts.Code != "t" {
		t.Fatalf("GenerateTests()=%+v err=%v", ts, err)
	}
	issues, err := c.SyntaxCheck(ctx, "if x", "python")
	if err != nil || len(issues) != 1 || issues[0] != (SyntaxIssue{Line: 3, Message: "missing colon", Severity: "error"}) {
		t.Fatalf("SyntaxCheck()=%+v err=%v", issues, err)
	}

	if paths["/health"] != http.MethodGet || paths["/languages"] != http.MethodGet || paths["/syntax-check"] != http.MethodPost {
		t.Fatalf("methods=%v", paths)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Health(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
