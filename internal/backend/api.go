package backend

import (
	"context"
	"net/http"
)

type Health struct {
	Status          string `json:"status"`
	Judge0Available bool   `json:"judge0_available"`
}

type LanguageInfo struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Extension string `json:"extension"`
}

type RunRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Input    string `json:"input"`
	Filename string `json:"filename,omitempty"`
}

// RunResult is the outcome of one execution. A failed program is still a
// successful request: Success is false and Output holds the diagnostics.
type RunResult struct {
	Output               string `json:"output"`
	Success              bool   `json:"success"`
	ExecutionTime        string `json:"execution_time"`
	Memory               string `json:"memory"`
	Filename             string `json:"filename"`
	OriginalClassName    string `json:"original_class_name"`
	Status               string `json:"status"`
	RuntimeInputDetected bool   `json:"runtime_input_detected"`
}

type FilenameResult struct {
	Filename  string `json:"filename"`
	Basename  string `json:"basename"`
	Extension string `json:"extension"`
	Language  string `json:"language"`
}

type GenerateResult struct {
	Code        string `json:"generatedCode"`
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
	Filename    string `json:"filename"`
}

type ExplainResult struct {
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

type TranslateResult struct {
	Code           string `json:"translatedCode"`
	Explanation    string `json:"explanation"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	Filename       string `json:"filename"`
}

type OptimizeResult struct {
	Code        string `json:"optimizedCode"`
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

type TestsResult struct {
	Code        string `json:"testCode"`
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

// SyntaxIssue is one reported problem. Line is 1-based.
type SyntaxIssue struct {
	Line     int    `json:"line"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type codeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Languages lists the languages the backend can execute.
func (c *Client) Languages(ctx context.Context) ([]LanguageInfo, error) {
	var out struct {
		Languages []LanguageInfo `json:"languages"`
	}
	err := c.do(ctx, http.MethodGet, "/languages", nil, &out)
	return out.Languages, err
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	var out RunResult
	err := c.do(ctx, http.MethodPost, "/run", req, &out)
	return out, err
}

// Filename asks the backend which file name code would run as.
func (c *Client) Filename(ctx context.Context, code, language string) (FilenameResult, error) {
	var out FilenameResult
	err := c.do(ctx, http.MethodPost, "/get-filename", codeRequest{code, language}, &out)
	return out, err
}

// Generate writes code for prompt in language.
func (c *Client) Generate(ctx context.Context, prompt, language string) (GenerateResult, error) {
	in := struct {
		Prompt   string `json:"prompt"`
		Language string `json:"language"`
		Mode     string `json:"mode"`
	}{prompt, language, "code-generation"}
	var out GenerateResult
	err := c.do(ctx, http.MethodPost, "/generate", in, &out)
	return out, err
}

func (c *Client) Explain(ctx context.Context, code, language string) (ExplainResult, error) {
	var out ExplainResult
	err := c.do(ctx, http.MethodPost, "/explain", codeRequest{code, language}, &out)
	return out, err
}

func (c *Client) Translate(ctx context.Context, code, from, to string) (TranslateResult, error) {
	in := struct {
		Code   string `json:"code"`
		Source string `json:"source_language"`
		Target string `json:"target_language"`
	}{code, from, to}
	var out TranslateResult
	err := c.do(ctx, http.MethodPost, "/translate", in, &out)
	return out, err
}

func (c *Client) Optimize(ctx context.Context, code, language string) (OptimizeResult, error) {
	var out OptimizeResult
	err := c.do(ctx, http.MethodPost, "/optimize", codeRequest{code, language}, &out)
	return out, err
}

func (c *Client) GenerateTests(ctx context.Context, code, language string) (TestsResult, error) {
	var out TestsResult
	err := c.do(ctx, http.MethodPost, "/generate-tests", codeRequest{code, language}, &out)
	return out, err
}

// SyntaxCheck returns the issues found in code; an empty slice means clean.
func (c *Client) SyntaxCheck(ctx context.Context, code, language string) ([]SyntaxIssue, error) {
	var out struct {
		Errors []SyntaxIssue `json:"errors"`
	}
	err := c.do(ctx, http.MethodPost, "/syntax-check", codeRequest{code, language}, &out)
	return out.Errors, err
}
