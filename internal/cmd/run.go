package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/config"
	"github.com/iw2rmb/codeplay/internal/lang"
	"github.com/iw2rmb/codeplay/internal/logging"
	"github.com/iw2rmb/codeplay/internal/termwatch"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a source file on the backend and print its output",
	Long: `Run a source file on the playground backend and print its output.

The language is detected from the file name unless --language is given.
When the program reads standard input and --input is not set, piped stdin
is forwarded to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var runInput string

// errProgramFailed marks a run whose program failed; its output has
// already been printed.
var errProgramFailed = errors.New("program failed")

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "program input (default: piped stdin when the program reads input)")
}

type runner interface {
	Run(ctx context.Context, req backend.RunRequest) (backend.RunResult, error)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logger.Install()

	client, err := backend.NewClient(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout()),
		backend.WithLogger(logger.Slog()),
	)
	if err != nil {
		return err
	}

	path := args[0]
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	language := cfg.UI.Language
	if !cmd.Flags().Changed("language") {
		if l, ok := lang.DetectFromFilename(path); ok {
			language = l.ID
		}
	}
	piped := !termwatch.IsTerminal(int(os.Stdin.Fd()))
	input, err := resolveInput(runInput, string(code), language, cmd.InOrStdin(), piped)
	if err != nil {
		return err
	}

	req := backend.RunRequest{
		Code:     string(code),
		Language: language,
		Input:    input,
		Filename: filepath.Base(path),
	}
	logger.Debug("running file", "path", path, "language", language, "input_bytes", len(input))
	return runSource(cmd.Context(), cmd.OutOrStdout(), client, req)
}

// resolveInput picks the program input: the flag value when set, else
// piped stdin when the program looks like it reads input.
func resolveInput(flag, code, language string, stdin io.Reader, piped bool) (string, error) {
	if flag != "" {
		return strings.ReplaceAll(flag, `\n`, "\n"), nil
	}
	if !piped || stdin == nil || !lang.NeedsRuntimeInput(code, language) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// runSource runs req and prints the program output to out.
func runSource(ctx context.Context, out io.Writer, r runner, req backend.RunRequest) error {
	res, err := r.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("run %s: %w", req.Filename, err)
	}
	if res.Output != "" {
		_, _ = fmt.Fprint(out, res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			_, _ = fmt.Fprintln(out)
		}
	}
	if !res.Success {
		if res.RuntimeInputDetected {
			return fmt.Errorf("%w: %s reads input; pass it with --input or a pipe", errProgramFailed, req.Filename)
		}
		return fmt.Errorf("%w: %s", errProgramFailed, req.Filename)
	}
	return nil
}
