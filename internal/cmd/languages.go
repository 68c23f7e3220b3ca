package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/config"
	"github.com/iw2rmb/codeplay/internal/lang"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	Long: `List the languages codeplay can edit. With --remote, ask the backend
which languages it can execute and whether its runner is available.`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

var languagesRemote bool

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().BoolVar(&languagesRemote, "remote", false, "query the backend instead of the built-in table")
}

func runLanguages(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !languagesRemote {
		printLanguages(out, lang.All())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := backend.NewClient(cfg.Backend.URL, backend.WithTimeout(cfg.Backend.Timeout()))
	if err != nil {
		return err
	}
	return printRemoteLanguages(cmd.Context(), out, client)
}

func printLanguages(out io.Writer, langs []*lang.Language) {
	for _, l := range langs {
		_, _ = fmt.Fprintf(out, "%-12s %-12s .%s\n", l.ID, l.Label, l.Ext)
	}
}

type languageLister interface {
	Health(ctx context.Context) (backend.Health, error)
	Languages(ctx context.Context) ([]backend.LanguageInfo, error)
}

func printRemoteLanguages(ctx context.Context, out io.Writer, c languageLister) error {
	h, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend health: %w", err)
	}
	runner := "available"
	if !h.Judge0Available {
		runner = "unavailable"
	}
	_, _ = fmt.Fprintf(out, "backend: %s, runner %s\n", h.Status, runner)

	infos, err := c.Languages(ctx)
	if err != nil {
		return fmt.Errorf("backend languages: %w", err)
	}
	for _, info := range infos {
		marker := ""
		if _, ok := lang.Lookup(info.Value); !ok {
			marker = " (not editable)"
		}
		_, _ = fmt.Fprintf(out, "%-12s %-12s .%s%s\n", info.Value, info.Label, info.Extension, marker)
	}
	return nil
}
