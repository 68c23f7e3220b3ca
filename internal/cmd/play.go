package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iw2rmb/codeplay/internal/backend"
	"github.com/iw2rmb/codeplay/internal/config"
	"github.com/iw2rmb/codeplay/internal/lang"
	"github.com/iw2rmb/codeplay/internal/logging"
	"github.com/iw2rmb/codeplay/internal/tui"
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := tui.Options{Config: cfg}
	if len(args) == 1 {
		if err := openFile(cmd, cfg, &opts, args[0]); err != nil {
			return err
		}
	}

	// The alternate screen owns stderr, so the TUI always logs to a file.
	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = config.ConfigDir()
	}
	logger, err := logging.NewLogger(logDir, cfg.Logging.Level)
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

	opts.Backend = client
	opts.Logger = logger.Slog()
	opts.Output = termenv.NewOutput(os.Stdout)
	model, err := tui.New(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	model.Bind(p.Send)

	if viper.ConfigFileUsed() != "" {
		config.Watch(viper.GetViper(), func(c *config.Config, err error) {
			p.Send(tui.ConfigChanged(c, err))
		})
	}

	logger.Info("codeplay started", "language", cfg.UI.Language, "backend", client.BaseURL())
	_, err = p.Run()
	logger.Info("codeplay stopped", "stats", model.Scheduler().Stats())
	return err
}

// openFile loads path into opts. The language comes from --language when
// given, otherwise from the file name, otherwise from the config.
func openFile(cmd *cobra.Command, cfg *config.Config, opts *tui.Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if !cmd.Flags().Changed("language") {
		if l, ok := lang.DetectFromFilename(path); ok {
			cfg.UI.Language = l.ID
		}
	}
	opts.Text = string(data)
	opts.Filename = filepath.Base(path)
	opts.SaveDir = filepath.Dir(path)
	return nil
}
