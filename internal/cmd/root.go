// Package cmd implements the codeplay command line.
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iw2rmb/codeplay/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "codeplay [file]",
	Short: "Terminal code playground",
	Long: `Codeplay is a coding playground for the terminal. Write code in one of
eleven languages, run it on a playground backend, and ask the backend to
generate, explain, translate, optimize or test it.

With a file argument the file is opened in the editor and its language is
detected from the file name.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/codeplay/config.yaml)")
	pf.String("backend", "", "playground backend base URL")
	pf.StringP("language", "l", "", "language id (python, go, rust, ...)")
	pf.String("log-dir", "", "directory for codeplay.log")
	pf.String("log-level", "", "log level (debug/info/warn/error)")
	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("backend.url", pf.Lookup("backend"))
	_ = viper.BindPFlag("ui.language", pf.Lookup("language"))
	_ = viper.BindPFlag("logging.dir", pf.Lookup("log-dir"))
	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))

	rootCmd.Flags().String("theme", "", "color theme (dark/light/auto)")
	_ = viper.BindPFlag("ui.theme", rootCmd.Flags().Lookup("theme"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// CODEPLAY_UI_THEME for ui.theme
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}
