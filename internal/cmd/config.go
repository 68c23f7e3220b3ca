package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iw2rmb/codeplay/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create the codeplay configuration",
	Long: `View or create the codeplay configuration.

Without arguments, displays the effective configuration: defaults, the
config file, CODEPLAY_* environment variables and flags combined.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if f := viper.ConfigFileUsed(); f != "" {
		_, _ = fmt.Fprintf(out, "# config file: %s\n", f)
	} else {
		_, _ = fmt.Fprintln(out, "# config file: (none, using defaults)")
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := viper.GetString("config")
	if path == "" {
		path = config.ConfigFile()
	}
	if err := config.WriteDefault(path, configInitForce); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = config.ConfigFile() + " (not created)"
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
