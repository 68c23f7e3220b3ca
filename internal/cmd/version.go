package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/codeplay"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codeplay version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "codeplay %s\n", codeplay.VersionTag())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = codeplay.Version()
}
