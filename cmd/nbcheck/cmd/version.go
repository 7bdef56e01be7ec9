package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nebula-lang/nbcheck/internal/ui"
	"github.com/nebula-lang/nbcheck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information about nbcheck.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		applyUISettings()
		info := version.Current()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Banner())
		fmt.Fprintf(out, "Version:    %s\n", info.Version)
		fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "OS/Arch:    %s\n", info.Platform)
	},
}
