package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/procstats/pkg/version"
)

// NewRootCommand builds the procstats command tree. The root accepts the
// same flags and positional input as the run subcommand.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "procstats [flags] <input.csv>",
		Short: "Descriptive statistics and frequency polygons for a measurement column",
		Long: `procstats reads one numeric column of a CSV file, computes the mean,
variance and standard deviation (plain and corrected) of the full data set
and of three strided samples, and draws a frequency polygon for each.

Commands:
  run       Process a measurement file
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress output")

	newRunCommandWithDeps(defaultTelemetry).bind(rootCmd)

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "procstats %s\n", version.String())
		},
	}
}
