package cmd

import (
	"fmt"

	"github.com/rohmanhakim/movie-info-server/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "movie-info-server %s (built %s)\n", build.FullVersion(), build.BuildTime)
	},
}
