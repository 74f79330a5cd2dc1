package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("Version: %s\n", version)
		cmd.Printf("Commit:  %s\n", commit)
		cmd.Printf("Built:   %s\n", date)
		cmd.Printf("Runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
