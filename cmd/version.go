package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the chartpress version and build details",
	Long: `Print the release version of this chartpress binary together with the
commit it was built from, the build timestamp, and the Go runtime.

Include this output when filing a bug report or when checking that a CI
runner picked up the expected release.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("chartpress CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
