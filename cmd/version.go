// =============================================================================
// Register of Information Exporter - Version Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/regtechlabs/roi-exporter/cmd.Version=...".
var Version = "1.0.0"

// BuildDate is set at build time.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("roi-exporter %s (built %s)\n", Version, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
