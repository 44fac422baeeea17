// =============================================================================
// Register of Information Exporter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (roi-exporter)
//   ├── exportCmd    (roi-exporter export)
//   ├── validateCmd  (roi-exporter validate)
//   ├── readinessCmd (roi-exporter readiness)
//   └── versionCmd   (roi-exporter version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regtechlabs/roi-exporter/internal/config"
	"github.com/regtechlabs/roi-exporter/internal/logger"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "roi-exporter",
	Short: "Register of Information exporter - generate DORA RoI submissions",
	Long: `Register of Information exporter maps internal compliance records into
ESA-compliant Register of Information submissions.

It fetches vendors, contracts, functions and branches from the register
database, maps them onto the 15 standardized RoI templates, validates the
result (field, cross-field and cross-template rules), and emits the
submission in two serializations: an xBRL-CSV package and an XBRL-XML
instance document.

Example Usage:
  roi-exporter export --format both       # Produce CSV package and XML instance
  roi-exporter validate                   # Validate the register without exporting
  roi-exporter readiness                  # Pre-flight check before submission`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig loads the configuration and initializes logging. Shared by
// every subcommand.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger.InitLogger(level)
	return cfg, nil
}
