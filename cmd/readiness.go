// =============================================================================
// Register of Information Exporter - Readiness Command
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regtechlabs/roi-exporter/internal/export"
	"github.com/regtechlabs/roi-exporter/internal/store"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Pre-flight check: is the register ready for a submission export?",
	Long: `Readiness is a cheaper check than a full export: it verifies the entity
LEI is configured and that the required templates hold data. Issues block
readiness; warnings do not.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReadiness()
	},
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}

func runReadiness() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ds, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer ds.Close()

	r, err := export.New(cfg, ds).CheckReadiness(context.Background(), export.Overrides{})
	if err != nil {
		return err
	}

	for _, issue := range r.Issues {
		fmt.Printf("issue: %s\n", issue)
	}
	for _, w := range r.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if !r.Ready {
		return fmt.Errorf("register is not ready for export (%d issue(s))", len(r.Issues))
	}
	fmt.Println("Register is ready for export.")
	return nil
}
