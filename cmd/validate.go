// =============================================================================
// Register of Information Exporter - Validate Command
// =============================================================================
//
// Runs fetch + validation without producing export files: the fast feedback
// loop for data-entry teams cleaning up the register before submission. The
// run goes through the orchestrator, so the data is judged under exactly
// the parameters a full export would use.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regtechlabs/roi-exporter/internal/export"
	"github.com/regtechlabs/roi-exporter/internal/store"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the register data without producing export files",

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ds, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer ds.Close()

	report, err := export.New(cfg, ds).Validate(context.Background(), export.Overrides{})
	if err != nil {
		return err
	}

	fmt.Printf("Validation: %d error(s), %d warning(s), %d info, score %.0f/100\n",
		report.ErrorCount, report.WarningCount, report.InfoCount, report.Score)

	for _, t := range types.AllTemplates {
		findings := report.FindingsFor(t)
		if len(findings) == 0 {
			continue
		}
		fmt.Printf("\n%s (completeness %.0f%%):\n", t, report.Completeness[t])
		for _, f := range findings {
			fmt.Printf("  [%s/%s] row %d %s: %s\n",
				f.Severity, f.Rule, f.RowIndex+1, f.ColumnCode, f.Message)
			if f.Suggestion != "" {
				fmt.Printf("      suggestion: %s\n", f.Suggestion)
			}
			if f.AutoFix != nil {
				fmt.Printf("      auto-fix available: %s\n", types.ValueString(f.AutoFix))
			}
		}
	}

	if !report.IsValid {
		return fmt.Errorf("register has %d validation error(s)", report.ErrorCount)
	}
	fmt.Println("\nRegister is valid.")
	return nil
}
