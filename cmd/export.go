// =============================================================================
// Register of Information Exporter - Export Command
// =============================================================================
//
// Runs the full export pipeline: fetch -> validate -> encode, then writes
// the produced artifacts into the output directory and prints a summary.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regtechlabs/roi-exporter/internal/export"
	"github.com/regtechlabs/roi-exporter/internal/store"
	"github.com/regtechlabs/roi-exporter/pkg/utils"
)

var (
	exportFormat    string
	includeEmpty    bool
	skipValidation  bool
	reviewWorkbook  bool
	overrideEntity  string
	overridePeriod  string
	overrideOutDir  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate the Register of Information submission files",
	Long: `Export fetches the register data, validates it and produces the
submission in the selected serialization(s).

The export degrades gracefully: a single template's data error yields an
empty template rather than aborting the run. Validation findings never
abort an export either - they are printed so the caller can decide whether
the output is fit for submission.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "both",
		"Output format: csv, xml or both")
	exportCmd.Flags().BoolVar(&includeEmpty, "include-empty", false,
		"Emit header-only files for templates without data")
	exportCmd.Flags().BoolVar(&skipValidation, "skip-validation", false,
		"Skip the validation phase (draft export)")
	exportCmd.Flags().BoolVar(&reviewWorkbook, "review-workbook", false,
		"Additionally produce a human-readable XLSX rendition")
	exportCmd.Flags().StringVar(&overrideEntity, "entity", "",
		"Override the configured entity LEI")
	exportCmd.Flags().StringVar(&overridePeriod, "period", "",
		"Override the configured reporting period (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&overrideOutDir, "out", "",
		"Override the configured output directory")

	rootCmd.AddCommand(exportCmd)
}

func runExport() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := export.Format(exportFormat)
	switch format {
	case export.FormatCSV, export.FormatXML, export.FormatBoth:
	default:
		return fmt.Errorf("invalid format %q: must be csv, xml or both", exportFormat)
	}

	ds, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer ds.Close()

	orch := export.New(cfg, ds)
	result := orch.Run(context.Background(), export.Options{
		Format:         format,
		IncludeEmpty:   includeEmpty,
		SkipValidation: skipValidation,
		ReviewWorkbook: reviewWorkbook,
		Overrides: export.Overrides{
			EntityID:        overrideEntity,
			ReportingPeriod: overridePeriod,
		},
	})

	if !result.Success {
		return fmt.Errorf("export failed: %s", result.Error)
	}

	if result.Report != nil {
		fmt.Printf("Validation: %d error(s), %d warning(s), score %.0f/100\n",
			result.Report.ErrorCount, result.Report.WarningCount, result.Report.Score)
		for _, f := range result.Report.Findings {
			fmt.Printf("  [%s] %s row %d %s: %s\n",
				f.Severity, f.Template, f.RowIndex+1, f.ColumnCode, f.Message)
		}
	}

	outDir := cfg.OutputDir
	if overrideOutDir != "" {
		outDir = overrideOutDir
	}
	fm := utils.NewFileManager(outDir)

	if result.CSV != nil {
		path, err := fm.WriteArtifact(result.CSV.Filename, result.CSV.Data)
		if err != nil {
			return err
		}
		fmt.Printf("CSV package: %s\n", path)
	}
	if result.XML != nil {
		path, err := fm.WriteArtifact(result.XML.Filename, []byte(result.XML.Document))
		if err != nil {
			return err
		}
		fmt.Printf("XML instance: %s\n", path)

		tpName := result.XML.Filename[:len(result.XML.Filename)-len(".xml")] + "_taxonomy_package.xml"
		if _, err := fm.WriteArtifact(tpName, []byte(result.XML.TaxonomyPackage)); err != nil {
			return err
		}

		if result.XMLValidation != nil {
			if !result.XMLValidation.OK() {
				fmt.Println("XML structural validation FAILED (document written anyway):")
				for _, e := range result.XMLValidation.Errors {
					fmt.Printf("  error: %s\n", e)
				}
			}
			for _, w := range result.XMLValidation.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}
	}
	if result.Workbook != nil {
		path, err := fm.WriteArtifact(result.Workbook.Filename, result.Workbook.Data)
		if err != nil {
			return err
		}
		fmt.Printf("Review workbook: %s\n", path)
	}

	return nil
}
