// =============================================================================
// Register of Information Exporter - Review Workbook
// =============================================================================
//
// Writes a human-readable XLSX rendition of the register: one worksheet per
// non-empty template with a header row of column codes and the formatted
// data rows. The workbook is a review artifact for compliance officers, not
// a submission format - values are formatted through the same shared
// formatting module as both regulatory codecs, so what reviewers see is
// what gets filed.
//
// =============================================================================

package xlsxreport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/regtechlabs/roi-exporter/internal/format"
	"github.com/regtechlabs/roi-exporter/internal/registry"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

// Encode builds the review workbook for a dataset.
func Encode(dataset types.Dataset, params types.ExportParams) (*types.Package, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	first := true
	for _, t := range types.AllTemplates {
		rows := dataset[t]
		cols := registry.ColumnOrder(t)
		if len(rows) == 0 || len(cols) == 0 {
			continue
		}

		// Sheet names cannot contain dots.
		sheet := t.FileStem()
		if first {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, col); err != nil {
				return nil, err
			}
		}
		endHeader, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", endHeader, headerStyle); err != nil {
			return nil, err
		}

		for r, row := range rows {
			for i, col := range cols {
				cell, err := excelize.CoordinatesToCellName(i+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, format.Value(t, col, row[col], params)); err != nil {
					return nil, err
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &types.Package{
		Filename: fmt.Sprintf("%s_DORA_%s_%s_review.xlsx", params.EntityID, params.ReportingPeriod, params.Timestamp()),
		Data:     buf.Bytes(),
	}, nil
}
