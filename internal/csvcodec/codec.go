// =============================================================================
// Register of Information Exporter - xBRL-CSV Codec
// =============================================================================
//
// Serializes validated per-template logical rows into the xBRL-CSV package
// format: one delimited file per template, ordered exactly per the declared
// column order, plus a metadata entry identifying the reporting entity,
// period and included templates - all packaged into a single zip archive.
//
// Guarantees:
//   - Byte-identical output for identical input. The only timestamp in the
//     package is the GeneratedAt parameter injected by the caller.
//   - Null values serialize as empty fields, never as the literal "null".
//   - Filenames follow {template}.csv with lower-cased, dot-to-underscore
//     stems (B_05.01 -> b_05_01.csv).
//
// =============================================================================

package csvcodec

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/regtechlabs/roi-exporter/internal/format"
	"github.com/regtechlabs/roi-exporter/internal/registry"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

// metadataEntry is the name of the package's manifest file.
const metadataEntry = "report.json"

// Metadata is the package manifest content.
type Metadata struct {
	EntityID        string         `json:"entityId"`
	EntityName      string         `json:"entityName"`
	ReportingPeriod string         `json:"reportingPeriod"`
	BaseCurrency    string         `json:"baseCurrency"`
	GeneratedAt     string         `json:"generatedAt"`
	Framework       string         `json:"framework"`
	Templates       []string       `json:"templates"`
	RowCounts       map[string]int `json:"rowCounts"`
}

// Options controls package generation.
type Options struct {
	// IncludeEmpty emits a header-only CSV for zero-row templates instead
	// of omitting them from the archive.
	IncludeEmpty bool
}

// Encode serializes the dataset into the zip package and returns it with
// its deterministic filename: {entityId}_DORA_{period}_{timestamp}.zip.
func Encode(dataset types.Dataset, params types.ExportParams, opts Options) (*types.Package, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	meta := Metadata{
		EntityID:        params.EntityID,
		EntityName:      params.EntityName,
		ReportingPeriod: params.ReportingPeriod,
		BaseCurrency:    params.BaseCurrency,
		GeneratedAt:     params.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Framework:       "DORA Register of Information",
		RowCounts:       make(map[string]int),
	}

	for _, t := range types.AllTemplates {
		cols := registry.ColumnOrder(t)
		if len(cols) == 0 {
			continue
		}
		rows := dataset[t]
		if len(rows) == 0 && !opts.IncludeEmpty {
			continue
		}

		entry, err := zw.Create(t.FileStem() + ".csv")
		if err != nil {
			return nil, fmt.Errorf("failed to create package entry for %s: %w", t, err)
		}
		if err := writeTemplate(entry, t, cols, rows, params); err != nil {
			return nil, fmt.Errorf("failed to write template %s: %w", t, err)
		}

		meta.Templates = append(meta.Templates, string(t))
		meta.RowCounts[string(t)] = len(rows)
	}
	sort.Strings(meta.Templates)

	entry, err := zw.Create(metadataEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata entry: %w", err)
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}

	return &types.Package{
		Filename: fmt.Sprintf("%s_DORA_%s_%s.zip", params.EntityID, params.ReportingPeriod, params.Timestamp()),
		Data:     buf.Bytes(),
	}, nil
}

// writeTemplate emits one template's CSV: a header of column codes followed
// by the data rows in declared column order.
func writeTemplate(w io.Writer, t types.TemplateID, cols []string, rows []types.LogicalRow, params types.ExportParams) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			record[i] = format.Value(t, col, row[col], params)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// =============================================================================
// PACKAGE READING
// =============================================================================
//
// The reader exists for the round-trip property: encoding a logical row set
// and re-parsing it yields the same non-null values (modulo the configured
// decimal precision). It is also handy for inspecting produced packages.

// ReadPackage parses a package back into per-template string records.
// The outer map is keyed by template id; each row maps column code to the
// serialized cell value.
func ReadPackage(data []byte) (map[types.TemplateID][]map[string]string, *Metadata, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open package: %w", err)
	}

	stemToID := make(map[string]types.TemplateID, len(types.AllTemplates))
	for _, t := range types.AllTemplates {
		stemToID[t.FileStem()+".csv"] = t
	}

	out := make(map[types.TemplateID][]map[string]string)
	var meta *Metadata

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open entry %s: %w", f.Name, err)
		}

		if f.Name == metadataEntry {
			var m Metadata
			if err := json.NewDecoder(rc).Decode(&m); err != nil {
				rc.Close()
				return nil, nil, fmt.Errorf("failed to parse metadata: %w", err)
			}
			meta = &m
			rc.Close()
			continue
		}

		id, ok := stemToID[strings.ToLower(f.Name)]
		if !ok {
			rc.Close()
			continue
		}

		records, err := csv.NewReader(rc).ReadAll()
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse entry %s: %w", f.Name, err)
		}
		if len(records) == 0 {
			continue
		}

		header := records[0]
		rows := make([]map[string]string, 0, len(records)-1)
		for _, record := range records[1:] {
			row := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(record) {
					row[col] = record[i]
				}
			}
			rows = append(rows, row)
		}
		out[id] = rows
	}

	return out, meta, nil
}
