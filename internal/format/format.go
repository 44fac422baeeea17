// =============================================================================
// Register of Information Exporter - Shared Value Formatting
// =============================================================================
//
// One formatting module consumed by both codecs (and the review workbook)
// so that the CSV, XML and XLSX renditions of the same logical row stay
// byte-for-byte consistent in their values. Rules:
//
//   - nil          -> "" (never the literal string "null")
//   - booleans     -> "true" / "false"
//   - dates        -> YYYY-MM-DD (already normalized by the normalizer)
//   - numbers      -> fixed to the applicable decimal precision, monetary
//                     columns using DecimalsMonetary, others DecimalsInteger
//   - strings/enums-> passed through unchanged
//
// =============================================================================

package format

import (
	"strconv"

	"github.com/regtechlabs/roi-exporter/internal/registry"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

// Value renders one cell for codec output.
func Value(t types.TemplateID, code string, v types.Value, params types.ExportParams) string {
	if types.IsNull(v) {
		return ""
	}

	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return Number(t, code, x, params)
	default:
		return types.ValueString(v)
	}
}

// Number renders a numeric cell with the precision configured for the
// column's monetary-ness.
func Number(t types.TemplateID, code string, f float64, params types.ExportParams) string {
	decimals := params.DecimalsInteger
	if m := registry.MappingFor(t, code); m != nil && m.Monetary {
		decimals = params.DecimalsMonetary
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// IsMonetary reports whether a column carries a monetary amount.
func IsMonetary(t types.TemplateID, code string) bool {
	m := registry.MappingFor(t, code)
	return m != nil && m.Monetary
}
