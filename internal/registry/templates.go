// =============================================================================
// Register of Information Exporter - Template Definitions
// =============================================================================
//
// Declared column orders and regulatory concepts for the 15 RoI templates.
// Templates fall into three groups:
//
//   - Mapped: rows come from the declarative column mappings (mappings.go).
//   - Derived: rows come purely from relationship joins in the normalizer;
//     they still declare a column order but carry no mappings.
//   - Static: the B_99.01 definitions sheet, generated from fixed content.
//
// Unknown template ids yield empty results from every accessor, never an
// error: callers treat empty as "nothing to map".
//
// =============================================================================

package registry

import "github.com/regtechlabs/roi-exporter/internal/types"

// templateDef is the per-template static definition.
type templateDef struct {
	// Columns is the mandated column order.
	Columns []string

	// Concept is the regulatory table concept named by the XBRL scenario
	// dimension for rows of this template.
	Concept string

	// Derived marks templates generated from relationship joins rather
	// than declarative mappings.
	Derived bool
}

var templateDefs = map[types.TemplateID]templateDef{
	types.TemplateEntityRegister: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060"},
		Concept: "eba_tB_01.01",
	},
	types.TemplateEntitiesInScope: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060", "c0070"},
		Concept: "eba_tB_01.02",
	},
	types.TemplateBranches: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040"},
		Concept: "eba_tB_01.03",
	},
	types.TemplateContractOverview: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060", "c0070", "c0080", "c0090", "c0100", "c0110"},
		Concept: "eba_tB_02.01",
	},
	types.TemplateContractDetails: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060", "c0070"},
		Concept: "eba_tB_02.02",
	},
	types.TemplateIntraGroup: {
		Columns: []string{"c0010", "c0020", "c0030"},
		Concept: "eba_tB_02.03",
		Derived: true,
	},
	types.TemplateContractEntity: {
		Columns: []string{"c0010", "c0020"},
		Concept: "eba_tB_03.01",
		Derived: true,
	},
	types.TemplateServiceRecipients: {
		Columns: []string{"c0010", "c0020", "c0030"},
		Concept: "eba_tB_03.02",
		Derived: true,
	},
	types.TemplateSigningProviders: {
		Columns: []string{"c0010", "c0020"},
		Concept: "eba_tB_03.03",
		Derived: true,
	},
	types.TemplateEntitiesUsing: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040"},
		Concept: "eba_tB_04.01",
	},
	types.TemplateProviders: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060", "c0070", "c0080", "c0090"},
		Concept: "eba_tB_05.01",
	},
	types.TemplateSubcontracting: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050"},
		Concept: "eba_tB_05.02",
	},
	types.TemplateCriticalFunctions: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060", "c0070"},
		Concept: "eba_tB_06.01",
	},
	types.TemplateExitArrangements: {
		Columns: []string{"c0010", "c0020", "c0030", "c0040", "c0050", "c0060", "c0070", "c0080", "c0090"},
		Concept: "eba_tB_07.01",
	},
	types.TemplateLookup: {
		Columns: []string{"c0010", "c0020", "c0030"},
		Concept: "eba_tB_99.01",
		Derived: true,
	},
}

// ColumnOrder returns the mandated column order for a template, or an empty
// slice for unknown template ids.
func ColumnOrder(t types.TemplateID) []string {
	def, ok := templateDefs[t]
	if !ok {
		return nil
	}
	out := make([]string, len(def.Columns))
	copy(out, def.Columns)
	return out
}

// Concept returns the regulatory table concept for a template, or "" for
// unknown ids.
func Concept(t types.TemplateID) string {
	return templateDefs[t].Concept
}

// IsDerived reports whether a template is generated from relationship joins
// rather than declarative mappings.
func IsDerived(t types.TemplateID) bool {
	return templateDefs[t].Derived
}
