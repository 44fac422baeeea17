// =============================================================================
// Register of Information Exporter - Smart Defaults
// =============================================================================
//
// Pre-fill values per template, used in two places:
//
//   - The normalizer substitutes a default for any column whose transform
//     yields null but which has a default registered here.
//   - Record-creation flows consult the same table to pre-fill new records.
//
// Defaults carry only values; required-ness lives exclusively on the column
// mappings.
//
// =============================================================================

package registry

import "github.com/regtechlabs/roi-exporter/internal/types"

var smartDefaults = map[types.TemplateID]map[string]types.Value{
	types.TemplateEntityRegister: {
		"c0030": UnknownCountryCode,
		"c0040": DefaultEntityTypeCode,
	},
	types.TemplateEntitiesInScope: {
		"c0030": UnknownCountryCode,
		"c0040": DefaultEntityTypeCode,
	},
	types.TemplateBranches: {
		"c0040": UnknownCountryCode,
	},
	types.TemplateContractOverview: {
		"c0020": "standalone",
		"c0040": DefaultCurrencyCode,
	},
	types.TemplateContractDetails: {
		"c0030": DefaultServiceTypeCode,
		"c0050": BooleanCode(false),
		"c0070": DefaultCriticalityCode,
	},
	types.TemplateProviders: {
		"c0020": DefaultIdentifierTypeCode,
		"c0050": DefaultPersonTypeCode,
		"c0080": UnknownCountryCode,
	},
	types.TemplateSubcontracting: {
		"c0030": float64(1),
	},
	types.TemplateCriticalFunctions: {
		"c0040": DefaultCriticalityCode,
	},
	types.TemplateExitArrangements: {
		"c0030": DefaultSubstitutabilityCode,
		"c0060": BooleanCode(false),
		"c0080": DefaultImpactCode,
		"c0090": BooleanCode(false),
	},
}

// Defaults returns the smart default values for a template. Unknown ids
// yield an empty map.
func Defaults(t types.TemplateID) map[string]types.Value {
	src, ok := smartDefaults[t]
	if !ok {
		return map[string]types.Value{}
	}
	out := make(map[string]types.Value, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// DefaultFor returns the smart default for one column, or nil when none is
// registered.
func DefaultFor(t types.TemplateID, code string) types.Value {
	return smartDefaults[t][code]
}
