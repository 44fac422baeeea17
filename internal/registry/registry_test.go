// =============================================================================
// Register of Information Exporter - Registry Tests
// =============================================================================

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regtechlabs/roi-exporter/internal/types"
)

// =============================================================================
// TEMPLATE DEFINITIONS
// =============================================================================

func TestColumnOrderCoversAllTemplates(t *testing.T) {
	for _, id := range types.AllTemplates {
		cols := ColumnOrder(id)
		require.NotEmpty(t, cols, "template %s declares no columns", id)
		assert.NotEmpty(t, Concept(id), "template %s declares no concept", id)

		// Column codes are unique within a template.
		seen := make(map[string]bool)
		for _, c := range cols {
			assert.False(t, seen[c], "template %s declares column %s twice", id, c)
			seen[c] = true
		}
	}
}

func TestColumnOrderUnknownTemplate(t *testing.T) {
	assert.Empty(t, ColumnOrder(types.TemplateID("B_42.42")))
	assert.Empty(t, Concept(types.TemplateID("B_42.42")))
	assert.False(t, IsDerived(types.TemplateID("B_42.42")))
}

func TestMappedColumnsAreSubsetOfColumnOrder(t *testing.T) {
	for _, id := range types.AllTemplates {
		declared := make(map[string]bool)
		for _, c := range ColumnOrder(id) {
			declared[c] = true
		}
		for _, m := range Mappings(id) {
			assert.True(t, declared[m.Code],
				"template %s maps column %s which is not in its column order", id, m.Code)
		}
	}
}

func TestDerivedTemplatesCarryNoMappings(t *testing.T) {
	for _, id := range types.AllTemplates {
		if IsDerived(id) {
			assert.Empty(t, Mappings(id), "derived template %s should carry no mappings", id)
		} else {
			assert.NotEmpty(t, Mappings(id), "mapped template %s carries no mappings", id)
		}
	}
}

func TestRequiredColumnsDerivedFromMappings(t *testing.T) {
	// Spot checks against the declared tables.
	assert.Equal(t, []string{"c0010", "c0020", "c0030", "c0040", "c0060"},
		RequiredColumns(types.TemplateEntityRegister))
	assert.Equal(t, []string{"c0010", "c0020"},
		RequiredColumns(types.TemplateEntitiesUsing))
	assert.Empty(t, RequiredColumns(types.TemplateLookup))
}

func TestMappingFor(t *testing.T) {
	m := MappingFor(types.TemplateProviders, "c0080")
	require.NotNil(t, m)
	assert.Equal(t, "headquarters_country", m.SourceField)
	assert.Equal(t, DataTypeEnum, m.DataType)
	assert.True(t, m.Required)

	assert.Nil(t, MappingFor(types.TemplateProviders, "c9999"))
	assert.Nil(t, MappingFor(types.TemplateLookup, "c0010"))
}

// =============================================================================
// METRIC NAMING
// =============================================================================

func TestMetricName(t *testing.T) {
	// Enum column -> mic prefix.
	assert.Equal(t, "mic0080", MetricName(types.TemplateProviders, "c0080"))
	// Monetary number -> mim.
	assert.Equal(t, "mim0090", MetricName(types.TemplateProviders, "c0090"))
	// Plain number -> mii.
	assert.Equal(t, "mii0080", MetricName(types.TemplateContractOverview, "c0080"))
	// Date -> dic.
	assert.Equal(t, "dic0060", MetricName(types.TemplateContractOverview, "c0060"))
	// Boolean -> bic.
	assert.Equal(t, "bic0050", MetricName(types.TemplateContractDetails, "c0050"))
	// Unmapped (derived) column falls back to mic.
	assert.Equal(t, "mic0010", MetricName(types.TemplateLookup, "c0010"))
}

// =============================================================================
// CODE DOMAINS
// =============================================================================

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "eba_GA:DE", CountryCode("DE"))
	assert.Equal(t, "eba_GA:DE", CountryCode(" de "))
	assert.Equal(t, UnknownCountryCode, CountryCode("ZZ"))
	assert.Equal(t, UnknownCountryCode, CountryCode(""))
}

func TestCurrencyCode(t *testing.T) {
	assert.Equal(t, "eba_CU:USD", CurrencyCode("usd"))
	assert.Equal(t, DefaultCurrencyCode, CurrencyCode("XXX"))
}

func TestServiceTypeCode(t *testing.T) {
	assert.Equal(t, "eba_TA:S17", ServiceTypeCode("cloud_saas"))
	assert.Equal(t, "eba_TA:S17", ServiceTypeCode("Cloud SaaS"))
	assert.Equal(t, "eba_TA:S17", ServiceTypeCode("CLOUD-SAAS"))
	assert.Equal(t, DefaultServiceTypeCode, ServiceTypeCode("quantum_hosting"))
}

func TestScaleCodes(t *testing.T) {
	assert.Equal(t, "eba_ZZ:x794", CriticalityCode("yes"))
	assert.Equal(t, DefaultCriticalityCode, CriticalityCode("maybe"))
	assert.Equal(t, "eba_ZZ:x774", ImpactCode("high"))
	assert.Equal(t, "eba_ZZ:x804", SubstitutabilityCode("not_substitutable"))
	assert.Equal(t, "eba_PT:x213", PersonTypeCode("natural_person"))
	assert.Equal(t, "eba_qCO:qx2000", IdentifierTypeCode("lei"))
	assert.Equal(t, "eba_BT:x1", BooleanCode(true))
	assert.Equal(t, "eba_BT:x2", BooleanCode(false))
}

// =============================================================================
// TRANSFORMS
// =============================================================================

func TestApplyTransformNilStaysNil(t *testing.T) {
	for _, kind := range []TransformKind{
		TransformNone, TransformCountryCode, TransformCurrencyCode,
		TransformDateISO, TransformLEIUpper, TransformBooleanCode,
	} {
		assert.Nil(t, ApplyTransform(kind, nil, ""), "kind %s", kind)
		assert.Nil(t, ApplyTransform(kind, "", ""), "kind %s on empty string", kind)
	}
}

func TestApplyTransformConstant(t *testing.T) {
	assert.Equal(t, types.Value("fixed"), ApplyTransform(TransformConstant, nil, "fixed"))
	assert.Equal(t, types.Value("fixed"), ApplyTransform(TransformConstant, "ignored", "fixed"))
}

func TestApplyTransformLEIUpper(t *testing.T) {
	assert.Equal(t, types.Value("549300ABCDEFGHIJKL12"),
		ApplyTransform(TransformLEIUpper, " 549300abcdefghijkl12 ", ""))
}

func TestApplyTransformDateISO(t *testing.T) {
	cases := map[string]string{
		"2025-12-31":           "2025-12-31",
		"31/12/2025":           "2025-12-31",
		"31.12.2025":           "2025-12-31",
		"20251231":             "2025-12-31",
		"2025-12-31T10:30:00Z": "2025-12-31",
	}
	for in, want := range cases {
		assert.Equal(t, types.Value(want), ApplyTransform(TransformDateISO, in, ""), "input %q", in)
	}

	// Malformed dates become nil rather than failing the row.
	assert.Nil(t, ApplyTransform(TransformDateISO, "next tuesday", ""))
	assert.Nil(t, ApplyTransform(TransformDateISO, "31-12-2025", ""))
}

func TestApplyTransformEnumFallbacks(t *testing.T) {
	// Enumeration transforms never yield nil for non-nil input.
	assert.Equal(t, types.Value(UnknownCountryCode), ApplyTransform(TransformCountryCode, "atlantis", ""))
	assert.Equal(t, types.Value(DefaultCurrencyCode), ApplyTransform(TransformCurrencyCode, "doubloons", ""))
	assert.Equal(t, types.Value(DefaultServiceTypeCode), ApplyTransform(TransformServiceType, "misc", ""))
}

func TestApplyTransformBooleanCode(t *testing.T) {
	assert.Equal(t, types.Value("eba_BT:x1"), ApplyTransform(TransformBooleanCode, true, ""))
	assert.Equal(t, types.Value("eba_BT:x2"), ApplyTransform(TransformBooleanCode, false, ""))
}

// =============================================================================
// SMART DEFAULTS
// =============================================================================

func TestDefaultsOnlyCoverDeclaredColumns(t *testing.T) {
	for _, id := range types.AllTemplates {
		declared := make(map[string]bool)
		for _, c := range ColumnOrder(id) {
			declared[c] = true
		}
		for code := range Defaults(id) {
			assert.True(t, declared[code],
				"template %s declares a default for unknown column %s", id, code)
		}
	}
}

func TestRequiredEnumsHaveDefaultOrDomainFallback(t *testing.T) {
	// Every required enum column must be unable to stay null: either a smart
	// default is registered or its transform has a documented fallback code.
	for _, id := range types.AllTemplates {
		for _, m := range Mappings(id) {
			if !m.Required || m.DataType != DataTypeEnum {
				continue
			}
			fallback := ApplyTransform(m.Transform, "__unmapped__", m.Constant)
			if types.IsNull(fallback) {
				assert.NotNil(t, DefaultFor(id, m.Code),
					"template %s column %s: required enum with no default and no fallback", id, m.Code)
			}
		}
	}
}

func TestDefaultFor(t *testing.T) {
	assert.Equal(t, types.Value(UnknownCountryCode), DefaultFor(types.TemplateProviders, "c0080"))
	assert.Nil(t, DefaultFor(types.TemplateProviders, "c0040"))
}
