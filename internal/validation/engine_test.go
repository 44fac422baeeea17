// =============================================================================
// Register of Information Exporter - Validation Engine Tests
// =============================================================================

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regtechlabs/roi-exporter/internal/types"
)

const (
	orgLEI     = "549300ABCDEFGHIJKL12"
	vendorLEI  = "549300MNOPQRSTUVWX34"
	vendorLEI2 = "549300ZYXWVUTSRQPO56"
)

// entityRow builds a valid B_01.02 row for one LEI.
func entityRow(lei string) types.LogicalRow {
	return types.LogicalRow{
		"c0010": lei,
		"c0020": "Test Bank AG",
		"c0030": "eba_GA:DE",
		"c0040": "eba_CT:x12",
		"c0050": nil,
		"c0060": nil,
		"c0070": nil,
	}
}

// providerRow builds a valid B_05.01 row for one provider LEI.
func providerRow(lei string) types.LogicalRow {
	return types.LogicalRow{
		"c0010": lei,
		"c0020": "eba_qCO:qx2000",
		"c0030": nil,
		"c0040": "Cloud Provider Ltd",
		"c0050": "eba_PT:x212",
		"c0060": nil,
		"c0070": nil,
		"c0080": "eba_GA:DE",
		"c0090": nil,
	}
}

// detailsRow builds a valid B_02.02 row referencing a provider.
func detailsRow(ref, providerID string) types.LogicalRow {
	return types.LogicalRow{
		"c0010": ref,
		"c0020": providerID,
		"c0030": "eba_TA:S17",
		"c0040": nil,
		"c0050": nil,
		"c0060": nil,
		"c0070": nil,
	}
}

func findingsOfRule(report *types.ValidationReport, rule types.RuleKind) []types.Finding {
	var out []types.Finding
	for _, f := range report.Findings {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// PHASE 1 - FIELD VALIDATION
// =============================================================================

func TestRequiredColumnMissing(t *testing.T) {
	row := providerRow(vendorLEI)
	row["c0040"] = nil // legal name is required

	report := NewEngine().Validate(types.Dataset{types.TemplateProviders: {row}})

	required := findingsOfRule(report, types.RuleRequired)
	require.Len(t, required, 1)
	assert.Equal(t, types.TemplateProviders, required[0].Template)
	assert.Equal(t, "c0040", required[0].ColumnCode)
	assert.Equal(t, types.SeverityError, required[0].Severity)
	assert.False(t, report.IsValid)
}

func TestEnumOutsideCodeDomain(t *testing.T) {
	row := providerRow(vendorLEI)
	row["c0080"] = "Germany" // raw value, not a regulator code

	report := NewEngine().Validate(types.Dataset{types.TemplateProviders: {row}})

	enums := findingsOfRule(report, types.RuleEnum)
	require.Len(t, enums, 1)
	assert.Equal(t, "c0080", enums[0].ColumnCode)
	assert.Equal(t, "Germany", enums[0].Value)
}

func TestDateShapeWithAutoFix(t *testing.T) {
	row := entityRow(orgLEI)
	row["c0060"] = "31/12/2025" // parsable but not normalized

	report := NewEngine().Validate(types.Dataset{types.TemplateEntitiesInScope: {row}})

	dates := findingsOfRule(report, types.RuleDate)
	require.Len(t, dates, 1)
	assert.Equal(t, "c0060", dates[0].ColumnCode)
	assert.Equal(t, types.Value("2025-12-31"), dates[0].AutoFix)
}

func TestDateShapeUnparsableHasNoAutoFix(t *testing.T) {
	row := entityRow(orgLEI)
	row["c0060"] = "someday"

	report := NewEngine().Validate(types.Dataset{types.TemplateEntitiesInScope: {row}})

	dates := findingsOfRule(report, types.RuleDate)
	require.Len(t, dates, 1)
	assert.Nil(t, dates[0].AutoFix)
}

func TestLEIPatternWithCaseAutoFix(t *testing.T) {
	row := providerRow("549300mnopqrstuvwx34")

	report := NewEngine().Validate(types.Dataset{types.TemplateProviders: {row}})

	patterns := findingsOfRule(report, types.RulePattern)
	require.Len(t, patterns, 1)
	assert.Equal(t, "c0010", patterns[0].ColumnCode)
	assert.Equal(t, types.Value(vendorLEI), patterns[0].AutoFix)
}

func TestNegativeExpenseRejected(t *testing.T) {
	row := providerRow(vendorLEI)
	row["c0090"] = float64(-5000)

	report := NewEngine().Validate(types.Dataset{types.TemplateProviders: {row}})

	ranges := findingsOfRule(report, types.RuleRange)
	require.Len(t, ranges, 1)
	assert.Equal(t, "c0090", ranges[0].ColumnCode)
}

func TestCriticalFunctionWithoutReasonWarns(t *testing.T) {
	row := types.LogicalRow{
		"c0010": "F1",
		"c0020": "Payments processing",
		"c0030": nil,
		"c0040": "eba_ZZ:x794", // critical
		"c0050": nil,           // but no reason documented
		"c0060": nil,
		"c0070": nil,
	}

	report := NewEngine().Validate(types.Dataset{types.TemplateCriticalFunctions: {row}})

	customs := findingsOfRule(report, types.RuleCustom)
	require.Len(t, customs, 1)
	assert.Equal(t, types.SeverityWarning, customs[0].Severity)
	assert.Equal(t, "c0050", customs[0].ColumnCode)
	assert.True(t, report.IsValid, "warnings must not block validity")
}

// =============================================================================
// PHASE 2 - CROSS-FIELD VALIDATION
// =============================================================================

func TestUniqueLEICitesDuplicateRow(t *testing.T) {
	dataset := types.Dataset{
		types.TemplateEntitiesInScope: {
			entityRow(orgLEI),
			entityRow(orgLEI), // duplicate
		},
	}

	report := NewEngine().Validate(dataset)

	uniques := findingsOfRule(report, types.RuleUnique)
	require.Len(t, uniques, 1, "exactly one finding for one duplicate pair")
	assert.Equal(t, types.TemplateEntitiesInScope, uniques[0].Template)
	assert.Equal(t, 1, uniques[0].RowIndex, "the finding cites the duplicate, not the original")
	assert.Equal(t, "*", uniques[0].ColumnCode)
	assert.Equal(t, types.SeverityError, uniques[0].Severity)
	assert.Contains(t, uniques[0].Message, "unique_lei")
}

func TestEndBeforeStartRejected(t *testing.T) {
	row := types.LogicalRow{
		"c0010": "CTR-001",
		"c0020": "standalone",
		"c0030": nil,
		"c0040": "eba_CU:EUR",
		"c0050": nil,
		"c0060": "2025-06-01",
		"c0070": "2024-01-01", // before start
		"c0080": nil, "c0090": nil, "c0100": nil, "c0110": nil,
	}

	report := NewEngine().Validate(types.Dataset{types.TemplateContractOverview: {row}})

	dates := findingsOfRule(report, types.RuleDate)
	require.Len(t, dates, 1)
	assert.Contains(t, dates[0].Message, "end_after_start")
}

// =============================================================================
// PHASE 3 - CROSS-TEMPLATE VALIDATION
// =============================================================================

func TestContractProviderExists(t *testing.T) {
	dataset := types.Dataset{
		types.TemplateContractDetails: {detailsRow("CTR-001", vendorLEI)},
		types.TemplateProviders:       {providerRow(vendorLEI)},
	}

	report := NewEngine().Validate(dataset)
	assert.Empty(t, findingsOfRule(report, types.RuleReference))
}

func TestContractProviderMissing(t *testing.T) {
	dataset := types.Dataset{
		types.TemplateContractDetails: {detailsRow("CTR-001", vendorLEI2)},
		types.TemplateProviders:       {providerRow(vendorLEI)},
	}

	report := NewEngine().Validate(dataset)

	refs := findingsOfRule(report, types.RuleReference)
	require.Len(t, refs, 1)
	// Attributed to the offending (source) template.
	assert.Equal(t, types.TemplateContractDetails, refs[0].Template)
	assert.Equal(t, "c0020", refs[0].ColumnCode)
	assert.Equal(t, 0, refs[0].RowIndex)
	assert.Equal(t, types.SeverityError, refs[0].Severity)
	assert.Contains(t, refs[0].Message, vendorLEI2)
}

func TestEmptySourceSatisfiesCrossTemplateRules(t *testing.T) {
	// Providers declared, no contracts at all: nothing to flag.
	dataset := types.Dataset{
		types.TemplateProviders: {providerRow(vendorLEI)},
	}

	report := NewEngine().Validate(dataset)
	assert.Empty(t, findingsOfRule(report, types.RuleReference))
}

func TestFunctionContractMissingIsWarning(t *testing.T) {
	dataset := types.Dataset{
		types.TemplateCriticalFunctions: {{
			"c0010": "F1",
			"c0020": "Payments processing",
			"c0030": nil,
			"c0040": "eba_ZZ:x795",
			"c0050": nil,
			"c0060": nil,
			"c0070": "CTR-MISSING",
		}},
	}

	report := NewEngine().Validate(dataset)

	refs := findingsOfRule(report, types.RuleReference)
	require.Len(t, refs, 1)
	assert.Equal(t, types.SeverityWarning, refs[0].Severity)
	assert.True(t, report.IsValid)
}

// =============================================================================
// SCORING
// =============================================================================

func TestCompleteness(t *testing.T) {
	// B_04.01 declares two required columns. Row one fills both, row two
	// fills one: (1.0 + 0.5) / 2 = 75%.
	rows := []types.LogicalRow{
		{"c0010": "CTR-001", "c0020": orgLEI, "c0030": nil, "c0040": nil},
		{"c0010": "CTR-002", "c0020": nil, "c0030": nil, "c0040": nil},
	}
	assert.InDelta(t, 75, Completeness(types.TemplateEntitiesUsing, rows), 0.001)
}

func TestCompletenessSkipsAllEmptyRows(t *testing.T) {
	rows := []types.LogicalRow{
		{"c0010": "CTR-001", "c0020": orgLEI, "c0030": nil, "c0040": nil},
		{"c0010": nil, "c0020": nil, "c0030": nil, "c0040": nil},
	}
	assert.InDelta(t, 100, Completeness(types.TemplateEntitiesUsing, rows), 0.001)
}

func TestCompletenessEdgeCases(t *testing.T) {
	assert.Zero(t, Completeness(types.TemplateEntitiesUsing, nil))
	// No required columns: any data scores 100, none scores 0.
	assert.Zero(t, Completeness(types.TemplateLookup, nil))
	assert.InDelta(t, 100, Completeness(types.TemplateLookup,
		[]types.LogicalRow{{"c0010": orgLEI, "c0020": "term", "c0030": "text"}}), 0.001)
}

func TestOverallScore(t *testing.T) {
	report := &types.ValidationReport{}
	for i := 0; i < 2; i++ {
		report.Add(types.Finding{Severity: types.SeverityError})
	}
	for i := 0; i < 3; i++ {
		report.Add(types.Finding{Severity: types.SeverityWarning})
	}
	report.Finalize()

	// 100 - 2*5 - 3*1 = 87.
	assert.InDelta(t, 87, report.Score, 0.001)
	assert.False(t, report.IsValid)
}

func TestOverallScoreFlooredAtZero(t *testing.T) {
	report := &types.ValidationReport{}
	for i := 0; i < 25; i++ {
		report.Add(types.Finding{Severity: types.SeverityError})
	}
	for i := 0; i < 50; i++ {
		report.Add(types.Finding{Severity: types.SeverityWarning})
	}
	report.Finalize()

	// Error penalty capped at 100, warning penalty capped at 20, floored at 0.
	assert.Zero(t, report.Score)
}

func TestCleanDatasetScoresFull(t *testing.T) {
	dataset := types.Dataset{
		types.TemplateEntitiesInScope: {entityRow(orgLEI)},
		types.TemplateProviders:       {providerRow(vendorLEI)},
	}

	report := NewEngine().Validate(dataset)
	assert.True(t, report.IsValid)
	assert.InDelta(t, 100, report.Score, 0.001)
	assert.InDelta(t, 100, report.Completeness[types.TemplateProviders], 0.001)
}
