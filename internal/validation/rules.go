// =============================================================================
// Register of Information Exporter - Validation Rule Tables
// =============================================================================
//
// The rule catalog is declarative data, not code branches: constant tables
// of rule descriptors dispatched by the engine. Three rule categories share
// one result shape but differ in input arity:
//
//   - FieldRule:         predicate over one value (plus its row)
//   - CrossFieldRule:    predicate over all rows of one template
//   - CrossTemplateRule: source field checked against a target template's
//                        key set (referential integrity)
//
// Tables are loaded once at process start and never mutated.
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/regtechlabs/roi-exporter/internal/types"
)

// =============================================================================
// RULE VARIANTS
// =============================================================================

// FieldRule validates one column value per row.
type FieldRule struct {
	Template   types.TemplateID
	Column     string
	Kind       types.RuleKind
	Severity   types.Severity
	Message    string
	Suggestion string

	// Check returns true when the value passes. Nil values pass: missing
	// data is the required check's concern, not the shape checks'.
	Check func(v types.Value, row types.LogicalRow) bool

	// AutoFix, when non-nil, proposes a replacement value for a failing
	// finding. The engine only attaches the proposal; it never applies it.
	AutoFix func(v types.Value) types.Value
}

// Violation is one cross-field rule hit.
type Violation struct {
	RowIndex int
	Message  string
	Value    string
}

// CrossFieldRule validates an invariant across all rows of one template.
type CrossFieldRule struct {
	Template   types.TemplateID
	Name       string
	Kind       types.RuleKind
	Severity   types.Severity
	Suggestion string

	// Check returns the list of violations found across the rows.
	Check func(rows []types.LogicalRow) []Violation
}

// CrossTemplateRule flags source rows whose field value is absent from the
// key set built over the target template's rows. Findings are attributed to
// the source template. An empty source trivially satisfies the rule.
type CrossTemplateRule struct {
	Name           string
	SourceTemplate types.TemplateID
	SourceColumn   string
	TargetTemplate types.TemplateID
	TargetColumn   string
	Severity       types.Severity
	Message        string
	Suggestion     string
}

// =============================================================================
// SHARED PREDICATE HELPERS
// =============================================================================

// leiPattern is the ISO 17442 LEI shape: 18 alphanumerics + 2 check digits.
var leiPattern = regexp.MustCompile(`^[A-Z0-9]{18}[0-9]{2}$`)

// isoDatePattern is the normalized date shape every date column must carry.
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidLEI reports whether a value has the LEI shape.
func ValidLEI(v types.Value) bool {
	return leiPattern.MatchString(types.ValueString(v))
}

// checkLEI passes nil values and validates the rest against the LEI shape.
func checkLEI(v types.Value, _ types.LogicalRow) bool {
	return types.IsNull(v) || ValidLEI(v)
}

// fixLEICase proposes the upper-cased value when that alone repairs the LEI.
func fixLEICase(v types.Value) types.Value {
	upper := strings.ToUpper(strings.TrimSpace(types.ValueString(v)))
	if leiPattern.MatchString(upper) {
		return upper
	}
	return nil
}

// checkNonNegative passes nil and non-negative numbers.
func checkNonNegative(v types.Value, _ types.LogicalRow) bool {
	if types.IsNull(v) {
		return true
	}
	f, ok := v.(float64)
	return ok && f >= 0
}

// uniqueColumn builds a cross-field check flagging every later duplicate of
// a column value. The first occurrence is the canonical one; the finding
// cites the duplicate row's index.
func uniqueColumn(column, what string) func(rows []types.LogicalRow) []Violation {
	return func(rows []types.LogicalRow) []Violation {
		seen := make(map[string]int)
		var out []Violation
		for i, row := range rows {
			v := row[column]
			if types.IsNull(v) {
				continue
			}
			key := types.ValueString(v)
			if _, dup := seen[key]; dup {
				out = append(out, Violation{
					RowIndex: i,
					Message:  fmt.Sprintf("Duplicate %s '%s' (first declared in row %d)", what, key, seen[key]+1),
					Value:    key,
				})
				continue
			}
			seen[key] = i
		}
		return out
	}
}

// endAfterStart flags rows whose end date precedes their start date.
// ISO dates compare correctly as strings.
func endAfterStart(startCol, endCol string) func(rows []types.LogicalRow) []Violation {
	return func(rows []types.LogicalRow) []Violation {
		var out []Violation
		for i, row := range rows {
			start, end := row[startCol], row[endCol]
			if types.IsNull(start) || types.IsNull(end) {
				continue
			}
			if types.ValueString(end) < types.ValueString(start) {
				out = append(out, Violation{
					RowIndex: i,
					Message:  fmt.Sprintf("End date %s is before start date %s", types.ValueString(end), types.ValueString(start)),
					Value:    types.ValueString(end),
				})
			}
		}
		return out
	}
}

// =============================================================================
// FIELD RULE TABLE
// =============================================================================

var fieldRules = []FieldRule{
	// LEI shape checks on every identifier column.
	{Template: types.TemplateEntityRegister, Column: "c0010", Kind: types.RulePattern, Severity: types.SeverityError,
		Message: "LEI must be 18 alphanumeric characters followed by 2 digits", Suggestion: "Verify the LEI against the GLEIF database",
		Check: checkLEI, AutoFix: fixLEICase},
	{Template: types.TemplateEntitiesInScope, Column: "c0010", Kind: types.RulePattern, Severity: types.SeverityError,
		Message: "LEI must be 18 alphanumeric characters followed by 2 digits", Suggestion: "Verify the LEI against the GLEIF database",
		Check: checkLEI, AutoFix: fixLEICase},
	{Template: types.TemplateEntitiesInScope, Column: "c0050", Kind: types.RulePattern, Severity: types.SeverityWarning,
		Message: "Parent LEI does not have a valid LEI shape", Suggestion: "Verify the parent LEI against the GLEIF database",
		Check: checkLEI, AutoFix: fixLEICase},
	{Template: types.TemplateBranches, Column: "c0030", Kind: types.RulePattern, Severity: types.SeverityError,
		Message: "Head office LEI must be 18 alphanumeric characters followed by 2 digits",
		Check: checkLEI, AutoFix: fixLEICase},
	{Template: types.TemplateContractDetails, Column: "c0020", Kind: types.RulePattern, Severity: types.SeverityError,
		Message: "Provider identification code must have a valid LEI shape", Suggestion: "Record the provider's LEI on the vendor record",
		Check: checkLEI, AutoFix: fixLEICase},
	{Template: types.TemplateProviders, Column: "c0010", Kind: types.RulePattern, Severity: types.SeverityError,
		Message: "Provider identification code must have a valid LEI shape", Suggestion: "Record the provider's LEI on the vendor record",
		Check: checkLEI, AutoFix: fixLEICase},

	// Numeric bounds.
	{Template: types.TemplateContractOverview, Column: "c0050", Kind: types.RuleRange, Severity: types.SeverityError,
		Message: "Annual cost must not be negative", Check: checkNonNegative},
	{Template: types.TemplateContractOverview, Column: "c0080", Kind: types.RuleRange, Severity: types.SeverityError,
		Message: "Notice period must not be negative", Check: checkNonNegative},
	{Template: types.TemplateContractOverview, Column: "c0090", Kind: types.RuleRange, Severity: types.SeverityError,
		Message: "Notice period must not be negative", Check: checkNonNegative},
	{Template: types.TemplateProviders, Column: "c0090", Kind: types.RuleRange, Severity: types.SeverityError,
		Message: "Total annual expense must not be negative", Check: checkNonNegative},
	{Template: types.TemplateSubcontracting, Column: "c0030", Kind: types.RuleRange, Severity: types.SeverityError,
		Message: "Supply chain rank must be 1 or greater", Suggestion: "Rank 1 is the direct provider; subcontractors rank from 2",
		Check: func(v types.Value, _ types.LogicalRow) bool {
			if types.IsNull(v) {
				return true
			}
			f, ok := v.(float64)
			return ok && f >= 1
		}},

	// Template-specific semantics.
	{Template: types.TemplateContractOverview, Column: "c0020", Kind: types.RuleCustom, Severity: types.SeverityWarning,
		Message: "Arrangement type should be 'standalone', 'overarching' or 'subsequent'",
		Suggestion: "Pick one of the three contractual arrangement types",
		Check: func(v types.Value, _ types.LogicalRow) bool {
			if types.IsNull(v) {
				return true
			}
			switch types.ValueString(v) {
			case "standalone", "overarching", "subsequent":
				return true
			}
			return false
		}},
	{Template: types.TemplateCriticalFunctions, Column: "c0050", Kind: types.RuleCustom, Severity: types.SeverityWarning,
		Message: "Functions assessed as critical should state the reason for criticality",
		Suggestion: "Document why the function is critical or important",
		Check: func(v types.Value, row types.LogicalRow) bool {
			critical := types.ValueString(row["c0040"]) == "eba_ZZ:x794"
			return !critical || !types.IsNull(v)
		}},
}

// =============================================================================
// CROSS-FIELD RULE TABLE
// =============================================================================

var crossFieldRules = []CrossFieldRule{
	{Template: types.TemplateEntitiesInScope, Name: "unique_lei", Kind: types.RuleUnique, Severity: types.SeverityError,
		Suggestion: "Each entity may appear only once in the scope of consolidation",
		Check:      uniqueColumn("c0010", "LEI")},
	{Template: types.TemplateContractOverview, Name: "unique_contract_ref", Kind: types.RuleUnique, Severity: types.SeverityError,
		Suggestion: "Contractual arrangement reference numbers must be unique",
		Check:      uniqueColumn("c0010", "contract reference")},
	{Template: types.TemplateContractOverview, Name: "end_after_start", Kind: types.RuleDate, Severity: types.SeverityError,
		Suggestion: "Correct the start or end date of the arrangement",
		Check:      endAfterStart("c0060", "c0070")},
	{Template: types.TemplateProviders, Name: "unique_provider_id", Kind: types.RuleUnique, Severity: types.SeverityError,
		Suggestion: "Each provider may appear only once",
		Check:      uniqueColumn("c0010", "provider identification code")},
}

// =============================================================================
// CROSS-TEMPLATE RULE TABLE
// =============================================================================

var crossTemplateRules = []CrossTemplateRule{
	{
		Name:           "contract_provider_exists",
		SourceTemplate: types.TemplateContractDetails, SourceColumn: "c0020",
		TargetTemplate: types.TemplateProviders, TargetColumn: "c0010",
		Severity:   types.SeverityError,
		Message:    "Provider '%s' referenced by the contractual arrangement is not declared in the providers template",
		Suggestion: "Add the provider to the register or correct the provider identification code",
	},
	{
		Name:           "function_contract_exists",
		SourceTemplate: types.TemplateCriticalFunctions, SourceColumn: "c0070",
		TargetTemplate: types.TemplateContractOverview, TargetColumn: "c0010",
		Severity:   types.SeverityWarning,
		Message:    "Contractual arrangement '%s' supporting the function is not declared in the contract overview",
		Suggestion: "Link the function to a declared contractual arrangement",
	},
	{
		Name:           "recipient_entity_exists",
		SourceTemplate: types.TemplateServiceRecipients, SourceColumn: "c0020",
		TargetTemplate: types.TemplateEntitiesInScope, TargetColumn: "c0010",
		Severity:   types.SeverityError,
		Message:    "Entity '%s' making use of the ICT services is not declared in the entities-in-scope template",
		Suggestion: "Declare the entity in the scope of consolidation",
	},
	{
		Name:           "subcontract_contract_exists",
		SourceTemplate: types.TemplateSubcontracting, SourceColumn: "c0010",
		TargetTemplate: types.TemplateContractOverview, TargetColumn: "c0010",
		Severity:   types.SeverityWarning,
		Message:    "Supply chain entry references contractual arrangement '%s' which is not declared in the contract overview",
		Suggestion: "Declare the contractual arrangement or remove the supply chain entry",
	},
	{
		Name:           "linked_contract_exists",
		SourceTemplate: types.TemplateIntraGroup, SourceColumn: "c0020",
		TargetTemplate: types.TemplateContractOverview, TargetColumn: "c0010",
		Severity:   types.SeverityWarning,
		Message:    "Linked contractual arrangement '%s' is not declared in the contract overview",
		Suggestion: "Declare the overarching arrangement in the contract overview",
	},
}

// FieldRules returns the declared field rules for a template.
func FieldRules(t types.TemplateID) []FieldRule {
	var out []FieldRule
	for _, r := range fieldRules {
		if r.Template == t {
			out = append(out, r)
		}
	}
	return out
}

// CrossFieldRules returns the declared cross-field rules for a template.
func CrossFieldRules(t types.TemplateID) []CrossFieldRule {
	var out []CrossFieldRule
	for _, r := range crossFieldRules {
		if r.Template == t {
			out = append(out, r)
		}
	}
	return out
}

// CrossTemplateRules returns all declared cross-template rules.
func CrossTemplateRules() []CrossTemplateRule {
	out := make([]CrossTemplateRule, len(crossTemplateRules))
	copy(out, crossTemplateRules)
	return out
}
