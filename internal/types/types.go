// =============================================================================
// Register of Information Exporter - Shared Types
// =============================================================================
//
// This package contains the shared data model used across multiple modules to
// avoid import cycles. Types defined here are used by:
//   - registry
//   - normalizer
//   - validation
//   - csvcodec / xmlcodec / xlsxreport
//   - export
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// TEMPLATE IDENTIFIERS
// =============================================================================

// TemplateID identifies one of the 15 fixed ESA Register of Information
// templates.
type TemplateID string

// The full set of RoI templates, in submission order.
const (
	TemplateEntityRegister    TemplateID = "B_01.01" // Entity maintaining the register
	TemplateEntitiesInScope   TemplateID = "B_01.02" // Entities within the scope of consolidation
	TemplateBranches          TemplateID = "B_01.03" // Branches of entities in scope
	TemplateContractOverview  TemplateID = "B_02.01" // Contractual arrangements - general information
	TemplateContractDetails   TemplateID = "B_02.02" // Contractual arrangements - specific information
	TemplateIntraGroup        TemplateID = "B_02.03" // Intra-group contractual arrangements
	TemplateContractEntity    TemplateID = "B_03.01" // Entities signing the contractual arrangement
	TemplateServiceRecipients TemplateID = "B_03.02" // Entities making use of the ICT services
	TemplateSigningProviders  TemplateID = "B_03.03" // Providers signing the contractual arrangement
	TemplateEntitiesUsing     TemplateID = "B_04.01" // Entities making use of the ICT services (detail)
	TemplateProviders         TemplateID = "B_05.01" // ICT third-party service providers
	TemplateSubcontracting    TemplateID = "B_05.02" // ICT service supply chains
	TemplateCriticalFunctions TemplateID = "B_06.01" // Functions identification
	TemplateExitArrangements  TemplateID = "B_07.01" // Assessments of the ICT services
	TemplateLookup            TemplateID = "B_99.01" // Definitions from entities making use of the ICT services
)

// AllTemplates lists every template in submission order. The order matters
// for deterministic package and instance output.
var AllTemplates = []TemplateID{
	TemplateEntityRegister,
	TemplateEntitiesInScope,
	TemplateBranches,
	TemplateContractOverview,
	TemplateContractDetails,
	TemplateIntraGroup,
	TemplateContractEntity,
	TemplateServiceRecipients,
	TemplateSigningProviders,
	TemplateEntitiesUsing,
	TemplateProviders,
	TemplateSubcontracting,
	TemplateCriticalFunctions,
	TemplateExitArrangements,
	TemplateLookup,
}

// FileStem returns the template id in file-name form: lower-cased with dots
// replaced by underscores (e.g. "B_05.01" -> "b_05_01").
func (t TemplateID) FileStem() string {
	stem := make([]byte, 0, len(t))
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case c >= 'A' && c <= 'Z':
			stem = append(stem, c+'a'-'A')
		case c == '.':
			stem = append(stem, '_')
		default:
			stem = append(stem, c)
		}
	}
	return string(stem)
}

// =============================================================================
// LOGICAL ROWS
// =============================================================================

// Value is a single resolved cell value, prior to codec formatting.
// It holds one of: string, float64, bool, or nil (missing).
type Value interface{}

// IsNull reports whether a value is absent. Empty strings count as absent
// because the normalizer never produces them for populated columns.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ValueString renders a value for diagnostics (not for codec output - the
// format package owns that).
func ValueString(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// LogicalRow maps a template column code to its resolved value. Invariant:
// the key set is exactly the template's declared column order; missing data
// is represented as a nil value, never an absent key.
type LogicalRow map[string]Value

// Dataset holds the fetched point-in-time snapshot: all logical rows of all
// templates for one export run.
type Dataset map[TemplateID][]LogicalRow

// =============================================================================
// VALIDATION FINDINGS
// =============================================================================

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// RuleKind is the error taxonomy surfaced on each finding.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"  // missing mandatory value
	RuleFormat    RuleKind = "format"    // wrong shape
	RuleDate      RuleKind = "date"      // not a valid YYYY-MM-DD date
	RulePattern   RuleKind = "pattern"   // regex mismatch (e.g. LEI format)
	RuleEnum      RuleKind = "enum"      // value outside the code domain
	RuleRange     RuleKind = "range"     // numeric bound violation
	RuleUnique    RuleKind = "unique"    // duplicate key
	RuleReference RuleKind = "reference" // cross-template lookup failure
	RuleCustom    RuleKind = "custom"    // template-specific semantic rule
)

// Finding is one validation result. Findings are first-class data, never
// errors: the caller decides what to do with them.
type Finding struct {
	// Template is the template the finding is attributed to. Cross-template
	// findings are attributed to the source (offending) template.
	Template TemplateID

	// RowIndex is the zero-based index of the offending row.
	RowIndex int

	// ColumnCode is the offending column, or "*" for findings that span a
	// whole row or template.
	ColumnCode string

	Severity Severity
	Rule     RuleKind

	// Message is a human-readable description of the violation.
	Message string

	// Value is the offending value rendered as text.
	Value string

	// Suggestion is optional remediation guidance.
	Suggestion string

	// AutoFix, when non-nil, is a proposed replacement value the caller may
	// apply. The engine itself never mutates data.
	AutoFix Value
}

// ValidationReport aggregates all findings of one export run.
type ValidationReport struct {
	Findings []Finding

	// Completeness holds the 0-100 completeness score per template.
	Completeness map[TemplateID]float64

	ErrorCount   int
	WarningCount int
	InfoCount    int

	// Score is the overall quality score:
	// 100 - min(errors*5, 100) - min(warnings*1, 20), floored at 0.
	Score float64

	// IsValid is true iff ErrorCount == 0. Warnings never block.
	IsValid bool
}

// Add appends a finding and updates the counters. Score and IsValid are
// recomputed by Finalize.
func (r *ValidationReport) Add(f Finding) {
	r.Findings = append(r.Findings, f)
	switch f.Severity {
	case SeverityError:
		r.ErrorCount++
	case SeverityWarning:
		r.WarningCount++
	default:
		r.InfoCount++
	}
}

// Finalize computes the overall score and validity flag from the counters.
func (r *ValidationReport) Finalize() {
	penalty := float64(r.ErrorCount) * 5
	if penalty > 100 {
		penalty = 100
	}
	warnPenalty := float64(r.WarningCount)
	if warnPenalty > 20 {
		warnPenalty = 20
	}
	r.Score = 100 - penalty - warnPenalty
	if r.Score < 0 {
		r.Score = 0
	}
	r.IsValid = r.ErrorCount == 0
}

// FindingsFor returns the findings attributed to one template.
func (r *ValidationReport) FindingsFor(t TemplateID) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Template == t {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// EXPORT PARAMETERS AND RESULTS
// =============================================================================

// ExportParams carries the global formatting and contextual parameters
// shared by both codecs for one export run. Constructed once per request
// from organization configuration plus caller overrides; immutable for the
// duration of the export.
type ExportParams struct {
	// EntityID is the LEI of the entity maintaining the register.
	EntityID string

	// EntityName is the legal name of the reporting entity.
	EntityName string

	// ReportingPeriod is the reference date of the report (YYYY-MM-DD).
	ReportingPeriod string

	// BaseCurrency is the ISO 4217 code used for monetary facts.
	BaseCurrency string

	// DecimalsInteger is the decimal precision for non-monetary numerics.
	DecimalsInteger int

	// DecimalsMonetary is the decimal precision for monetary values.
	DecimalsMonetary int

	// GeneratedAt is the generation timestamp embedded in filenames and
	// package metadata. Injected by the caller so codec output stays
	// deterministic for identical input.
	GeneratedAt time.Time
}

// Timestamp returns the generation timestamp in filename form.
func (p ExportParams) Timestamp() string {
	return p.GeneratedAt.UTC().Format("20060102_150405")
}

// Package is a named binary artifact (zip package or workbook).
type Package struct {
	Filename string
	Data     []byte
}

// Instance is the XBRL-XML output: the instance document plus its
// companion taxonomy-package descriptor.
type Instance struct {
	Filename        string
	Document        string
	TaxonomyPackage string
}

// StructuralReport is the result of the XML codec's self-validation.
// Errors are fatal for submission; warnings are not.
type StructuralReport struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the document passed structural validation.
func (s StructuralReport) OK() bool { return len(s.Errors) == 0 }

// Result is the outcome envelope of one export run. Every public export
// entry point returns a Result rather than an error so failures stay
// representable and inspectable.
type Result struct {
	Success bool

	// RunID correlates the result with log lines of the run.
	RunID string

	CSV           *Package
	XML           *Instance
	XMLValidation *StructuralReport
	Workbook      *Package
	Report        *ValidationReport

	// Error is set when Success is false (configuration errors only;
	// validation findings live in Report).
	Error string
}
