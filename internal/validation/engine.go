// =============================================================================
// Register of Information Exporter - Validation Engine
// =============================================================================
//
// Three-phase pipeline over the fully-mapped dataset:
//
//   1. Field validation: for every row of every mapped template, the
//      generated shape checks (required, date, enum) and every declared
//      field rule are evaluated per column.
//   2. Cross-field validation: rules scoped to one template evaluate
//      invariants across all its rows; each violation becomes a synthetic
//      finding with columnCode "*".
//   3. Cross-template validation: referential-integrity rules flag source
//      rows whose field value is missing from the target template's key
//      set. An empty source template trivially satisfies its rules.
//
// Findings are structured output, never exceptions; the engine reads rows
// and never mutates source data. Auto-fix proposals ride along on findings
// for the caller to apply or ignore.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/regtechlabs/roi-exporter/internal/registry"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

// Engine validates a fetched dataset against the rule catalog.
type Engine struct{}

// NewEngine creates a validation engine. The rule catalog is process-wide
// constant state, so the engine itself carries nothing.
func NewEngine() *Engine { return &Engine{} }

// Validate runs all three phases and returns the aggregated report.
func (e *Engine) Validate(dataset types.Dataset) *types.ValidationReport {
	report := &types.ValidationReport{
		Completeness: make(map[types.TemplateID]float64),
	}

	for _, t := range types.AllTemplates {
		rows := dataset[t]
		e.validateFields(t, rows, report)
		e.validateCrossField(t, rows, report)
		report.Completeness[t] = Completeness(t, rows)
	}
	e.validateCrossTemplate(dataset, report)

	report.Finalize()
	return report
}

// =============================================================================
// PHASE 1 - FIELD VALIDATION
// =============================================================================

func (e *Engine) validateFields(t types.TemplateID, rows []types.LogicalRow, report *types.ValidationReport) {
	mappings := registry.Mappings(t)
	declared := FieldRules(t)

	for i, row := range rows {
		// Generated shape checks derive from the mapping table so the
		// column metadata stays the single source of truth.
		for _, m := range mappings {
			v := row[m.Code]

			if m.Required && types.IsNull(v) {
				report.Add(types.Finding{
					Template: t, RowIndex: i, ColumnCode: m.Code,
					Severity: types.SeverityError, Rule: types.RuleRequired,
					Message:    fmt.Sprintf("Required column %s (%s) is empty", m.Code, m.Description),
					Suggestion: fmt.Sprintf("Populate %s on the %s record", m.SourceField, m.SourceEntity),
				})
				continue
			}
			if types.IsNull(v) {
				continue
			}

			switch m.DataType {
			case registry.DataTypeDate:
				s := types.ValueString(v)
				if !isoDatePattern.MatchString(s) {
					f := types.Finding{
						Template: t, RowIndex: i, ColumnCode: m.Code,
						Severity: types.SeverityError, Rule: types.RuleDate,
						Message:    fmt.Sprintf("Column %s must be a date in YYYY-MM-DD form", m.Code),
						Value:      s,
						Suggestion: "Dates must use the YYYY-MM-DD format",
					}
					if fixed := registry.ApplyTransform(registry.TransformDateISO, v, ""); fixed != nil {
						f.AutoFix = fixed
					}
					report.Add(f)
				}
			case registry.DataTypeEnum:
				s := types.ValueString(v)
				if !strings.HasPrefix(s, "eba_") || !strings.Contains(s, ":") {
					report.Add(types.Finding{
						Template: t, RowIndex: i, ColumnCode: m.Code,
						Severity: types.SeverityError, Rule: types.RuleEnum,
						Message:    fmt.Sprintf("Column %s holds '%s' which is outside the regulator's code domain", m.Code, s),
						Value:      s,
						Suggestion: "Map the internal value through the column's enumeration table",
					})
				}
			case registry.DataTypeNumber:
				if _, ok := v.(float64); !ok {
					report.Add(types.Finding{
						Template: t, RowIndex: i, ColumnCode: m.Code,
						Severity: types.SeverityError, Rule: types.RuleFormat,
						Message: fmt.Sprintf("Column %s must hold a numeric value", m.Code),
						Value:   types.ValueString(v),
					})
				}
			}
		}

		// Declared field rules.
		for _, r := range declared {
			v := row[r.Column]
			if r.Check(v, row) {
				continue
			}
			f := types.Finding{
				Template: t, RowIndex: i, ColumnCode: r.Column,
				Severity: r.Severity, Rule: r.Kind,
				Message:    r.Message,
				Value:      types.ValueString(v),
				Suggestion: r.Suggestion,
			}
			if r.AutoFix != nil {
				if fixed := r.AutoFix(v); fixed != nil {
					f.AutoFix = fixed
				}
			}
			report.Add(f)
		}
	}
}

// =============================================================================
// PHASE 2 - CROSS-FIELD VALIDATION
// =============================================================================

func (e *Engine) validateCrossField(t types.TemplateID, rows []types.LogicalRow, report *types.ValidationReport) {
	if len(rows) == 0 {
		return
	}
	for _, r := range CrossFieldRules(t) {
		for _, violation := range r.Check(rows) {
			report.Add(types.Finding{
				Template: t, RowIndex: violation.RowIndex, ColumnCode: "*",
				Severity: r.Severity, Rule: r.Kind,
				Message:    fmt.Sprintf("[%s] %s", r.Name, violation.Message),
				Value:      violation.Value,
				Suggestion: r.Suggestion,
			})
		}
	}
}

// =============================================================================
// PHASE 3 - CROSS-TEMPLATE VALIDATION
// =============================================================================

func (e *Engine) validateCrossTemplate(dataset types.Dataset, report *types.ValidationReport) {
	for _, r := range CrossTemplateRules() {
		source := dataset[r.SourceTemplate]
		if len(source) == 0 {
			// An empty source trivially satisfies the rule.
			continue
		}

		// Build the key set over the target template's rows.
		targets := make(map[string]struct{})
		for _, row := range dataset[r.TargetTemplate] {
			if v := row[r.TargetColumn]; !types.IsNull(v) {
				targets[types.ValueString(v)] = struct{}{}
			}
		}

		for i, row := range source {
			v := row[r.SourceColumn]
			if types.IsNull(v) {
				continue
			}
			key := types.ValueString(v)
			if _, ok := targets[key]; !ok {
				report.Add(types.Finding{
					Template: r.SourceTemplate, RowIndex: i, ColumnCode: r.SourceColumn,
					Severity: r.Severity, Rule: types.RuleReference,
					Message:    fmt.Sprintf("[%s] %s", r.Name, fmt.Sprintf(r.Message, key)),
					Value:      key,
					Suggestion: r.Suggestion,
				})
			}
		}
	}
}

// =============================================================================
// COMPLETENESS SCORING
// =============================================================================

// Completeness scores one template 0-100: among rows with at least one
// non-null required field, the fraction of required-field slots filled,
// averaged per row. A template with no declared required fields scores 100
// if it has any data, else 0.
func Completeness(t types.TemplateID, rows []types.LogicalRow) float64 {
	required := registry.RequiredColumns(t)
	if len(required) == 0 {
		if len(rows) > 0 {
			return 100
		}
		return 0
	}
	if len(rows) == 0 {
		return 0
	}

	var sum float64
	var counted int
	for _, row := range rows {
		filled := 0
		for _, col := range required {
			if !types.IsNull(row[col]) {
				filled++
			}
		}
		if filled == 0 {
			continue
		}
		counted++
		sum += float64(filled) / float64(len(required))
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted) * 100
}
