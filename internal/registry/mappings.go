// =============================================================================
// Register of Information Exporter - Column Mapping Registry
// =============================================================================
//
// Per-template declarative mapping from a logical source record (keyed by
// semantic field name) to the mandated column codes. Each mapping declares
// the column's data type, required-ness, and a named transform from the
// closed transform set below.
//
// DESIGN:
//   Transforms are a closed set of named kinds resolved through a single
//   dispatch, not stored closures. This keeps the mapping tables constant,
//   comparable and testable in isolation.
//
// The tables are loaded once at process start and never mutated.
//
// =============================================================================

package registry

import (
	"strings"
	"time"

	"github.com/regtechlabs/roi-exporter/internal/types"
)

// =============================================================================
// MAPPING MODEL
// =============================================================================

// DataType is the declared type of a template column.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
	DataTypeDate    DataType = "date"
	DataTypeEnum    DataType = "enum"
)

// TransformKind names one transformation from the closed transform set.
type TransformKind string

const (
	TransformNone             TransformKind = "none"
	TransformCountryCode      TransformKind = "country_code"
	TransformCurrencyCode     TransformKind = "currency_code"
	TransformEntityType       TransformKind = "entity_type"
	TransformServiceType      TransformKind = "service_type"
	TransformCriticality      TransformKind = "criticality"
	TransformImpact           TransformKind = "impact"
	TransformSubstitutability TransformKind = "substitutability"
	TransformReintegration    TransformKind = "reintegration"
	TransformPersonType       TransformKind = "person_type"
	TransformSensitivity      TransformKind = "sensitivity"
	TransformIdentifierType   TransformKind = "identifier_type"
	TransformBooleanCode      TransformKind = "boolean_code"
	TransformDateISO          TransformKind = "date_iso"
	TransformLEIUpper         TransformKind = "lei_upper"
	TransformConstant         TransformKind = "constant"
)

// ColumnMapping maps one template column to a source record field.
type ColumnMapping struct {
	// Code is the mandated column code (e.g. "c0080").
	Code string

	// SourceEntity names the record the field is read from, for
	// documentation and diagnostics ("organization", "vendor", "contract",
	// "function", "branch").
	SourceEntity string

	// SourceField is the semantic field name within the source record.
	SourceField string

	// Description documents the regulatory meaning of the column.
	Description string

	// Required columns must resolve to a non-empty value after transform,
	// or the row fails validation. This flag is the single source of truth
	// for required-ness across validation and completeness scoring.
	Required bool

	DataType DataType

	// Monetary marks number columns carrying amounts in the reporting
	// currency. It selects the monetary decimal precision and, in the XML
	// codec, the currency unit.
	Monetary bool

	Transform TransformKind

	// Constant is the emitted value for TransformConstant mappings.
	Constant string
}

// =============================================================================
// TRANSFORM DISPATCH
// =============================================================================

// ApplyTransform resolves a source value through a named transform kind.
// A nil input stays nil for every kind except Constant; enumeration
// transforms resolve unmapped non-nil values to their documented default
// code, never to nil.
func ApplyTransform(kind TransformKind, v types.Value, constant string) types.Value {
	if kind == TransformConstant {
		return constant
	}
	if types.IsNull(v) {
		return nil
	}

	switch kind {

	// =========================================================================
	// PASSTHROUGH
	// =========================================================================

	case TransformNone:
		return v

	// =========================================================================
	// CODE DOMAIN LOOKUPS
	// =========================================================================

	case TransformCountryCode:
		return CountryCode(types.ValueString(v))

	case TransformCurrencyCode:
		return CurrencyCode(types.ValueString(v))

	case TransformEntityType:
		return EntityTypeCode(types.ValueString(v))

	case TransformServiceType:
		return ServiceTypeCode(types.ValueString(v))

	case TransformCriticality:
		return CriticalityCode(types.ValueString(v))

	case TransformImpact:
		return ImpactCode(types.ValueString(v))

	case TransformSubstitutability:
		return SubstitutabilityCode(types.ValueString(v))

	case TransformReintegration:
		return ReintegrationCode(types.ValueString(v))

	case TransformPersonType:
		return PersonTypeCode(types.ValueString(v))

	case TransformSensitivity:
		return SensitivityCode(types.ValueString(v))

	case TransformIdentifierType:
		return IdentifierTypeCode(types.ValueString(v))

	// =========================================================================
	// SCALARS
	// =========================================================================

	case TransformBooleanCode:
		if b, ok := v.(bool); ok {
			return BooleanCode(b)
		}
		return BooleanCode(false)

	case TransformDateISO:
		return normalizeDate(types.ValueString(v))

	case TransformLEIUpper:
		return strings.ToUpper(strings.TrimSpace(types.ValueString(v)))

	default:
		return v
	}
}

// normalizeDate brings a date value into YYYY-MM-DD form. Malformed dates
// become nil rather than failing the row; the validation engine reports
// them separately when the column is required.
func normalizeDate(raw string) types.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"02/01/2006",
		"02.01.2006",
		"20060102",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return nil
}

// =============================================================================
// PER-TEMPLATE MAPPING TABLES
// =============================================================================

var columnMappings = map[types.TemplateID][]ColumnMapping{

	// B_01.01 - Entity maintaining the register of information.
	types.TemplateEntityRegister: {
		{Code: "c0010", SourceEntity: "organization", SourceField: "lei", Description: "LEI of the entity maintaining the register", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0020", SourceEntity: "organization", SourceField: "name", Description: "Name of the entity", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0030", SourceEntity: "organization", SourceField: "country", Description: "Country of the entity", Required: true, DataType: DataTypeEnum, Transform: TransformCountryCode},
		{Code: "c0040", SourceEntity: "organization", SourceField: "entity_type", Description: "Type of entity", Required: true, DataType: DataTypeEnum, Transform: TransformEntityType},
		{Code: "c0050", SourceEntity: "organization", SourceField: "competent_authority", Description: "Competent authority", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0060", SourceEntity: "organization", SourceField: "reporting_date", Description: "Date of the reporting", Required: true, DataType: DataTypeDate, Transform: TransformDateISO},
	},

	// B_01.02 - Entities within the scope of consolidation.
	types.TemplateEntitiesInScope: {
		{Code: "c0010", SourceEntity: "organization", SourceField: "lei", Description: "LEI of the entity", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0020", SourceEntity: "organization", SourceField: "name", Description: "Name of the entity", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0030", SourceEntity: "organization", SourceField: "country", Description: "Country of the entity", Required: true, DataType: DataTypeEnum, Transform: TransformCountryCode},
		{Code: "c0040", SourceEntity: "organization", SourceField: "entity_type", Description: "Type of entity", Required: true, DataType: DataTypeEnum, Transform: TransformEntityType},
		{Code: "c0050", SourceEntity: "organization", SourceField: "parent_lei", Description: "LEI of the direct parent undertaking", Required: false, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0060", SourceEntity: "organization", SourceField: "last_update", Description: "Date of last update", Required: false, DataType: DataTypeDate, Transform: TransformDateISO},
		{Code: "c0070", SourceEntity: "organization", SourceField: "total_assets", Description: "Value of total assets", Required: false, DataType: DataTypeNumber, Monetary: true, Transform: TransformNone},
	},

	// B_01.03 - Branches of entities in scope.
	types.TemplateBranches: {
		{Code: "c0010", SourceEntity: "branch", SourceField: "identification_code", Description: "Identification code of the branch", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "branch", SourceField: "name", Description: "Name of the branch", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0030", SourceEntity: "branch", SourceField: "head_office_lei", Description: "LEI of the head office entity", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0040", SourceEntity: "branch", SourceField: "country", Description: "Country of the branch", Required: true, DataType: DataTypeEnum, Transform: TransformCountryCode},
	},

	// B_02.01 - Contractual arrangements, general information.
	types.TemplateContractOverview: {
		{Code: "c0010", SourceEntity: "contract", SourceField: "ref", Description: "Contractual arrangement reference number", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "contract", SourceField: "arrangement_type", Description: "Type of contractual arrangement", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0030", SourceEntity: "contract", SourceField: "overarching_ref", Description: "Overarching contractual arrangement reference number", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0040", SourceEntity: "contract", SourceField: "currency", Description: "Currency of the amount reported", Required: true, DataType: DataTypeEnum, Transform: TransformCurrencyCode},
		{Code: "c0050", SourceEntity: "contract", SourceField: "annual_cost", Description: "Annual expense or estimated cost", Required: false, DataType: DataTypeNumber, Monetary: true, Transform: TransformNone},
		{Code: "c0060", SourceEntity: "contract", SourceField: "start_date", Description: "Start date of the contractual arrangement", Required: true, DataType: DataTypeDate, Transform: TransformDateISO},
		{Code: "c0070", SourceEntity: "contract", SourceField: "end_date", Description: "End date of the contractual arrangement", Required: false, DataType: DataTypeDate, Transform: TransformDateISO},
		{Code: "c0080", SourceEntity: "contract", SourceField: "notice_period_entity", Description: "Notice period for the financial entity (days)", Required: false, DataType: DataTypeNumber, Transform: TransformNone},
		{Code: "c0090", SourceEntity: "contract", SourceField: "notice_period_provider", Description: "Notice period for the provider (days)", Required: false, DataType: DataTypeNumber, Transform: TransformNone},
		{Code: "c0100", SourceEntity: "contract", SourceField: "termination_reason", Description: "Reason of the termination of the arrangement", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0110", SourceEntity: "contract", SourceField: "governing_law_country", Description: "Country of the governing law", Required: false, DataType: DataTypeEnum, Transform: TransformCountryCode},
	},

	// B_02.02 - Contractual arrangements, specific information.
	types.TemplateContractDetails: {
		{Code: "c0010", SourceEntity: "contract", SourceField: "ref", Description: "Contractual arrangement reference number", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "vendor", SourceField: "provider_id", Description: "Identification code of the ICT third-party service provider", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0030", SourceEntity: "contract", SourceField: "service_type", Description: "Type of ICT services", Required: true, DataType: DataTypeEnum, Transform: TransformServiceType},
		{Code: "c0040", SourceEntity: "contract", SourceField: "country_of_provision", Description: "Country of provision of the ICT services", Required: false, DataType: DataTypeEnum, Transform: TransformCountryCode},
		{Code: "c0050", SourceEntity: "contract", SourceField: "stores_data", Description: "Storage of data", Required: false, DataType: DataTypeBoolean, Transform: TransformBooleanCode},
		{Code: "c0060", SourceEntity: "contract", SourceField: "data_sensitivity", Description: "Sensitiveness of the data stored", Required: false, DataType: DataTypeEnum, Transform: TransformSensitivity},
		{Code: "c0070", SourceEntity: "contract", SourceField: "criticality", Description: "Criticality or importance assessment", Required: false, DataType: DataTypeEnum, Transform: TransformCriticality},
	},

	// B_04.01 - Entities making use of the ICT services.
	types.TemplateEntitiesUsing: {
		{Code: "c0010", SourceEntity: "contract", SourceField: "ref", Description: "Contractual arrangement reference number", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "organization", SourceField: "lei", Description: "LEI of the entity making use of the ICT services", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0030", SourceEntity: "organization", SourceField: "entity_type", Description: "Nature of the entity making use of the ICT services", Required: false, DataType: DataTypeEnum, Transform: TransformEntityType},
		{Code: "c0040", SourceEntity: "organization", SourceField: "country", Description: "Country of the entity", Required: false, DataType: DataTypeEnum, Transform: TransformCountryCode},
	},

	// B_05.01 - ICT third-party service providers.
	types.TemplateProviders: {
		{Code: "c0010", SourceEntity: "vendor", SourceField: "provider_id", Description: "Identification code of the ICT third-party service provider", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0020", SourceEntity: "vendor", SourceField: "identifier_type", Description: "Type of code to identify the provider", Required: true, DataType: DataTypeEnum, Transform: TransformIdentifierType},
		{Code: "c0030", SourceEntity: "vendor", SourceField: "additional_code", Description: "Additional identification code", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0040", SourceEntity: "vendor", SourceField: "name", Description: "Legal name of the provider", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0050", SourceEntity: "vendor", SourceField: "person_type", Description: "Type of person of the provider", Required: true, DataType: DataTypeEnum, Transform: TransformPersonType},
		{Code: "c0060", SourceEntity: "vendor", SourceField: "parent_provider_id", Description: "Identification code of the provider's ultimate parent", Required: false, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0070", SourceEntity: "vendor", SourceField: "cost_currency", Description: "Currency of the annual expense", Required: false, DataType: DataTypeEnum, Transform: TransformCurrencyCode},
		{Code: "c0080", SourceEntity: "vendor", SourceField: "headquarters_country", Description: "Country of the provider's headquarters", Required: true, DataType: DataTypeEnum, Transform: TransformCountryCode},
		{Code: "c0090", SourceEntity: "vendor", SourceField: "total_annual_expense", Description: "Total annual expense paid to the provider", Required: false, DataType: DataTypeNumber, Monetary: true, Transform: TransformNone},
	},

	// B_05.02 - ICT service supply chains (subcontracting).
	types.TemplateSubcontracting: {
		{Code: "c0010", SourceEntity: "contract", SourceField: "ref", Description: "Contractual arrangement reference number", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "contract", SourceField: "service_type", Description: "Type of ICT services", Required: false, DataType: DataTypeEnum, Transform: TransformServiceType},
		{Code: "c0030", SourceEntity: "subcontractor", SourceField: "rank", Description: "Rank in the ICT service supply chain", Required: true, DataType: DataTypeNumber, Transform: TransformNone},
		{Code: "c0040", SourceEntity: "subcontractor", SourceField: "provider_id", Description: "Identification code of the provider at this rank", Required: true, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0050", SourceEntity: "subcontractor", SourceField: "upstream_provider_id", Description: "Identification code of the direct upstream provider", Required: false, DataType: DataTypeString, Transform: TransformLEIUpper},
	},

	// B_06.01 - Functions identification.
	types.TemplateCriticalFunctions: {
		{Code: "c0010", SourceEntity: "function", SourceField: "function_id", Description: "Function identifier", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "function", SourceField: "name", Description: "Function name", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0030", SourceEntity: "function", SourceField: "licensed_activity", Description: "Licensed activity the function relates to", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0040", SourceEntity: "function", SourceField: "criticality", Description: "Criticality or importance assessment", Required: true, DataType: DataTypeEnum, Transform: TransformCriticality},
		{Code: "c0050", SourceEntity: "function", SourceField: "reason_critical", Description: "Reasons for criticality or importance", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0060", SourceEntity: "function", SourceField: "last_assessment", Description: "Date of the last assessment", Required: false, DataType: DataTypeDate, Transform: TransformDateISO},
		{Code: "c0070", SourceEntity: "function", SourceField: "contract_ref", Description: "Contractual arrangement supporting the function", Required: false, DataType: DataTypeString, Transform: TransformNone},
	},

	// B_07.01 - Assessments of the ICT services (exit arrangements).
	types.TemplateExitArrangements: {
		{Code: "c0010", SourceEntity: "contract", SourceField: "ref", Description: "Contractual arrangement reference number", Required: true, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0020", SourceEntity: "vendor", SourceField: "provider_id", Description: "Identification code of the ICT third-party service provider", Required: false, DataType: DataTypeString, Transform: TransformLEIUpper},
		{Code: "c0030", SourceEntity: "contract", SourceField: "substitutability", Description: "Substitutability of the provider", Required: true, DataType: DataTypeEnum, Transform: TransformSubstitutability},
		{Code: "c0040", SourceEntity: "contract", SourceField: "substitutability_reason", Description: "Reason the provider is (not) substitutable", Required: false, DataType: DataTypeString, Transform: TransformNone},
		{Code: "c0050", SourceEntity: "contract", SourceField: "last_audit_date", Description: "Date of the last audit of the provider", Required: false, DataType: DataTypeDate, Transform: TransformDateISO},
		{Code: "c0060", SourceEntity: "contract", SourceField: "exit_plan_exists", Description: "Existence of an exit plan", Required: false, DataType: DataTypeBoolean, Transform: TransformBooleanCode},
		{Code: "c0070", SourceEntity: "contract", SourceField: "reintegration", Description: "Possibility of reintegration of the service", Required: false, DataType: DataTypeEnum, Transform: TransformReintegration},
		{Code: "c0080", SourceEntity: "contract", SourceField: "impact", Description: "Impact of discontinuing the ICT services", Required: false, DataType: DataTypeEnum, Transform: TransformImpact},
		{Code: "c0090", SourceEntity: "contract", SourceField: "alternatives_identified", Description: "Alternative providers identified", Required: false, DataType: DataTypeBoolean, Transform: TransformBooleanCode},
	},
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Mappings returns the declarative column mappings for a template. Derived
// and unknown templates yield an empty slice - callers treat empty as
// "nothing to map", never as an error.
func Mappings(t types.TemplateID) []ColumnMapping {
	ms, ok := columnMappings[t]
	if !ok {
		return nil
	}
	out := make([]ColumnMapping, len(ms))
	copy(out, ms)
	return out
}

// MappingFor returns the mapping of one column, or nil when the template or
// column is unmapped.
func MappingFor(t types.TemplateID, code string) *ColumnMapping {
	for _, m := range columnMappings[t] {
		if m.Code == code {
			m := m
			return &m
		}
	}
	return nil
}

// RequiredColumns returns the required column codes of a template, derived
// from the mapping tables. This is the single source of truth consumed by
// both the validation rules and the completeness scorer.
func RequiredColumns(t types.TemplateID) []string {
	var out []string
	for _, m := range columnMappings[t] {
		if m.Required {
			out = append(out, m.Code)
		}
	}
	return out
}

// MetricName returns the regulator's metric element name for one column of
// a template, following the type-letter convention of the taxonomy
// (e.g. "c0080" on an enum column -> "mic0080").
func MetricName(t types.TemplateID, code string) string {
	digits := strings.TrimPrefix(code, "c")
	m := MappingFor(t, code)
	if m == nil {
		return "mic" + digits
	}
	switch {
	case m.DataType == DataTypeNumber && m.Monetary:
		return "mim" + digits
	case m.DataType == DataTypeNumber:
		return "mii" + digits
	case m.DataTypeIsDate():
		return "dic" + digits
	case m.DataType == DataTypeBoolean:
		return "bic" + digits
	default:
		return "mic" + digits
	}
}

// DataTypeIsDate reports whether the mapping's column carries a date.
func (m ColumnMapping) DataTypeIsDate() bool { return m.DataType == DataTypeDate }
