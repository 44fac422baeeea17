// =============================================================================
// Register of Information Exporter - Code Domain Tables
// =============================================================================
//
// Static enumerations translating internal semantic values into the
// regulator-defined codes used in the RoI templates. Pure lookup, no state.
//
// Every lookup has a documented fallback so that a required enumeration
// column never resolves to null: an unmapped country becomes the "unknown"
// sentinel, an unmapped currency falls back to EUR, and so on.
//
// =============================================================================

package registry

import "strings"

// =============================================================================
// GEOGRAPHIC AREA (eba_GA)
// =============================================================================

// UnknownCountryCode is the sentinel emitted when an internal country value
// has no mapping.
const UnknownCountryCode = "eba_GA:XX"

// countryCodes maps ISO 3166-1 alpha-2 codes to the regulator's geographic
// area members.
var countryCodes = map[string]string{
	"AT": "eba_GA:AT", "BE": "eba_GA:BE", "BG": "eba_GA:BG", "HR": "eba_GA:HR",
	"CY": "eba_GA:CY", "CZ": "eba_GA:CZ", "DK": "eba_GA:DK", "EE": "eba_GA:EE",
	"FI": "eba_GA:FI", "FR": "eba_GA:FR", "DE": "eba_GA:DE", "GR": "eba_GA:GR",
	"HU": "eba_GA:HU", "IE": "eba_GA:IE", "IT": "eba_GA:IT", "LV": "eba_GA:LV",
	"LT": "eba_GA:LT", "LU": "eba_GA:LU", "MT": "eba_GA:MT", "NL": "eba_GA:NL",
	"PL": "eba_GA:PL", "PT": "eba_GA:PT", "RO": "eba_GA:RO", "SK": "eba_GA:SK",
	"SI": "eba_GA:SI", "ES": "eba_GA:ES", "SE": "eba_GA:SE", "IS": "eba_GA:IS",
	"LI": "eba_GA:LI", "NO": "eba_GA:NO", "GB": "eba_GA:GB", "CH": "eba_GA:CH",
	"US": "eba_GA:US", "CA": "eba_GA:CA", "JP": "eba_GA:JP", "CN": "eba_GA:CN",
	"IN": "eba_GA:IN", "AU": "eba_GA:AU", "BR": "eba_GA:BR", "SG": "eba_GA:SG",
	"HK": "eba_GA:HK", "KR": "eba_GA:KR", "MX": "eba_GA:MX", "ZA": "eba_GA:ZA",
	"AE": "eba_GA:AE", "TR": "eba_GA:TR", "UA": "eba_GA:UA", "RS": "eba_GA:RS",
}

// CountryCode translates an internal ISO country value into the regulator's
// geographic area code. Unmapped values yield the unknown-country sentinel,
// never an empty string.
func CountryCode(iso2 string) string {
	if code, ok := countryCodes[strings.ToUpper(strings.TrimSpace(iso2))]; ok {
		return code
	}
	return UnknownCountryCode
}

// =============================================================================
// CURRENCY (eba_CU)
// =============================================================================

// DefaultCurrencyCode is the fallback for unmapped currencies.
const DefaultCurrencyCode = "eba_CU:EUR"

var currencyCodes = map[string]string{
	"EUR": "eba_CU:EUR", "USD": "eba_CU:USD", "GBP": "eba_CU:GBP",
	"CHF": "eba_CU:CHF", "SEK": "eba_CU:SEK", "NOK": "eba_CU:NOK",
	"DKK": "eba_CU:DKK", "PLN": "eba_CU:PLN", "CZK": "eba_CU:CZK",
	"HUF": "eba_CU:HUF", "RON": "eba_CU:RON", "BGN": "eba_CU:BGN",
	"JPY": "eba_CU:JPY", "CNY": "eba_CU:CNY", "AUD": "eba_CU:AUD",
	"CAD": "eba_CU:CAD", "SGD": "eba_CU:SGD", "HKD": "eba_CU:HKD",
	"INR": "eba_CU:INR", "ISK": "eba_CU:ISK",
}

// CurrencyCode translates an ISO 4217 currency into the regulator's
// currency member, defaulting to EUR when unmapped.
func CurrencyCode(iso3 string) string {
	if code, ok := currencyCodes[strings.ToUpper(strings.TrimSpace(iso3))]; ok {
		return code
	}
	return DefaultCurrencyCode
}

// =============================================================================
// ENTITY TYPE (eba_CT)
// =============================================================================

var entityTypeCodes = map[string]string{
	"credit_institution":     "eba_CT:x12",
	"payment_institution":    "eba_CT:x599",
	"emoney_institution":     "eba_CT:x643",
	"investment_firm":        "eba_CT:x639",
	"insurance_undertaking":  "eba_CT:x28",
	"crypto_asset_provider":  "eba_CT:x644",
	"fund_manager":           "eba_CT:x645",
	"trading_venue":          "eba_CT:x646",
	"other_financial_entity": "eba_CT:x999",
}

// DefaultEntityTypeCode covers internal entity types outside the mapped set.
const DefaultEntityTypeCode = "eba_CT:x999"

// EntityTypeCode translates an internal entity-type value.
func EntityTypeCode(v string) string {
	if code, ok := entityTypeCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultEntityTypeCode
}

// =============================================================================
// ICT SERVICE TYPE (eba_TA)
// =============================================================================

var serviceTypeCodes = map[string]string{
	"ict_project_management": "eba_TA:S01",
	"development":            "eba_TA:S02",
	"consulting":             "eba_TA:S03",
	"operations":             "eba_TA:S04",
	"security":               "eba_TA:S05",
	"provision_of_data":      "eba_TA:S06",
	"data_analysis":          "eba_TA:S07",
	"facilities":             "eba_TA:S08",
	"telecom":                "eba_TA:S09",
	"network_infrastructure": "eba_TA:S10",
	"hardware":               "eba_TA:S11",
	"software_licensing":     "eba_TA:S12",
	"payment_services":       "eba_TA:S13",
	"payment_infrastructure": "eba_TA:S14",
	"cloud_iaas":             "eba_TA:S15",
	"cloud_paas":             "eba_TA:S16",
	"cloud_saas":             "eba_TA:S17",
	"managed_services":       "eba_TA:S18",
	"other":                  "eba_TA:S19",
}

// DefaultServiceTypeCode is the catch-all "other services" member.
const DefaultServiceTypeCode = "eba_TA:S19"

// ServiceTypeCode translates an internal ICT service type.
func ServiceTypeCode(v string) string {
	if code, ok := serviceTypeCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultServiceTypeCode
}

// =============================================================================
// ASSESSMENT SCALES (eba_ZZ)
// =============================================================================

// Criticality of the supported function ("is this critical or important").
var criticalityCodes = map[string]string{
	"yes":            "eba_ZZ:x794",
	"no":             "eba_ZZ:x795",
	"not_assessed":   "eba_ZZ:x796",
	"assessment_due": "eba_ZZ:x797",
}

const DefaultCriticalityCode = "eba_ZZ:x796"

func CriticalityCode(v string) string {
	if code, ok := criticalityCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultCriticalityCode
}

// Impact of discontinuing the ICT service.
var impactCodes = map[string]string{
	"low":          "eba_ZZ:x772",
	"medium":       "eba_ZZ:x773",
	"high":         "eba_ZZ:x774",
	"not_assessed": "eba_ZZ:x775",
}

const DefaultImpactCode = "eba_ZZ:x775"

func ImpactCode(v string) string {
	if code, ok := impactCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultImpactCode
}

// Substitutability of the provider.
var substitutabilityCodes = map[string]string{
	"easy":              "eba_ZZ:x801",
	"difficult":         "eba_ZZ:x802",
	"highly_complex":    "eba_ZZ:x803",
	"not_substitutable": "eba_ZZ:x804",
}

const DefaultSubstitutabilityCode = "eba_ZZ:x802"

func SubstitutabilityCode(v string) string {
	if code, ok := substitutabilityCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultSubstitutabilityCode
}

// Difficulty of reintegrating the service in-house.
var reintegrationCodes = map[string]string{
	"easy":           "eba_ZZ:x805",
	"difficult":      "eba_ZZ:x806",
	"highly_complex": "eba_ZZ:x807",
}

const DefaultReintegrationCode = "eba_ZZ:x806"

func ReintegrationCode(v string) string {
	if code, ok := reintegrationCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultReintegrationCode
}

// Sensitivity of the data stored or processed by the provider.
var sensitivityCodes = map[string]string{
	"low":    "eba_ZZ:x810",
	"medium": "eba_ZZ:x811",
	"high":   "eba_ZZ:x812",
}

const DefaultSensitivityCode = "eba_ZZ:x811"

func SensitivityCode(v string) string {
	if code, ok := sensitivityCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultSensitivityCode
}

// =============================================================================
// PERSON TYPE AND BOOLEANS
// =============================================================================

var personTypeCodes = map[string]string{
	"legal_person":   "eba_PT:x212",
	"natural_person": "eba_PT:x213",
}

const DefaultPersonTypeCode = "eba_PT:x212"

func PersonTypeCode(v string) string {
	if code, ok := personTypeCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultPersonTypeCode
}

// Identifier type for providers (LEI vs. other registers).
var identifierTypeCodes = map[string]string{
	"lei":  "eba_qCO:qx2000",
	"euid": "eba_qCO:qx2001",
	"crn":  "eba_qCO:qx2002",
}

const DefaultIdentifierTypeCode = "eba_qCO:qx2000"

func IdentifierTypeCode(v string) string {
	if code, ok := identifierTypeCodes[normalizeKey(v)]; ok {
		return code
	}
	return DefaultIdentifierTypeCode
}

// BooleanCode translates an internal boolean into the regulator's
// yes/no members.
func BooleanCode(b bool) string {
	if b {
		return "eba_BT:x1"
	}
	return "eba_BT:x2"
}

// =============================================================================
// HELPERS
// =============================================================================

// normalizeKey lower-cases and underscores an internal semantic value so
// lookups tolerate "Cloud SaaS", "cloud_saas" and "CLOUD-SAAS" alike.
func normalizeKey(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.ReplaceAll(v, " ", "_")
	v = strings.ReplaceAll(v, "-", "_")
	return v
}
