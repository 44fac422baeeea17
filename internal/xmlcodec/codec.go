// =============================================================================
// Register of Information Exporter - XBRL-XML Codec
// =============================================================================
//
// Emits one XBRL instance document for the full dataset. Structure per
// template row:
//
//   <xbrli:context id="b_05_01_0">          <!-- deterministic context id -->
//     <xbrli:entity>
//       <xbrli:identifier scheme="...iso/17442">LEI</xbrli:identifier>
//     </xbrli:entity>
//     <xbrli:period><xbrli:instant>2025-12-31</xbrli:instant></xbrli:period>
//     <xbrli:scenario>
//       <xbrldi:explicitMember dimension="eba_dim:BAS">eba_tB_05.01</xbrldi:explicitMember>
//     </xbrli:scenario>
//   </xbrli:context>
//
// plus one fact element per non-null column:
//
//   <eba_met:mic0080 contextRef="b_05_01_0">eba_GA:DE</eba_met:mic0080>
//
// Monetary facts carry a currency unitRef and an explicit decimals
// attribute. Null/empty values are omitted entirely - no empty facts.
//
// The document is composed manually rather than through encoding/xml: the
// taxonomy mandates exact element order, fixed namespace prefixes and
// dimension nesting that the marshaller cannot express.
//
// =============================================================================

package xmlcodec

import (
	"fmt"
	"strings"

	"github.com/regtechlabs/roi-exporter/internal/format"
	"github.com/regtechlabs/roi-exporter/internal/registry"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

// Fixed taxonomy and namespace locations.
const (
	schemaRefHref = "http://www.eba.europa.eu/eu/fr/xbrl/crr/fws/dora/4.0/mod/dora.xsd"
	leiScheme     = "http://standards.iso.org/iso/17442"

	nsXBRLI   = "http://www.xbrl.org/2003/instance"
	nsLink    = "http://www.xbrl.org/2003/linkbase"
	nsXLink   = "http://www.w3.org/1999/xlink"
	nsISO4217 = "http://www.xbrl.org/2003/iso4217"
	nsXBRLDI  = "http://xbrl.org/2006/xbrldi"
	nsEBAMet  = "http://www.eba.europa.eu/xbrl/crr/dict/met"
	nsEBADim  = "http://www.eba.europa.eu/xbrl/crr/dict/dim"
	nsEBATyp  = "http://www.eba.europa.eu/xbrl/crr/dict/typ"
)

// Encode serializes the dataset into an XBRL instance document.
func Encode(dataset types.Dataset, params types.ExportParams) *types.Instance {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<xbrli:xbrl`)
	for _, ns := range [][2]string{
		{"xbrli", nsXBRLI},
		{"link", nsLink},
		{"xlink", nsXLink},
		{"iso4217", nsISO4217},
		{"xbrldi", nsXBRLDI},
		{"eba_met", nsEBAMet},
		{"eba_dim", nsEBADim},
		{"eba_typ", nsEBATyp},
	} {
		b.WriteString(fmt.Sprintf("\n    xmlns:%s=\"%s\"", ns[0], ns[1]))
	}
	b.WriteString(">\n")

	b.WriteString(fmt.Sprintf("  <link:schemaRef xlink:type=\"simple\" xlink:href=\"%s\"/>\n", schemaRefHref))

	writeUnits(&b, params)

	// Contexts first, then facts, both in template submission order so the
	// document is deterministic.
	for _, t := range types.AllTemplates {
		for i := range dataset[t] {
			writeContext(&b, t, i, params)
		}
	}
	for _, t := range types.AllTemplates {
		for i, row := range dataset[t] {
			writeFacts(&b, t, i, row, params)
		}
	}

	b.WriteString("</xbrli:xbrl>\n")

	return &types.Instance{
		Filename:        fmt.Sprintf("%s_DORA_%s_%s.xml", params.EntityID, params.ReportingPeriod, params.Timestamp()),
		Document:        b.String(),
		TaxonomyPackage: TaxonomyPackage(params),
	}
}

// writeUnits declares the configured currency unit and the dimensionless
// "pure" unit.
func writeUnits(b *strings.Builder, params types.ExportParams) {
	currency := strings.ToUpper(params.BaseCurrency)
	b.WriteString(fmt.Sprintf("  <xbrli:unit id=\"u%s\">\n", currency))
	b.WriteString(fmt.Sprintf("    <xbrli:measure>iso4217:%s</xbrli:measure>\n", currency))
	b.WriteString("  </xbrli:unit>\n")
	b.WriteString("  <xbrli:unit id=\"uPure\">\n")
	b.WriteString("    <xbrli:measure>xbrli:pure</xbrli:measure>\n")
	b.WriteString("  </xbrli:unit>\n")
}

// contextID builds the deterministic per-row context id: template stem plus
// row index.
func contextID(t types.TemplateID, rowIndex int) string {
	return fmt.Sprintf("%s_%d", t.FileStem(), rowIndex)
}

func writeContext(b *strings.Builder, t types.TemplateID, rowIndex int, params types.ExportParams) {
	b.WriteString(fmt.Sprintf("  <xbrli:context id=\"%s\">\n", contextID(t, rowIndex)))
	b.WriteString("    <xbrli:entity>\n")
	b.WriteString(fmt.Sprintf("      <xbrli:identifier scheme=\"%s\">%s</xbrli:identifier>\n",
		leiScheme, EscapeXML(params.EntityID)))
	b.WriteString("    </xbrli:entity>\n")
	b.WriteString("    <xbrli:period>\n")
	b.WriteString(fmt.Sprintf("      <xbrli:instant>%s</xbrli:instant>\n", EscapeXML(params.ReportingPeriod)))
	b.WriteString("    </xbrli:period>\n")
	b.WriteString("    <xbrli:scenario>\n")
	b.WriteString(fmt.Sprintf("      <xbrldi:explicitMember dimension=\"eba_dim:BAS\">%s</xbrldi:explicitMember>\n",
		EscapeXML(registry.Concept(t))))
	b.WriteString("    </xbrli:scenario>\n")
	b.WriteString("  </xbrli:context>\n")
}

// writeFacts emits one fact element per populated column of a row.
func writeFacts(b *strings.Builder, t types.TemplateID, rowIndex int, row types.LogicalRow, params types.ExportParams) {
	ctxRef := contextID(t, rowIndex)
	for _, col := range registry.ColumnOrder(t) {
		v := row[col]
		if types.IsNull(v) {
			continue
		}

		metric := registry.MetricName(t, col)
		value := EscapeXML(format.Value(t, col, v, params))

		if format.IsMonetary(t, col) {
			b.WriteString(fmt.Sprintf("  <eba_met:%s contextRef=\"%s\" unitRef=\"u%s\" decimals=\"%d\">%s</eba_met:%s>\n",
				metric, ctxRef, strings.ToUpper(params.BaseCurrency), params.DecimalsMonetary, value, metric))
			continue
		}
		if _, ok := v.(float64); ok {
			b.WriteString(fmt.Sprintf("  <eba_met:%s contextRef=\"%s\" unitRef=\"uPure\" decimals=\"%d\">%s</eba_met:%s>\n",
				metric, ctxRef, params.DecimalsInteger, value, metric))
			continue
		}
		b.WriteString(fmt.Sprintf("  <eba_met:%s contextRef=\"%s\">%s</eba_met:%s>\n",
			metric, ctxRef, value, metric))
	}
}

// EscapeXML escapes the five XML special characters.
func EscapeXML(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// TAXONOMY PACKAGE DESCRIPTOR
// =============================================================================

// TaxonomyPackage returns the companion taxonomy-package descriptor for the
// instance document.
func TaxonomyPackage(params types.ExportParams) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<taxonomyPackage xmlns="http://xbrl.org/2016/taxonomy-package">` + "\n")
	b.WriteString("  <identifier>" + EscapeXML(schemaRefHref) + "</identifier>\n")
	b.WriteString("  <name>DORA Register of Information</name>\n")
	b.WriteString(fmt.Sprintf("  <version>%s</version>\n", EscapeXML(params.ReportingPeriod)))
	b.WriteString("  <entryPoints>\n")
	b.WriteString("    <entryPoint>\n")
	b.WriteString("      <name>Register of Information</name>\n")
	b.WriteString(fmt.Sprintf("      <entryPointDocument href=\"%s\"/>\n", schemaRefHref))
	b.WriteString("    </entryPoint>\n")
	b.WriteString("  </entryPoints>\n")
	b.WriteString("</taxonomyPackage>\n")
	return b.String()
}

// =============================================================================
// STRUCTURAL SELF-VALIDATION
// =============================================================================

// ValidateStructure performs a structural check of an emitted instance
// document. It returns errors (fatal for submission) and warnings
// (non-fatal) rather than failing: an invalid document is still returned
// to the caller, since "invalid but visible" beats an opaque failure.
func ValidateStructure(doc string) types.StructuralReport {
	var report types.StructuralReport

	if !strings.HasPrefix(doc, "<?xml") {
		report.Errors = append(report.Errors, "missing XML declaration")
	}
	if !strings.Contains(doc, "<xbrli:xbrl") {
		report.Errors = append(report.Errors, "missing xbrli:xbrl root element")
	}
	for _, ns := range []string{
		`xmlns:xbrli="` + nsXBRLI + `"`,
		`xmlns:link="` + nsLink + `"`,
		`xmlns:xlink="` + nsXLink + `"`,
	} {
		if !strings.Contains(doc, ns) {
			report.Errors = append(report.Errors, "missing required namespace declaration: "+ns)
		}
	}
	if !strings.Contains(doc, "<xbrli:context") {
		report.Errors = append(report.Errors, "document declares no contexts")
	}
	if !strings.Contains(doc, "<link:schemaRef") {
		report.Warnings = append(report.Warnings, "document declares no schema reference")
	}
	if !strings.Contains(doc, "</xbrli:xbrl>") {
		report.Errors = append(report.Errors, "missing closing xbrli:xbrl tag")
	}

	return report
}
