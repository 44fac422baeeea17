// =============================================================================
// Register of Information Exporter - Export Orchestrator Tests
// =============================================================================

package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regtechlabs/roi-exporter/internal/config"
	"github.com/regtechlabs/roi-exporter/internal/csvcodec"
	"github.com/regtechlabs/roi-exporter/internal/store"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

const (
	orgLEI    = "549300ABCDEFGHIJKL12"
	vendorLEI = "549300MNOPQRSTUVWX34"
)

type fakeSource struct {
	org            *store.Organization
	vendors        []store.Vendor
	contracts      []store.Contract
	functions      []store.Function
	branches       []store.Branch
	subcontractors []store.Subcontractor
}

func (f *fakeSource) FetchOrganization(ctx context.Context) (*store.Organization, error) {
	return f.org, nil
}
func (f *fakeSource) FetchOrganizations(ctx context.Context) ([]store.Organization, error) {
	if f.org == nil {
		return nil, nil
	}
	return []store.Organization{*f.org}, nil
}
func (f *fakeSource) FetchVendors(ctx context.Context) ([]store.Vendor, error) {
	return f.vendors, nil
}
func (f *fakeSource) FetchContracts(ctx context.Context) ([]store.Contract, error) {
	return f.contracts, nil
}
func (f *fakeSource) FetchFunctions(ctx context.Context) ([]store.Function, error) {
	return f.functions, nil
}
func (f *fakeSource) FetchBranches(ctx context.Context) ([]store.Branch, error) {
	return f.branches, nil
}
func (f *fakeSource) FetchSubcontractors(ctx context.Context) ([]store.Subcontractor, error) {
	return f.subcontractors, nil
}

func fixtureSource() *fakeSource {
	return &fakeSource{
		org: &store.Organization{
			LEI:        orgLEI,
			Name:       "Test Bank AG",
			Country:    "DE",
			EntityType: "credit_institution",
		},
		vendors: []store.Vendor{{
			ID:         1,
			LEI:        vendorLEI,
			Name:       "Cloud Provider Ltd",
			PersonType: "legal_person",
			HQCountry:  "DE",
		}},
		contracts: []store.Contract{{
			ID:              1,
			Ref:             "CTR-001",
			VendorID:        1,
			VendorLEI:       vendorLEI,
			ArrangementType: "standalone",
			ServiceType:     "cloud_saas",
			StartDate:       "2024-01-01",
			Currency:        "EUR",
			// No end date: the arrangement is open-ended.
		}},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		EntityLEI:        orgLEI,
		EntityName:       "Test Bank AG",
		ReportingPeriod:  "2025-12-31",
		BaseCurrency:     "EUR",
		DecimalsInteger:  0,
		DecimalsMonetary: 2,
	}
}

func fixedTime() *time.Time {
	t := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	return &t
}

// =============================================================================
// END-TO-END RUN
// =============================================================================

func TestRunBothFormats(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	result := orch.Run(context.Background(), Options{
		Format:    FormatBoth,
		Overrides: Overrides{GeneratedAt: fixedTime()},
	})

	require.True(t, result.Success, "export failed: %s", result.Error)
	require.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Report)
	require.NotNil(t, result.CSV)
	require.NotNil(t, result.XML)
	require.NotNil(t, result.XMLValidation)
	assert.True(t, result.XMLValidation.OK())

	// A well-kept register validates cleanly.
	assert.Empty(t, result.Report.FindingsFor(types.TemplateEntityRegister))
	assert.Empty(t, result.Report.FindingsFor(types.TemplateProviders))
	assert.True(t, result.Report.IsValid)
}

func TestRunCSVContent(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	result := orch.Run(context.Background(), Options{
		Format:    FormatCSV,
		Overrides: Overrides{GeneratedAt: fixedTime()},
	})
	require.True(t, result.Success, "export failed: %s", result.Error)
	require.NotNil(t, result.CSV)
	assert.Nil(t, result.XML)

	assert.Equal(t, orgLEI+"_DORA_2025-12-31_20260115_103000.zip", result.CSV.Filename)

	parsed, meta, err := csvcodec.ReadPackage(result.CSV.Data)
	require.NoError(t, err)
	assert.Equal(t, orgLEI, meta.EntityID)

	providers := parsed[types.TemplateProviders]
	require.Len(t, providers, 1)
	// The vendor's headquarters country lands as a regulator code.
	assert.Equal(t, "eba_GA:DE", providers[0]["c0080"])
}

func TestRunXMLContent(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	result := orch.Run(context.Background(), Options{
		Format:    FormatXML,
		Overrides: Overrides{GeneratedAt: fixedTime()},
	})
	require.True(t, result.Success, "export failed: %s", result.Error)
	require.NotNil(t, result.XML)
	assert.Nil(t, result.CSV)

	assert.Equal(t, orgLEI+"_DORA_2025-12-31_20260115_103000.xml", result.XML.Filename)
	assert.Contains(t, result.XML.Document, "<eba_met:mic0080")
	assert.Contains(t, result.XML.Document, ">eba_GA:DE</eba_met:mic0080>")
	// The open-ended contract has no expiry: no fact for B_02.01 c0070.
	assert.NotContains(t, result.XML.Document, "dic0070")
	assert.NotEmpty(t, result.XML.TaxonomyPackage)
}

func TestRunDeterministicOutput(t *testing.T) {
	orch := New(testConfig(), fixtureSource())
	opts := Options{Format: FormatBoth, Overrides: Overrides{GeneratedAt: fixedTime()}}

	first := orch.Run(context.Background(), opts)
	second := orch.Run(context.Background(), opts)
	require.True(t, first.Success)
	require.True(t, second.Success)

	assert.Equal(t, first.CSV.Data, second.CSV.Data)
	assert.Equal(t, first.XML.Document, second.XML.Document)
}

func TestRunSkipValidation(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	result := orch.Run(context.Background(), Options{
		Format:         FormatCSV,
		SkipValidation: true,
		Overrides:      Overrides{GeneratedAt: fixedTime()},
	})
	require.True(t, result.Success)
	assert.Nil(t, result.Report)
	assert.NotNil(t, result.CSV)
}

func TestRunReviewWorkbook(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	result := orch.Run(context.Background(), Options{
		Format:         FormatCSV,
		ReviewWorkbook: true,
		Overrides:      Overrides{GeneratedAt: fixedTime()},
	})
	require.True(t, result.Success)
	require.NotNil(t, result.Workbook)
	assert.True(t, strings.HasSuffix(result.Workbook.Filename, "_review.xlsx"))
	assert.NotEmpty(t, result.Workbook.Data)
}

func TestRunMissingLEIIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.EntityLEI = ""
	orch := New(cfg, fixtureSource())

	result := orch.Run(context.Background(), Options{Format: FormatCSV})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "LEI")
	assert.Nil(t, result.CSV)
}

func TestRunMissingOrganizationIsFatal(t *testing.T) {
	orch := New(testConfig(), &fakeSource{})

	result := orch.Run(context.Background(), Options{Format: FormatCSV})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no organization configured")
}

// =============================================================================
// VALIDATION RUN
// =============================================================================

func TestValidateMatchesExportJudgment(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	report, err := orch.Validate(context.Background(), Overrides{})
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Findings)
}

func TestValidateDefaultsEmptyReportingPeriod(t *testing.T) {
	// With no period configured, validation must apply the same previous
	// year-end default as an export run, so B_01.01's reporting date (fed
	// from the period parameter) never reports a spurious required error.
	cfg := testConfig()
	cfg.ReportingPeriod = ""
	orch := New(cfg, fixtureSource())

	report, err := orch.Validate(context.Background(), Overrides{GeneratedAt: fixedTime()})
	require.NoError(t, err)
	assert.Empty(t, report.FindingsFor(types.TemplateEntityRegister))
	assert.True(t, report.IsValid)
}

// =============================================================================
// PARAMETER OVERRIDES
// =============================================================================

func TestOverridesApply(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	p := orch.buildParams(Overrides{
		ReportingPeriod: "2024-12-31",
		BaseCurrency:    "USD",
	})
	assert.Equal(t, "2024-12-31", p.ReportingPeriod)
	assert.Equal(t, "USD", p.BaseCurrency)
	assert.Equal(t, orgLEI, p.EntityID)
}

func TestDefaultReportingPeriod(t *testing.T) {
	cfg := testConfig()
	cfg.ReportingPeriod = ""
	orch := New(cfg, fixtureSource())

	p := orch.buildParams(Overrides{GeneratedAt: fixedTime()})
	// Defaults to the last day of the previous year.
	assert.Equal(t, "2025-12-31", p.ReportingPeriod)
}

// =============================================================================
// READINESS
// =============================================================================

func TestReadinessReady(t *testing.T) {
	orch := New(testConfig(), fixtureSource())

	r, err := orch.CheckReadiness(context.Background(), Overrides{})
	require.NoError(t, err)
	assert.True(t, r.Ready)
	assert.Empty(t, r.Issues)
	// Optional templates with no data surface as warnings only.
	assert.NotEmpty(t, r.Warnings)
}

func TestReadinessMissingLEI(t *testing.T) {
	cfg := testConfig()
	cfg.EntityLEI = ""
	orch := New(cfg, fixtureSource())

	r, err := orch.CheckReadiness(context.Background(), Overrides{})
	require.NoError(t, err)
	assert.False(t, r.Ready)
	assert.Contains(t, r.Issues, "entity LEI is not configured")
}

func TestReadinessMalformedLEI(t *testing.T) {
	cfg := testConfig()
	cfg.EntityLEI = "not-a-lei"
	orch := New(cfg, fixtureSource())

	r, err := orch.CheckReadiness(context.Background(), Overrides{})
	require.NoError(t, err)
	assert.False(t, r.Ready)
}

func TestReadinessMissingRequiredTemplate(t *testing.T) {
	src := fixtureSource()
	src.vendors = nil // B_05.01 is a required template
	orch := New(testConfig(), src)

	r, err := orch.CheckReadiness(context.Background(), Overrides{})
	require.NoError(t, err)
	assert.False(t, r.Ready)
	assert.Contains(t, r.Issues, "required template B_05.01 has no data")
}
