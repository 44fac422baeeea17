// =============================================================================
// Register of Information Exporter - Row Fetcher / Normalizer
// =============================================================================
//
// Projects raw compliance records into the logical-row shape consumed by the
// validation engine and both codecs. For each template it:
//
//   1. Fetches the relevant source entities and their direct relations
//      (at most one join hop beyond the primary entity).
//   2. Applies each column mapping's transform to produce the column value.
//   3. Substitutes the registered smart default for any column whose
//      transform yields null, leaving the rest null.
//
// Row invariant: the key set of every produced row is exactly the template's
// declared column order - no extra keys, no missing keys (missing data is a
// nil value).
//
// The per-template builds are independent read-only queries with no ordering
// dependency, so they run concurrently and are joined before returning. A
// failed template build degrades to an empty template rather than aborting
// the snapshot; only a missing organization is fatal.
//
// =============================================================================

package normalizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/regtechlabs/roi-exporter/internal/logger"
	"github.com/regtechlabs/roi-exporter/internal/registry"
	"github.com/regtechlabs/roi-exporter/internal/store"
	"github.com/regtechlabs/roi-exporter/internal/types"
)

// maxConcurrentBuilds bounds the number of template builds in flight.
const maxConcurrentBuilds = 4

// Normalizer builds the per-template logical row sets for one export run.
type Normalizer struct {
	ds store.DataSource
}

// New creates a Normalizer over a data source.
func New(ds store.DataSource) *Normalizer {
	return &Normalizer{ds: ds}
}

// =============================================================================
// SNAPSHOT FETCH
// =============================================================================

// Fetch produces the full point-in-time dataset for one export run. All
// per-template builds are issued concurrently and joined before returning.
func (n *Normalizer) Fetch(ctx context.Context, params types.ExportParams) (types.Dataset, error) {
	org, err := n.ds.FetchOrganization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("no organization configured")
	}

	type build struct {
		id types.TemplateID
		fn func(context.Context, *store.Organization, types.ExportParams) ([]types.LogicalRow, error)
	}

	builds := []build{
		{types.TemplateEntityRegister, n.buildEntityRegister},
		{types.TemplateEntitiesInScope, n.buildEntitiesInScope},
		{types.TemplateBranches, n.buildBranches},
		{types.TemplateContractOverview, n.buildContractOverview},
		{types.TemplateContractDetails, n.buildContractDetails},
		{types.TemplateIntraGroup, n.buildIntraGroup},
		{types.TemplateContractEntity, n.buildContractEntity},
		{types.TemplateServiceRecipients, n.buildServiceRecipients},
		{types.TemplateSigningProviders, n.buildSigningProviders},
		{types.TemplateEntitiesUsing, n.buildEntitiesUsing},
		{types.TemplateProviders, n.buildProviders},
		{types.TemplateSubcontracting, n.buildSubcontracting},
		{types.TemplateCriticalFunctions, n.buildCriticalFunctions},
		{types.TemplateExitArrangements, n.buildExitArrangements},
		{types.TemplateLookup, n.buildLookup},
	}

	dataset := make(types.Dataset, len(builds))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentBuilds)

	for _, b := range builds {
		wg.Add(1)
		go func(b build) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rows, err := b.fn(ctx, org, params)
			if err != nil {
				// A single template's data error degrades to an empty
				// template; the export proceeds.
				logger.L.Warn("Template fetch failed, continuing with empty template",
					"template", string(b.id), "error", err)
				rows = nil
			}
			mu.Lock()
			dataset[b.id] = rows
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	return dataset, nil
}

// =============================================================================
// MAPPING APPLICATION
// =============================================================================

// newRow returns a row with the template's full column set, all nil.
func newRow(t types.TemplateID) types.LogicalRow {
	cols := registry.ColumnOrder(t)
	row := make(types.LogicalRow, len(cols))
	for _, c := range cols {
		row[c] = nil
	}
	return row
}

// mapRecord applies a template's column mappings to one source record,
// then substitutes smart defaults for columns that resolved to null.
func mapRecord(t types.TemplateID, record map[string]types.Value) types.LogicalRow {
	row := newRow(t)
	for _, m := range registry.Mappings(t) {
		v := registry.ApplyTransform(m.Transform, record[m.SourceField], m.Constant)
		if types.IsNull(v) {
			if def := registry.DefaultFor(t, m.Code); def != nil {
				v = def
			} else {
				v = nil
			}
		}
		row[m.Code] = v
	}
	return row
}

// floatValue converts an optional numeric into a Value.
func floatValue(f *float64) types.Value {
	if f == nil {
		return nil
	}
	return *f
}

// boolValue converts an optional boolean into a Value.
func boolValue(b *bool) types.Value {
	if b == nil {
		return nil
	}
	return *b
}

// strValue converts a string into a Value, mapping "" to nil.
func strValue(s string) types.Value {
	if s == "" {
		return nil
	}
	return s
}

// =============================================================================
// MAPPED TEMPLATE BUILDERS
// =============================================================================

func orgRecord(org *store.Organization, params types.ExportParams) map[string]types.Value {
	return map[string]types.Value{
		"lei":                 strValue(org.LEI),
		"name":                strValue(org.Name),
		"country":             strValue(org.Country),
		"entity_type":         strValue(org.EntityType),
		"competent_authority": strValue(org.CompetentAuthority),
		"parent_lei":          strValue(org.ParentLEI),
		"total_assets":        floatValue(org.TotalAssets),
		"last_update":         strValue(org.LastUpdate),
		"reporting_date":      strValue(params.ReportingPeriod),
	}
}

func (n *Normalizer) buildEntityRegister(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	return []types.LogicalRow{mapRecord(types.TemplateEntityRegister, orgRecord(org, params))}, nil
}

// buildEntitiesInScope covers the full scope of consolidation, one row per
// organization, not just the reporting entity.
func (n *Normalizer) buildEntitiesInScope(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	orgs, err := n.ds.FetchOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(orgs))
	for i := range orgs {
		rows = append(rows, mapRecord(types.TemplateEntitiesInScope, orgRecord(&orgs[i], params)))
	}
	return rows, nil
}

func (n *Normalizer) buildBranches(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	branches, err := n.ds.FetchBranches(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(branches))
	for _, b := range branches {
		headOffice := b.HeadOfficeLEI
		if headOffice == "" {
			headOffice = org.LEI
		}
		rows = append(rows, mapRecord(types.TemplateBranches, map[string]types.Value{
			"identification_code": strValue(b.Code),
			"name":                strValue(b.Name),
			"head_office_lei":     strValue(headOffice),
			"country":             strValue(b.Country),
		}))
	}
	return rows, nil
}

func contractRecord(c store.Contract) map[string]types.Value {
	return map[string]types.Value{
		"ref":                     strValue(c.Ref),
		"arrangement_type":        strValue(c.ArrangementType),
		"overarching_ref":         strValue(c.OverarchingRef),
		"currency":                strValue(c.Currency),
		"annual_cost":             floatValue(c.AnnualCost),
		"start_date":              strValue(c.StartDate),
		"end_date":                strValue(c.EndDate),
		"notice_period_entity":    floatValue(c.NoticePeriodEntity),
		"notice_period_provider":  floatValue(c.NoticePeriodProvider),
		"termination_reason":      strValue(c.TerminationReason),
		"governing_law_country":   strValue(c.GoverningLawCountry),
		"provider_id":             strValue(c.VendorLEI),
		"service_type":            strValue(c.ServiceType),
		"country_of_provision":    strValue(c.CountryOfProvision),
		"stores_data":             boolValue(c.StoresData),
		"data_sensitivity":        strValue(c.DataSensitivity),
		"criticality":             strValue(c.Criticality),
		"substitutability":        strValue(c.Substitutability),
		"substitutability_reason": strValue(c.SubstitutabilityReason),
		"last_audit_date":         strValue(c.LastAuditDate),
		"exit_plan_exists":        boolValue(c.ExitPlanExists),
		"reintegration":           strValue(c.Reintegration),
		"impact":                  strValue(c.Impact),
		"alternatives_identified": boolValue(c.AlternativesIdentified),
	}
}

func (n *Normalizer) buildContractOverview(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, mapRecord(types.TemplateContractOverview, contractRecord(c)))
	}
	return rows, nil
}

func (n *Normalizer) buildContractDetails(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, mapRecord(types.TemplateContractDetails, contractRecord(c)))
	}
	return rows, nil
}

func (n *Normalizer) buildEntitiesUsing(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(contracts))
	for _, c := range contracts {
		record := orgRecord(org, params)
		record["ref"] = strValue(c.Ref)
		rows = append(rows, mapRecord(types.TemplateEntitiesUsing, record))
	}
	return rows, nil
}

func (n *Normalizer) buildProviders(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	vendors, err := n.ds.FetchVendors(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, mapRecord(types.TemplateProviders, map[string]types.Value{
			"provider_id":          strValue(v.LEI),
			"identifier_type":      strValue(v.IdentifierType),
			"additional_code":      strValue(v.AdditionalCode),
			"name":                 strValue(v.Name),
			"person_type":          strValue(v.PersonType),
			"parent_provider_id":   strValue(v.ParentLEI),
			"cost_currency":        strValue(v.CostCurrency),
			"headquarters_country": strValue(v.HQCountry),
			"total_annual_expense": floatValue(v.TotalAnnualSpend),
		}))
	}
	return rows, nil
}

func (n *Normalizer) buildSubcontracting(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	subs, err := n.ds.FetchSubcontractors(ctx)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	// One join hop: service type comes from the referenced contract.
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	serviceByRef := make(map[string]string, len(contracts))
	for _, c := range contracts {
		serviceByRef[c.Ref] = c.ServiceType
	}

	rows := make([]types.LogicalRow, 0, len(subs))
	for _, sc := range subs {
		rows = append(rows, mapRecord(types.TemplateSubcontracting, map[string]types.Value{
			"ref":                  strValue(sc.ContractRef),
			"service_type":         strValue(serviceByRef[sc.ContractRef]),
			"rank":                 sc.Rank,
			"provider_id":          strValue(sc.ProviderLEI),
			"upstream_provider_id": strValue(sc.UpstreamLEI),
		}))
	}
	return rows, nil
}

func (n *Normalizer) buildCriticalFunctions(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	functions, err := n.ds.FetchFunctions(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(functions))
	for _, f := range functions {
		rows = append(rows, mapRecord(types.TemplateCriticalFunctions, map[string]types.Value{
			"function_id":       strValue(f.FunctionID),
			"name":              strValue(f.Name),
			"licensed_activity": strValue(f.LicensedActivity),
			"criticality":       strValue(f.Criticality),
			"reason_critical":   strValue(f.ReasonCritical),
			"last_assessment":   strValue(f.LastAssessment),
			"contract_ref":      strValue(f.ContractRef),
		}))
	}
	return rows, nil
}

func (n *Normalizer) buildExitArrangements(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, mapRecord(types.TemplateExitArrangements, contractRecord(c)))
	}
	return rows, nil
}

// =============================================================================
// DERIVED TEMPLATE BUILDERS
// =============================================================================
//
// Derived templates carry no declarative mappings; their rows come from
// relationship joins. They still honor the row key-set invariant via newRow.

func (n *Normalizer) buildIntraGroup(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	var rows []types.LogicalRow
	for _, c := range contracts {
		if !c.IntraGroup && c.OverarchingRef == "" {
			continue
		}
		row := newRow(types.TemplateIntraGroup)
		row["c0010"] = strValue(c.Ref)
		row["c0020"] = strValue(c.OverarchingRef)
		if c.IntraGroup {
			row["c0030"] = "intra_group"
		} else {
			row["c0030"] = "subsequent_arrangement"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (n *Normalizer) buildContractEntity(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(contracts))
	for _, c := range contracts {
		row := newRow(types.TemplateContractEntity)
		row["c0010"] = strValue(c.Ref)
		row["c0020"] = strValue(org.LEI)
		rows = append(rows, row)
	}
	return rows, nil
}

func (n *Normalizer) buildServiceRecipients(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]types.LogicalRow, 0, len(contracts))
	for _, c := range contracts {
		row := newRow(types.TemplateServiceRecipients)
		row["c0010"] = strValue(c.Ref)
		row["c0020"] = strValue(org.LEI)
		row["c0030"] = "direct"
		rows = append(rows, row)
	}
	return rows, nil
}

func (n *Normalizer) buildSigningProviders(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	contracts, err := n.ds.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	var rows []types.LogicalRow
	for _, c := range contracts {
		if c.VendorLEI == "" {
			continue
		}
		row := newRow(types.TemplateSigningProviders)
		row["c0010"] = strValue(c.Ref)
		row["c0020"] = strValue(c.VendorLEI)
		rows = append(rows, row)
	}
	return rows, nil
}

// buildLookup emits the B_99.01 definitions sheet: the fixed definitions the
// reporting entity attaches to the register.
func (n *Normalizer) buildLookup(ctx context.Context, org *store.Organization, params types.ExportParams) ([]types.LogicalRow, error) {
	definitions := []struct{ term, text string }{
		{"critical_or_important_function", "Function whose disruption would materially impair the financial performance, soundness or continuity of the entity's services."},
		{"ict_third_party_service_provider", "Undertaking providing ICT services to the financial entity under a contractual arrangement."},
		{"ict_service_supply_chain", "Chain of subcontractors effectively underpinning the provision of an ICT service."},
	}
	rows := make([]types.LogicalRow, 0, len(definitions))
	for _, d := range definitions {
		row := newRow(types.TemplateLookup)
		row["c0010"] = strValue(org.LEI)
		row["c0020"] = d.term
		row["c0030"] = d.text
		rows = append(rows, row)
	}
	return rows, nil
}
