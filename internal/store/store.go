// =============================================================================
// Register of Information Exporter - Data Source Contract
// =============================================================================
//
// The export engine reads compliance records through the DataSource
// interface. Implementations are read-only: the engine never mutates source
// data. Queries are denormalized with at most one join hop beyond the
// primary entity (e.g. contract -> vendor).
//
// Errors from a data source degrade to empty data at the normalizer layer;
// only a missing organization is treated as fatal by the orchestrator.
//
// =============================================================================

package store

import "context"

// Organization is the financial entity maintaining the register.
type Organization struct {
	LEI                string
	Name               string
	Country            string
	EntityType         string
	CompetentAuthority string
	ParentLEI          string
	TotalAssets        *float64
	LastUpdate         string
}

// Vendor is an ICT third-party service provider.
type Vendor struct {
	ID               int64
	LEI              string
	Name             string
	IdentifierType   string
	AdditionalCode   string
	PersonType       string
	ParentLEI        string
	HQCountry        string
	CostCurrency     string
	TotalAnnualSpend *float64
}

// Contract is a contractual arrangement with a vendor. VendorLEI is the
// one-hop join field resolved by the data source.
type Contract struct {
	ID                     int64
	Ref                    string
	VendorID               int64
	VendorLEI              string
	ArrangementType        string
	OverarchingRef         string
	ServiceType            string
	StartDate              string
	EndDate                string
	NoticePeriodEntity     *float64
	NoticePeriodProvider   *float64
	TerminationReason      string
	AnnualCost             *float64
	Currency               string
	CountryOfProvision     string
	GoverningLawCountry    string
	StoresData             *bool
	DataSensitivity        string
	Criticality            string
	Substitutability       string
	SubstitutabilityReason string
	LastAuditDate          string
	ExitPlanExists         *bool
	Reintegration          string
	Impact                 string
	AlternativesIdentified *bool
	IntraGroup             bool
}

// Function is a business function supported by ICT services.
type Function struct {
	ID               int64
	FunctionID       string
	Name             string
	LicensedActivity string
	Criticality      string
	ReasonCritical   string
	LastAssessment   string
	ContractRef      string
}

// Branch is a foreign branch of an entity in scope.
type Branch struct {
	ID            int64
	Code          string
	Name          string
	HeadOfficeLEI string
	Country       string
}

// Subcontractor is one link of an ICT service supply chain.
type Subcontractor struct {
	ID            int64
	ContractRef   string
	Rank          float64
	ProviderLEI   string
	UpstreamLEI   string
}

// DataSource is the read-only contract the normalizer fetches through.
// FetchOrganization returns the reporting entity; FetchOrganizations returns
// the full scope of consolidation (reporting entity included).
type DataSource interface {
	FetchOrganization(ctx context.Context) (*Organization, error)
	FetchOrganizations(ctx context.Context) ([]Organization, error)
	FetchVendors(ctx context.Context) ([]Vendor, error)
	FetchContracts(ctx context.Context) ([]Contract, error)
	FetchFunctions(ctx context.Context) ([]Function, error)
	FetchBranches(ctx context.Context) ([]Branch, error)
	FetchSubcontractors(ctx context.Context) ([]Subcontractor, error)
}
