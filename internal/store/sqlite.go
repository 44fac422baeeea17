// =============================================================================
// Register of Information Exporter - SQLite Data Source
// =============================================================================
//
// SQLite-backed implementation of the DataSource contract, using the
// pure-Go modernc.org/sqlite driver (no cgo). The schema is created on open
// when missing so a fresh database is immediately usable; beyond that the
// implementation is strictly read-only.
//
// All queries are denormalized with at most one join hop: contracts join
// their vendor to expose the provider LEI directly on the contract row.
//
// =============================================================================

package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteSource implements DataSource over a SQLite database.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary bootstraps) the register database.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := &SQLiteSource{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSource) Close() error { return s.db.Close() }

// DB exposes the handle for test fixtures.
func (s *SQLiteSource) DB() *sql.DB { return s.db }

func (s *SQLiteSource) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			lei TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT,
			entity_type TEXT,
			competent_authority TEXT,
			parent_lei TEXT,
			total_assets REAL,
			last_update TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lei TEXT NOT NULL,
			name TEXT NOT NULL,
			identifier_type TEXT,
			additional_code TEXT,
			person_type TEXT,
			parent_lei TEXT,
			hq_country TEXT,
			cost_currency TEXT,
			total_annual_spend REAL
		)`,
		`CREATE TABLE IF NOT EXISTS contracts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ref TEXT NOT NULL,
			vendor_id INTEGER REFERENCES vendors(id),
			arrangement_type TEXT,
			overarching_ref TEXT,
			service_type TEXT,
			start_date TEXT,
			end_date TEXT,
			notice_period_entity REAL,
			notice_period_provider REAL,
			termination_reason TEXT,
			annual_cost REAL,
			currency TEXT,
			country_of_provision TEXT,
			governing_law_country TEXT,
			stores_data INTEGER,
			data_sensitivity TEXT,
			criticality TEXT,
			substitutability TEXT,
			substitutability_reason TEXT,
			last_audit_date TEXT,
			exit_plan_exists INTEGER,
			reintegration TEXT,
			impact TEXT,
			alternatives_identified INTEGER,
			intra_group INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS functions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			function_id TEXT NOT NULL,
			name TEXT NOT NULL,
			licensed_activity TEXT,
			criticality TEXT,
			reason_critical TEXT,
			last_assessment TEXT,
			contract_ref TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS branches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			head_office_lei TEXT,
			country TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS subcontractors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contract_ref TEXT NOT NULL,
			rank REAL NOT NULL,
			provider_lei TEXT NOT NULL,
			upstream_lei TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// FetchOrganization returns the entity maintaining the register. The first
// organization row is the reporting entity; additional rows are entities in
// scope of consolidation.
func (s *SQLiteSource) FetchOrganization(ctx context.Context) (*Organization, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT lei, name, COALESCE(country, ''), COALESCE(entity_type, ''),
		       COALESCE(competent_authority, ''), COALESCE(parent_lei, ''),
		       total_assets, COALESCE(last_update, '')
		FROM organizations ORDER BY lei LIMIT 1`)

	var o Organization
	err := row.Scan(&o.LEI, &o.Name, &o.Country, &o.EntityType,
		&o.CompetentAuthority, &o.ParentLEI, &o.TotalAssets, &o.LastUpdate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return &o, nil
}

// FetchOrganizations returns every entity within the scope of
// consolidation, the reporting entity first.
func (s *SQLiteSource) FetchOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lei, name, COALESCE(country, ''), COALESCE(entity_type, ''),
		       COALESCE(competent_authority, ''), COALESCE(parent_lei, ''),
		       total_assets, COALESCE(last_update, '')
		FROM organizations ORDER BY lei`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.LEI, &o.Name, &o.Country, &o.EntityType,
			&o.CompetentAuthority, &o.ParentLEI, &o.TotalAssets, &o.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// FetchVendors returns all ICT third-party service providers.
func (s *SQLiteSource) FetchVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lei, name, COALESCE(identifier_type, ''),
		       COALESCE(additional_code, ''), COALESCE(person_type, ''),
		       COALESCE(parent_lei, ''), COALESCE(hq_country, ''),
		       COALESCE(cost_currency, ''), total_annual_spend
		FROM vendors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.LEI, &v.Name, &v.IdentifierType,
			&v.AdditionalCode, &v.PersonType, &v.ParentLEI, &v.HQCountry,
			&v.CostCurrency, &v.TotalAnnualSpend); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// FetchContracts returns all contractual arrangements, joined one hop to
// their vendor so the provider LEI is available on the contract row.
func (s *SQLiteSource) FetchContracts(ctx context.Context) ([]Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.ref, COALESCE(c.vendor_id, 0), COALESCE(v.lei, ''),
		       COALESCE(c.arrangement_type, ''), COALESCE(c.overarching_ref, ''),
		       COALESCE(c.service_type, ''), COALESCE(c.start_date, ''),
		       COALESCE(c.end_date, ''), c.notice_period_entity,
		       c.notice_period_provider, COALESCE(c.termination_reason, ''),
		       c.annual_cost, COALESCE(c.currency, ''),
		       COALESCE(c.country_of_provision, ''),
		       COALESCE(c.governing_law_country, ''), c.stores_data,
		       COALESCE(c.data_sensitivity, ''), COALESCE(c.criticality, ''),
		       COALESCE(c.substitutability, ''),
		       COALESCE(c.substitutability_reason, ''),
		       COALESCE(c.last_audit_date, ''), c.exit_plan_exists,
		       COALESCE(c.reintegration, ''), COALESCE(c.impact, ''),
		       c.alternatives_identified, c.intra_group
		FROM contracts c
		LEFT JOIN vendors v ON v.id = c.vendor_id
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contracts: %w", err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		var storesData, exitPlan, alternatives sql.NullBool
		var intraGroup bool
		if err := rows.Scan(&c.ID, &c.Ref, &c.VendorID, &c.VendorLEI,
			&c.ArrangementType, &c.OverarchingRef, &c.ServiceType,
			&c.StartDate, &c.EndDate, &c.NoticePeriodEntity,
			&c.NoticePeriodProvider, &c.TerminationReason, &c.AnnualCost,
			&c.Currency, &c.CountryOfProvision, &c.GoverningLawCountry,
			&storesData, &c.DataSensitivity, &c.Criticality,
			&c.Substitutability, &c.SubstitutabilityReason, &c.LastAuditDate,
			&exitPlan, &c.Reintegration, &c.Impact, &alternatives,
			&intraGroup); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		if storesData.Valid {
			c.StoresData = &storesData.Bool
		}
		if exitPlan.Valid {
			c.ExitPlanExists = &exitPlan.Bool
		}
		if alternatives.Valid {
			c.AlternativesIdentified = &alternatives.Bool
		}
		c.IntraGroup = intraGroup
		out = append(out, c)
	}
	return out, rows.Err()
}

// FetchFunctions returns all identified business functions.
func (s *SQLiteSource) FetchFunctions(ctx context.Context) ([]Function, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, function_id, name, COALESCE(licensed_activity, ''),
		       COALESCE(criticality, ''), COALESCE(reason_critical, ''),
		       COALESCE(last_assessment, ''), COALESCE(contract_ref, '')
		FROM functions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch functions: %w", err)
	}
	defer rows.Close()

	var out []Function
	for rows.Next() {
		var f Function
		if err := rows.Scan(&f.ID, &f.FunctionID, &f.Name, &f.LicensedActivity,
			&f.Criticality, &f.ReasonCritical, &f.LastAssessment,
			&f.ContractRef); err != nil {
			return nil, fmt.Errorf("failed to scan function: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FetchBranches returns all branches of entities in scope.
func (s *SQLiteSource) FetchBranches(ctx context.Context) ([]Branch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, COALESCE(head_office_lei, ''), COALESCE(country, '')
		FROM branches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch branches: %w", err)
	}
	defer rows.Close()

	var out []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.HeadOfficeLEI, &b.Country); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// FetchSubcontractors returns all supply-chain links.
func (s *SQLiteSource) FetchSubcontractors(ctx context.Context) ([]Subcontractor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_ref, rank, provider_lei, COALESCE(upstream_lei, '')
		FROM subcontractors ORDER BY contract_ref, rank`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subcontractors: %w", err)
	}
	defer rows.Close()

	var out []Subcontractor
	for rows.Next() {
		var sc Subcontractor
		if err := rows.Scan(&sc.ID, &sc.ContractRef, &sc.Rank, &sc.ProviderLEI, &sc.UpstreamLEI); err != nil {
			return nil, fmt.Errorf("failed to scan subcontractor: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
