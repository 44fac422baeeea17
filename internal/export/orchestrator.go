// =============================================================================
// Register of Information Exporter - Export Orchestrator
// =============================================================================
//
// Sequences the pipeline for one export request:
//
//   collect params -> fetch (concurrent) -> [validate] -> encode -> result
//
// Readiness is a distinct, cheaper pre-flight check (entity LEI configured,
// required templates non-empty) that informs the caller; it never blocks
// the full pipeline.
//
// Failure policy: a single template's fetch error degrades to an empty
// template inside the normalizer; only the missing-organization
// precondition is fatal. Public entry points return a Result envelope
// rather than an error so every failure stays representable.
//
// =============================================================================

package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/regtechlabs/roi-exporter/internal/config"
	"github.com/regtechlabs/roi-exporter/internal/csvcodec"
	"github.com/regtechlabs/roi-exporter/internal/logger"
	"github.com/regtechlabs/roi-exporter/internal/normalizer"
	"github.com/regtechlabs/roi-exporter/internal/store"
	"github.com/regtechlabs/roi-exporter/internal/types"
	"github.com/regtechlabs/roi-exporter/internal/validation"
	"github.com/regtechlabs/roi-exporter/internal/xlsxreport"
	"github.com/regtechlabs/roi-exporter/internal/xmlcodec"
)

// Format selects which codec(s) an export run produces.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
	FormatBoth Format = "both"
)

// Overrides are caller-supplied parameter overrides applied on top of the
// organization configuration when building ExportParams.
type Overrides struct {
	EntityID         string
	ReportingPeriod  string
	BaseCurrency     string
	DecimalsInteger  *int
	DecimalsMonetary *int
	GeneratedAt      *time.Time
}

// Options is one export request.
type Options struct {
	Format Format

	// IncludeEmpty emits header-only files for zero-row templates.
	IncludeEmpty bool

	// SkipValidation omits the validation phase (draft exports).
	SkipValidation bool

	// ReviewWorkbook additionally produces the XLSX review rendition.
	ReviewWorkbook bool

	Overrides Overrides
}

// Readiness is the pre-flight check result. Issues block readiness;
// warnings do not.
type Readiness struct {
	Ready    bool
	Issues   []string
	Warnings []string
}

// requiredTemplates must hold data before a submission-grade export.
var requiredTemplates = []types.TemplateID{
	types.TemplateEntityRegister,
	types.TemplateContractOverview,
	types.TemplateProviders,
}

// Orchestrator wires the normalizer, validation engine and codecs.
type Orchestrator struct {
	cfg *config.Config
	ds  store.DataSource
}

// New creates an orchestrator over a configuration and data source.
func New(cfg *config.Config, ds store.DataSource) *Orchestrator {
	return &Orchestrator{cfg: cfg, ds: ds}
}

// =============================================================================
// PARAMETERS
// =============================================================================

// buildParams constructs the immutable per-run export parameters from the
// configuration plus caller overrides.
func (o *Orchestrator) buildParams(ov Overrides) types.ExportParams {
	p := types.ExportParams{
		EntityID:         o.cfg.EntityLEI,
		EntityName:       o.cfg.EntityName,
		ReportingPeriod:  o.cfg.ReportingPeriod,
		BaseCurrency:     o.cfg.BaseCurrency,
		DecimalsInteger:  o.cfg.DecimalsInteger,
		DecimalsMonetary: o.cfg.DecimalsMonetary,
		GeneratedAt:      time.Now(),
	}
	if ov.EntityID != "" {
		p.EntityID = ov.EntityID
	}
	if ov.ReportingPeriod != "" {
		p.ReportingPeriod = ov.ReportingPeriod
	}
	if ov.BaseCurrency != "" {
		p.BaseCurrency = ov.BaseCurrency
	}
	if ov.DecimalsInteger != nil {
		p.DecimalsInteger = *ov.DecimalsInteger
	}
	if ov.DecimalsMonetary != nil {
		p.DecimalsMonetary = *ov.DecimalsMonetary
	}
	if ov.GeneratedAt != nil {
		p.GeneratedAt = *ov.GeneratedAt
	}
	if p.ReportingPeriod == "" {
		// Default to the last day of the previous year, the standard RoI
		// reference date.
		p.ReportingPeriod = fmt.Sprintf("%d-12-31", p.GeneratedAt.Year()-1)
	}
	return p
}

// =============================================================================
// READINESS
// =============================================================================

// CheckReadiness runs the pre-flight gate without encoding anything.
func (o *Orchestrator) CheckReadiness(ctx context.Context, ov Overrides) (*Readiness, error) {
	params := o.buildParams(ov)
	r := &Readiness{}

	if params.EntityID == "" {
		r.Issues = append(r.Issues, "entity LEI is not configured")
	} else if !validation.ValidLEI(params.EntityID) {
		r.Issues = append(r.Issues, fmt.Sprintf("entity LEI '%s' does not have a valid LEI shape", params.EntityID))
	}

	dataset, err := normalizer.New(o.ds).Fetch(ctx, params)
	if err != nil {
		r.Issues = append(r.Issues, err.Error())
		return r, nil
	}

	for _, t := range requiredTemplates {
		if len(dataset[t]) == 0 {
			r.Issues = append(r.Issues, fmt.Sprintf("required template %s has no data", t))
		}
	}
	for _, t := range types.AllTemplates {
		if len(dataset[t]) == 0 && !isRequired(t) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("template %s has no data", t))
		}
	}

	r.Ready = len(r.Issues) == 0
	return r, nil
}

func isRequired(t types.TemplateID) bool {
	for _, req := range requiredTemplates {
		if req == t {
			return true
		}
	}
	return false
}

// =============================================================================
// VALIDATION RUN
// =============================================================================

// Validate runs fetch + validation without encoding anything: the preview
// counterpart of Run. It builds its parameters the same way, so a register
// validates identically here and in a full export.
func (o *Orchestrator) Validate(ctx context.Context, ov Overrides) (*types.ValidationReport, error) {
	params := o.buildParams(ov)

	dataset, err := normalizer.New(o.ds).Fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	return validation.NewEngine().Validate(dataset), nil
}

// =============================================================================
// EXPORT RUN
// =============================================================================

// Run executes one export request end to end.
func (o *Orchestrator) Run(ctx context.Context, opts Options) *types.Result {
	result := &types.Result{RunID: uuid.NewString()}
	log := logger.L.With("runId", result.RunID)

	params := o.buildParams(opts.Overrides)
	if params.EntityID == "" {
		result.Error = "entity LEI is not configured"
		log.Error("Export aborted", "error", result.Error)
		return result
	}

	log.Info("Starting export run",
		"format", string(opts.Format),
		"entity", params.EntityID,
		"period", params.ReportingPeriod)

	dataset, err := normalizer.New(o.ds).Fetch(ctx, params)
	if err != nil {
		result.Error = err.Error()
		log.Error("Export aborted", "error", result.Error)
		return result
	}

	if !opts.SkipValidation {
		result.Report = validation.NewEngine().Validate(dataset)
		log.Info("Validation completed",
			"errors", result.Report.ErrorCount,
			"warnings", result.Report.WarningCount,
			"score", result.Report.Score)
	}

	if opts.Format == FormatCSV || opts.Format == FormatBoth {
		pkg, err := csvcodec.Encode(dataset, params, csvcodec.Options{IncludeEmpty: opts.IncludeEmpty})
		if err != nil {
			result.Error = fmt.Sprintf("csv encoding failed: %v", err)
			log.Error("Export aborted", "error", result.Error)
			return result
		}
		result.CSV = pkg
	}

	if opts.Format == FormatXML || opts.Format == FormatBoth {
		instance := xmlcodec.Encode(dataset, params)
		structural := xmlcodec.ValidateStructure(instance.Document)
		// The document is returned even when structurally invalid:
		// inspectable output beats an opaque failure.
		result.XML = instance
		result.XMLValidation = &structural
		if !structural.OK() {
			log.Warn("Instance document failed structural validation",
				"errors", len(structural.Errors))
		}
	}

	if opts.ReviewWorkbook {
		wb, err := xlsxreport.Encode(dataset, params)
		if err != nil {
			log.Warn("Review workbook generation failed", "error", err)
		} else {
			result.Workbook = wb
		}
	}

	result.Success = true
	log.Info("Export run completed")
	return result
}
