// =============================================================================
// Register of Information Exporter - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. Settings come
// from two layers, applied in order:
//
//   1. Main config file (config.yaml): reporting entity, formatting and
//      output settings.
//   2. Environment variables (ROI_* prefix, optionally from a .env file):
//      deployment overrides for any file setting.
//
// The configuration is validated on load; an export run never starts with a
// config the loader could not make sense of.
//
// =============================================================================

package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// decimalsUnset marks DecimalsMonetary as not configured. A sentinel keeps
// the config struct flat while still telling an explicit 0 apart from an
// absent setting.
const decimalsUnset = math.MinInt

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// =========================================================================
	// REPORTING ENTITY
	// =========================================================================

	// EntityLEI is the Legal Entity Identifier of the entity maintaining
	// the register. Required for any export; a missing LEI is the one
	// fatal configuration error of the pipeline.
	EntityLEI string `yaml:"entity_lei"`

	// EntityName is the legal name of the reporting entity.
	EntityName string `yaml:"entity_name"`

	// ReportingPeriod is the reference date of the report (YYYY-MM-DD).
	ReportingPeriod string `yaml:"reporting_period"`

	// =========================================================================
	// FORMATTING SETTINGS
	// =========================================================================

	// BaseCurrency is the ISO 4217 code used for monetary facts.
	// Default: "EUR"
	BaseCurrency string `yaml:"base_currency"`

	// DecimalsInteger is the decimal precision for non-monetary numerics.
	// Default: 0
	DecimalsInteger int `yaml:"decimals_integer"`

	// DecimalsMonetary is the decimal precision for monetary values.
	// Default: 2
	DecimalsMonetary int `yaml:"decimals_monetary"`

	// =========================================================================
	// DATA SOURCE SETTINGS
	// =========================================================================

	// DatabasePath is the path to the SQLite register database.
	// Default: "./register.db"
	DatabasePath string `yaml:"database_path"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory where export artifacts are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies defaults, overlays ROI_*
// environment variables, and validates the result. A missing config file is
// not an error: environment variables alone can carry a full configuration.
func Load(configPath string) (*Config, error) {
	// A .env file is optional; OS environment always wins over it.
	_ = godotenv.Load()

	var cfg Config
	cfg.DecimalsMonetary = decimalsUnset

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Fall through to defaults + environment.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "EUR"
	}
	if cfg.DecimalsMonetary == decimalsUnset {
		cfg.DecimalsMonetary = 2
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./register.db"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides overlays ROI_* environment variables on the loaded
// configuration. Every file setting has an environment counterpart.
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.EntityLEI, "ROI_ENTITY_LEI")
	overrideString(&cfg.EntityName, "ROI_ENTITY_NAME")
	overrideString(&cfg.ReportingPeriod, "ROI_REPORTING_PERIOD")
	overrideString(&cfg.BaseCurrency, "ROI_BASE_CURRENCY")
	overrideInt(&cfg.DecimalsInteger, "ROI_DECIMALS_INTEGER")
	overrideInt(&cfg.DecimalsMonetary, "ROI_DECIMALS_MONETARY")
	overrideString(&cfg.DatabasePath, "ROI_DATABASE_PATH")
	overrideString(&cfg.OutputDir, "ROI_OUTPUT_DIR")
	overrideString(&cfg.LogLevel, "ROI_LOG_LEVEL")
}

func overrideString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// validate checks settings the rest of the pipeline depends on. Entity LEI
// presence is deliberately not checked here: readiness and export report it
// as a structured issue instead of refusing to start.
func validate(cfg *Config) error {
	if cfg.DecimalsInteger < 0 {
		return fmt.Errorf("decimals_integer must not be negative (got %d)", cfg.DecimalsInteger)
	}
	if cfg.DecimalsMonetary < 0 {
		return fmt.Errorf("decimals_monetary must not be negative (got %d)", cfg.DecimalsMonetary)
	}
	if len(cfg.BaseCurrency) != 3 {
		return fmt.Errorf("base_currency must be a three-letter ISO 4217 code (got %q)", cfg.BaseCurrency)
	}
	return nil
}
