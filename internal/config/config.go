// =============================================================================
// Fuel Supply Sync - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. config.yaml: API endpoint, tenant, retry and report settings
//   2. .env file:   credentials kept out of version control
//   3. Environment: FUELSYNC_* variables
//
// All values are validated once on load, so the pipeline can assume a
// complete configuration.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ENVIRONMENT VARIABLES
// =============================================================================

const (
	EnvBaseURL    = "FUELSYNC_BASE_URL"
	EnvTenantUUID = "FUELSYNC_TENANT_UUID"
	EnvAPIToken   = "FUELSYNC_API_TOKEN"
	EnvAPIEmail   = "FUELSYNC_API_EMAIL"
	EnvAPIPass    = "FUELSYNC_API_PASSWORD"
	EnvCompanyID  = "FUELSYNC_COMPANY_ID"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// API SETTINGS
	// =========================================================================

	// API holds the fleet API endpoint and credentials.
	API APIConfig `yaml:"api"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Input controls how the fuel-supply export is read.
	Input InputConfig `yaml:"input"`

	// =========================================================================
	// PAYLOAD SETTINGS
	// =========================================================================

	// CompanyID is sent as companyId on every fuel supply.
	// Default: 3
	CompanyID int `yaml:"company_id" validate:"min=1"`

	// GasStationBrand is sent as gasStationBrand on every fuel supply.
	// Default: "IPIRANGA"
	GasStationBrand string `yaml:"gas_station_brand" validate:"required"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// RecordDelay is the pause after each record, regardless of outcome.
	// Default: 500ms
	RecordDelay time.Duration `yaml:"record_delay" validate:"min=0"`

	// CacheLookups memoizes supplier and product lookups within one run.
	// Default: false
	CacheLookups bool `yaml:"cache_lookups"`

	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// InputArchiveDir receives the input sheet after a run when archiving is requested.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" validate:"required"`

	// ReportNameFormat defines the report file name.
	// Placeholders:
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "relatorio_abastecimento_{timestamp}.xlsx"
	ReportNameFormat string `yaml:"report_name_format" validate:"required"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional JSON log file written next to console output.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// APIConfig holds the fleet API connection settings.
type APIConfig struct {
	// BaseURL is the tenant API root, without a trailing slash.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// TenantUUID is sent as x-tenant-uuid on every request.
	TenantUUID string `yaml:"tenant_uuid" validate:"required,uuid"`

	// Token is the initial x-tenant-user-auth value. It is replaced by
	// sign-in whenever the API answers 401.
	Token string `yaml:"token"`

	// Email and Password are used for sign-in on 401.
	Email    string `yaml:"email" validate:"required,email"`
	Password string `yaml:"password" validate:"required"`

	// MaxRetries bounds the attempts per request.
	// Default: 3
	MaxRetries int `yaml:"max_retries" validate:"min=1"`

	// RetryDelay is the fixed pause between attempts.
	// Default: 2s
	RetryDelay time.Duration `yaml:"retry_delay" validate:"min=0"`

	// RequestTimeout bounds a single HTTP exchange. 0 disables it.
	// Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"min=0"`
}

// InputConfig holds the export reading settings.
type InputConfig struct {
	// SheetName selects the worksheet of an .xlsx export.
	// Default: the first sheet
	SheetName string `yaml:"sheet_name"`

	// Delimiter is the field separator of a .csv export.
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file, then applies the
// optional .env file and FUELSYNC_* environment overrides.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. A missing file is
//     not an error; everything may come from the environment.
//   - envFile: The path to a .env file. Ignored if it does not exist.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if a file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath, envFile string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, err
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides copies FUELSYNC_* variables over the YAML values.
func applyEnvOverrides(config *MainConfig) error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv(EnvTenantUUID); v != "" {
		config.API.TenantUUID = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		config.API.Token = v
	}
	if v := os.Getenv(EnvAPIEmail); v != "" {
		config.API.Email = v
	}
	if v := os.Getenv(EnvAPIPass); v != "" {
		config.API.Password = v
	}
	if v := os.Getenv(EnvCompanyID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvCompanyID, err)
		}
		config.CompanyID = id
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.API.MaxRetries == 0 {
		config.API.MaxRetries = 3
	}
	if config.API.RetryDelay == 0 {
		config.API.RetryDelay = 2 * time.Second
	}
	if config.API.RequestTimeout == 0 {
		config.API.RequestTimeout = 60 * time.Second
	}
	if config.Input.Delimiter == "" {
		config.Input.Delimiter = ","
	}
	if config.CompanyID == 0 {
		config.CompanyID = 3
	}
	if config.GasStationBrand == "" {
		config.GasStationBrand = "IPIRANGA"
	}
	if config.RecordDelay == 0 {
		config.RecordDelay = 500 * time.Millisecond
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "relatorio_abastecimento_{timestamp}.xlsx"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// validateMainConfig validates the configuration against its struct tags.
func validateMainConfig(config *MainConfig) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("field %s failed %q check (%d problem(s) total)", fe.Namespace(), fe.Tag(), len(fieldErrs))
		}
		return err
	}
	return nil
}
