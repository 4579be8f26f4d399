// =============================================================================
// Fuel Supply Sync - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fuelsync)
//   ├── syncCmd (fuelsync sync)
//   ├── validateCmd (fuelsync validate)
//   └── versionCmd (fuelsync version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --env-file, --verbose)
//   2. Loading the configuration for the subcommands
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fuel-supply-sync/internal/config"
	"github.com/ginjaninja78/fuel-supply-sync/internal/csvparser"
	"github.com/ginjaninja78/fuel-supply-sync/internal/logger"
	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
	"github.com/ginjaninja78/fuel-supply-sync/internal/xlsxparser"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// envFile holds the path to the .env file with the API credentials.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fuelsync",
	Short: "Fuel Supply Sync - Reconcile fuel-supply exports with the fleet API",
	Long: `Fuel Supply Sync reads a fuel-supply export (.xlsx or .csv) and registers
every refueling in the fleet-management API.

For each row it:
  - Skips fuel supplies that are already registered
  - Resolves the vehicle, registering it automatically when missing
  - Resolves the driver by CPF, registering it when a name is available
  - Resolves the fuel station supplier by CNPJ
  - Maps line items to product ids and submits the fuel supply

The outcome of every row is written to an .xlsx report.

Example Usage:
  fuelsync sync --input abastecimentos.xlsx             # Sync an export
  fuelsync sync --input abastecimentos.xlsx --dry-run   # Walk the rows without creating anything
  fuelsync validate --input abastecimentos.csv          # Check the export without contacting the API`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to a .env file with the API credentials (ignored if missing)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// newRunLogger builds the logger for a command run. --verbose wins over the
// configured level. The closer must be called once the run is over.
func newRunLogger(cfg *config.MainConfig) (zerolog.Logger, io.Closer, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.NewWithFile(level, cfg.LogFile)
}

// inputSheet is an export loaded from either supported format.
type inputSheet struct {
	Headers []string
	Records []types.RawRecord
}

// loadInput reads an export, choosing the reader by file extension.
func loadInput(path string, settings config.InputConfig) (*inputSheet, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		sheet, err := xlsxparser.ParseWithOptions(path, xlsxparser.Options{SheetName: settings.SheetName})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return &inputSheet{Headers: sheet.Headers, Records: sheet.Records}, nil
	case ".csv", ".txt":
		data, err := csvparser.Parse(path, csvparser.Settings{Delimiter: settings.Delimiter})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return &inputSheet{Headers: data.Headers, Records: data.Records}, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .xlsx or .csv)", ext)
	}
}
