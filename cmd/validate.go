// =============================================================================
// Fuel Supply Sync - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks an export without
// contacting the fleet API.
//
// COMMAND USAGE:
//   fuelsync validate --input <file> [--error-log <file>]
//
// CHECKS:
//   - Every expected column is present
//   - Plate, CPF, CNPJ, items JSON and transaction date/time are readable
//
// The command fails when a column is missing. Row findings are printed but
// do not fail it, since sync handles those rows individually.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fuel-supply-sync/internal/config"
	"github.com/ginjaninja78/fuel-supply-sync/internal/validation"
)

var (
	validateInput    string
	validateErrorLog string
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an export without contacting the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Only the input settings matter here, so a config that fails
		// validation for missing credentials is acceptable.
		settings := config.InputConfig{}
		if cfg, err := config.LoadMainConfig(cfgFile, envFile); err == nil {
			settings = cfg.Input
		}
		return runValidate(validateInput, settings, validateErrorLog, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Path to the fuel-supply export (.xlsx or .csv)")
	validateCmd.Flags().StringVar(&validateErrorLog, "error-log", "", "Also write the findings to this file")
	validateCmd.MarkFlagRequired("input")
}

// runValidate prints the findings for the export at input.
func runValidate(input string, settings config.InputConfig, errorLog string, out io.Writer) error {
	sheet, err := loadInput(input, settings)
	if err != nil {
		return err
	}

	result := validation.Validate(sheet.Headers, sheet.Records)
	fmt.Fprintf(out, "Records: %d\n", result.RecordsValidated)
	fmt.Fprint(out, validation.FormatErrors(result.Errors))
	fmt.Fprintln(out)

	if errorLog != "" && len(result.Errors) > 0 {
		if err := validation.WriteErrorLog(result.Errors, errorLog); err != nil {
			return err
		}
		fmt.Fprintf(out, "Findings written to %s\n", errorLog)
	}

	if !result.IsValid {
		return fmt.Errorf("%d expected column(s) missing", result.ErrorCount)
	}
	return nil
}
