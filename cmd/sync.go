// =============================================================================
// Fuel Supply Sync - Sync Command
// =============================================================================
//
// This file defines the 'sync' command, the main command of the tool. It
// wires the readers, the fleet API client and the reconciliation pipeline
// together and writes the report.
//
// COMMAND USAGE:
//   fuelsync sync --input <file> [flags]
//
// FLAGS:
//   --input       : The export to sync (.xlsx or .csv)
//   --output-dir  : Overrides output_dir from the configuration
//   --dry-run     : Perform lookups but send no POST request
//   --archive     : Move the input to input_archive_dir after the report is saved
//
// PROCESSING PIPELINE:
//   1. Load configuration and credentials
//   2. Read the export
//   3. Report missing columns and unreadable cells (warnings only)
//   4. Reconcile every row, in order, against the fleet API
//   5. Write the report
//   6. Archive the input when requested
//   7. Print the summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fuel-supply-sync/internal/config"
	"github.com/ginjaninja78/fuel-supply-sync/internal/fleetapi"
	"github.com/ginjaninja78/fuel-supply-sync/internal/reconcile"
	"github.com/ginjaninja78/fuel-supply-sync/internal/report"
	"github.com/ginjaninja78/fuel-supply-sync/internal/resolver"
	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
	"github.com/ginjaninja78/fuel-supply-sync/internal/validation"
	"github.com/ginjaninja78/fuel-supply-sync/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// syncOptions holds the flags of the sync command.
type syncOptions struct {
	input     string
	outputDir string
	dryRun    bool
	archive   bool
}

var syncFlags syncOptions

// =============================================================================
// SYNC COMMAND DEFINITION
// =============================================================================

// syncCmd represents the 'sync' command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Register the fuel supplies of an export in the fleet API",
	Long: `The sync command reads a fuel-supply export and reconciles every row with
the fleet API. Rows are processed one at a time, in file order, with a short
pause between them.

A row that fails never stops the run; its status and message are written to
the report. Setup problems (configuration, unreadable export, report that
cannot be saved) end the run with a non-zero exit code.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile, envFile)
		if err != nil {
			return err
		}

		log, closer, err := newRunLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		_, err = runSync(cmd.Context(), cfg, syncFlags, log, cmd.OutOrStdout())
		return err
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncFlags.input, "input", "i", "", "Path to the fuel-supply export (.xlsx or .csv)")
	syncCmd.Flags().StringVar(&syncFlags.outputDir, "output-dir", "", "Directory for the report (overrides output_dir)")
	syncCmd.Flags().BoolVar(&syncFlags.dryRun, "dry-run", false, "Perform lookups but do not create anything in the API")
	syncCmd.Flags().BoolVar(&syncFlags.archive, "archive", false, "Move the input to the archive directory after the run")
	syncCmd.MarkFlagRequired("input")
}

// =============================================================================
// PIPELINE
// =============================================================================

// runSync executes the sync pipeline and returns the path of the report.
func runSync(ctx context.Context, cfg *config.MainConfig, opts syncOptions, log zerolog.Logger, out io.Writer) (string, error) {
	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}
	fm := utils.NewFileManager(outputDir, cfg.InputArchiveDir)
	if err := fm.EnsureDirectories(opts.archive); err != nil {
		return "", err
	}

	sheet, err := loadInput(opts.input, cfg.Input)
	if err != nil {
		return "", err
	}
	log.Info().Str("input", opts.input).Int("records", len(sheet.Records)).Bool("dry_run", opts.dryRun).Msg("export loaded")

	logFindings(log, validation.Validate(sheet.Headers, sheet.Records))

	proc := newProcessor(cfg, opts.dryRun, log, out)
	results := proc.Run(ctx, sheet.Records)

	reportPath := fm.ReportPath(cfg.ReportNameFormat)
	if err := report.Write(reportPath, results); err != nil {
		return "", err
	}
	log.Info().Str("report", reportPath).Msg("report saved")

	if opts.archive {
		archived, err := fm.ArchiveInputFile(opts.input)
		if err != nil {
			return reportPath, fmt.Errorf("report saved to %s but archiving failed: %w", reportPath, err)
		}
		log.Info().Str("archive", archived).Msg("input archived")
	}

	printSummary(out, report.Summarize(results), reportPath, opts.dryRun)
	return reportPath, nil
}

// newProcessor wires the fleet API client, the resolver and the guard into a
// Processor. Client and Authenticator share one Session.
func newProcessor(cfg *config.MainConfig, dryRun bool, log zerolog.Logger, out io.Writer) *reconcile.Processor {
	session := fleetapi.NewSession(cfg.API.TenantUUID, cfg.API.Token)
	httpClient := &http.Client{Timeout: cfg.API.RequestTimeout}

	auth := fleetapi.NewAuthenticator(
		cfg.API.BaseURL,
		fleetapi.Credentials{Email: cfg.API.Email, Password: cfg.API.Password},
		session,
		httpClient,
		log,
	)
	client := fleetapi.NewClient(fleetapi.Options{
		BaseURL:    cfg.API.BaseURL,
		MaxRetries: cfg.API.MaxRetries,
		RetryDelay: cfg.API.RetryDelay,
		DryRun:     dryRun,
		HTTPClient: httpClient,
	}, session, auth, log)

	res := resolver.New(client, resolver.Options{CacheLookups: cfg.CacheLookups}, log)
	guard := reconcile.NewGuard(client, log)

	return reconcile.NewProcessor(guard, res, client, reconcile.Options{
		CompanyID:       cfg.CompanyID,
		GasStationBrand: cfg.GasStationBrand,
		RecordDelay:     cfg.RecordDelay,
		Progress: func(index, total int, result types.ResultRecord) {
			fmt.Fprintf(out, "[%d/%d] %-36s %s\n", index, total, result.Status, result.Message)
		},
	}, log)
}

// logFindings logs the pre-flight findings. Missing columns are warnings,
// per-row findings are only shown with --verbose.
func logFindings(log zerolog.Logger, result *validation.ValidationResult) {
	for _, f := range result.Errors {
		event := log.Debug()
		if f.Severity == validation.SeverityError {
			event = log.Warn()
		}
		event.Int("row", f.RowNumber).Str("field", f.Field).Str("rule", f.Rule).Msg(f.Message)
	}
	if result.WarningCount > 0 {
		log.Info().Int("warnings", result.WarningCount).Msg("rows with unreadable cells (use --verbose for details)")
	}
}

// printSummary prints the per-status counts of a run.
func printSummary(out io.Writer, s report.Summary, reportPath string, dryRun bool) {
	fmt.Fprintln(out)
	if dryRun {
		fmt.Fprintln(out, "Dry run: nothing was created in the API.")
	}
	fmt.Fprintf(out, "%-62s %d\n", report.MetricTotal, s.Total)
	for _, status := range types.AllStatuses() {
		if n := s.Counts[status]; n > 0 {
			fmt.Fprintf(out, "%-62s %d\n", report.MetricLabel(status), n)
		}
	}
	fmt.Fprintf(out, "Report: %s\n", reportPath)
}
