// =============================================================================
// Fuel Supply Sync - Pre-flight Validation
// =============================================================================
//
// This module inspects an export before it is synced and reports problems
// that will make records fail or fall back to defaults.
//
// VALIDATION LEVELS:
//   1. Column-level: every expected header is present in the sheet
//   2. Record-level: consumed cells can be interpreted
//
// SEVERITY:
//   Nothing here stops a sync. A missing column is reported as an "error"
//   because every record will miss that value; record problems are
//   "warning"s because they only affect one record. The sync command logs
//   them and continues, the validate command prints them.
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/fuel-supply-sync/internal/resolver"
	"github.com/ginjaninja78/fuel-supply-sync/internal/transformer"
	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleColumnPresent = "column_present"
	RulePlatePresent  = "plate_present"
	RuleItemsJSON     = "items_json"
	RuleCPFDigits     = "cpf_digits"
	RuleCNPJDigits    = "cnpj_digits"
	RuleTimestamp     = "timestamp"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the column the finding is about.
	Field string

	// Value is the offending cell value.
	Value string

	// Rule is the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string

	// RowNumber is the sheet row, 0 for column-level findings.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RowNumber == 0 {
		return fmt.Sprintf("[%s] Column '%s': %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no error-level findings.
	IsValid bool

	// Errors contains all findings, columns first then records in order.
	Errors []*ValidationError

	// ErrorCount is the number of error-level findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the number of records inspected.
	RecordsValidated int
}

func (r *ValidationResult) add(errs ...*ValidationError) {
	for _, err := range errs {
		r.Errors = append(r.Errors, err)
		if err.Severity == SeverityError {
			r.ErrorCount++
			r.IsValid = false
		} else {
			r.WarningCount++
		}
	}
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// Validate checks the headers and every record.
func Validate(headers []string, records []types.RawRecord) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}
	result.add(ValidateColumns(headers)...)
	for _, rec := range records {
		result.add(ValidateRecord(rec)...)
	}
	return result
}

// MissingColumns returns the expected columns absent from headers, in
// expected order.
func MissingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range types.ExpectedColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// ValidateColumns reports every expected column missing from headers.
func ValidateColumns(headers []string) []*ValidationError {
	var errs []*ValidationError
	for _, col := range MissingColumns(headers) {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    col,
			Rule:     RuleColumnPresent,
			Message:  "expected column is missing; every record will have it empty",
		})
	}
	return errs
}

// ValidateRecord reports the cells of rec that will make it fail or fall
// back to a default.
func ValidateRecord(rec types.RawRecord) []*ValidationError {
	var errs []*ValidationError
	warn := func(field, value, rule, message string) {
		errs = append(errs, &ValidationError{
			Severity:  SeverityWarning,
			Field:     field,
			Value:     value,
			Rule:      rule,
			Message:   message,
			RowNumber: rec.RowNumber,
		})
	}

	if strings.TrimSpace(rec.Plate) == "" {
		warn(types.ColumnPlate, rec.Plate, RulePlatePresent, "no plate; the vehicle cannot be resolved")
	}

	if cpf := strings.TrimSpace(rec.DriverCPF); cpf != "" && resolver.CleanDigits(cpf) == "" {
		warn(types.ColumnDriverCPF, rec.DriverCPF, RuleCPFDigits, "cpf has no digits")
	}

	if cnpj := strings.TrimSpace(rec.StationCNPJ); cnpj != "" && resolver.CleanDigits(cnpj) == "" {
		warn(types.ColumnStationCNPJ, rec.StationCNPJ, RuleCNPJDigits, "cnpj has no digits")
	}

	if _, err := transformer.ParseItems(rec); err != nil {
		warn(types.ColumnItemsJSON, rec.ItemsJSON, RuleItemsJSON, err.Error())
	}

	if !transformer.HasTimestamp(rec.TransactionDate, rec.TransactionTime) {
		warn(types.ColumnTransactionDate, rec.TransactionDate+" "+rec.TransactionTime, RuleTimestamp,
			"date or time cannot be read; the current time will be sent")
	}

	return errs
}

// =============================================================================
// OUTPUT
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))
	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

// WriteErrorLog writes the formatted findings to filePath.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	header := fmt.Sprintf("Validation run at %s\n\n", time.Now().Format(time.RFC3339))
	if err := os.WriteFile(filePath, []byte(header+FormatErrors(errors)), 0644); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
