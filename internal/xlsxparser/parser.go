// =============================================================================
// Fuel Supply Sync - XLSX Export Parser
// =============================================================================
//
// This module reads the fuel-supply export spreadsheet into RawRecords.
//
// SHEET STRUCTURE:
//   Row 1 holds the column headers, every following row one fuel supply.
//   Columns are matched by header text, so their order does not matter and
//   extra columns are ignored.
//
//   | Placa   | CPF Motorista  | ... | Data Transação | Hora     | Items JSON |
//   |---------|----------------|-----|----------------|----------|------------|
//   | ABC1D23 | 123.456.789-01 | ... | 15/03/2024     | 14:30:00 | [{...}]    |
//
// CELL VALUES:
//   Cells are read unformatted so that numbers keep their full precision and
//   no thousands separators. Date and time cells stored as Excel serial
//   numbers are converted back to "02/01/2006" and "15:04:05" text.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// =============================================================================
// SHEET STRUCTURE
// =============================================================================

// Sheet is a parsed export.
type Sheet struct {
	// SourceFile is the path of the workbook.
	SourceFile string

	// SheetName is the worksheet the records were read from.
	SheetName string

	// Headers are the trimmed header cells, in sheet order.
	Headers []string

	// Records holds one entry per non-empty data row.
	Records []types.RawRecord
}

// Options selects what part of the workbook is read.
type Options struct {
	// SheetName is the worksheet to read. Empty means the first sheet.
	SheetName string

	// HeaderRow is the 0-based row holding the headers.
	// Default: 0 (Row 1)
	HeaderRow int
}

// Layouts used when a date or time cell holds an Excel serial number.
const (
	dateLayout  = "02/01/2006"
	clockLayout = "15:04:05"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first worksheet of an export.
func Parse(path string) (*Sheet, error) {
	return ParseWithOptions(path, Options{})
}

// ParseWithOptions reads an export using custom options.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//   - opts: The sheet selection.
//
// RETURNS:
//   - The parsed sheet. Records keep the sheet order.
//   - An error if the workbook cannot be opened or the sheet is missing.
func ParseWithOptions(path string, opts Options) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in workbook", sheetName)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	sheet := &Sheet{
		SourceFile: path,
		SheetName:  sheetName,
		Records:    []types.RawRecord{},
	}
	if len(rows) <= opts.HeaderRow {
		return sheet, nil
	}

	sheet.Headers = cleanHeaders(rows[opts.HeaderRow])
	for i := opts.HeaderRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		sheet.Records = append(sheet.Records, types.FromRow(i+1, rowMap(sheet.Headers, row)))
	}

	return sheet, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// rowMap pairs a data row with the headers. The first occurrence of a
// duplicated header wins; missing cells are empty.
func rowMap(headers, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if _, seen := values[header]; seen {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		switch header {
		case types.ColumnTransactionDate:
			value = serialToText(value, dateLayout)
		case types.ColumnTransactionTime:
			value = serialToText(value, clockLayout)
		}
		values[header] = value
	}
	return values
}

// serialToText converts an Excel serial date to text. Anything that is not
// a serial number is returned unchanged.
func serialToText(value, layout string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 0 {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		headers[i] = strings.TrimSpace(cell)
	}
	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
