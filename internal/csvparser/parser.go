// =============================================================================
// Fuel Supply Sync - CSV Export Parser
// =============================================================================
//
// This module reads fuel-supply exports saved as CSV. It produces the same
// RawRecords as the XLSX parser, so the rest of the pipeline does not care
// which format was supplied.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - UTF-8 byte order mark stripped from the first header
//   - Variable number of fields per row
//   - Columns matched by header text
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// utf8BOM is written by spreadsheet tools at the start of CSV exports.
const utf8BOM = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed export.
type CSVData struct {
	// SourceFile is the path to the source CSV file.
	SourceFile string

	// Headers contains the trimmed column headers.
	Headers []string

	// Records holds one entry per non-empty data row.
	Records []types.RawRecord
}

// Settings controls how the file is split into fields.
type Settings struct {
	// Delimiter is the field separator. Accepts a single character or one of
	// "tab", "pipe", "semicolon". Default: ","
	Delimiter string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV export from disk.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The field separator settings.
//
// RETURNS:
//   - The parsed data. Records keep the file order.
//   - An error if the file cannot be read or has no header row.
func Parse(filePath string, settings Settings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath
	return data, nil
}

// ParseReader reads a CSV export from r.
func ParseReader(r io.Reader, settings Settings) (*CSVData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	data := &CSVData{
		Headers: cleanHeaders(allRows[0]),
		Records: []types.RawRecord{},
	}

	for i := 1; i < len(allRows); i++ {
		row := allRows[i]
		if isRowEmpty(row) {
			continue
		}

		values := make(map[string]string, len(data.Headers))
		for col, header := range data.Headers {
			if _, seen := values[header]; seen {
				continue
			}
			if col < len(row) {
				values[header] = strings.TrimSpace(row[col])
			} else {
				values[header] = ""
			}
		}

		// Row numbers count the header as row 1, matching the spreadsheet view.
		data.Records = append(data.Records, types.FromRow(i+1, values))
	}

	return data, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
