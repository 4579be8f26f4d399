// =============================================================================
// Fuel Supply Sync - Report Writer
// =============================================================================
//
// This module writes the outcome of a sync run to an .xlsx workbook.
//
// WORKBOOK STRUCTURE:
//   Dados Completos  every input row, in input order, with the source columns
//                    followed by the processing columns:
//
//   | Placa | ... | Items JSON | STATUS_PROCESSAMENTO | PROCESSADO | ... |
//   |-------|-----|------------|----------------------|------------|-----|
//   | ABC1D | ... | [{...}]    | CRIADO               | SIM        | ... |
//
//   Erros            the same columns, only rows with PROCESSADO = NÃO
//   Resumo           Métrica / Quantidade, the total then one line per status
//
// CUSTOMIZATION:
//   - Sheet names and processing column headers are constants below
//   - Metric labels are defined per status in MetricLabel
//
// =============================================================================

package report

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// Sheet names.
const (
	SheetFullData = "Dados Completos"
	SheetErrors   = "Erros"
	SheetSummary  = "Resumo"
)

// Processing column headers, appended after the source columns.
const (
	ColumnStatus         = "STATUS_PROCESSAMENTO"
	ColumnProcessed      = "PROCESSADO"
	ColumnVehicleCreated = "VEICULO_CADASTRADO_AUTO"
	ColumnDriverCreated  = "MOTORISTA_CADASTRADO_AUTO"
	ColumnMessage        = "MENSAGEM"
	ColumnPayload        = "PAYLOAD"
)

// Summary sheet headers and the total line label.
const (
	SummaryMetricHeader   = "Métrica"
	SummaryQuantityHeader = "Quantidade"
	MetricTotal           = "Total Processados"
)

const (
	yes = "SIM"
	no  = "NÃO"
)

// =============================================================================
// SUMMARY
// =============================================================================

// Summary counts the results of a run per status.
type Summary struct {
	Total     int
	Processed int
	Failed    int
	Counts    map[types.Status]int
}

// Summarize counts results. Every status of types.AllStatuses has an entry,
// zero when no result has it.
func Summarize(results []types.ResultRecord) Summary {
	s := Summary{
		Total:  len(results),
		Counts: make(map[types.Status]int, len(types.AllStatuses())),
	}
	for _, status := range types.AllStatuses() {
		s.Counts[status] = 0
	}
	for _, r := range results {
		s.Counts[r.Status]++
		if r.Processed {
			s.Processed++
		} else {
			s.Failed++
		}
	}
	return s
}

// MetricLabel returns the summary sheet label of a status.
func MetricLabel(status types.Status) string {
	switch status {
	case types.StatusCreated:
		return "Criados com Sucesso"
	case types.StatusCreatedWithVehicle:
		return "Criados com Veículo Cadastrado Automaticamente"
	case types.StatusCreatedWithDriver:
		return "Criados com Motorista Cadastrado Automaticamente"
	case types.StatusCreatedWithVehicleAndDriver:
		return "Criados com Veículo e Motorista Cadastrados Automaticamente"
	case types.StatusAlreadyExists:
		return "Já Existem na API"
	case types.StatusVehicleNotFound:
		return "Veículos Não Encontrados"
	case types.StatusVehicleCreateFailed:
		return "Erros ao Cadastrar Veículo"
	case types.StatusDriverNotFound:
		return "Motoristas Não Encontrados"
	case types.StatusDriverCreateFailed:
		return "Erros ao Cadastrar Motorista"
	case types.StatusSupplierNotFound:
		return "Fornecedores Não Encontrados"
	case types.StatusItemsJSONError:
		return "Erros de JSON nos Items"
	case types.StatusProcessingError:
		return "Erros de Processamento"
	case types.StatusCreateFailed:
		return "Erros de Criação"
	case types.StatusUnknown:
		return "Sem Status"
	}
	return status.String()
}

// =============================================================================
// WORKBOOK WRITING
// =============================================================================

// Headers returns the header row of the data sheets.
func Headers() []string {
	return append(types.ExpectedColumns(),
		ColumnStatus,
		ColumnProcessed,
		ColumnVehicleCreated,
		ColumnDriverCreated,
		ColumnMessage,
		ColumnPayload,
	)
}

// Write saves the report for results at path.
//
// PARAMETERS:
//   - path: The .xlsx file to create. Its directory must exist.
//   - results: The run results, in input order.
//
// RETURNS:
//   - An error if a row cannot be encoded or the file cannot be saved.
func Write(path string, results []types.ResultRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetFullData); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	for _, name := range []string{SheetErrors, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("error creating sheet: %w", err)
		}
	}

	var errorRows [][]any
	allRows := make([][]any, 0, len(results))
	for _, r := range results {
		row, err := resultRow(r)
		if err != nil {
			return fmt.Errorf("row %d: %w", r.RowNumber, err)
		}
		allRows = append(allRows, row)
		if !r.Processed {
			errorRows = append(errorRows, row)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	headers := Headers()
	if err := writeSheet(f, SheetFullData, headers, allRows, headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, SheetErrors, headers, errorRows, headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, SheetSummary,
		[]string{SummaryMetricHeader, SummaryQuantityHeader},
		summaryRows(Summarize(results)), headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// writeSheet writes the header row and the data rows below it.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s: failed to write headers: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s: failed to style headers: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

// resultRow flattens a result into the data sheet columns.
func resultRow(r types.ResultRecord) ([]any, error) {
	payload := ""
	if r.Payload != nil {
		data, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		payload = string(data)
	}

	values := r.RawRecord.Values()
	row := make([]any, 0, len(values)+6)
	for _, v := range values {
		row = append(row, v)
	}
	return append(row,
		r.Status.String(),
		flag(r.Processed),
		flag(r.AutoRegisteredVehicle),
		flag(r.AutoRegisteredDriver),
		r.Message,
		payload,
	), nil
}

func summaryRows(s Summary) [][]any {
	rows := [][]any{{MetricTotal, s.Total}}
	for _, status := range types.AllStatuses() {
		rows = append(rows, []any{MetricLabel(status), s.Counts[status]})
	}
	return rows
}

func flag(b bool) string {
	if b {
		return yes
	}
	return no
}
