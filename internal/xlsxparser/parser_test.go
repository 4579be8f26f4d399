package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// writeWorkbook saves rows into a new workbook, one slice per row.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "abastecimentos.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseMatchesHeadersByName(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Hora", "Placa", " CPF Motorista ", "Extra", "Data Transação", "Latitude Posto", "Items JSON", "ID Abastecimento"},
		{"14:30:00", "ABC1D23", "123.456.789-01", "x", "15/03/2024", -23.55, `[{"nome":"Diesel"}]`, "98765"},
		{},
		{"", "XYZ9K88", "", "", 45366, "", "", 1234},
	})

	sheet, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.SheetName)
	assert.Contains(t, sheet.Headers, types.ColumnDriverCPF)
	require.Len(t, sheet.Records, 2)

	first := sheet.Records[0]
	assert.Equal(t, 2, first.RowNumber)
	assert.Equal(t, "ABC1D23", first.Plate)
	assert.Equal(t, "123.456.789-01", first.DriverCPF)
	assert.Equal(t, "15/03/2024", first.TransactionDate)
	assert.Equal(t, "14:30:00", first.TransactionTime)
	assert.Equal(t, "-23.55", first.Latitude)
	assert.Equal(t, `[{"nome":"Diesel"}]`, first.ItemsJSON)
	assert.Equal(t, "98765", first.SupplyID)
	assert.Empty(t, first.StationCNPJ)

	second := sheet.Records[1]
	assert.Equal(t, 4, second.RowNumber)
	assert.Equal(t, "15/03/2024", second.TransactionDate)
	assert.Equal(t, "1234", second.SupplyID)
}

func TestParseSerialTime(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Placa", "Data Transação", "Hora"},
		{"ABC1D23", 45366, 0.5},
	})

	sheet, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, sheet.Records, 1)
	assert.Equal(t, "12:00:00", sheet.Records[0].TransactionTime)
}

func TestParseNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Abastecimentos", [][]any{
		{"Placa"},
		{"ABC1D23"},
	})

	sheet, err := ParseWithOptions(path, Options{SheetName: "Abastecimentos"})
	require.NoError(t, err)
	require.Len(t, sheet.Records, 1)

	_, err = ParseWithOptions(path, Options{SheetName: "Outra"})
	assert.ErrorContains(t, err, "not found")
}

func TestParseHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"Placa", "Hora"}})

	sheet, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Placa", "Hora"}, sheet.Headers)
	assert.NotNil(t, sheet.Records)
	assert.Empty(t, sheet.Records)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestSerialToText(t *testing.T) {
	assert.Equal(t, "15/03/2024", serialToText("45366", dateLayout))
	assert.Equal(t, "15/03/2024", serialToText("15/03/2024", dateLayout))
	assert.Equal(t, "", serialToText("", dateLayout))
	assert.Equal(t, "-1", serialToText("-1", dateLayout))
}
