package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

func cleanRecord() types.RawRecord {
	return types.RawRecord{
		RowNumber:       2,
		Plate:           "ABC1D23",
		DriverCPF:       "123.456.789-01",
		StationCNPJ:     "12.345.678/0001-90",
		TransactionDate: "15/03/2024",
		TransactionTime: "14:30:00",
		ItemsJSON:       `[{"nome":"Diesel S10","quantidade":10,"valorTotal":60}]`,
	}
}

func TestMissingColumns(t *testing.T) {
	assert.Empty(t, MissingColumns(types.ExpectedColumns()))

	headers := []string{" Placa ", "Hora", "Extra"}
	missing := MissingColumns(headers)
	assert.NotContains(t, missing, types.ColumnPlate)
	assert.NotContains(t, missing, types.ColumnTransactionTime)
	assert.Contains(t, missing, types.ColumnItemsJSON)
	assert.Len(t, missing, len(types.ExpectedColumns())-2)
	assert.Equal(t, types.ColumnDriverCPF, missing[0])
}

func TestValidateColumns(t *testing.T) {
	errs := ValidateColumns([]string{"Placa"})
	require.Len(t, errs, len(types.ExpectedColumns())-1)
	for _, err := range errs {
		assert.Equal(t, SeverityError, err.Severity)
		assert.Equal(t, RuleColumnPresent, err.Rule)
		assert.Zero(t, err.RowNumber)
	}
	assert.Contains(t, errs[0].Error(), "[ERROR] Column 'CPF Motorista'")
}

func TestValidateRecordClean(t *testing.T) {
	assert.Empty(t, ValidateRecord(cleanRecord()))

	rec := cleanRecord()
	rec.DriverCPF = ""
	rec.StationCNPJ = ""
	rec.ItemsJSON = ""
	assert.Empty(t, ValidateRecord(rec), "blank optional cells are not findings")

	rec = cleanRecord()
	rec.TransactionDate = "5/1/2024"
	rec.TransactionTime = "9:05"
	assert.Empty(t, ValidateRecord(rec), "unpadded day and month are readable")
}

func TestValidateRecordFindings(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*types.RawRecord)
		rule  string
		field string
	}{
		{"blank plate", func(r *types.RawRecord) { r.Plate = "  " }, RulePlatePresent, types.ColumnPlate},
		{"cpf without digits", func(r *types.RawRecord) { r.DriverCPF = "n/a" }, RuleCPFDigits, types.ColumnDriverCPF},
		{"cnpj without digits", func(r *types.RawRecord) { r.StationCNPJ = "--" }, RuleCNPJDigits, types.ColumnStationCNPJ},
		{"malformed items", func(r *types.RawRecord) { r.ItemsJSON = "[{" }, RuleItemsJSON, types.ColumnItemsJSON},
		{"items not an array", func(r *types.RawRecord) { r.ItemsJSON = `{"nome":"x"}` }, RuleItemsJSON, types.ColumnItemsJSON},
		{"unreadable date", func(r *types.RawRecord) { r.TransactionDate = "ontem" }, RuleTimestamp, types.ColumnTransactionDate},
		{"missing time", func(r *types.RawRecord) { r.TransactionTime = "" }, RuleTimestamp, types.ColumnTransactionDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := cleanRecord()
			tt.edit(&rec)

			errs := ValidateRecord(rec)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.rule, errs[0].Rule)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, SeverityWarning, errs[0].Severity)
			assert.Equal(t, 2, errs[0].RowNumber)
		})
	}
}

func TestValidate(t *testing.T) {
	bad := cleanRecord()
	bad.RowNumber = 3
	bad.Plate = ""
	bad.ItemsJSON = "null-ish"

	result := Validate([]string{"Placa"}, []types.RawRecord{cleanRecord(), bad})

	assert.False(t, result.IsValid)
	assert.Equal(t, 2, result.RecordsValidated)
	assert.Equal(t, len(types.ExpectedColumns())-1, result.ErrorCount)
	assert.Equal(t, 2, result.WarningCount)
	assert.Len(t, result.Errors, result.ErrorCount+result.WarningCount)

	last := result.Errors[len(result.Errors)-1]
	assert.Equal(t, 3, last.RowNumber)
	assert.Contains(t, last.Error(), "[WARNING] Row 3")

	clean := Validate(types.ExpectedColumns(), []types.RawRecord{cleanRecord()})
	assert.True(t, clean.IsValid)
	assert.Empty(t, clean.Errors)
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors(ValidateRecord(types.RawRecord{RowNumber: 5, TransactionDate: "x", TransactionTime: "y"}))
	assert.Contains(t, out, "Validation completed with 2 finding(s):")
	assert.Contains(t, out, "1. [WARNING] Row 5, Field 'Placa'")
	assert.Contains(t, out, "2. [WARNING] Row 5, Field 'Data Transação'")
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validacao.log")
	require.NoError(t, WriteErrorLog(ValidateColumns(nil), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Validation run at ")
	assert.Contains(t, string(data), "Column 'Items JSON'")

	err = WriteErrorLog(nil, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.ErrorContains(t, err, "failed to write error log")
}
