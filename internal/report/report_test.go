package report

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

func sampleResults() []types.ResultRecord {
	return []types.ResultRecord{
		{
			RawRecord: types.RawRecord{RowNumber: 2, Plate: "ABC1D23", SupplyID: "1001", ItemsJSON: `[{"nome":"Diesel"}]`},
			Processed: true,
			Status:    types.StatusCreatedWithVehicle,
			Message:   "Abastecimento criado com sucesso",
			Payload: &types.SubmissionPayload{
				VehicleID: 7,
				Code:      "1001",
				Status:    types.SupplyApproved,
				Date:      "2024-03-15T14:30:00Z",
				Items:     []types.PayloadItem{{ProductID: 3, Value: 60, Quantity: 10}},
			},
			AutoRegisteredVehicle: true,
		},
		{
			RawRecord: types.RawRecord{RowNumber: 3, Plate: "XYZ9K88", SupplyID: "1002"},
			Processed: true,
			Status:    types.StatusAlreadyExists,
			Message:   "Abastecimento já existe na API",
		},
		{
			RawRecord: types.RawRecord{RowNumber: 4, SupplyID: "1003", StationCNPJ: "12345678000190"},
			Status:    types.StatusSupplierNotFound,
			Message:   "Fornecedor não encontrado na API por CNPJ: 12345678000190",
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, s.Counts, len(types.AllStatuses()))
	assert.Equal(t, 1, s.Counts[types.StatusCreatedWithVehicle])
	assert.Equal(t, 1, s.Counts[types.StatusAlreadyExists])
	assert.Equal(t, 1, s.Counts[types.StatusSupplierNotFound])
	assert.Zero(t, s.Counts[types.StatusCreated])

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Len(t, empty.Counts, len(types.AllStatuses()))
}

func TestMetricLabelCoversEveryStatus(t *testing.T) {
	seen := map[string]bool{}
	for _, status := range types.AllStatuses() {
		label := MetricLabel(status)
		assert.NotEqual(t, status.String(), label, status.String())
		assert.False(t, seen[label], "duplicate label %q", label)
		seen[label] = true
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorio.xlsx")
	require.NoError(t, Write(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetFullData, SheetErrors, SheetSummary}, f.GetSheetList())

	full, err := f.GetRows(SheetFullData)
	require.NoError(t, err)
	require.Len(t, full, 4)
	assert.Equal(t, Headers(), full[0])

	col := func(name string) int {
		for i, h := range Headers() {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}

	first := full[1]
	assert.Equal(t, "ABC1D23", first[col(types.ColumnPlate)])
	assert.Equal(t, "CRIADO_COM_VEICULO_AUTO", first[col(ColumnStatus)])
	assert.Equal(t, "SIM", first[col(ColumnProcessed)])
	assert.Equal(t, "SIM", first[col(ColumnVehicleCreated)])
	assert.Equal(t, "NÃO", first[col(ColumnDriverCreated)])

	var payload types.SubmissionPayload
	require.NoError(t, json.Unmarshal([]byte(first[col(ColumnPayload)]), &payload))
	assert.Equal(t, 7, payload.VehicleID)
	assert.Equal(t, "1001", payload.Code)
	require.Len(t, payload.Items, 1)

	assert.Equal(t, "JA_EXISTE", full[2][col(ColumnStatus)])
	assert.Len(t, full[2], col(ColumnMessage)+1, "no payload cell for rows that were not submitted")

	errs, err := f.GetRows(SheetErrors)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "1003", errs[1][col(types.ColumnSupplyID)])
	assert.Equal(t, "FORNECEDOR_NAO_ENCONTRADO", errs[1][col(ColumnStatus)])
	assert.Equal(t, "NÃO", errs[1][col(ColumnProcessed)])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, len(types.AllStatuses())+2)
	assert.Equal(t, []string{SummaryMetricHeader, SummaryQuantityHeader}, summary[0])
	assert.Equal(t, []string{MetricTotal, "3"}, summary[1])

	counts := map[string]string{}
	for _, row := range summary[2:] {
		counts[row[0]] = row[1]
	}
	assert.Equal(t, "1", counts["Criados com Veículo Cadastrado Automaticamente"])
	assert.Equal(t, "1", counts["Já Existem na API"])
	assert.Equal(t, "1", counts["Fornecedores Não Encontrados"])
	assert.Equal(t, "0", counts["Erros de Criação"])
}

func TestWriteEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vazio.xlsx")
	require.NoError(t, Write(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	errs, err := f.GetRows(SheetErrors)
	require.NoError(t, err)
	assert.Len(t, errs, 1)

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{MetricTotal, "0"}, summary[1])
}

func TestWriteUnwritablePath(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "relatorio.xlsx"), nil)
	assert.ErrorContains(t, err, "failed to save report")
}
