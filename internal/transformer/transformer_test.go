package transformer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// fakeProducts resolves names from a map and records the lookups.
type fakeProducts struct {
	ids    map[string]int
	lookup []string
}

func (f *fakeProducts) ProductID(_ context.Context, name string) int {
	f.lookup = append(f.lookup, name)
	return f.ids[name]
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"-23.5505", -23.5505},
		{"-23,5505", -23.5505},
		{" 150.75 ", 150.75},
		{"", 0},
		{"null", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"abc", 0},
		{"1.234,56", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFloat(tt.in), tt.in)
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 12345, ParseInt("12345"))
	assert.Equal(t, 12345, ParseInt("12345.0"))
	assert.Equal(t, 12345, ParseInt("12345.9"))
	assert.Equal(t, 0, ParseInt(""))
	assert.Equal(t, 0, ParseInt("km"))
	assert.Equal(t, 0, ParseInt("1e300"))
}

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 0.0, CoerceFloat(nil))
	assert.Equal(t, 0.0, CoerceFloat("null"))
	assert.Equal(t, 0.0, CoerceFloat(true))
	assert.Equal(t, 2.5, CoerceFloat(2.5))
	assert.Equal(t, 3.0, CoerceFloat(3))
	assert.Equal(t, 42.1, CoerceFloat("42.1"))
	assert.Equal(t, 7.25, CoerceFloat(json.Number("7.25")))
}

func TestParseItemsNullLikeValues(t *testing.T) {
	rec := types.RawRecord{ItemsJSON: `[{"nome":"Diesel","quantidade":"null","valorTotal":null}]`}

	items, err := ParseItems(rec)
	require.NoError(t, err)
	assert.Equal(t, []types.LineItem{{Name: "Diesel", Quantity: 0, TotalValue: 0}}, items)
}

func TestParseItemsSkipsUnnamed(t *testing.T) {
	rec := types.RawRecord{ItemsJSON: `[
		{"nome":"Diesel S10","quantidade":"45.5","valorTotal":250.3},
		{"nome":"","quantidade":1,"valorTotal":10},
		{"quantidade":1,"valorTotal":10},
		{"nome":"Arla 32","quantidade":"x","valorTotal":"12,40"}
	]`}

	items, err := ParseItems(rec)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, types.LineItem{Name: "Diesel S10", Quantity: 45.5, TotalValue: 250.3}, items[0])
	assert.Equal(t, types.LineItem{Name: "Arla 32", Quantity: 0, TotalValue: 12.4}, items[1])
}

func TestParseItemsBlankCell(t *testing.T) {
	items, err := ParseItems(types.RawRecord{ItemsJSON: "  "})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestParseItemsPrefersEntries(t *testing.T) {
	rec := types.RawRecord{
		ItemsJSON:   "not json",
		ItemEntries: []map[string]any{{"nome": "Gasolina", "quantidade": 30.0, "valorTotal": "180"}},
	}

	items, err := ParseItems(rec)
	require.NoError(t, err)
	assert.Equal(t, []types.LineItem{{Name: "Gasolina", Quantity: 30, TotalValue: 180}}, items)
}

func TestParseItemsMalformed(t *testing.T) {
	for _, text := range []string{
		`[{"nome":"Diesel"`,
		`{"nome":"Diesel"}`,
		`null`,
		`[1, 2]`,
		`[] []`,
	} {
		_, err := ParseItems(types.RawRecord{ItemsJSON: text})

		var itemsErr *ItemsError
		assert.True(t, errors.As(err, &itemsErr), text)
	}
}

func TestBuildItemsResolvesProducts(t *testing.T) {
	products := &fakeProducts{ids: map[string]int{"Diesel S10": 21}}
	rec := types.RawRecord{ItemsJSON: `[{"nome":"Diesel S10","quantidade":40,"valorTotal":220},{"nome":"Arla 32","quantidade":2,"valorTotal":9}]`}

	items, err := BuildItems(context.Background(), rec, products)
	require.NoError(t, err)

	assert.Equal(t, []types.PayloadItem{
		{ProductID: 21, Value: 220, Quantity: 40},
		{ProductID: 0, Value: 9, Quantity: 2},
	}, items)
	assert.Equal(t, []string{"Diesel S10", "Arla 32"}, products.lookup)
}

func TestBuildItemsMalformedSkipsLookups(t *testing.T) {
	products := &fakeProducts{}
	_, err := BuildItems(context.Background(), types.RawRecord{ItemsJSON: "{"}, products)

	var itemsErr *ItemsError
	assert.True(t, errors.As(err, &itemsErr))
	assert.Empty(t, products.lookup)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, types.SupplyApproved, MapStatus(AuthorizationApproved))
	assert.Equal(t, types.SupplyRejected, MapStatus(AuthorizationRejected))
	assert.Equal(t, types.SupplyRejected, MapStatus(" Recusada "))
	assert.Equal(t, types.SupplyApproved, MapStatus("Pendente"))
	assert.Equal(t, types.SupplyApproved, MapStatus(""))
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.Local)
	fallback := "2025-01-02T03:04:05.123456Z"

	tests := []struct {
		name  string
		date  string
		clock string
		want  string
	}{
		{"day first", "15/03/2024", "14:30:00", "2024-03-15T14:30:00Z"},
		{"iso date", "2024-03-15", "14:30:00", "2024-03-15T14:30:00Z"},
		{"one-digit day and month", "5/1/2024", "10:30", "2024-01-05T10:30:00Z"},
		{"one-digit month", "15/1/2024", "10:30", "2024-01-15T10:30:00Z"},
		{"zero-padded day and month", "05/01/2024", "10:30", "2024-01-05T10:30:00Z"},
		{"unpadded iso date", "2024-1-5", "10:30", "2024-01-05T10:30:00Z"},
		{"free-form day first", "5/1/24 08:00", "10:30", "2024-01-05T10:30:00Z"},
		{"short clock", "15/03/2024", "07:05", "2024-03-15T07:05:00Z"},
		{"date with midnight time", "2024-03-15 00:00:00", "14:30:00", "2024-03-15T14:30:00Z"},
		{"clock as datetime", "15/03/2024", "1900-01-01 14:30:15", "2024-03-15T14:30:15Z"},
		{"missing date", "", "14:30:00", fallback},
		{"missing clock", "15/03/2024", " ", fallback},
		{"garbage date", "ontem", "14:30:00", fallback},
		{"garbage clock", "15/03/2024", "sem hora", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.date, tt.clock, now))
			assert.Equal(t, tt.want != fallback, HasTimestamp(tt.date, tt.clock))
		})
	}
}

func TestBuildPayload(t *testing.T) {
	rec := types.RawRecord{
		SupplyID:            " 98765 ",
		AuthorizationStatus: "Recusada",
		Latitude:            "-23,5505",
		Longitude:           "-46.6333",
		TotalValue:          "250.30",
		Odometer:            "120500.0",
		TransactionDate:     "15/03/2024",
		TransactionTime:     "14:30:00",
	}
	opts := PayloadOptions{CompanyID: 3, GasStationBrand: "IPIRANGA", Now: time.Now()}

	got := BuildPayload(rec, Refs{VehicleID: 1, PersonID: 2}, nil, opts)

	assert.Equal(t, types.SubmissionPayload{
		VehicleID:       1,
		PersonID:        2,
		SupplierID:      0,
		CompanyID:       3,
		Code:            "98765",
		Status:          types.SupplyRejected,
		Lat:             -23.5505,
		Lon:             -46.6333,
		GasStationBrand: "IPIRANGA",
		Value:           250.30,
		Odometer:        120500,
		Date:            "2024-03-15T14:30:00Z",
		Items:           []types.PayloadItem{},
	}, got)

	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"items":[]`)
	assert.Contains(t, string(body), `"personId":2`)
}

func TestBuildPayloadBlankNumbers(t *testing.T) {
	got := BuildPayload(types.RawRecord{Latitude: "n/d"}, Refs{VehicleID: 1}, nil, PayloadOptions{})

	assert.Zero(t, got.Lat)
	assert.Zero(t, got.Lon)
	assert.Zero(t, got.Value)
	assert.Zero(t, got.Odometer)
	assert.Equal(t, "", got.Code)
	assert.Equal(t, types.SupplyApproved, got.Status)
}
