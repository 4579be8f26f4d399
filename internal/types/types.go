// =============================================================================
// Fuel Supply Sync - Shared Types
// =============================================================================
//
// This package contains the record types shared by the readers, the
// reconciliation pipeline and the report writer. Keeping them here avoids
// import cycles between:
//   - xlsxparser / csvparser (produce RawRecord)
//   - reconcile (consumes RawRecord, produces ResultRecord)
//   - report (consumes ResultRecord)
//
// =============================================================================

package types

// =============================================================================
// SOURCE COLUMNS
// =============================================================================

// Column names of the fuel-supply export. These are the exact header texts
// used by the spreadsheet and reproduced in the report.
const (
	ColumnPlate               = "Placa"
	ColumnDriverCPF           = "CPF Motorista"
	ColumnDriverName          = "Nome Motorista"
	ColumnStationCNPJ         = "CNPJ Posto"
	ColumnStationName         = "Razão Social Posto"
	ColumnSupplyID            = "ID Abastecimento"
	ColumnAuthorizationStatus = "Status Autorização"
	ColumnLatitude            = "Latitude Posto"
	ColumnLongitude           = "Longitude Posto"
	ColumnTotalValue          = "Valor Total Abastecimento"
	ColumnOdometer            = "Hodômetro"
	ColumnTransactionDate     = "Data Transação"
	ColumnTransactionTime     = "Hora"
	ColumnItemsJSON           = "Items JSON"
)

// ExpectedColumns returns the source columns in sheet order.
func ExpectedColumns() []string {
	return []string{
		ColumnPlate,
		ColumnDriverCPF,
		ColumnDriverName,
		ColumnStationCNPJ,
		ColumnStationName,
		ColumnSupplyID,
		ColumnAuthorizationStatus,
		ColumnLatitude,
		ColumnLongitude,
		ColumnTotalValue,
		ColumnOdometer,
		ColumnTransactionDate,
		ColumnTransactionTime,
		ColumnItemsJSON,
	}
}

// =============================================================================
// RAW RECORD
// =============================================================================

// RawRecord is one row of the fuel-supply export.
// Values are kept as the text read from the sheet; numeric coercion happens
// in the transformer so that the report can echo the original cell values.
type RawRecord struct {
	// RowNumber is the 1-based row number in the source sheet.
	// Useful for error reporting.
	RowNumber int

	Plate               string
	DriverCPF           string
	DriverName          string
	StationCNPJ         string
	StationName         string
	SupplyID            string
	AuthorizationStatus string
	Latitude            string
	Longitude           string
	TotalValue          string
	Odometer            string
	TransactionDate     string
	TransactionTime     string

	// ItemsJSON holds the line items serialized as a JSON array.
	ItemsJSON string

	// ItemEntries holds line items that were already structured at the
	// source. When non-nil it takes precedence over ItemsJSON.
	ItemEntries []map[string]any
}

// FromRow builds a RawRecord from a header -> value map.
// Missing columns are left empty.
func FromRow(rowNumber int, row map[string]string) RawRecord {
	return RawRecord{
		RowNumber:           rowNumber,
		Plate:               row[ColumnPlate],
		DriverCPF:           row[ColumnDriverCPF],
		DriverName:          row[ColumnDriverName],
		StationCNPJ:         row[ColumnStationCNPJ],
		StationName:         row[ColumnStationName],
		SupplyID:            row[ColumnSupplyID],
		AuthorizationStatus: row[ColumnAuthorizationStatus],
		Latitude:            row[ColumnLatitude],
		Longitude:           row[ColumnLongitude],
		TotalValue:          row[ColumnTotalValue],
		Odometer:            row[ColumnOdometer],
		TransactionDate:     row[ColumnTransactionDate],
		TransactionTime:     row[ColumnTransactionTime],
		ItemsJSON:           row[ColumnItemsJSON],
	}
}

// Values returns the record's cells in ExpectedColumns order.
func (r RawRecord) Values() []string {
	return []string{
		r.Plate,
		r.DriverCPF,
		r.DriverName,
		r.StationCNPJ,
		r.StationName,
		r.SupplyID,
		r.AuthorizationStatus,
		r.Latitude,
		r.Longitude,
		r.TotalValue,
		r.Odometer,
		r.TransactionDate,
		r.TransactionTime,
		r.ItemsJSON,
	}
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// LineItem is a single product line of a fuel supply, after coercion.
type LineItem struct {
	Name       string
	Quantity   float64
	TotalValue float64
}

// PayloadItem is a line item as submitted to the fuel-supply endpoint.
type PayloadItem struct {
	ProductID int     `json:"productId"`
	Value     float64 `json:"value"`
	Quantity  float64 `json:"quantity"`
}

// =============================================================================
// SUBMISSION PAYLOAD
// =============================================================================

// Supply authorization states understood by the fleet API.
const (
	SupplyApproved = "SUPPLY_APPROVED"
	SupplyRejected = "SUPPLY_REJECTED"
)

// SubmissionPayload is the body posted to /fuel-supply.
type SubmissionPayload struct {
	VehicleID       int           `json:"vehicleId"`
	PersonID        int           `json:"personId"`
	SupplierID      int           `json:"supplierId"`
	CompanyID       int           `json:"companyId"`
	Code            string        `json:"code"`
	Status          string        `json:"status"`
	Lat             float64       `json:"lat"`
	Lon             float64       `json:"lon"`
	GasStationBrand string        `json:"gasStationBrand"`
	Value           float64       `json:"value"`
	Odometer        int           `json:"odometer"`
	Date            string        `json:"date"`
	Items           []PayloadItem `json:"items"`
}

// =============================================================================
// RESULT RECORD
// =============================================================================

// ResultRecord is the outcome of reconciling one RawRecord.
// Exactly one is produced per input row, in input order.
type ResultRecord struct {
	RawRecord

	Processed bool
	Message   string
	Status    Status

	// Payload is set only when a fuel supply was submitted.
	Payload *SubmissionPayload

	AutoRegisteredVehicle bool
	AutoRegisteredDriver  bool
}
