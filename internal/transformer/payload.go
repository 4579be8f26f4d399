// =============================================================================
// Fuel Supply Sync - Payload Builder
// =============================================================================
//
// This module turns a record and its resolved ids into the body posted to
// /fuel-supply.
//
// FIELD RULES:
//   - status   : "Aprovada" -> SUPPLY_APPROVED, "Recusada" -> SUPPLY_REJECTED,
//                anything else -> SUPPLY_APPROVED
//   - lat, lon, value : numeric cell, 0 when blank or not a number
//   - odometer : integer, fractional readings are truncated
//   - date     : see FormatTimestamp
//   - items    : always an array, possibly empty
//
// =============================================================================

package transformer

import (
	"strings"
	"time"

	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// Authorization texts found in the export.
const (
	AuthorizationApproved = "Aprovada"
	AuthorizationRejected = "Recusada"
)

// MapStatus maps the export's authorization text to the API status.
func MapStatus(text string) string {
	switch strings.TrimSpace(text) {
	case AuthorizationRejected:
		return types.SupplyRejected
	default:
		return types.SupplyApproved
	}
}

// Refs holds the resolved ids of a record. Zero means "not present".
type Refs struct {
	VehicleID  int
	PersonID   int
	SupplierID int
}

// PayloadOptions carries the run-wide payload constants.
type PayloadOptions struct {
	CompanyID       int
	GasStationBrand string

	// Now is used as the date when the record's date cannot be read.
	Now time.Time
}

// BuildPayload assembles the fuel-supply submission for a record.
func BuildPayload(rec types.RawRecord, refs Refs, items []types.PayloadItem, opts PayloadOptions) types.SubmissionPayload {
	if items == nil {
		items = []types.PayloadItem{}
	}
	return types.SubmissionPayload{
		VehicleID:       refs.VehicleID,
		PersonID:        refs.PersonID,
		SupplierID:      refs.SupplierID,
		CompanyID:       opts.CompanyID,
		Code:            strings.TrimSpace(rec.SupplyID),
		Status:          MapStatus(rec.AuthorizationStatus),
		Lat:             ParseFloat(rec.Latitude),
		Lon:             ParseFloat(rec.Longitude),
		GasStationBrand: opts.GasStationBrand,
		Value:           ParseFloat(rec.TotalValue),
		Odometer:        ParseInt(rec.Odometer),
		Date:            FormatTimestamp(rec.TransactionDate, rec.TransactionTime, opts.Now),
		Items:           items,
	}
}
