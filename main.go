// =============================================================================
// Fuel Supply Sync - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Fuel Supply Sync CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   fuelsync sync --input <file>      - Register the fuel supplies of an export
//   fuelsync validate --input <file>  - Check an export without contacting the API
//   fuelsync version                  - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Readers, fleet API client, reconciliation, report
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/fuel-supply-sync/cmd"
)

func main() {
	cmd.Execute()
}
