// =============================================================================
// Fuel Supply Sync - Batch Processor
// =============================================================================
//
// This module walks every record of a fuel-supply export through the
// reconciliation steps and produces one result per record, in input order.
//
// PROCESSING FLOW (per record):
//   1. Skip records whose supply code is already registered (JA_EXISTE)
//   2. Resolve the vehicle, registering it when unknown
//   3. Resolve the driver when a cpf is given, registering it when unknown
//   4. Resolve the fuel-station supplier when a cnpj is given
//   5. Decode the line items and resolve their products
//   6. Build the payload and submit it
//
// The first failing step decides the record's status and ends its
// processing. A failed record never stops the batch.
//
// =============================================================================

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/fuel-supply-sync/internal/resolver"
	"github.com/ginjaninja78/fuel-supply-sync/internal/transformer"
	"github.com/ginjaninja78/fuel-supply-sync/internal/types"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// ExistenceChecker reports whether a supply code is already registered.
type ExistenceChecker interface {
	Exists(ctx context.Context, code string) bool
}

// EntityResolver maps natural keys to API ids. *resolver.Resolver
// satisfies it.
type EntityResolver interface {
	Vehicle(ctx context.Context, plate string) (resolver.Entity, error)
	Driver(ctx context.Context, cpf, name string) (resolver.Entity, error)
	Supplier(ctx context.Context, cnpj string) (resolver.Entity, error)
	ProductID(ctx context.Context, name string) int
}

// Submitter posts a fuel-supply payload. *fleetapi.Client satisfies it.
type Submitter interface {
	CreateFuelSupply(ctx context.Context, payload any) error
}

// ProgressFunc is called after each record with its 1-based position.
type ProgressFunc func(index, total int, result types.ResultRecord)

// Options configures a Processor.
type Options struct {
	CompanyID       int
	GasStationBrand string

	// RecordDelay is the pause after each record.
	RecordDelay time.Duration

	// Progress is optional.
	Progress ProgressFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor reconciles fuel-supply records against the fleet API.
type Processor struct {
	guard     ExistenceChecker
	resolver  EntityResolver
	submitter Submitter
	opts      Options
	logger    zerolog.Logger

	// sleep waits between records. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewProcessor creates a Processor.
func NewProcessor(guard ExistenceChecker, res EntityResolver, submitter Submitter, opts Options, logger zerolog.Logger) *Processor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{
		guard:     guard,
		resolver:  res,
		submitter: submitter,
		opts:      opts,
		logger:    logger.With().Str("component", "processor").Logger(),
		sleep:     sleepContext,
	}
}

// batchRun is the state of one Run call.
type batchRun struct {
	id      string
	total   int
	results []types.ResultRecord
	started time.Time
}

// Run processes every record and returns exactly one result per record, in
// the same order. Once ctx is done the remaining records are marked
// ERRO_PROCESSAMENTO without contacting the API.
func (p *Processor) Run(ctx context.Context, records []types.RawRecord) []types.ResultRecord {
	run := &batchRun{
		id:      uuid.NewString(),
		total:   len(records),
		results: make([]types.ResultRecord, 0, len(records)),
		started: time.Now(),
	}
	log := p.logger.With().Str("run_id", run.id).Logger()
	log.Info().Int("records", run.total).Msg("starting batch")

	for i, rec := range records {
		var result types.ResultRecord
		if err := ctx.Err(); err != nil {
			result = failed(rec, types.StatusProcessingError, fmt.Sprintf("Erro no processamento: %v", err))
		} else {
			log.Info().Int("index", i+1).Int("total", run.total).Str("plate", rec.Plate).
				Str("code", rec.SupplyID).Msg("processing record")
			result = p.ProcessRecord(ctx, rec)
		}
		run.results = append(run.results, result)

		event := log.Info()
		if !result.Processed {
			event = log.Warn()
		}
		event.Int("index", i+1).Str("status", result.Status.String()).Msg(result.Message)

		if p.opts.Progress != nil {
			p.opts.Progress(i+1, run.total, result)
		}

		if i < len(records)-1 && ctx.Err() == nil {
			_ = p.sleep(ctx, p.opts.RecordDelay)
		}
	}

	log.Info().Int("records", run.total).Dur("elapsed", time.Since(run.started)).Msg("batch finished")
	return run.results
}

// ProcessRecord reconciles a single record. It never panics: an unexpected
// failure is reported as ERRO_PROCESSAMENTO.
func (p *Processor) ProcessRecord(ctx context.Context, rec types.RawRecord) (result types.ResultRecord) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Int("row", rec.RowNumber).Msg("record processing panicked")
			result = failed(rec, types.StatusProcessingError, fmt.Sprintf("Erro no processamento: %v", r))
		}
	}()

	code := strings.TrimSpace(rec.SupplyID)
	if code != "" && p.guard.Exists(ctx, code) {
		return types.ResultRecord{
			RawRecord: rec,
			Processed: true,
			Message:   "Abastecimento já existe na API",
			Status:    types.StatusAlreadyExists,
		}
	}

	plate := strings.TrimSpace(rec.Plate)
	vehicle, err := p.resolver.Vehicle(ctx, plate)
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrCreateFailed):
			return failed(rec, types.StatusVehicleCreateFailed,
				fmt.Sprintf("Erro ao cadastrar veículo automaticamente - Placa: %s", plate))
		case errors.Is(err, resolver.ErrNotFound):
			return failed(rec, types.StatusVehicleNotFound,
				"Veículo não encontrado na API e placa não fornecida para cadastro automático")
		default:
			return processingError(rec, err)
		}
	}

	var driver resolver.Entity
	cpf := strings.TrimSpace(rec.DriverCPF)
	if cpf != "" {
		driver, err = p.resolver.Driver(ctx, cpf, rec.DriverName)
		if err != nil {
			switch {
			case errors.Is(err, resolver.ErrCreateFailed):
				return failed(rec, types.StatusDriverCreateFailed,
					fmt.Sprintf("Erro ao cadastrar motorista automaticamente - Nome: %s, CPF: %s", rec.DriverName, cpf))
			case errors.Is(err, resolver.ErrNotFound):
				return failed(rec, types.StatusDriverNotFound,
					fmt.Sprintf("Motorista não encontrado na API por CPF: %s e nome não fornecido para cadastro automático", cpf))
			default:
				return processingError(rec, err)
			}
		}
	}

	var supplier resolver.Entity
	cnpj := strings.TrimSpace(rec.StationCNPJ)
	if cnpj != "" {
		supplier, err = p.resolver.Supplier(ctx, cnpj)
		if err != nil {
			if errors.Is(err, resolver.ErrNotFound) {
				return failed(rec, types.StatusSupplierNotFound,
					fmt.Sprintf("Fornecedor não encontrado na API por CNPJ: %s", cnpj))
			}
			return processingError(rec, err)
		}
	}

	items, err := transformer.BuildItems(ctx, rec, p.resolver)
	if err != nil {
		var itemsErr *transformer.ItemsError
		if errors.As(err, &itemsErr) {
			return failed(rec, types.StatusItemsJSONError,
				fmt.Sprintf("Erro ao processar JSON dos items: %v", itemsErr.Err))
		}
		return processingError(rec, err)
	}

	payload := transformer.BuildPayload(rec, transformer.Refs{
		VehicleID:  vehicle.ID,
		PersonID:   driver.ID,
		SupplierID: supplier.ID,
	}, items, transformer.PayloadOptions{
		CompanyID:       p.opts.CompanyID,
		GasStationBrand: p.opts.GasStationBrand,
		Now:             p.opts.Now(),
	})

	if err := p.submitter.CreateFuelSupply(ctx, payload); err != nil {
		p.logger.Error().Err(err).Str("code", payload.Code).Msg("fuel supply submission failed")
		return failed(rec, types.StatusCreateFailed, "Erro ao criar abastecimento")
	}

	vehicleCreated := vehicle.Created()
	driverCreated := driver.Created()
	return types.ResultRecord{
		RawRecord:             rec,
		Processed:             true,
		Message:               successMessage(plate, rec.DriverName, vehicleCreated, driverCreated),
		Status:                types.CreatedStatus(vehicleCreated, driverCreated),
		Payload:               &payload,
		AutoRegisteredVehicle: vehicleCreated,
		AutoRegisteredDriver:  driverCreated,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func failed(rec types.RawRecord, status types.Status, message string) types.ResultRecord {
	return types.ResultRecord{
		RawRecord: rec,
		Processed: false,
		Message:   message,
		Status:    status,
	}
}

func processingError(rec types.RawRecord, err error) types.ResultRecord {
	return failed(rec, types.StatusProcessingError, fmt.Sprintf("Erro no processamento: %v", err))
}

func successMessage(plate, driverName string, vehicleCreated, driverCreated bool) string {
	switch {
	case vehicleCreated && driverCreated:
		return fmt.Sprintf("Abastecimento criado com sucesso. Veículo (%s) e motorista (%s) cadastrados automaticamente",
			plate, resolver.FormatName(driverName))
	case vehicleCreated:
		return fmt.Sprintf("Abastecimento criado com sucesso. Veículo cadastrado automaticamente: %s", plate)
	case driverCreated:
		return fmt.Sprintf("Abastecimento criado com sucesso. Motorista cadastrado automaticamente: %s",
			resolver.FormatName(driverName))
	default:
		return "Abastecimento criado com sucesso"
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
