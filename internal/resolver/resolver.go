// =============================================================================
// Fuel Supply Sync - Entity Resolver
// =============================================================================
//
// This module maps the natural keys found in a fuel-supply row to the ids the
// fleet API knows them by:
//   - plate -> vehicle  (registered automatically when unknown)
//   - cpf   -> person   (registered automatically when unknown and named)
//   - cnpj  -> supplier (never registered)
//   - name  -> product  (never registered, id 0 when unknown)
//
// Lookup errors are logged and treated as "not found". For vehicles and
// drivers that means a registration attempt follows, which surfaces a
// persistent API problem as a creation failure.
//
// =============================================================================

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/fuel-supply-sync/internal/fleetapi"
)

// =============================================================================
// ERRORS AND RESULTS
// =============================================================================

var (
	// ErrNotFound is returned when an entity is unknown and cannot be
	// registered automatically.
	ErrNotFound = errors.New("entity not found")

	// ErrCreateFailed wraps the cause of a failed automatic registration.
	ErrCreateFailed = errors.New("entity registration failed")
)

// Origin tells whether a resolved entity already existed.
type Origin int

const (
	OriginFound Origin = iota
	OriginCreated
)

func (o Origin) String() string {
	if o == OriginCreated {
		return "created"
	}
	return "found"
}

// Entity is a resolved id with its origin.
type Entity struct {
	ID     int
	Origin Origin
}

// Created reports whether the entity was registered by this resolution.
func (e Entity) Created() bool {
	return e.Origin == OriginCreated
}

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway is the subset of the fleet API the resolver uses.
// *fleetapi.Client satisfies it.
type Gateway interface {
	FindVehicleByPlate(ctx context.Context, plate string) (*fleetapi.Vehicle, error)
	CreateVehicle(ctx context.Context, payload fleetapi.VehiclePayload) (*fleetapi.Vehicle, error)
	FindPersonByCPF(ctx context.Context, cpf string) (*fleetapi.Person, error)
	CreatePerson(ctx context.Context, payload fleetapi.PersonPayload) (*fleetapi.Person, error)
	FindSupplierByCNPJ(ctx context.Context, cnpj string) (*fleetapi.Supplier, error)
	FindProductByName(ctx context.Context, name string) (*fleetapi.Product, error)
}

// Options configures a Resolver.
type Options struct {
	// CacheLookups memoizes supplier and product hits for the lifetime of
	// the resolver.
	CacheLookups bool
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves natural keys to API ids.
type Resolver struct {
	gateway Gateway
	cache   *lookupCache
	logger  zerolog.Logger
}

// New creates a Resolver.
func New(gateway Gateway, opts Options, logger zerolog.Logger) *Resolver {
	r := &Resolver{
		gateway: gateway,
		logger:  logger.With().Str("component", "resolver").Logger(),
	}
	if opts.CacheLookups {
		r.cache = newLookupCache()
	}
	return r
}

// Vehicle resolves a plate, registering a placeholder vehicle when the API
// does not know it.
//
// RETURNS:
//   - ErrNotFound when the plate is empty.
//   - An error wrapping ErrCreateFailed when registration failed.
func (r *Resolver) Vehicle(ctx context.Context, plate string) (Entity, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return Entity{}, fmt.Errorf("vehicle: empty plate: %w", ErrNotFound)
	}

	vehicle, err := r.gateway.FindVehicleByPlate(ctx, plate)
	if err != nil {
		r.logger.Warn().Err(err).Str("plate", plate).Msg("vehicle lookup failed, treating as not found")
	}
	if vehicle != nil {
		return Entity{ID: vehicle.ID, Origin: OriginFound}, nil
	}

	r.logger.Info().Str("plate", plate).Msg("vehicle not found, registering")
	created, err := r.gateway.CreateVehicle(ctx, fleetapi.NewAutoVehicle(plate))
	if err != nil {
		return Entity{}, fmt.Errorf("vehicle %s: %w: %w", plate, ErrCreateFailed, err)
	}
	r.logger.Info().Str("plate", plate).Int("id", created.ID).Msg("vehicle registered")
	return Entity{ID: created.ID, Origin: OriginCreated}, nil
}

// Driver resolves a cpf. When the API does not know it and a name is
// available, the driver is registered with the formatted name.
//
// RETURNS:
//   - ErrNotFound when the cpf has no digits, or when it is unknown and no
//     name was given.
//   - An error wrapping ErrCreateFailed when registration failed.
func (r *Resolver) Driver(ctx context.Context, cpf, name string) (Entity, error) {
	cpf = CleanDigits(cpf)
	if cpf == "" {
		return Entity{}, fmt.Errorf("driver: empty cpf: %w", ErrNotFound)
	}

	person, err := r.gateway.FindPersonByCPF(ctx, cpf)
	if err != nil {
		r.logger.Warn().Err(err).Str("cpf", cpf).Msg("driver lookup failed, treating as not found")
	}
	if person != nil {
		return Entity{ID: person.ID, Origin: OriginFound}, nil
	}

	name = FormatName(name)
	if name == "" {
		return Entity{}, fmt.Errorf("driver %s: no name to register: %w", cpf, ErrNotFound)
	}

	r.logger.Info().Str("cpf", cpf).Str("name", name).Msg("driver not found, registering")
	created, err := r.gateway.CreatePerson(ctx, fleetapi.NewAutoPerson(name, cpf))
	if err != nil {
		return Entity{}, fmt.Errorf("driver %s: %w: %w", cpf, ErrCreateFailed, err)
	}
	r.logger.Info().Str("cpf", cpf).Int("id", created.ID).Msg("driver registered")
	return Entity{ID: created.ID, Origin: OriginCreated}, nil
}

// Supplier resolves a fuel-station cnpj. Suppliers are never registered.
func (r *Resolver) Supplier(ctx context.Context, cnpj string) (Entity, error) {
	cnpj = CleanDigits(cnpj)
	if cnpj == "" {
		return Entity{}, fmt.Errorf("supplier: empty cnpj: %w", ErrNotFound)
	}
	if id, ok := r.cache.supplier(cnpj); ok {
		return Entity{ID: id, Origin: OriginFound}, nil
	}

	supplier, err := r.gateway.FindSupplierByCNPJ(ctx, cnpj)
	if err != nil {
		r.logger.Warn().Err(err).Str("cnpj", cnpj).Msg("supplier lookup failed, treating as not found")
	}
	if supplier == nil {
		return Entity{}, fmt.Errorf("supplier %s: %w", cnpj, ErrNotFound)
	}

	r.cache.putSupplier(cnpj, supplier.ID)
	return Entity{ID: supplier.ID, Origin: OriginFound}, nil
}

// ProductID resolves a product by its exact name. Unknown products resolve
// to 0 so that the line item is still submitted.
func (r *Resolver) ProductID(ctx context.Context, name string) int {
	if id, ok := r.cache.product(name); ok {
		return id
	}

	product, err := r.gateway.FindProductByName(ctx, name)
	if err != nil {
		r.logger.Warn().Err(err).Str("product", name).Msg("product lookup failed")
	}
	if product == nil {
		r.logger.Warn().Str("product", name).Msg("product not found, using id 0")
		return 0
	}

	r.cache.putProduct(name, product.ID)
	return product.ID
}
