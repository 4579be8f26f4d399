package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/fuel-supply-sync/internal/fleetapi"
)

// FuelSupplyFinder lists the fuel supplies registered under a code.
// *fleetapi.Client satisfies it.
type FuelSupplyFinder interface {
	FindFuelSupplies(ctx context.Context, code string) ([]fleetapi.FuelSupply, error)
}

// Guard keeps a record from being submitted twice.
type Guard struct {
	finder FuelSupplyFinder
	logger zerolog.Logger
}

// NewGuard creates a Guard.
func NewGuard(finder FuelSupplyFinder, logger zerolog.Logger) *Guard {
	return &Guard{
		finder: finder,
		logger: logger.With().Str("component", "guard").Logger(),
	}
}

// Exists reports whether a fuel supply with code is already registered.
// When the check itself fails the record is assumed new.
func (g *Guard) Exists(ctx context.Context, code string) bool {
	supplies, err := g.finder.FindFuelSupplies(ctx, code)
	if err != nil {
		g.logger.Warn().Err(err).Str("code", code).Msg("existence check failed, assuming new")
		return false
	}
	return len(supplies) > 0
}
