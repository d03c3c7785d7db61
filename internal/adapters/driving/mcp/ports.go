package mcp

import (
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Presets answers size and pixel-dimension queries.
	Presets driving.PresetCatalog

	// Resolver maps country names to presets.
	Resolver driving.CountryResolver

	// Services lists purchasable products. Optional.
	Services driving.ServiceCatalog

	// Cart exposes the cart and order history. Optional.
	Cart driving.OrderCartService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Presets == nil {
		return ErrMissingPresetCatalog
	}
	if p.Resolver == nil {
		return ErrMissingResolver
	}
	return nil
}
