// Package tui provides the interactive photo editor for quickpass.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the edit session the editor drives.
	Session driving.SessionController

	// Presets lists the size presets for cycling and display.
	Presets driving.PresetCatalog

	// Services lists the purchasable services.
	Services driving.ServiceCatalog

	// Cart holds approved photos and runs checkout.
	Cart driving.OrderCartService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	session driving.SessionController,
	presets driving.PresetCatalog,
	services driving.ServiceCatalog,
	cart driving.OrderCartService,
) *Ports {
	return &Ports{
		Session:  session,
		Presets:  presets,
		Services: services,
		Cart:     cart,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSession
	}
	if p.Presets == nil {
		return ErrMissingPresetCatalog
	}
	if p.Services == nil {
		return ErrMissingServiceCatalog
	}
	if p.Cart == nil {
		return ErrMissingCart
	}
	return nil
}
