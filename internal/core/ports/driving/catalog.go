package driving

import "github.com/custodia-labs/quickpass/internal/core/domain"

// PresetCatalog is the read-only preset query surface.
type PresetCatalog interface {
	// Presets returns every preset in catalog order.
	Presets() []domain.SizePreset

	// Preset returns the preset with the given id.
	Preset(id string) (domain.SizePreset, bool)

	// PixelDimensions returns the output size for a preset at 300 DPI.
	// Unknown ids and malformed labels yield domain.FallbackPixelSize.
	PixelDimensions(id string) domain.PixelSize

	// AspectRatio returns width/height for a preset.
	// Unknown ids and malformed labels yield domain.FallbackAspectRatio.
	AspectRatio(id string) float64
}

// ServiceCatalog is the read-only service query surface.
type ServiceCatalog interface {
	// Services returns every service in display order.
	Services() []domain.Service

	// Service returns the service with the given id.
	Service(id string) (domain.Service, bool)
}

// CountryResolver maps free-text country input to a preset id.
type CountryResolver interface {
	// Resolve returns the preset id for text, or false when nothing matches.
	// It never fails and is deterministic for the catalog's lifetime.
	Resolve(text string) (string, bool)
}
