package driving

import "github.com/custodia-labs/quickpass/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key after validating the value.
	Set(key, value string) error

	// Keys lists the recognised config keys.
	Keys() []string

	// Validate checks if current settings are consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
