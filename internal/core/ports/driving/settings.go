package driving

import "github.com/custodia-labs/nineslice-cli/internal/core/domain"

// SettingsService manages the saved import profile.
type SettingsService interface {
	// Get retrieves the saved settings with defaults applied.
	Get() (*domain.Settings, error)

	// Set updates one setting by key (see domain.SettingKeys).
	Set(key, value string) error

	// Unset clears one setting so its default applies again.
	Unset(key string) error

	// Path returns where settings are stored.
	Path() string
}
