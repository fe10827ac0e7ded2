package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvVars maps setting keys to the environment variables that override them.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
var EnvVars = map[string]string{
	domain.KeyFileKey:        "FIGMA_FILE_KEY",
	domain.KeyToken:          "FIGMA_TOKEN",
	domain.KeyTokenType:      "FIGMA_TOKEN_TYPE",
	domain.KeyPattern:        "NINESLICE_PATTERN",
	domain.KeyOutputDir:      "NINESLICE_OUTPUT_DIR",
	domain.KeyScale:          "NINESLICE_SCALE",
	domain.KeyConcurrency:    "NINESLICE_CONCURRENCY",
	domain.KeyMirrorEndpoint: "NINESLICE_MIRROR_ENDPOINT",
	domain.KeyMirrorRegion:   "NINESLICE_MIRROR_REGION",
	domain.KeyMirrorAccess:   "NINESLICE_MIRROR_ACCESS_KEY",
	domain.KeyMirrorSecret:   "NINESLICE_MIRROR_SECRET_KEY",
	domain.KeyMirrorBucket:   "NINESLICE_MIRROR_BUCKET",
	domain.KeyMirrorPrefix:   "NINESLICE_MIRROR_PREFIX",
	domain.KeyMirrorUseSSL:   "NINESLICE_MIRROR_USE_SSL",
	domain.KeyHistoryKeep:    "NINESLICE_HISTORY_KEEP",
}

// SettingsService manages the saved import profile. Values resolve as
// environment, then config file, then defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a settings service reading the process
// environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithLookupEnv replaces the environment lookup. Pass nil to ignore the
// environment entirely.
func (s *SettingsService) WithLookupEnv(lookup func(string) (string, bool)) *SettingsService {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	s.lookupEnv = lookup
	return s
}

// Get retrieves current settings with defaults and overrides applied.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	for _, key := range domain.SortedSettingKeys() {
		value, ok, err := s.resolve(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := apply(&settings, key, value); err != nil {
			return nil, err
		}
	}

	return &settings, nil
}

// Set validates and stores one setting.
func (s *SettingsService) Set(key, value string) error {
	parsed, err := domain.ParseSetting(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes one setting from the config file.
func (s *SettingsService) Unset(key string) error {
	if _, ok := domain.SettingKeys[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// resolve returns the typed value for key from the environment or the
// config store. An unparsable environment value is a configuration error.
func (s *SettingsService) resolve(key string) (any, bool, error) {
	if name, ok := EnvVars[key]; ok {
		if raw, set := s.lookupEnv(name); set && raw != "" {
			v, err := domain.ParseSetting(key, raw)
			if err != nil {
				return nil, false, &domain.ConfigError{Field: key, Reason: fmt.Sprintf("%s: %v", name, err)}
			}
			return v, true, nil
		}
	}

	if _, ok := s.configStore.Get(key); !ok {
		return nil, false, nil
	}
	switch domain.SettingKeys[key] {
	case domain.SettingInt:
		return s.configStore.GetInt(key), true, nil
	case domain.SettingFloat:
		return s.configStore.GetFloat(key), true, nil
	case domain.SettingBool:
		return s.configStore.GetBool(key), true, nil
	default:
		return s.configStore.GetString(key), true, nil
	}
}

// apply stores a typed value into its settings field.
//
//nolint:gocyclo // One case per setting key.
func apply(settings *domain.Settings, key string, value any) error {
	str, _ := value.(string)
	num, _ := value.(int)
	flt, _ := value.(float64)
	flag, _ := value.(bool)

	switch key {
	case domain.KeyFileKey:
		settings.Import.FileKey = str
	case domain.KeyToken:
		settings.Import.Token = str
	case domain.KeyTokenType:
		tt, err := domain.ParseTokenType(str)
		if err != nil {
			return &domain.ConfigError{Field: key, Reason: err.Error()}
		}
		settings.Import.TokenType = tt
	case domain.KeyPattern:
		settings.Import.TargetPattern = str
	case domain.KeyOutputDir:
		settings.Import.OutputDir = str
	case domain.KeyScale:
		settings.Import.Scale = flt
	case domain.KeyConcurrency:
		settings.Import.Concurrency = num
	case domain.KeyMirrorEndpoint:
		settings.Mirror.Endpoint = str
	case domain.KeyMirrorRegion:
		settings.Mirror.Region = str
	case domain.KeyMirrorAccess:
		settings.Mirror.AccessKey = str
	case domain.KeyMirrorSecret:
		settings.Mirror.SecretKey = str
	case domain.KeyMirrorBucket:
		settings.Mirror.Bucket = str
	case domain.KeyMirrorPrefix:
		settings.Mirror.Prefix = str
	case domain.KeyMirrorUseSSL:
		settings.Mirror.UseSSL = flag
	case domain.KeyHistoryKeep:
		settings.HistoryKeep = num
	}
	return nil
}
