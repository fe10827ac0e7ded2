package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Setting keys, as stored in the config file and accepted by `config set`.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyFileKey        = "figma.file_key"
	KeyToken          = "figma.token"
	KeyTokenType      = "figma.token_type"
	KeyPattern        = "import.pattern"
	KeyOutputDir      = "import.output_dir"
	KeyScale          = "import.scale"
	KeyConcurrency    = "import.concurrency"
	KeyMirrorEndpoint = "mirror.endpoint"
	KeyMirrorRegion   = "mirror.region"
	KeyMirrorAccess   = "mirror.access_key"
	KeyMirrorSecret   = "mirror.secret_key"
	KeyMirrorBucket   = "mirror.bucket"
	KeyMirrorPrefix   = "mirror.prefix"
	KeyMirrorUseSSL   = "mirror.use_ssl"
	KeyHistoryKeep    = "history.keep"
)

// SettingKind is the value type of a setting.
type SettingKind int

const (
	SettingString SettingKind = iota
	SettingInt
	SettingFloat
	SettingBool
)

// SettingKeys maps every known key to its value type.
var SettingKeys = map[string]SettingKind{
	KeyFileKey:        SettingString,
	KeyToken:          SettingString,
	KeyTokenType:      SettingString,
	KeyPattern:        SettingString,
	KeyOutputDir:      SettingString,
	KeyScale:          SettingFloat,
	KeyConcurrency:    SettingInt,
	KeyMirrorEndpoint: SettingString,
	KeyMirrorRegion:   SettingString,
	KeyMirrorAccess:   SettingString,
	KeyMirrorSecret:   SettingString,
	KeyMirrorBucket:   SettingString,
	KeyMirrorPrefix:   SettingString,
	KeyMirrorUseSSL:   SettingBool,
	KeyHistoryKeep:    SettingInt,
}

// SortedSettingKeys returns every known key in lexical order.
func SortedSettingKeys() []string {
	keys := make([]string, 0, len(SettingKeys))
	for k := range SettingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseSetting converts a raw string into the typed value for key.
func ParseSetting(key, raw string) (any, error) {
	kind, ok := SettingKeys[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", ErrInvalidInput, key)
	}
	raw = strings.TrimSpace(raw)
	switch kind {
	case SettingInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer", ErrInvalidInput, key)
		}
		return v, nil
	case SettingFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number", ErrInvalidInput, key)
		}
		return v, nil
	case SettingBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false", ErrInvalidInput, key)
		}
		return v, nil
	default:
		if key == KeyTokenType {
			tt, err := ParseTokenType(raw)
			if err != nil {
				return nil, err
			}
			return string(tt), nil
		}
		return raw, nil
	}
}

// MirrorSettings configures the optional S3-compatible mirror that receives
// a copy of every imported sprite.
type MirrorSettings struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// IsConfigured returns true when the mirror has enough to connect.
func (m MirrorSettings) IsConfigured() bool {
	return m.Endpoint != "" && m.Bucket != "" && m.AccessKey != "" && m.SecretKey != ""
}

// DefaultHistoryKeep is how many runs are kept in history by default.
const DefaultHistoryKeep = 50

// Settings is the saved profile.
type Settings struct {
	Import      ImportConfig
	Mirror      MirrorSettings
	HistoryKeep int
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		Import:      DefaultImportConfig(),
		Mirror:      MirrorSettings{Region: "us-east-1", UseSSL: true},
		HistoryKeep: DefaultHistoryKeep,
	}
}
