package domain

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// TokenType identifies how a Figma access token is presented to the API.
type TokenType string

const (
	// TokenPersonal is a personal access token sent in the X-Figma-Token header.
	TokenPersonal TokenType = "pat"
	// TokenOAuth is an OAuth access token sent as a bearer token.
	TokenOAuth TokenType = "oauth"
)

// ParseTokenType parses a token type string. Empty input yields TokenPersonal.
func ParseTokenType(s string) (TokenType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TokenPersonal):
		return TokenPersonal, nil
	case string(TokenOAuth):
		return TokenOAuth, nil
	default:
		return "", fmt.Errorf("%w: unknown token type %q", ErrInvalidInput, s)
	}
}

// Defaults and limits for import configuration.
const (
	DefaultScale       = 1.0
	DefaultConcurrency = 4
	MinScale           = 0.01
	MaxScale           = 4.0
	MaxConcurrency     = 32
)

// ImportConfig is everything one import run needs. It is passed explicitly
// into the importer; there is no ambient configuration.
type ImportConfig struct {
	// FileKey is the Figma file key (the segment after /file/ in a share URL).
	FileKey string

	// Token is the Figma access token.
	Token string

	// TokenType selects how Token is sent.
	TokenType TokenType

	// TargetPattern is a regular expression matched against layer names.
	TargetPattern string

	// OutputDir is the directory images are written under. It must exist.
	OutputDir string

	// Scale is the image export scale.
	Scale float64

	// Concurrency bounds how many targets are fetched and persisted at once.
	Concurrency int
}

// DefaultImportConfig returns a config with defaults for the optional fields.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TokenType:   TokenPersonal,
		Scale:       DefaultScale,
		Concurrency: DefaultConcurrency,
	}
}

// WithDefaults fills zero-valued optional fields with their defaults.
func (c ImportConfig) WithDefaults() ImportConfig {
	if c.TokenType == "" {
		c.TokenType = TokenPersonal
	}
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// Pattern compiles the target pattern.
func (c ImportConfig) Pattern() (*regexp.Regexp, error) {
	if strings.TrimSpace(c.TargetPattern) == "" {
		return nil, &ConfigError{Field: "pattern", Reason: "target name pattern is required"}
	}
	re, err := regexp.Compile(c.TargetPattern)
	if err != nil {
		return nil, &ConfigError{Field: "pattern", Reason: err.Error()}
	}
	return re, nil
}

// ValidateSource checks the fields needed to read the document: file key,
// token and pattern. Inspection only needs these.
func (c ImportConfig) ValidateSource() error {
	if strings.TrimSpace(c.FileKey) == "" {
		return &ConfigError{Field: "file_key", Reason: "file key is required"}
	}
	if strings.TrimSpace(c.Token) == "" {
		return &ConfigError{Field: "token", Reason: "access token is required"}
	}
	if _, err := ParseTokenType(string(c.TokenType)); err != nil {
		return &ConfigError{Field: "token_type", Reason: err.Error()}
	}
	if _, err := c.Pattern(); err != nil {
		return err
	}
	return nil
}

// Validate checks the whole config. It runs before any network call.
func (c ImportConfig) Validate() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return &ConfigError{Field: "output_dir", Reason: "output directory is required"}
	}
	info, err := os.Stat(c.OutputDir)
	if err != nil {
		return &ConfigError{Field: "output_dir", Reason: fmt.Sprintf("output directory %s: %v", c.OutputDir, err)}
	}
	if !info.IsDir() {
		return &ConfigError{Field: "output_dir", Reason: fmt.Sprintf("%s is not a directory", c.OutputDir)}
	}

	if c.Scale < MinScale || c.Scale > MaxScale {
		return &ConfigError{
			Field:  "scale",
			Reason: fmt.Sprintf("scale %g out of range [%g, %g]", c.Scale, MinScale, MaxScale),
		}
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return &ConfigError{
			Field:  "concurrency",
			Reason: fmt.Sprintf("concurrency %d out of range [1, %d]", c.Concurrency, MaxConcurrency),
		}
	}
	return nil
}

// MaskedToken returns the token with all but its last four characters hidden.
func (c ImportConfig) MaskedToken() string {
	if c.Token == "" {
		return ""
	}
	if len(c.Token) <= 8 {
		return "****"
	}
	return "****" + c.Token[len(c.Token)-4:]
}

// SafeFileName flattens a layer name into a single path element so that a
// target can never be written outside its output directory.
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")
	name = replacer.Replace(name)
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}

// AccessToken is a Figma credential together with how it is presented.
type AccessToken struct {
	Value string
	Type  TokenType
}

// AccessToken returns the config's credential.
func (c ImportConfig) AccessToken() AccessToken {
	return AccessToken{Value: c.Token, Type: c.TokenType}
}
