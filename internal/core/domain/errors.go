package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent import failures by category. Adapters wrap them
// with %w so callers can classify with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates the import configuration is unusable.
	// Reported before any network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport indicates a network request failed or returned an error status.
	ErrTransport = errors.New("transport error")

	// ErrParse indicates a response body could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrIO indicates writing an asset to storage failed.
	ErrIO = errors.New("io error")

	// ErrAssetPipeline indicates configuring a written asset failed.
	ErrAssetPipeline = errors.New("asset pipeline error")

	// ErrRenderMissing indicates the images API returned no URL for a target.
	ErrRenderMissing = errors.New("no rendered image for target")

	// ErrDuplicateTarget indicates another target already claimed the same output name.
	ErrDuplicateTarget = errors.New("duplicate target name")

	// ErrImportInProgress indicates an import is already running.
	ErrImportInProgress = errors.New("import in progress")
)

// ConfigError describes one invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// TargetError is a failure isolated to one target.
type TargetError struct {
	ID   string
	Name string
	Err  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("target %q (%s): %v", e.Name, e.ID, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err aborts a whole import rather than a single target.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var targetErr *TargetError
	if errors.As(err, &targetErr) {
		return false
	}
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrParse)
}
