package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors returned by Validate.
var (
	// ErrNoURL is returned when no listing or target URL was given.
	ErrNoURL = errors.New("missing <url>")

	// ErrNoFields is returned when neither --get nor --extract-all was given.
	ErrNoFields = errors.New("missing --get with at least one field, or use --extract-all")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry count is negative.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidPerPage is returned when the per-page cap is not positive.
	ErrInvalidPerPage = errors.New("invalid per-page: must be positive")

	// ErrInvalidDelay is returned when the inter-page delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format: must be one of csv, json, yaml, markdown")

	// ErrMissingParameter is wrapped by every ConfigurationError.
	ErrMissingParameter = errors.New("missing required parameter")
)

// ConfigurationError reports a required discovery parameter that was not
// configured. It is fatal for the current operation.
type ConfigurationError struct {
	// Flag is the command-line flag that supplies the parameter.
	Flag string

	// Purpose describes what the parameter is needed for.
	Purpose string
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(flag, purpose string) *ConfigurationError {
	return &ConfigurationError{Flag: flag, Purpose: purpose}
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	if e.Purpose == "" {
		return fmt.Sprintf("missing %s", e.Flag)
	}
	return fmt.Sprintf("missing %s for %s", e.Flag, e.Purpose)
}

// Unwrap returns ErrMissingParameter so callers can match with errors.Is.
func (e *ConfigurationError) Unwrap() error {
	return ErrMissingParameter
}
