package availability

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for matching error kinds with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports a request that cannot be scheduled as given:
// an empty or inverted window, or an unusable duration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigurationError reports incomplete or invalid organization settings.
type ConfigurationError struct {
	// MissingKeys lists absent penalty/bonus keys as "penalties.<name>" or "bonuses.<name>".
	MissingKeys []string
	Reason      string
}

func (e *ConfigurationError) Error() string {
	if len(e.MissingKeys) > 0 {
		return "org settings missing required keys: " + strings.Join(e.MissingKeys, ", ")
	}
	return "invalid org settings: " + e.Reason
}

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
