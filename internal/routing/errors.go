package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationNotLoaded is returned when no provider registry is set
	ErrConfigurationNotLoaded = errors.New("provider configuration not loaded")

	// ErrServiceUnavailable is returned when no backend serves a provider's kind
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrConfigurationMissing is returned when a provider or model descriptor is absent
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrCredentialMissing is returned when a provider's credential resolves empty
	ErrCredentialMissing = errors.New("credential missing")

	// ErrPersonaModelMismatch is returned when a persona requests a backend it
	// is structurally forbidden to use
	ErrPersonaModelMismatch = errors.New("persona/model mismatch")
)

// AllProvidersFailedError is the terminal cascade error: every candidate in
// the effective priority was attempted and failed.
type AllProvidersFailedError struct {
	// Attempts is the number of routing entries tried
	Attempts int

	// LastErr is the failure from the final attempt
	LastErr error
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all providers failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastErr
}
