package orchestrator

import (
	"errors"

	"github.com/quillchat/quill/internal/routing"
)

// FailureMessage renders a terminal routing error as the single synthesized
// chat message shown to the user. It names the failure category, never a
// raw trace.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, routing.ErrPersonaModelMismatch):
		return "This persona cannot use the requested model. Pick a different model or switch persona."
	case errors.Is(err, routing.ErrConfigurationNotLoaded),
		errors.Is(err, routing.ErrConfigurationMissing),
		errors.Is(err, routing.ErrServiceUnavailable),
		errors.Is(err, routing.ErrCredentialMissing):
		return "No provider is configured correctly for this request. Check your provider settings and credentials."
	default:
		return "All providers failed to answer. This looks like a network or service problem; try again shortly."
	}
}
