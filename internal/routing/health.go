package routing

import (
	"fmt"
	"sort"
)

// HealthState classifies one provider's readiness
type HealthState string

const (
	// Healthy means the provider can be resolved and called
	Healthy HealthState = "healthy"

	// Misconfigured means descriptors exist but something required is absent
	// (models, credential)
	Misconfigured HealthState = "misconfigured"

	// Unavailable means no backend serves the provider's kind
	Unavailable HealthState = "unavailable"
)

// ProviderHealth is one provider's diagnostic entry
type ProviderHealth struct {
	Provider string
	State    HealthState
	Detail   string
}

// CheckServiceHealth reports the tri-state health of every configured
// provider, sorted by provider id. Read-only; for diagnostics only.
func (r *Router) CheckServiceHealth() []ProviderHealth {
	reg := r.snapshot()
	if reg == nil {
		return nil
	}

	report := make([]ProviderHealth, 0, len(reg.Providers))

	for id, desc := range reg.Providers {
		entry := ProviderHealth{Provider: id, State: Healthy}

		switch {
		case !r.backends.Has(desc.Kind):
			entry.State = Unavailable
			entry.Detail = fmt.Sprintf("no backend registered for kind %s", desc.Kind)
		case len(desc.Models) == 0:
			entry.State = Misconfigured
			entry.Detail = "no models configured"
		case r.apiKey(desc.CredentialKey) == "":
			entry.State = Misconfigured
			entry.Detail = fmt.Sprintf("credential %s unavailable", desc.CredentialKey)
		}

		report = append(report, entry)
	}

	sort.Slice(report, func(i, j int) bool {
		return report[i].Provider < report[j].Provider
	})

	return report
}
