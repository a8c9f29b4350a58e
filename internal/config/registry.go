package config

import "fmt"

// ModelDescriptor describes one model offered by a provider
type ModelDescriptor struct {
	ID            string  `mapstructure:"id"`
	DisplayName   string  `mapstructure:"name"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	Temperature   float64 `mapstructure:"temperature"`
	ContextWindow int     `mapstructure:"context_window"`
}

// ProviderDescriptor describes one configured provider and its models
type ProviderDescriptor struct {
	ID            string                     `mapstructure:"id"`
	DisplayName   string                     `mapstructure:"name"`
	Kind          string                     `mapstructure:"kind"`
	BaseURL       string                     `mapstructure:"base_url"`
	CredentialKey string                     `mapstructure:"credential_key"`
	Models        map[string]ModelDescriptor `mapstructure:"models"`
}

// RoutingEntry is one (provider id, model id) candidate backend
type RoutingEntry struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// RoutingPriority is the ordered fallback list plus its policy tag
type RoutingPriority struct {
	Entries        []RoutingEntry `mapstructure:"priority"`
	FallbackPolicy string         `mapstructure:"fallback_policy"`
}

// Registry is the full provider registry document. It is loaded once at
// startup and treated as immutable until an explicit reload.
type Registry struct {
	Providers  map[string]ProviderDescriptor `mapstructure:"providers"`
	Routing    RoutingPriority               `mapstructure:"routing"`
	ClaudeCode RoutingEntry                  `mapstructure:"claude_code"`
}

// Provider returns the descriptor for the given provider id
func (r *Registry) Provider(id string) (ProviderDescriptor, bool) {
	desc, ok := r.Providers[id]
	return desc, ok
}

// Model returns the model descriptor for the given (provider, model) pair
func (r *Registry) Model(providerID, modelID string) (ModelDescriptor, bool) {
	desc, ok := r.Providers[providerID]
	if !ok {
		return ModelDescriptor{}, false
	}
	model, ok := desc.Models[modelID]
	return model, ok
}

// EntryForModel finds the routing entry owning the given model id. Model ids
// are expected to be unique across providers; the first match wins.
func (r *Registry) EntryForModel(modelID string) (RoutingEntry, bool) {
	for providerID, desc := range r.Providers {
		if _, ok := desc.Models[modelID]; ok {
			return RoutingEntry{Provider: providerID, Model: modelID}, true
		}
	}
	return RoutingEntry{}, false
}

// Validate checks internal consistency of the registry document
func (r *Registry) Validate() error {
	if len(r.Providers) == 0 {
		return fmt.Errorf("registry has no providers")
	}

	for id, desc := range r.Providers {
		if desc.Kind == "" {
			return fmt.Errorf("provider %s has no backend kind", id)
		}
		if len(desc.Models) == 0 {
			return fmt.Errorf("provider %s has no models", id)
		}
	}

	for _, entry := range r.Routing.Entries {
		if _, ok := r.Model(entry.Provider, entry.Model); !ok {
			return fmt.Errorf("routing entry references unknown model %s/%s", entry.Provider, entry.Model)
		}
	}

	if r.ClaudeCode.Provider != "" {
		if _, ok := r.Model(r.ClaudeCode.Provider, r.ClaudeCode.Model); !ok {
			return fmt.Errorf("claude_code entry references unknown model %s/%s", r.ClaudeCode.Provider, r.ClaudeCode.Model)
		}
	}

	return nil
}
