package routing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quillchat/quill/internal/config"
	"github.com/quillchat/quill/pkg/ai/provider"
	"github.com/rs/zerolog/log"
)

// PersonaClaude is the persona whose identity is bound to the claude-code
// backend. Matched case-insensitively.
const PersonaClaude = "claude"

// Operation is one provider call. The cascade resolves an entry, then hands
// the resolved tuple to the operation; any error advances the cascade.
type Operation func(ctx context.Context, rp ResolvedProvider) (*provider.CompletionResponse, error)

// ResolvedProvider is a validated, call-ready tuple. It is only constructed
// when the service handle, both descriptors, and a non-empty credential all
// exist.
type ResolvedProvider struct {
	Service    provider.ChatService
	Provider   config.ProviderDescriptor
	Model      config.ModelDescriptor
	Credential string
}

// KeyFunc resolves a credential key to an API key; "" means unavailable
type KeyFunc func(credentialKey string) string

// Router maps a routing intent to a live provider call, honoring persona
// binding rules and the sequential fallback cascade.
type Router struct {
	backends *provider.Registry
	apiKey   KeyFunc

	mu       sync.RWMutex
	registry *config.Registry
	override *config.RoutingEntry
	services map[string]provider.ChatService
}

// NewRouter creates a router over the given registry document, backend
// constructors, and credential resolver.
func NewRouter(registry *config.Registry, backends *provider.Registry, apiKey KeyFunc) *Router {
	return &Router{
		backends: backends,
		apiKey:   apiKey,
		registry: registry,
		services: make(map[string]provider.ChatService),
	}
}

// ReloadRegistry swaps in a new registry document. Cached service handles
// and the primary-model override are dropped so nothing stale survives the
// reconfiguration.
func (r *Router) ReloadRegistry(registry *config.Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry = registry
	r.override = nil
	r.services = make(map[string]provider.ChatService)
}

// SetPrimaryModel installs a runtime override that takes precedence over the
// configured ordering without mutating the registry document.
func (r *Router) SetPrimaryModel(providerID, modelID string) error {
	reg := r.snapshot()
	if reg == nil {
		return ErrConfigurationNotLoaded
	}

	if _, ok := reg.Model(providerID, modelID); !ok {
		return fmt.Errorf("%w: %s/%s", ErrConfigurationMissing, providerID, modelID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = &config.RoutingEntry{Provider: providerID, Model: modelID}

	return nil
}

// ClearPrimaryModel removes the runtime override
func (r *Router) ClearPrimaryModel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = nil
}

// ResolveProvider performs the pure lookup of service handle, descriptors,
// and credential for one routing entry. No side effects beyond caching the
// constructed service handle.
func (r *Router) ResolveProvider(entry config.RoutingEntry) (ResolvedProvider, error) {
	reg := r.snapshot()
	if reg == nil {
		return ResolvedProvider{}, ErrConfigurationNotLoaded
	}

	desc, ok := reg.Provider(entry.Provider)
	if !ok {
		return ResolvedProvider{}, fmt.Errorf("%w: provider %s", ErrConfigurationMissing, entry.Provider)
	}

	model, ok := desc.Models[entry.Model]
	if !ok {
		return ResolvedProvider{}, fmt.Errorf("%w: model %s/%s", ErrConfigurationMissing, entry.Provider, entry.Model)
	}

	if !r.backends.Has(desc.Kind) {
		return ResolvedProvider{}, fmt.Errorf("%w: no backend registered for kind %s", ErrServiceUnavailable, desc.Kind)
	}

	credential := r.apiKey(desc.CredentialKey)
	if credential == "" {
		return ResolvedProvider{}, fmt.Errorf("%w: provider %s (key %s)", ErrCredentialMissing, entry.Provider, desc.CredentialKey)
	}

	service, err := r.serviceFor(desc, credential)
	if err != nil {
		return ResolvedProvider{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return ResolvedProvider{
		Service:    service,
		Provider:   desc,
		Model:      model,
		Credential: credential,
	}, nil
}

// ExecuteWithFallback walks the effective priority in strict order, invoking
// resolve-then-op per entry. Attempts are sequential, never raced: calls are
// billed and side-effecting, so cost and ordering must be deterministic.
func (r *Router) ExecuteWithFallback(ctx context.Context, op Operation) (*provider.CompletionResponse, error) {
	reg := r.snapshot()
	if reg == nil {
		return nil, ErrConfigurationNotLoaded
	}

	r.mu.RLock()
	override := r.override
	r.mu.RUnlock()

	return r.executeCascade(ctx, EffectivePriority(reg.Routing.Entries, override), op)
}

// ExecuteWithPersonaRouting applies the persona binding rules, in order:
// the claude persona is pinned to the claude-code backend (single attempt);
// any other persona asking for a claude-code model is a hard error; anything
// else falls through to the standard cascade.
func (r *Router) ExecuteWithPersonaRouting(ctx context.Context, persona, explicitModel string, op Operation) (*provider.CompletionResponse, error) {
	reg := r.snapshot()
	if reg == nil {
		return nil, ErrConfigurationNotLoaded
	}

	if strings.EqualFold(persona, PersonaClaude) {
		return r.executeSingle(ctx, reg.ClaudeCode, op)
	}

	if explicitModel != "" {
		entry, ok := reg.EntryForModel(explicitModel)
		if !ok {
			return nil, fmt.Errorf("%w: model %s", ErrConfigurationMissing, explicitModel)
		}
		if entry.Provider == reg.ClaudeCode.Provider {
			return nil, fmt.Errorf("%w: persona %q cannot use %s", ErrPersonaModelMismatch, persona, explicitModel)
		}
		return r.executeCascade(ctx, EffectivePriority(reg.Routing.Entries, &entry), op)
	}

	return r.ExecuteWithFallback(ctx, op)
}

func (r *Router) executeCascade(ctx context.Context, entries []config.RoutingEntry, op Operation) (*provider.CompletionResponse, error) {
	var lastErr error
	attempts := 0

	for _, entry := range entries {
		attempts++

		rp, err := r.ResolveProvider(entry)
		if err != nil {
			log.Warn().Err(err).
				Str("provider", entry.Provider).
				Str("model", entry.Model).
				Msg("Provider resolution failed, trying next entry")
			lastErr = err
			continue
		}

		resp, err := op(ctx, rp)
		if err != nil {
			log.Warn().Err(err).
				Str("provider", entry.Provider).
				Str("model", entry.Model).
				Msg("Provider call failed, trying next entry")
			lastErr = err
			continue
		}

		log.Debug().
			Str("provider", entry.Provider).
			Str("model", entry.Model).
			Int("attempt", attempts).
			Msg("Provider call succeeded")

		return resp, nil
	}

	if lastErr == nil {
		lastErr = ErrConfigurationNotLoaded
	}

	return nil, &AllProvidersFailedError{Attempts: attempts, LastErr: lastErr}
}

// executeSingle routes directly to one entry with no fallback. A failure is
// terminal for the turn.
func (r *Router) executeSingle(ctx context.Context, entry config.RoutingEntry, op Operation) (*provider.CompletionResponse, error) {
	rp, err := r.ResolveProvider(entry)
	if err != nil {
		return nil, &AllProvidersFailedError{Attempts: 1, LastErr: err}
	}

	resp, err := op(ctx, rp)
	if err != nil {
		return nil, &AllProvidersFailedError{Attempts: 1, LastErr: err}
	}

	return resp, nil
}

// serviceFor returns the cached service handle for a provider, constructing
// it on first use. The credential is fixed per process, so one handle per
// provider id is enough.
func (r *Router) serviceFor(desc config.ProviderDescriptor, credential string) (provider.ChatService, error) {
	r.mu.RLock()
	service, ok := r.services[desc.ID]
	r.mu.RUnlock()
	if ok {
		return service, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if service, ok := r.services[desc.ID]; ok {
		return service, nil
	}

	service, err := r.backends.New(desc.Kind, provider.Config{
		APIKey:  credential,
		BaseURL: desc.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	r.services[desc.ID] = service

	return service, nil
}

func (r *Router) snapshot() *config.Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.registry
}
