package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/quillchat/quill/internal/config"
	"github.com/quillchat/quill/pkg/ai/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct{}

func (f *fakeService) Kind() string { return "fake" }

func (f *fakeService) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.CompletionResponse, error) {
	return &provider.CompletionResponse{Content: "ok", Model: req.Model}, nil
}

func testRegistry() *config.Registry {
	return &config.Registry{
		Providers: map[string]config.ProviderDescriptor{
			"alpha": {
				ID: "alpha", DisplayName: "Alpha", Kind: "fake", CredentialKey: "ALPHA_KEY",
				Models: map[string]config.ModelDescriptor{
					"alpha-large": {ID: "alpha-large", MaxTokens: 1024},
				},
			},
			"beta": {
				ID: "beta", DisplayName: "Beta", Kind: "fake", CredentialKey: "BETA_KEY",
				Models: map[string]config.ModelDescriptor{
					"beta-fast": {ID: "beta-fast", MaxTokens: 2048},
				},
			},
			"claude-code": {
				ID: "claude-code", DisplayName: "Claude Code", Kind: "fake", CredentialKey: "CLAUDE_KEY",
				Models: map[string]config.ModelDescriptor{
					"claude-opus": {ID: "claude-opus", MaxTokens: 8192},
				},
			},
		},
		Routing: config.RoutingPriority{
			Entries: []config.RoutingEntry{
				{Provider: "alpha", Model: "alpha-large"},
				{Provider: "beta", Model: "beta-fast"},
			},
			FallbackPolicy: "sequential",
		},
		ClaudeCode: config.RoutingEntry{Provider: "claude-code", Model: "claude-opus"},
	}
}

// testRouter builds a router over the fake backend plus an attempt log that
// records every operation invocation in order.
func testRouter(t *testing.T, keys map[string]string) (*Router, *[]string, Operation) {
	t.Helper()

	backends := provider.NewRegistry()
	backends.Register("fake", func(cfg provider.Config) (provider.ChatService, error) {
		return &fakeService{}, nil
	})

	router := NewRouter(testRegistry(), backends, func(key string) string {
		return keys[key]
	})

	attempts := &[]string{}
	op := func(ctx context.Context, rp ResolvedProvider) (*provider.CompletionResponse, error) {
		*attempts = append(*attempts, rp.Provider.ID)
		return &provider.CompletionResponse{Content: "from " + rp.Provider.ID}, nil
	}

	return router, attempts, op
}

func allKeys() map[string]string {
	return map[string]string{
		"ALPHA_KEY":  "alpha-secret",
		"BETA_KEY":   "beta-secret",
		"CLAUDE_KEY": "claude-secret",
	}
}

func TestExecuteWithFallback_FirstSuccess(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	resp, err := router.ExecuteWithFallback(context.Background(), op)

	require.NoError(t, err)
	assert.Equal(t, "from alpha", resp.Content)
	assert.Equal(t, []string{"alpha"}, *attempts)
}

func TestExecuteWithFallback_AdvancesOnFailure(t *testing.T) {
	router, _, _ := testRouter(t, allKeys())

	var attempts []string
	op := func(ctx context.Context, rp ResolvedProvider) (*provider.CompletionResponse, error) {
		attempts = append(attempts, rp.Provider.ID)
		if rp.Provider.ID == "alpha" {
			return nil, errors.New("alpha is down")
		}
		return &provider.CompletionResponse{Content: "from " + rp.Provider.ID}, nil
	}

	resp, err := router.ExecuteWithFallback(context.Background(), op)

	require.NoError(t, err)
	assert.Equal(t, "from beta", resp.Content)
	assert.Equal(t, []string{"alpha", "beta"}, attempts)
}

func TestExecuteWithFallback_Exhaustion(t *testing.T) {
	router, _, _ := testRouter(t, allKeys())

	callErr := errors.New("service exploded")
	op := func(ctx context.Context, rp ResolvedProvider) (*provider.CompletionResponse, error) {
		return nil, callErr
	}

	_, err := router.ExecuteWithFallback(context.Background(), op)

	var failed *AllProvidersFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 2, failed.Attempts)
	assert.ErrorIs(t, err, callErr)
}

func TestExecuteWithFallback_SkipsMissingCredential(t *testing.T) {
	keys := allKeys()
	delete(keys, "ALPHA_KEY")
	router, attempts, op := testRouter(t, keys)

	resp, err := router.ExecuteWithFallback(context.Background(), op)

	require.NoError(t, err)
	assert.Equal(t, "from beta", resp.Content)
	// Alpha's operation was never invoked; the cascade skipped straight to
	// beta on the resolution failure.
	assert.Equal(t, []string{"beta"}, *attempts)
}

func TestPersonaRouting_ClaudePinned(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	resp, err := router.ExecuteWithPersonaRouting(context.Background(), "Claude", "beta-fast", op)

	require.NoError(t, err)
	assert.Equal(t, "from claude-code", resp.Content)
	assert.Equal(t, []string{"claude-code"}, *attempts)
}

func TestPersonaRouting_ClaudeSingleAttempt(t *testing.T) {
	router, _, _ := testRouter(t, allKeys())

	callErr := errors.New("claude-code is down")
	var attempts []string
	op := func(ctx context.Context, rp ResolvedProvider) (*provider.CompletionResponse, error) {
		attempts = append(attempts, rp.Provider.ID)
		return nil, callErr
	}

	_, err := router.ExecuteWithPersonaRouting(context.Background(), "claude", "", op)

	var failed *AllProvidersFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 1, failed.Attempts)
	// No fallback for the pinned persona: one attempt, then terminal.
	assert.Equal(t, []string{"claude-code"}, attempts)
}

func TestPersonaRouting_MismatchIsHardError(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	_, err := router.ExecuteWithPersonaRouting(context.Background(), "sage", "claude-opus", op)

	require.ErrorIs(t, err, ErrPersonaModelMismatch)
	assert.Empty(t, *attempts, "mismatch must fail before any attempt")
}

func TestPersonaRouting_ExplicitModelPinned(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	resp, err := router.ExecuteWithPersonaRouting(context.Background(), "sage", "beta-fast", op)

	require.NoError(t, err)
	assert.Equal(t, "from beta", resp.Content)
	assert.Equal(t, "beta", (*attempts)[0])
}

func TestPersonaRouting_DefaultFallsThrough(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	_, err := router.ExecuteWithPersonaRouting(context.Background(), "sage", "", op)

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, *attempts)
}

func TestResolveProvider_Errors(t *testing.T) {
	keys := allKeys()
	delete(keys, "BETA_KEY")
	router, _, _ := testRouter(t, keys)

	tests := []struct {
		name    string
		entry   config.RoutingEntry
		wantErr error
	}{
		{
			name:    "unknown provider",
			entry:   config.RoutingEntry{Provider: "gamma", Model: "gamma-1"},
			wantErr: ErrConfigurationMissing,
		},
		{
			name:    "unknown model",
			entry:   config.RoutingEntry{Provider: "alpha", Model: "alpha-tiny"},
			wantErr: ErrConfigurationMissing,
		},
		{
			name:    "missing credential",
			entry:   config.RoutingEntry{Provider: "beta", Model: "beta-fast"},
			wantErr: ErrCredentialMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := router.ResolveProvider(tt.entry)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveProvider_UnregisteredKind(t *testing.T) {
	backends := provider.NewRegistry() // nothing registered
	router := NewRouter(testRegistry(), backends, func(string) string { return "secret" })

	_, err := router.ResolveProvider(config.RoutingEntry{Provider: "alpha", Model: "alpha-large"})

	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSetPrimaryModel_Override(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	require.NoError(t, router.SetPrimaryModel("beta", "beta-fast"))

	_, err := router.ExecuteWithFallback(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, *attempts)

	router.ClearPrimaryModel()
	*attempts = nil

	_, err = router.ExecuteWithFallback(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, *attempts)
}

func TestSetPrimaryModel_UnknownModel(t *testing.T) {
	router, _, _ := testRouter(t, allKeys())

	err := router.SetPrimaryModel("alpha", "no-such-model")

	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestReloadRegistry_DropsOverride(t *testing.T) {
	router, attempts, op := testRouter(t, allKeys())

	require.NoError(t, router.SetPrimaryModel("beta", "beta-fast"))
	router.ReloadRegistry(testRegistry())

	_, err := router.ExecuteWithFallback(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, *attempts, "reload must not keep a stale override")
}

func TestCheckServiceHealth(t *testing.T) {
	keys := allKeys()
	delete(keys, "BETA_KEY")

	backends := provider.NewRegistry()
	backends.Register("fake", func(cfg provider.Config) (provider.ChatService, error) {
		return &fakeService{}, nil
	})

	registry := testRegistry()
	broken := registry.Providers["claude-code"]
	broken.Kind = "unknown-kind"
	registry.Providers["claude-code"] = broken

	router := NewRouter(registry, backends, func(key string) string { return keys[key] })

	report := router.CheckServiceHealth()
	require.Len(t, report, 3)

	states := map[string]HealthState{}
	for _, entry := range report {
		states[entry.Provider] = entry.State
	}

	assert.Equal(t, Healthy, states["alpha"])
	assert.Equal(t, Misconfigured, states["beta"])
	assert.Equal(t, Unavailable, states["claude-code"])
}
