// Package initialization wires the turn pipeline together at process start:
// explicit construction, explicit passing of references. No component is
// reachable through package-level state.
package initialization

import (
	"fmt"

	"github.com/quillchat/quill/internal/config"
	"github.com/quillchat/quill/internal/orchestrator"
	"github.com/quillchat/quill/internal/routing"
	"github.com/quillchat/quill/internal/secrets"
	"github.com/quillchat/quill/internal/taxonomy"
	"github.com/quillchat/quill/pkg/ai/provider"
	"github.com/quillchat/quill/pkg/ai/provider/anthropic"
	"github.com/quillchat/quill/pkg/ai/provider/claudecode"
	"github.com/quillchat/quill/pkg/ai/provider/gemini"
	"github.com/quillchat/quill/pkg/ai/provider/openai"
)

// Container holds the constructed pipeline components
type Container struct {
	Config       *config.Config
	Router       *routing.Router
	Taxonomy     *taxonomy.Store
	Orchestrator *orchestrator.Orchestrator
}

// NewContainer loads configuration and constructs the full pipeline
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backends := NewBackendRegistry()
	resolver := secrets.NewResolver(cfg.SecretsFile)

	router := routing.NewRouter(&cfg.Registry, backends, resolver.APIKey)

	store, err := taxonomy.Open(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy store: %w", err)
	}

	return &Container{
		Config:       cfg,
		Router:       router,
		Taxonomy:     store,
		Orchestrator: orchestrator.New(router, store),
	}, nil
}

// NewBackendRegistry registers every built-in backend constructor
func NewBackendRegistry() *provider.Registry {
	backends := provider.NewRegistry()

	backends.Register(anthropic.Kind, anthropic.New)
	backends.Register(openai.Kind, openai.New)
	backends.Register(gemini.Kind, gemini.New)
	backends.Register(claudecode.Kind, claudecode.New)

	return backends
}
