// Package orchestrator composes the turn pipeline: build the persona-aware
// prompt, route the call, decompose the reply, feed the taxonomy section
// into the store, and hand the results back for persistence. Within one
// turn the stages are strictly linear.
package orchestrator

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/quillchat/quill/internal/decompose"
	"github.com/quillchat/quill/internal/routing"
	"github.com/quillchat/quill/internal/taxonomy"
	"github.com/quillchat/quill/pkg/ai/provider"
	"github.com/rs/zerolog/log"
)

// Router is the routing capability the orchestrator needs. *routing.Router
// satisfies it; tests substitute fakes.
type Router interface {
	ExecuteWithPersonaRouting(ctx context.Context, persona, explicitModel string, op routing.Operation) (*provider.CompletionResponse, error)
}

// Orchestrator drives one turn through routing, decomposition, and
// taxonomy evolution.
type Orchestrator struct {
	router   Router
	store    *taxonomy.Store
	personas map[string]string
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithPersonaPreamble overrides or adds the standing instructions for one
// persona name.
func WithPersonaPreamble(persona, preamble string) Option {
	return func(o *Orchestrator) {
		o.personas[strings.ToLower(persona)] = preamble
	}
}

// New creates an orchestrator over the given router and taxonomy store
func New(router Router, store *taxonomy.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:   router,
		store:    store,
		personas: defaultPersonaPreambles(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// TurnRequest is one user send
type TurnRequest struct {
	// Persona is the AI voice this turn is attributed to
	Persona string

	// Model optionally pins a specific model id
	Model string

	// Message is the user's text for this turn
	Message string

	// History is the prior conversation, oldest first
	History []provider.Message
}

// TurnResult carries everything the persistence collaborators need. The
// taxonomy side effect has already been applied by the time it is returned.
type TurnResult struct {
	TurnID          string
	Persona         string
	Provider        string
	Model           string
	MainResponse    string
	MachineTrim     string
	TaxonomyApplied bool
	Usage           provider.Usage
}

// ProcessTurn runs the full pipeline for one turn. A returned error is
// terminal routing failure; use FailureMessage to render it for the user.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	turnID := uuid.New().String()

	system := o.buildSystemPrompt(req.Persona, o.store.Context())

	messages := make([]provider.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: req.Message})

	var servedProvider, servedModel string

	op := func(ctx context.Context, rp routing.ResolvedProvider) (*provider.CompletionResponse, error) {
		resp, err := rp.Service.Complete(ctx, provider.CompletionRequest{
			Model:       rp.Model.ID,
			System:      system,
			Messages:    messages,
			Temperature: rp.Model.Temperature,
			MaxTokens:   rp.Model.MaxTokens,
		})
		if err != nil {
			return nil, err
		}

		servedProvider = rp.Provider.ID
		servedModel = rp.Model.ID

		return resp, nil
	}

	resp, err := o.router.ExecuteWithPersonaRouting(ctx, req.Persona, req.Model, op)
	if err != nil {
		return nil, err
	}

	sections := decompose.Split(resp.Content)

	// Taxonomy evolution happens before the result is returned, so it is
	// attempted even when the main response turns out empty.
	applied := o.applyTaxonomy(sections.TaxonomyAnalysis)

	log.Info().
		Str("turnID", turnID).
		Str("persona", req.Persona).
		Str("provider", servedProvider).
		Str("model", servedModel).
		Int("totalTokens", resp.Usage.TotalTokens).
		Bool("taxonomyApplied", applied).
		Msg("Turn completed")

	return &TurnResult{
		TurnID:          turnID,
		Persona:         req.Persona,
		Provider:        servedProvider,
		Model:           servedModel,
		MainResponse:    sections.MainResponse,
		MachineTrim:     sections.MachineTrim,
		TaxonomyApplied: applied,
		Usage:           resp.Usage,
	}, nil
}

// applyTaxonomy feeds one turn's taxonomy section into the store. Failures
// here degrade the turn (no evolution) rather than aborting it.
func (o *Orchestrator) applyTaxonomy(section string) bool {
	if section == "" {
		return false
	}

	meta, ok := taxonomy.ParseTrimMetadata(section)
	if !ok {
		log.Debug().Msg("Taxonomy section has no topic_hierarchy, skipping evolution")
		return false
	}

	validation := o.store.ValidateTopicHierarchy(meta.TopicHierarchy)
	for _, warning := range validation.Warnings {
		log.Warn().Str("hierarchy", meta.TopicHierarchy).Msg(warning)
	}
	if !validation.IsValid {
		return false
	}

	for _, suggestion := range validation.Suggestions {
		log.Debug().Str("hierarchy", meta.TopicHierarchy).Msg(suggestion)
	}

	if err := o.store.AddPath(meta.TopicHierarchy); err != nil {
		log.Error().Err(err).Str("hierarchy", meta.TopicHierarchy).Msg("Failed to evolve taxonomy")
		return false
	}

	log.Debug().
		Str("hierarchy", meta.TopicHierarchy).
		Strs("keywords", taxonomy.ValidateKeywords(meta.Keywords)).
		Strs("dependencies", o.store.ValidateDependencies(meta.Dependencies)).
		Msg("Taxonomy evolved")

	return true
}
