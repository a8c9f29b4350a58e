package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store owns the taxonomy graph: loaded from disk or seeded with defaults
// at startup, mutated in place by AddPath, written through after each
// mutation. Mutations are mutex-guarded so bulk reprocessing can run
// alongside live traffic; only AddPath mutates, every other method is a
// pure read.
type Store struct {
	mu    sync.RWMutex
	path  string
	graph *Graph
}

// Validation is the advisory result of a hierarchy check. Suggestions and
// warnings never block a commit; the caller decides.
type Validation struct {
	// IsValid is false only for paths outside the 2-3 segment range
	IsValid bool

	// Suggestions lists segments that would be newly created
	Suggestions []string

	// Warnings flags near-duplicates of existing names
	Warnings []string
}

// Open loads the store from the given path, seeding the default graph when
// no document exists yet.
func Open(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read taxonomy document: %w", err)
		}
		store.graph = DefaultGraph()
		log.Debug().Str("path", path).Msg("No taxonomy document found, seeded defaults")
		return store, nil
	}

	graph, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}

	store.graph = graph
	log.Debug().Str("path", path).Int("categories", len(graph.Topics)).Msg("Loaded taxonomy document")

	return store, nil
}

// AddPath idempotently ensures category/subcategory/(optional specific)
// exist, appending only what is missing, then persists the document.
func (s *Store) AddPath(path string) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false

	category, ok := s.graph.Topics[segments[0]]
	if !ok {
		category = TopicCategory{}
		s.graph.Topics[segments[0]] = category
		changed = true
	}

	terms, ok := category[segments[1]]
	if !ok {
		terms = []string{}
		category[segments[1]] = terms
		changed = true
	}

	if len(segments) == 3 && !hasTerm(terms, segments[2]) {
		category[segments[1]] = append(terms, segments[2])
		changed = true
	}

	if !changed {
		return nil
	}

	log.Debug().Str("path", path).Msg("Taxonomy path added")

	return s.persist()
}

// ValidateTopicHierarchy checks a proposed path against the current graph.
// Purely advisory and purely a read; it lets the caller inspect (and log)
// proposed evolution before committing it with AddPath.
func (s *Store) ValidateTopicHierarchy(path string) Validation {
	segments, err := splitPath(path)
	if err != nil {
		return Validation{
			Warnings: []string{fmt.Sprintf("topic hierarchy %q must have 2-3 segments", path)},
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v := Validation{IsValid: true}

	category, categoryExists := s.graph.Topics[segments[0]]
	if !categoryExists {
		v.Suggestions = append(v.Suggestions, fmt.Sprintf("new category %q", segments[0]))
	}
	v.Warnings = append(v.Warnings, s.nearDuplicateWarnings(segments[0], s.categoryNames())...)

	subcategoryExists := false
	if categoryExists {
		_, subcategoryExists = category[segments[1]]
	}
	if !subcategoryExists {
		v.Suggestions = append(v.Suggestions, fmt.Sprintf("new subcategory %q", segments[1]))
	}
	v.Warnings = append(v.Warnings, s.nearDuplicateWarnings(segments[1], s.subcategoryNames())...)

	if len(segments) == 3 {
		termExists := subcategoryExists && hasTerm(category[segments[1]], segments[2])
		if !termExists {
			v.Suggestions = append(v.Suggestions, fmt.Sprintf("new term %q", segments[2]))
		}
		v.Warnings = append(v.Warnings, s.nearDuplicateWarnings(segments[2], s.termNames())...)
	}

	return v
}

// Document returns the current graph serialized as the on-disk document
func (s *Store) Document() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return EncodeDocument(s.graph)
}

// Context serializes the full graph plus a short fixed usage-rules block,
// for verbatim inclusion in the next prompt so the model sees its own
// current schema each turn.
func (s *Store) Context() string {
	doc, err := s.Document()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to serialize taxonomy for prompt context")
		return ""
	}

	var b strings.Builder
	b.WriteString("Current taxonomy:\n")
	b.Write(doc)
	b.WriteString("\nUsage rules:\n")
	b.WriteString("- File every turn under a 2-3 segment path: category/subcategory[/specific].\n")
	b.WriteString("- Reuse existing categories and terms before inventing near-duplicates.\n")
	b.WriteString("- Dependencies must use one of the listed dependency types.\n")
	b.WriteString("- Never remove entries; the taxonomy only grows.\n")

	return b.String()
}

// DependencyTypes returns the dependency-type vocabulary
func (s *Store) DependencyTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, len(s.graph.Dependencies))
	copy(types, s.graph.Dependencies)

	return types
}

// persist writes the document through to disk. Caller holds the write lock.
func (s *Store) persist() error {
	data, err := EncodeDocument(s.graph)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create taxonomy directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write taxonomy document: %w", err)
	}

	return nil
}

func (s *Store) categoryNames() []string {
	names := make([]string, 0, len(s.graph.Topics))
	for name := range s.graph.Topics {
		names = append(names, name)
	}
	return names
}

func (s *Store) subcategoryNames() []string {
	var names []string
	for _, category := range s.graph.Topics {
		for name := range category {
			names = append(names, name)
		}
	}
	return names
}

func (s *Store) termNames() []string {
	var names []string
	for _, category := range s.graph.Topics {
		for _, terms := range category {
			names = append(names, terms...)
		}
	}
	return names
}

// splitPath validates the /-delimited path and returns its segments
func splitPath(path string) ([]string, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			cleaned = append(cleaned, segment)
		}
	}

	if len(cleaned) < 2 || len(cleaned) > 3 {
		return nil, fmt.Errorf("topic hierarchy %q must have 2-3 segments", path)
	}

	return cleaned, nil
}
