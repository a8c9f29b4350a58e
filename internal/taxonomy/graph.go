// Package taxonomy holds and evolves the hierarchical tag graph that
// accompanies conversation history. The graph is bounded to three levels
// (category/subcategory/specific), growth is append-only, and every accepted
// mutation is written through to disk so the next start reloads it verbatim.
package taxonomy

// TopicCategory maps subcategory names to their ordered, unique term lists
type TopicCategory map[string][]string

// Graph is the full taxonomy: topic hierarchy plus the global vocabularies
// used by trim metadata.
type Graph struct {
	Topics        map[string]TopicCategory
	Relationships []string
	Contexts      []string
	Dependencies  []string
}

// DefaultGraph returns the starter graph used when no document exists on
// disk yet.
func DefaultGraph() *Graph {
	return &Graph{
		Topics: map[string]TopicCategory{
			"technology": {
				"development":    {"debugging", "testing"},
				"infrastructure": {},
			},
			"personal": {
				"planning": {},
				"health":   {},
			},
			"projects": {},
		},
		Relationships: []string{"builds_on", "contradicts", "clarifies", "supersedes"},
		Contexts:      []string{"decision", "preference", "fact", "ongoing_thread"},
		Dependencies:  []string{"requires", "blocks", "informs", "references"},
	}
}

// hasTerm reports whether the term already exists in the ordered list
func hasTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}
