package taxonomy

import "strings"

// TrimMetadata is the parsed record extracted from one turn's taxonomy
// section. TopicHierarchy is mandatory; everything else is optional.
type TrimMetadata struct {
	TopicHierarchy string
	Keywords       []string
	Dependencies   []string
	Sentiment      string
	ContextDeltas  []string
}

// ParseTrimMetadata extracts the fixed-prefix lines from a taxonomy section.
// Returns false when the mandatory topic_hierarchy line is absent; the
// caller then skips taxonomy evolution for the turn.
func ParseTrimMetadata(text string) (*TrimMetadata, bool) {
	meta := &TrimMetadata{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "topic_hierarchy:"):
			meta.TopicHierarchy = strings.TrimSpace(strings.TrimPrefix(line, "topic_hierarchy:"))
		case strings.HasPrefix(line, "keywords:"):
			meta.Keywords = parseList(strings.TrimPrefix(line, "keywords:"))
		case strings.HasPrefix(line, "dependencies:"):
			meta.Dependencies = parseList(strings.TrimPrefix(line, "dependencies:"))
		case strings.HasPrefix(line, "sentiment:"):
			meta.Sentiment = strings.TrimSpace(strings.TrimPrefix(line, "sentiment:"))
		case strings.HasPrefix(line, "context_deltas:"):
			meta.ContextDeltas = parseList(strings.TrimPrefix(line, "context_deltas:"))
		}
	}

	if meta.TopicHierarchy == "" {
		return nil, false
	}

	return meta, true
}

// ValidateKeywords normalizes keywords (lowercase, underscores to hyphens)
// without ever dropping entries.
func ValidateKeywords(keywords []string) []string {
	result := make([]string, len(keywords))

	for i, keyword := range keywords {
		result[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(keyword)), "_", "-")
	}

	return result
}

// ValidateDependencies keeps only "type: detail" entries whose type is in
// the dependency-type vocabulary; everything else is silently dropped.
func (s *Store) ValidateDependencies(dependencies []string) []string {
	types := s.DependencyTypes()

	var result []string
	for _, dep := range dependencies {
		depType, detail, ok := strings.Cut(dep, ":")
		if !ok || strings.TrimSpace(detail) == "" {
			continue
		}

		depType = strings.ToLower(strings.TrimSpace(depType))
		if !hasTerm(types, depType) {
			continue
		}

		result = append(result, depType+": "+strings.TrimSpace(detail))
	}

	return result
}

// parseList parses the literal "[a, b, c]" list syntax
func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")

	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}

	return result
}
