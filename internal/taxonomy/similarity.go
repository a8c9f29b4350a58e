package taxonomy

import (
	"fmt"
	"strings"
)

// abbreviations is a small fixed table of long-form/short-form name pairs
// treated as near-duplicates of each other.
var abbreviations = map[string]string{
	"technology":     "tech",
	"development":    "dev",
	"javascript":     "js",
	"typescript":     "ts",
	"application":    "app",
	"database":       "db",
	"configuration":  "config",
	"documentation":  "docs",
	"kubernetes":     "k8s",
	"infrastructure": "infra",
}

// nearDuplicateWarnings compares a proposed name against the existing names
// at the same hierarchy level. The check is deliberately conservative and
// purely advisory: false positives are acceptable, and warnings never block
// a commit. Caller holds at least the read lock.
func (s *Store) nearDuplicateWarnings(proposed string, existing []string) []string {
	var warnings []string

	for _, name := range existing {
		if name == proposed {
			// Exact reuse of an existing name is the desired outcome.
			continue
		}
		if nearDuplicate(proposed, name) {
			warnings = append(warnings, fmt.Sprintf("%q is similar to existing %q", proposed, name))
		}
	}

	return warnings
}

// nearDuplicate reports whether two names normalize to the same thing, are
// substrings of each other, or match through the abbreviation table.
func nearDuplicate(a, b string) bool {
	na := normalizeName(a)
	nb := normalizeName(b)

	if na == "" || nb == "" {
		return false
	}

	if na == nb {
		return true
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	return abbreviations[na] == nb || abbreviations[nb] == na
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
}
