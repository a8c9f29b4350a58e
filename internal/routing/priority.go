package routing

import "github.com/quillchat/quill/internal/config"

// EffectivePriority computes the attempt order for one cascade run: the
// optional override entry prepended to the baseline, duplicates removed,
// baseline order otherwise preserved. Pure function; recomputed per call so
// a reconfiguration can never leave a stale merged list behind.
func EffectivePriority(baseline []config.RoutingEntry, override *config.RoutingEntry) []config.RoutingEntry {
	entries := make([]config.RoutingEntry, 0, len(baseline)+1)
	seen := make(map[config.RoutingEntry]struct{}, len(baseline)+1)

	if override != nil {
		entries = append(entries, *override)
		seen[*override] = struct{}{}
	}

	for _, entry := range baseline {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		entries = append(entries, entry)
	}

	return entries
}
