// Package decompose splits one raw LLM reply into its structured sections.
// The wire contract with the model is three literal markers, expected in a
// fixed order; anything else degrades to "the whole reply is the main
// response". This parser never fails.
package decompose

import "strings"

// Literal section markers. These exact tokens, in this order, are the only
// recognized delimiters.
const (
	MarkerTaxonomy = "---TAXONOMY_ANALYSIS---"
	MarkerMain     = "---MAIN_RESPONSE---"
	MarkerTrim     = "---MACHINE_TRIM---"
)

// Result holds the decomposed sections. An empty field means the section is
// absent; MainResponse is always populated for non-empty input.
type Result struct {
	// TaxonomyAnalysis carries the trim-metadata lines for taxonomy evolution
	TaxonomyAnalysis string

	// MainResponse is the user-facing reply text
	MainResponse string

	// MachineTrim is the compressed structured summary of the turn
	MachineTrim string
}

// Split decomposes a raw reply. If the main-response marker is absent the
// entire trimmed input becomes the main response, so callers always get
// usable content even from malformed or legacy output.
func Split(raw string) Result {
	idxMain := strings.Index(raw, MarkerMain)
	if idxMain < 0 {
		return Result{MainResponse: strings.TrimSpace(raw)}
	}

	idxTaxonomy := strings.Index(raw, MarkerTaxonomy)
	idxTrim := strings.Index(raw, MarkerTrim)

	// Markers appearing out of their fixed order are not recognized as
	// delimiters.
	if idxTaxonomy > idxMain {
		idxTaxonomy = -1
	}
	if idxTrim >= 0 && idxTrim < idxMain {
		idxTrim = -1
	}

	var result Result

	if idxTaxonomy >= 0 {
		result.TaxonomyAnalysis = strings.TrimSpace(raw[idxTaxonomy+len(MarkerTaxonomy) : idxMain])
	}

	mainEnd := len(raw)
	if idxTrim >= 0 {
		mainEnd = idxTrim
	}
	result.MainResponse = strings.TrimSpace(raw[idxMain+len(MarkerMain) : mainEnd])

	if idxTrim >= 0 {
		result.MachineTrim = strings.TrimSpace(raw[idxTrim+len(MarkerTrim):])
	}

	return result
}
