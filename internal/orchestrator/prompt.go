package orchestrator

import (
	"fmt"
	"strings"
)

// responseContract is the wire contract with the model: the three literal
// markers, in their fixed order, are the only delimiters the decomposer
// recognizes.
const responseContract = `Structure every reply with exactly these sections, in this order:

---TAXONOMY_ANALYSIS---
topic_hierarchy: category/subcategory/specific
keywords: [keyword-one, keyword-two]
dependencies: [requires: detail, references: detail]
sentiment: one word, optional
context_deltas: [changes to remembered context, optional]
---MAIN_RESPONSE---
The reply shown to the user.
---MACHINE_TRIM---
A compressed structured summary of this turn.`

// defaultPersonaPreambles gives the named voices their standing instructions
func defaultPersonaPreambles() map[string]string {
	return map[string]string{
		"claude": "You are Claude, the resident engineering voice of this chat client.",
		"sage":   "You are Sage, a calm and reflective journaling companion.",
		"scout":  "You are Scout, a brisk research assistant who cites what it knows.",
	}
}

// buildSystemPrompt assembles the persona preamble, the response contract,
// and the current taxonomy context into one system prompt.
func (o *Orchestrator) buildSystemPrompt(persona, taxonomyContext string) string {
	preamble, ok := o.personas[strings.ToLower(persona)]
	if !ok {
		preamble = fmt.Sprintf("You are %s, a persona of this chat client.", persona)
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	b.WriteString(responseContract)

	if taxonomyContext != "" {
		b.WriteString("\n\n")
		b.WriteString(taxonomyContext)
	}

	return b.String()
}
