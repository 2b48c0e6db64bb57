package topics

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// minPhraseChars is the minimum candidate length after normalization.
const minPhraseChars = 3

// entityLabels are the named-entity types accepted as topic candidates.
var entityLabels = map[string]struct{}{
	"PERSON":  {},
	"ORG":     {},
	"GPE":     {},
	"PRODUCT": {},
	"EVENT":   {},
}

// ExtractCandidates turns raw transcript text into a deduplicated, ordered
// set of normalized phrase candidates: noun-phrase chunks (with stopword
// tokens removed) plus named entities. Order is first occurrence in the
// text, which downstream selection relies on for stable tie-breaking.
func ExtractCandidates(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	seen := make(map[string]struct{})
	candidates := make([]string, 0, 32)

	add := func(phrase string) {
		normalized := NormalizePhrase(phrase)
		if len(normalized) < minPhraseChars {
			return
		}

		if _, ok := seen[normalized]; ok {
			return
		}

		seen[normalized] = struct{}{}
		candidates = append(candidates, normalized)
	}

	for _, chunk := range nounChunks(doc.Tokens()) {
		add(chunk)
	}

	for _, ent := range doc.Entities() {
		if _, ok := entityLabels[ent.Label]; ok {
			add(ent.Text)
		}
	}

	return candidates, nil
}

// nounChunks scans POS tags for maximal adjective/noun runs containing at
// least one noun, dropping stopword tokens inside each run. This mirrors
// noun-phrase chunking with stop-token removal; no stemming is applied, so
// surface inflections survive into candidates.
func nounChunks(tokens []prose.Token) []string {
	chunks := make([]string, 0, 16)

	run := make([]string, 0, 4)
	hasNoun := false

	flush := func() {
		if hasNoun && len(run) > 0 {
			chunks = append(chunks, strings.Join(run, " "))
		}

		run = run[:0]
		hasNoun = false
	}

	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok.Tag, "NN"), tok.Tag == "VBG":
			// Gerunds head noun phrases in speech ("lucid dreaming",
			// "dream journaling"), so they complete a chunk like nouns do.
			if word := chunkWord(tok.Text); word != "" {
				run = append(run, word)
				hasNoun = true
			}
		case strings.HasPrefix(tok.Tag, "JJ"):
			if word := chunkWord(tok.Text); word != "" {
				run = append(run, word)
			}
		default:
			flush()
		}
	}

	flush()

	return chunks
}

// chunkWord lower-cases a chunk token and drops stopwords.
func chunkWord(text string) string {
	word := strings.ToLower(strings.TrimSpace(text))
	if word == "" || IsStopWord(word) {
		return ""
	}

	return word
}
