package topics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the account-independent phrase configuration: the stop-phrase
// denylist and the canonical merge table. It is loaded once per process and
// treated as read-only during extraction.
type Lexicon struct {
	stopPhrases map[string]struct{}
	mergeRules  map[string]string
}

// lexiconFile is the on-disk YAML shape.
type lexiconFile struct {
	StopPhrases []string          `yaml:"stop_phrases"`
	MergeRules  map[string]string `yaml:"merge_rules"`
}

// NewLexicon builds a lexicon from explicit entries. Keys and values are
// normalized so lookups are insensitive to case and surrounding punctuation.
func NewLexicon(stopPhrases []string, mergeRules map[string]string) *Lexicon {
	lex := &Lexicon{
		stopPhrases: make(map[string]struct{}, len(stopPhrases)),
		mergeRules:  make(map[string]string, len(mergeRules)),
	}

	for _, phrase := range stopPhrases {
		if normalized := NormalizePhrase(phrase); normalized != "" {
			lex.stopPhrases[normalized] = struct{}{}
		}
	}

	for from, to := range mergeRules {
		fromNorm := NormalizePhrase(from)
		toNorm := NormalizePhrase(to)

		if fromNorm != "" && toNorm != "" {
			lex.mergeRules[fromNorm] = toNorm
		}
	}

	return lex
}

// EmptyLexicon returns a lexicon with no stop phrases and no merge rules.
func EmptyLexicon() *Lexicon {
	return NewLexicon(nil, nil)
}

// LoadLexicon reads the lexicon YAML file. A missing file is not an error:
// extraction runs with an empty lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptyLexicon(), nil
		}

		return nil, fmt.Errorf("read lexicon file: %w", err)
	}

	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon file: %w", err)
	}

	return NewLexicon(file.StopPhrases, file.MergeRules), nil
}

// IsStopPhrase reports whether the phrase is on the denylist
// (case-insensitive exact match after normalization).
func (l *Lexicon) IsStopPhrase(phrase string) bool {
	_, ok := l.stopPhrases[NormalizePhrase(phrase)]
	return ok
}

// Canonicalize maps a phrase to its canonical form: the merge-table entry if
// present, otherwise the normalized phrase itself. Idempotent as long as the
// merge table maps onto fixed points, which NewLexicon's normalization
// guarantees for identity entries.
func (l *Lexicon) Canonicalize(phrase string) string {
	normalized := NormalizePhrase(phrase)
	if canonical, ok := l.mergeRules[normalized]; ok {
		return canonical
	}

	return normalized
}

// StopPhraseCount returns the number of configured stop phrases.
func (l *Lexicon) StopPhraseCount() int {
	return len(l.stopPhrases)
}

// MergeRuleCount returns the number of configured merge rules.
func (l *Lexicon) MergeRuleCount() int {
	return len(l.mergeRules)
}
