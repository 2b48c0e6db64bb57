package umbrella

import (
	"sort"
	"strings"

	"github.com/creatorlens/topic-engine/internal/topics"
)

// Label scoring weights: coverage (share of member phrases containing the
// word) dominates raw count so a word spanning the cluster beats a word
// repeated inside one phrase.
const (
	labelCoverageWeight = 3.0
	labelCountWeight    = 0.5

	// labelSoloCoverage is the coverage above which the top word labels the
	// cluster alone.
	labelSoloCoverage = 0.3

	// labelPairScan is how many runner-up words are considered for a
	// two-word label.
	labelPairScan = 3

	// labelPairMaxOverlap: a runner-up qualifies only if it covers a mostly
	// different subset of member phrases than the top word.
	labelPairMaxOverlap = 0.5

	labelMinWordLen = 4
)

type labelWord struct {
	word     string
	count    int
	phrases  map[int]struct{}
	coverage float64
	score    float64
}

// LabelCluster derives a 1-2 word label from the member canonical phrases.
// Words are scored by coverage and count; a dominant word stands alone,
// otherwise it is paired with a runner-up covering a different slice of the
// cluster. Deterministic for a fixed member order.
func LabelCluster(members []string) string {
	if len(members) == 0 {
		return ""
	}

	words := scoreLabelWords(members)
	if len(words) == 0 {
		return labelFallback(members)
	}

	top := words[0]
	if top.coverage >= labelSoloCoverage || len(words) == 1 {
		return capitalize(top.word)
	}

	limit := labelPairScan + 1
	if limit > len(words) {
		limit = len(words)
	}

	for _, runner := range words[1:limit] {
		if phraseOverlap(top.phrases, runner.phrases) < labelPairMaxOverlap {
			return capitalize(top.word) + " " + capitalize(runner.word)
		}
	}

	return capitalize(top.word)
}

func scoreLabelWords(members []string) []labelWord {
	byWord := make(map[string]*labelWord)

	for phraseIdx, phrase := range members {
		for _, word := range strings.Fields(strings.ToLower(phrase)) {
			if len(word) < labelMinWordLen || topics.IsStopWord(word) {
				continue
			}

			lw, ok := byWord[word]
			if !ok {
				lw = &labelWord{word: word, phrases: make(map[int]struct{})}
				byWord[word] = lw
			}

			lw.count++
			lw.phrases[phraseIdx] = struct{}{}
		}
	}

	words := make([]labelWord, 0, len(byWord))

	for _, lw := range byWord {
		lw.coverage = float64(len(lw.phrases)) / float64(len(members))
		lw.score = labelCoverageWeight*lw.coverage + labelCountWeight*float64(lw.count)
		words = append(words, *lw)
	}

	sort.SliceStable(words, func(i, j int) bool {
		if words[i].score != words[j].score {
			return words[i].score > words[j].score
		}

		return words[i].word < words[j].word
	})

	return words
}

// phraseOverlap is the share of the smaller phrase set also present in the
// other.
func phraseOverlap(a, b map[int]struct{}) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	if len(small) == 0 {
		return 0
	}

	shared := 0

	for idx := range small {
		if _, ok := large[idx]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(small))
}

// labelFallback handles clusters whose every word is stoplisted or too
// short: first usable word of the first phrase, else the whole first phrase.
func labelFallback(members []string) string {
	first := members[0]

	for _, word := range strings.Fields(first) {
		if len(word) >= 3 && !topics.IsStopWord(word) {
			return capitalize(word)
		}
	}

	return capitalize(first)
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}

	return strings.ToUpper(word[:1]) + word[1:]
}
