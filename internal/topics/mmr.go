package topics

import (
	"github.com/creatorlens/topic-engine/internal/core/vecmath"
)

// Pick is one MMR selection: a candidate phrase and its marginal-relevance
// score at the moment it was chosen.
type Pick struct {
	Phrase string
	Score  float64
}

// SelectMMR runs Maximal Marginal Relevance selection over the candidates:
// each round picks the candidate maximizing
//
//	lambda*relevance(candidate, document) - (1-lambda)*maxSimilarity(candidate, selected)
//
// where both terms are cosine similarities. candidates and embeds must be
// parallel slices. Ties break toward the earliest remaining candidate
// (strict greater-than comparison), which keeps output reproducible for
// identical inputs; callers must not reorder the candidate list between
// runs.
//
// Returns at most topN picks with no duplicate phrases. MMR scores are
// unbounded in theory but land in roughly [-0.5, 0.7] in practice; filtering
// low-quality picks is the caller's concern because an early low score can
// still be the locally best choice.
func SelectMMR(candidates []string, embeds [][]float32, docEmbed []float32, lambda float64, topN int) []Pick {
	n := len(candidates)
	if n == 0 || topN <= 0 || len(embeds) != n {
		return nil
	}

	// Relevance to the document is fixed per candidate; compute it once.
	relevance := make([]float64, n)
	for i := range candidates {
		relevance[i] = vecmath.Cosine(embeds[i], docEmbed)
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	limit := topN
	if limit > n {
		limit = n
	}

	picks := make([]Pick, 0, limit)
	selected := make([]int, 0, limit)

	for len(picks) < limit && len(remaining) > 0 {
		bestPos := -1
		bestScore := 0.0

		for pos, idx := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				if sim := vecmath.Cosine(embeds[idx], embeds[sel]); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*relevance[idx] - (1-lambda)*redundancy

			if bestPos < 0 || score > bestScore {
				bestPos = pos
				bestScore = score
			}
		}

		idx := remaining[bestPos]
		picks = append(picks, Pick{Phrase: candidates[idx], Score: bestScore})
		selected = append(selected, idx)
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return picks
}
