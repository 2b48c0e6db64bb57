package topics

import (
	"math"
	"sort"

	"github.com/creatorlens/topic-engine/internal/core/domain"
)

// engagementViewScale dampens view counts in the engagement weight so a viral
// video nudges rather than dominates the ranking.
const engagementViewScale = 20.0

// canonicalAccumulator folds per-video topics sharing a canonical form.
type canonicalAccumulator struct {
	canonical  string
	variants   map[string]struct{}
	frequency  int
	scoreSum   float64
	confSum    float64
	videoIDs   map[string]struct{}
	sources    map[string]struct{}
	totalViews int64
	viewsSeen  map[string]struct{}
}

// AggregateAccount folds all per-video topic lists for an account into ranked
// CanonicalGroups. Folding is commutative over video order: frequency sums,
// scores average, and video_ids/sources union, so two runs over the same set
// of videos produce the same table regardless of iteration order.
func AggregateAccount(account string, videos []domain.VideoInput, perVideo []domain.VideoTopics) domain.AccountTopics {
	views := make(map[string]int64, len(videos))
	for _, v := range videos {
		views[v.VideoID] = v.ViewCount
	}

	groups := make(map[string]*canonicalAccumulator)

	for _, vt := range perVideo {
		for _, topic := range vt.Topics {
			acc, ok := groups[topic.Canonical]
			if !ok {
				acc = &canonicalAccumulator{
					canonical: topic.Canonical,
					variants:  make(map[string]struct{}),
					videoIDs:  make(map[string]struct{}),
					sources:   make(map[string]struct{}),
					viewsSeen: make(map[string]struct{}),
				}
				groups[topic.Canonical] = acc
			}

			acc.frequency++
			acc.scoreSum += topic.Score
			acc.confSum += topic.Confidence
			acc.variants[topic.Tag] = struct{}{}

			if _, seen := acc.viewsSeen[vt.VideoID]; !seen {
				acc.viewsSeen[vt.VideoID] = struct{}{}
				acc.totalViews += views[vt.VideoID]
			}

			acc.videoIDs[vt.VideoID] = struct{}{}

			for _, src := range topic.Sources {
				acc.sources[src] = struct{}{}
			}
		}
	}

	tags := make([]domain.CanonicalGroup, 0, len(groups))

	for _, acc := range groups {
		avgScore := acc.scoreSum / float64(acc.frequency)

		tags = append(tags, domain.CanonicalGroup{
			Canonical:        acc.canonical,
			Variants:         sortedKeys(acc.variants),
			Frequency:        acc.frequency,
			AvgScore:         avgScore,
			AvgConfidence:    acc.confSum / float64(acc.frequency),
			EngagementWeight: EngagementWeight(acc.totalViews),
			VideoIDs:         sortedKeys(acc.videoIDs),
			Sources:          sortedKeys(acc.sources),
		})
	}

	for i := range tags {
		tags[i].CombinedScore = float64(tags[i].Frequency) * tags[i].AvgScore * tags[i].EngagementWeight
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].CombinedScore != tags[j].CombinedScore {
			return tags[i].CombinedScore > tags[j].CombinedScore
		}

		return tags[i].Canonical < tags[j].Canonical
	})

	return domain.AccountTopics{
		Account:     account,
		TotalTags:   len(tags),
		TotalVideos: len(perVideo),
		Tags:        tags,
	}
}

// EngagementWeight maps total views across the videos containing a tag into a
// ranking multiplier: 1 + ln(1+views)/20. An account with no view data gets
// weight 1.0 exactly.
func EngagementWeight(totalViews int64) float64 {
	if totalViews <= 0 {
		return 1.0
	}

	return 1.0 + math.Log1p(float64(totalViews))/engagementViewScale
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
