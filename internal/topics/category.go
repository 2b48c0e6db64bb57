package topics

import (
	"context"
	"fmt"
	"math"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	"github.com/creatorlens/topic-engine/internal/core/errors"
	"github.com/creatorlens/topic-engine/internal/core/vecmath"
)

// broadCategories is the fixed taxonomy accounts are classified into. Order
// matters only for deterministic tie-breaking.
var broadCategories = []string{
	"Philosophy",
	"Spirituality",
	"Self-Improvement",
	"Psychology",
	"Business",
	"Health",
	"Tech",
	"Politics",
	"History",
	"Creativity",
	"Education",
	"Entertainment",
	"Music",
	"Art",
	"Science",
}

// categoryTopTags is how many top-ranked canonical tags feed classification.
const categoryTopTags = 10

// Classifier assigns an account one broad category by comparing the mean
// embedding of its top canonical tags against each category name's embedding.
type Classifier struct {
	embedder Embedder
}

func NewClassifier(embedder Embedder) *Classifier {
	return &Classifier{embedder: embedder}
}

// Classify embeds the account's top canonical tags, averages them, and scores
// every broad category by cosine similarity. Confidence is the winning raw
// cosine similarity, rounded to 3 decimals.
func (c *Classifier) Classify(ctx context.Context, account domain.AccountTopics) (domain.CategoryResult, error) {
	tags := account.Tags
	if len(tags) == 0 {
		return domain.CategoryResult{}, errors.ErrNoTopics
	}

	if len(tags) > categoryTopTags {
		tags = tags[:categoryTopTags]
	}

	phrases := make([]string, 0, len(tags))
	for _, tag := range tags {
		phrases = append(phrases, tag.Canonical)
	}

	tagEmbeds, err := c.embedder.EmbedBatch(ctx, phrases)
	if err != nil {
		return domain.CategoryResult{}, fmt.Errorf("embed account tags: %w", err)
	}

	profile := vecmath.Mean(tagEmbeds)

	categoryEmbeds, err := c.embedder.EmbedBatch(ctx, broadCategories)
	if err != nil {
		return domain.CategoryResult{}, fmt.Errorf("embed categories: %w", err)
	}

	result := domain.CategoryResult{
		AllScores: make(map[string]float64, len(broadCategories)),
	}

	best := math.Inf(-1)

	for i, category := range broadCategories {
		score := vecmath.Cosine(profile, categoryEmbeds[i])
		result.AllScores[category] = math.Round(score*1000) / 1000

		if score > best {
			best = score
			result.Category = category
		}
	}

	result.Confidence = math.Round(best*1000) / 1000

	return result, nil
}
