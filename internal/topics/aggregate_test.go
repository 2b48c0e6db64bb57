package topics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/topic-engine/internal/core/domain"
)

func topic(tag, canonical string, score, confidence float64) domain.Topic {
	return domain.Topic{
		Tag:        tag,
		Canonical:  canonical,
		Confidence: confidence,
		Score:      score,
		Sources:    []string{domain.SourceTranscript},
	}
}

func TestAggregateAccountSingleVideoNoViews(t *testing.T) {
	videos := []domain.VideoInput{{VideoID: "v1", ViewCount: 0}}
	perVideo := []domain.VideoTopics{{
		VideoID: "v1",
		Topics:  []domain.Topic{topic("mindfulness", "mindfulness", 0.8, 0.9)},
	}}

	result := AggregateAccount("creator", videos, perVideo)

	require.Len(t, result.Tags, 1)
	group := result.Tags[0]

	assert.Equal(t, "mindfulness", group.Canonical)
	assert.Equal(t, 1, group.Frequency)
	assert.InDelta(t, 0.8, group.AvgScore, 1e-9)
	assert.InDelta(t, 1.0, group.EngagementWeight, 1e-9, "no views means weight exactly 1.0")
	assert.InDelta(t, 0.8, group.CombinedScore, 1e-9)
	assert.Equal(t, []string{"v1"}, group.VideoIDs)
}

func TestAggregateAccountFolding(t *testing.T) {
	videos := []domain.VideoInput{
		{VideoID: "v1", ViewCount: 1000},
		{VideoID: "v2", ViewCount: 5000},
		{VideoID: "v3", ViewCount: 0},
	}

	perVideo := []domain.VideoTopics{
		{VideoID: "v1", Topics: []domain.Topic{
			topic("meditating", "meditation", 0.6, 0.7),
			topic("sleep hygiene", "sleep hygiene", 0.4, 0.5),
		}},
		{VideoID: "v2", Topics: []domain.Topic{
			topic("meditation", "meditation", 0.8, 0.9),
		}},
		{VideoID: "v3", Topics: []domain.Topic{
			topic("meditation", "meditation", 0.7, 0.8),
		}},
	}

	result := AggregateAccount("creator", videos, perVideo)

	assert.Equal(t, "creator", result.Account)
	assert.Equal(t, 3, result.TotalVideos)
	require.Len(t, result.Tags, 2)

	med := result.Tags[0]
	assert.Equal(t, "meditation", med.Canonical, "highest combined score ranks first")
	assert.Equal(t, 3, med.Frequency)
	assert.ElementsMatch(t, []string{"meditating", "meditation"}, med.Variants)
	assert.ElementsMatch(t, []string{"v1", "v2", "v3"}, med.VideoIDs)
	assert.InDelta(t, (0.6+0.8+0.7)/3, med.AvgScore, 1e-9)
	assert.InDelta(t, (0.7+0.9+0.8)/3, med.AvgConfidence, 1e-9)

	wantWeight := 1 + math.Log1p(6000)/20
	assert.InDelta(t, wantWeight, med.EngagementWeight, 1e-9)
	assert.InDelta(t, 3*med.AvgScore*wantWeight, med.CombinedScore, 1e-9)
}

func TestAggregateAccountCommutative(t *testing.T) {
	videos := []domain.VideoInput{
		{VideoID: "v1", ViewCount: 100},
		{VideoID: "v2", ViewCount: 200},
	}

	perVideo := []domain.VideoTopics{
		{VideoID: "v1", Topics: []domain.Topic{topic("yoga", "yoga", 0.5, 0.6), topic("pilates", "pilates", 0.3, 0.4)}},
		{VideoID: "v2", Topics: []domain.Topic{topic("yoga", "yoga", 0.7, 0.8)}},
	}

	forward := AggregateAccount("creator", videos, perVideo)

	reversed := []domain.VideoTopics{perVideo[1], perVideo[0]}
	backward := AggregateAccount("creator", videos, reversed)

	assert.Equal(t, forward.Tags, backward.Tags, "folding must not depend on video order")
}

func TestAggregateAccountEmpty(t *testing.T) {
	result := AggregateAccount("creator", nil, nil)

	assert.Equal(t, 0, result.TotalTags)
	assert.Empty(t, result.Tags)
}

func TestEngagementWeight(t *testing.T) {
	assert.InDelta(t, 1.0, EngagementWeight(0), 1e-9)
	assert.InDelta(t, 1.0, EngagementWeight(-5), 1e-9)
	assert.InDelta(t, 1+math.Log1p(1000)/20, EngagementWeight(1000), 1e-9)
	assert.Greater(t, EngagementWeight(1_000_000), EngagementWeight(1000))
	assert.Less(t, EngagementWeight(1_000_000), 2.0, "weight nudges rather than dominates")
}
