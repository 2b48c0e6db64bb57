package umbrella

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	"github.com/creatorlens/topic-engine/internal/core/vecmath"
	"github.com/creatorlens/topic-engine/internal/platform/observability"
)

// Embedder is the batch-embedding surface the builder needs; the provider
// registry or any caching wrapper satisfies it.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// methodSkipped is recorded when an account has too few canonical topics for
// clustering to run at all.
const methodSkipped = "skipped"

// representativeTopN caps how many member topics, by frequency, represent an
// umbrella in summaries.
const representativeTopN = 5

// Config are the umbrella build tunables.
type Config struct {
	SimilarityThreshold float64
	MinClusterSize      int
	Resolution          float64
	MaxUmbrellas        int
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		MinClusterSize:      2,
		Resolution:          1.0,
		MaxUmbrellas:        5,
	}
}

// Builder assembles semantic umbrellas for an account: it embeds every
// canonical topic, thresholds pairwise similarity into a graph, detects
// communities with the configured strategy cascade, labels each cluster, and
// replaces the account's umbrella set wholesale.
type Builder struct {
	embedder   Embedder
	strategies []Strategy
	cfg        Config
	logger     *zerolog.Logger
}

// NewBuilder resolves the strategy cascade once at construction so the
// chosen clustering path is fixed for the process lifetime.
func NewBuilder(embedder Embedder, strategyName string, cfg Config, logger *zerolog.Logger) (*Builder, error) {
	strategies, err := SelectStrategies(strategyName, logger)
	if err != nil {
		return nil, err
	}

	return &Builder{
		embedder:   embedder,
		strategies: strategies,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Build clusters an account's canonical topics into umbrellas. Too few
// canonical topics yields an empty umbrella set, not an error: "no umbrellas"
// is a valid outcome that still replaces any previous result.
func (b *Builder) Build(ctx context.Context, account domain.AccountTopics) (domain.UmbrellaResult, error) {
	result := domain.UmbrellaResult{
		Account:             account.Account,
		CanonicalTopics:     len(account.Tags),
		ClusteringMethod:    methodSkipped,
		SimilarityThreshold: b.cfg.SimilarityThreshold,
		Umbrellas:           []domain.UmbrellaCluster{},
	}

	for _, tag := range account.Tags {
		result.TotalTopics += tag.Frequency
	}

	if len(account.Tags) < b.cfg.MinClusterSize {
		observability.UmbrellaBuilds.WithLabelValues("skipped").Inc()
		b.logger.Info().Str("account", account.Account).Int("canonical_topics", len(account.Tags)).Msg("too few canonical topics, no umbrellas")

		return result, nil
	}

	nodes, embeds, err := b.embedNodes(ctx, account.Tags)
	if err != nil {
		observability.UmbrellaBuilds.WithLabelValues("failed").Inc()
		return domain.UmbrellaResult{}, fmt.Errorf("embed canonical topics: %w", err)
	}

	graph := BuildGraph(embeds, b.cfg.SimilarityThreshold)

	communities, method, err := detectCommunities(graph, b.cfg.Resolution, b.strategies, b.logger)
	if err != nil {
		observability.UmbrellaBuilds.WithLabelValues("failed").Inc()
		return domain.UmbrellaResult{}, fmt.Errorf("detect communities: %w", err)
	}

	result.ClusteringMethod = method

	clusters := make([]domain.UmbrellaCluster, 0, len(communities))

	for _, community := range communities {
		if len(community) < b.cfg.MinClusterSize {
			continue
		}

		clusters = append(clusters, b.assembleCluster(community, nodes, embeds))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].MemberCount != clusters[j].MemberCount {
			return clusters[i].MemberCount > clusters[j].MemberCount
		}

		if clusters[i].TotalFrequency != clusters[j].TotalFrequency {
			return clusters[i].TotalFrequency > clusters[j].TotalFrequency
		}

		return clusters[i].Label < clusters[j].Label
	})

	result.TotalClusters = len(clusters)

	if len(clusters) > b.cfg.MaxUmbrellas {
		clusters = clusters[:b.cfg.MaxUmbrellas]
	}

	result.Umbrellas = clusters
	result.UmbrellaCount = len(clusters)

	observability.UmbrellaBuilds.WithLabelValues("ok").Inc()
	observability.UmbrellaClusters.Observe(float64(result.TotalClusters))
	observability.ClusteringStrategyUsed.WithLabelValues(method).Inc()

	b.logger.Info().
		Str("account", account.Account).
		Str("clustering_method", method).
		Int("edges", graph.EdgeCount()).
		Int("clusters", result.TotalClusters).
		Int("umbrellas", result.UmbrellaCount).
		Msg("umbrella build complete")

	return result, nil
}

func (b *Builder) embedNodes(ctx context.Context, tags []domain.CanonicalGroup) ([]domain.TopicNode, [][]float32, error) {
	phrases := make([]string, len(tags))
	for i, tag := range tags {
		phrases[i] = tag.Canonical
	}

	embeds, err := b.embedder.EmbedBatch(ctx, phrases)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]domain.TopicNode, len(tags))

	for i, tag := range tags {
		nodes[i] = domain.TopicNode{
			Topic:     tag.Canonical,
			Canonical: tag.Canonical,
			Frequency: tag.Frequency,
			AvgScore:  tag.AvgScore,
			VideoIDs:  tag.VideoIDs,
			Embedding: embeds[i],
		}
	}

	return nodes, embeds, nil
}

func (b *Builder) assembleCluster(community []int, nodes []domain.TopicNode, embeds [][]float32) domain.UmbrellaCluster {
	members := make([]string, 0, len(community))
	memberEmbeds := make([][]float32, 0, len(community))
	videoIDs := make(map[string]struct{})
	totalFrequency := 0
	minFrequency := nodes[community[0]].Frequency
	maxFrequency := minFrequency
	scoreSum := 0.0

	byFrequency := make([]domain.TopicNode, 0, len(community))

	for _, idx := range community {
		node := nodes[idx]

		members = append(members, node.Canonical)
		memberEmbeds = append(memberEmbeds, embeds[idx])
		totalFrequency += node.Frequency
		scoreSum += node.AvgScore
		byFrequency = append(byFrequency, node)

		if node.Frequency < minFrequency {
			minFrequency = node.Frequency
		}

		if node.Frequency > maxFrequency {
			maxFrequency = node.Frequency
		}

		for _, id := range node.VideoIDs {
			videoIDs[id] = struct{}{}
		}
	}

	sort.SliceStable(byFrequency, func(i, j int) bool {
		if byFrequency[i].Frequency != byFrequency[j].Frequency {
			return byFrequency[i].Frequency > byFrequency[j].Frequency
		}

		return byFrequency[i].Canonical < byFrequency[j].Canonical
	})

	topN := representativeTopN
	if topN > len(byFrequency) {
		topN = len(byFrequency)
	}

	representatives := make([]string, 0, topN)
	for _, node := range byFrequency[:topN] {
		representatives = append(representatives, node.Canonical)
	}

	ids := make([]string, 0, len(videoIDs))
	for id := range videoIDs {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return domain.UmbrellaCluster{
		ID:                   uuid.NewString(),
		Label:                LabelCluster(members),
		Members:              members,
		MemberCount:          len(members),
		TotalFrequency:       totalFrequency,
		AvgCoherence:         vecmath.MeanPairwiseCosine(memberEmbeds),
		RepresentativeTopics: representatives,
		VideoIDs:             ids,
		Stats: map[string]float64{
			"min_frequency": float64(minFrequency),
			"max_frequency": float64(maxFrequency),
			"avg_score":     scoreSum / float64(len(community)),
		},
	}
}
