package topics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	"github.com/creatorlens/topic-engine/internal/platform/observability"
)

// Embedder is the embedding surface the pipeline needs. The provider
// registry satisfies it, as does any caching wrapper around it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// minTranscriptChars is the floor below which a transcript is considered
// insufficient for extraction. Short texts yield an empty topic list, not an
// error.
const minTranscriptChars = 50

const (
	// defaultNoiseFloor discards picks whose MMR score indicates noise. Applied
	// after selection, not during it, because an early low score can still be
	// the locally best pick.
	defaultNoiseFloor = -0.1

	// evidenceStoredMax caps how many evidence entries a Topic carries.
	evidenceStoredMax = 3

	// selectionMultiplier over-selects so the noise floor and confidence
	// cutoff still leave enough topics to fill maxTopics.
	selectionMultiplier = 2
)

// ExtractorConfig are the per-process tunables of the topic assembler.
type ExtractorConfig struct {
	MMRLambda          float64
	NoiseFloor         float64
	MaxTopics          int
	MinConfidence      float64
	MinTranscriptChars int
}

// DefaultExtractorConfig mirrors the production defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MMRLambda:          0.7,
		NoiseFloor:         defaultNoiseFloor,
		MaxTopics:          10,
		MinConfidence:      0,
		MinTranscriptChars: minTranscriptChars,
	}
}

// Extractor assembles per-video topics: candidate extraction, stop-phrase
// filtering, MMR selection, evidence linking, canonicalization and confidence
// calibration, in one synchronous pass per video.
type Extractor struct {
	embedder Embedder
	lexicon  *Lexicon
	cfg      ExtractorConfig
	logger   *zerolog.Logger
}

func NewExtractor(embedder Embedder, lexicon *Lexicon, cfg ExtractorConfig, logger *zerolog.Logger) *Extractor {
	if lexicon == nil {
		lexicon = EmptyLexicon()
	}

	return &Extractor{
		embedder: embedder,
		lexicon:  lexicon,
		cfg:      cfg,
		logger:   logger,
	}
}

// ExtractVideo derives topics for one video. Failures are isolated: any error
// (or panic inside the NLP stack) is logged and yields an empty topic list so
// that one bad video never aborts an account batch. The returned error exists
// only so callers can count failures; the result is always usable.
func (e *Extractor) ExtractVideo(ctx context.Context, video domain.VideoInput) (domain.VideoTopics, error) {
	result := domain.VideoTopics{
		VideoID:     video.VideoID,
		Title:       video.Title,
		Topics:      []domain.Topic{},
		ExtractedAt: time.Now().UTC(),
	}

	topics, err := e.extract(ctx, video)
	if err != nil {
		observability.ExtractionFailures.Inc()
		observability.VideosProcessed.WithLabelValues("failed").Inc()
		e.logger.Error().Err(err).Str("video_id", video.VideoID).Msg("topic extraction failed, emitting empty topic list")

		return result, err
	}

	result.Topics = topics
	result.TotalTopics = len(topics)

	observability.VideosProcessed.WithLabelValues("ok").Inc()
	observability.TopicsPerVideo.Observe(float64(len(topics)))

	return result, nil
}

func (e *Extractor) extract(ctx context.Context, video domain.VideoInput) (topics []domain.Topic, err error) {
	// The tokenizer and tagger operate on arbitrary user speech; a panic in
	// that stack counts as a per-video failure, nothing more.
	defer func() {
		if r := recover(); r != nil {
			topics = nil
			err = newPanicError(r)
		}
	}()

	transcript := strings.TrimSpace(video.Transcript)
	if len(transcript) < e.cfg.MinTranscriptChars {
		e.logger.Debug().Str("video_id", video.VideoID).Int("chars", len(transcript)).Msg("transcript too short, skipping extraction")
		return []domain.Topic{}, nil
	}

	candidates, err := ExtractCandidates(transcript)
	if err != nil {
		return nil, err
	}

	candidates = e.filterStopPhrases(candidates)
	observability.CandidatesPerVideo.Observe(float64(len(candidates)))

	if len(candidates) == 0 {
		return []domain.Topic{}, nil
	}

	docEmbed, err := e.embedder.Embed(ctx, transcript)
	if err != nil {
		return nil, err
	}

	candidateEmbeds, err := e.embedder.EmbedBatch(ctx, candidates)
	if err != nil {
		return nil, err
	}

	picks := SelectMMR(candidates, candidateEmbeds, docEmbed, e.cfg.MMRLambda, selectionMultiplier*e.cfg.MaxTopics)

	title := NormalizePhrase(video.Title)
	hashtags := normalizedHashtags(video.Hashtags)

	topics = make([]domain.Topic, 0, len(picks))

	for _, pick := range picks {
		if pick.Score < e.cfg.NoiseFloor {
			continue
		}

		evidence := FindEvidence(pick.Phrase, video.Sentences, transcript)
		confidence := Confidence(pick.Score, len(evidence))

		if confidence < e.cfg.MinConfidence {
			continue
		}

		// distinct_sentences counts every supporting sentence, including the
		// ones the storage cap trims off below.
		distinctSentences := len(evidence)

		if len(evidence) > evidenceStoredMax {
			evidence = evidence[:evidenceStoredMax]
		}

		topics = append(topics, domain.Topic{
			Tag:        pick.Phrase,
			Canonical:  e.lexicon.Canonicalize(pick.Phrase),
			Confidence: confidence,
			Sources:    topicSources(pick.Phrase, title, hashtags),
			Evidence:   evidence,
			Score:      pick.Score,
			Stats: map[string]float64{
				"distinct_sentences": float64(distinctSentences),
				"mmr_score":          pick.Score,
			},
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Confidence > topics[j].Confidence
	})

	if len(topics) > e.cfg.MaxTopics {
		topics = topics[:e.cfg.MaxTopics]
	}

	return topics, nil
}

func (e *Extractor) filterStopPhrases(candidates []string) []string {
	kept := candidates[:0]

	for _, phrase := range candidates {
		if e.lexicon.IsStopPhrase(phrase) {
			continue
		}

		kept = append(kept, phrase)
	}

	return kept
}

// topicSources attributes where a phrase was observed. Every topic comes from
// the transcript; title and hashtag containment add extra sources. Hashtags
// match by substring, so "skincare" still attributes against "#skincareroutine".
func topicSources(phrase, normalizedTitle string, hashtags []string) []string {
	sources := []string{domain.SourceTranscript}

	if normalizedTitle != "" && strings.Contains(normalizedTitle, phrase) {
		sources = append(sources, domain.SourceTitle)
	}

	for _, tag := range hashtags {
		if strings.Contains(tag, phrase) {
			sources = append(sources, domain.SourceHashtag)
			break
		}
	}

	return sources
}

func newPanicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("extraction panic: %w", err)
	}

	return fmt.Errorf("extraction panic: %v", r)
}

func normalizedHashtags(hashtags []string) []string {
	if len(hashtags) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(hashtags))

	for _, tag := range hashtags {
		if n := normalizeHashtag(tag); n != "" {
			normalized = append(normalized, n)
		}
	}

	return normalized
}
