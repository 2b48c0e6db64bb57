package domain

import "time"

// TopicSource identifies where a topic surface form was observed.
const (
	SourceTranscript = "transcript"
	SourceTitle      = "title"
	SourceHashtag    = "hashtag"
)

// TranscriptSentence is one segmented sentence of a video transcript with
// timing produced by the upstream transcription service. Read-only input.
type TranscriptSentence struct {
	Index     int     `json:"sentence_index"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// VideoInput is everything the derivation pipeline consumes for one video.
type VideoInput struct {
	VideoID    string
	Transcript string
	Sentences  []TranscriptSentence
	Title      string
	Hashtags   []string
	ViewCount  int64
}

// TopicEvidence is a transcript sentence supporting a topic's presence.
// Immutable once created; owned by exactly one Topic.
type TopicEvidence struct {
	SentenceIndex int     `json:"sentence_index"`
	StartTime     float64 `json:"start"`
	EndTime       float64 `json:"end"`
	Text          string  `json:"text"`
}

// Topic is one derived topic for a single video.
type Topic struct {
	Tag        string             `json:"tag"`
	Canonical  string             `json:"canonical"`
	Confidence float64            `json:"confidence"`
	Sources    []string           `json:"sources"`
	Evidence   []TopicEvidence    `json:"evidence"`
	Score      float64            `json:"score"`
	Stats      map[string]float64 `json:"stats,omitempty"`
}

// VideoTopics is the serializable per-video derivation result.
type VideoTopics struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title,omitempty"`
	TotalTopics int       `json:"total_topics"`
	Topics      []Topic   `json:"topics"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// CanonicalGroup is the account-level fold of all per-video topics sharing a
// canonical form. Mutated only during aggregation; immutable afterward.
type CanonicalGroup struct {
	Canonical        string   `json:"tag"`
	Variants         []string `json:"variants,omitempty"`
	Frequency        int      `json:"frequency"`
	AvgScore         float64  `json:"avg_score"`
	AvgConfidence    float64  `json:"avg_confidence"`
	EngagementWeight float64  `json:"engagement_weight"`
	CombinedScore    float64  `json:"combined_score"`
	VideoIDs         []string `json:"video_ids"`
	Sources          []string `json:"sources,omitempty"`
}

// AccountTopics is the ranked canonical-topic table for an account.
type AccountTopics struct {
	Account     string           `json:"username"`
	TotalTags   int              `json:"total_tags"`
	TotalVideos int              `json:"total_videos"`
	Tags        []CanonicalGroup `json:"tags"`
}

// TopicNode is one canonical topic considered for umbrella clustering.
type TopicNode struct {
	Topic     string
	Canonical string
	Frequency int
	AvgScore  float64
	VideoIDs  []string
	Embedding []float32
}

// UmbrellaCluster is a detected semantic umbrella of related canonical
// topics. Created once per clustering run and never mutated afterward.
type UmbrellaCluster struct {
	ID                   string             `json:"umbrella_id"`
	Label                string             `json:"label"`
	Members              []string           `json:"members"`
	MemberCount          int                `json:"member_count"`
	TotalFrequency       int                `json:"total_frequency"`
	AvgCoherence         float64            `json:"avg_coherence"`
	RepresentativeTopics []string           `json:"representative_topics"`
	VideoIDs             []string           `json:"video_ids"`
	Stats                map[string]float64 `json:"stats,omitempty"`
}

// UmbrellaResult is the full umbrella output for an account; it replaces any
// prior version wholesale on each run.
type UmbrellaResult struct {
	Account             string            `json:"username"`
	TotalTopics         int               `json:"total_topics"`
	CanonicalTopics     int               `json:"canonical_topics"`
	UmbrellaCount       int               `json:"umbrella_count"`
	TotalClusters       int               `json:"total_clusters"`
	ClusteringMethod    string            `json:"clustering_method"`
	SimilarityThreshold float64           `json:"similarity_threshold"`
	Umbrellas           []UmbrellaCluster `json:"umbrellas"`
}

// CategoryResult classifies an account into one broad category by embedding
// similarity of its top canonical tags.
type CategoryResult struct {
	Category   string             `json:"category"`
	Confidence float64            `json:"confidence"`
	AllScores  map[string]float64 `json:"all_scores,omitempty"`
}

// RunSummary records the outcome of one account derivation run.
type RunSummary struct {
	Account     string    `json:"username"`
	TotalVideos int       `json:"total_videos"`
	Extracted   int       `json:"extracted"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
