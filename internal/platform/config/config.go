package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings. The empirically chosen
// derivation constants (MMR lambda, noise floor, similarity threshold) are
// deliberately tunable rather than hard-coded.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Embeddings
	EmbeddingAPIKey     string `env:"EMBEDDING_API_KEY,required"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`
	EmbeddingRateLimit  int    `env:"EMBEDDING_RATE_LIMIT_RPS" envDefault:"2"`

	// Topic lexicon (stop phrases + canonical merge rules)
	TopicConfigPath string `env:"TOPIC_CONFIG_PATH" envDefault:"./config/topics.yaml"`

	// Per-video extraction
	MMRLambda          float64 `env:"MMR_LAMBDA" envDefault:"0.7"`
	MMRNoiseFloor      float64 `env:"MMR_NOISE_FLOOR" envDefault:"-0.1"`
	MaxTopics          int     `env:"MAX_TOPICS" envDefault:"10"`
	MinConfidence      float64 `env:"MIN_CONFIDENCE" envDefault:"0"`
	MinTranscriptChars int     `env:"MIN_TRANSCRIPT_CHARS" envDefault:"50"`

	// Umbrella clustering
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.7"`
	MinClusterSize      int     `env:"MIN_CLUSTER_SIZE" envDefault:"2"`
	ClusterResolution   float64 `env:"CLUSTER_RESOLUTION" envDefault:"1.0"`
	MaxUmbrellas        int     `env:"MAX_UMBRELLAS" envDefault:"5"`
	ClusteringStrategy  string  `env:"CLUSTERING_STRATEGY" envDefault:"auto"`

	// Worker
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"30s"`
	WorkerBatchSize    int           `env:"WORKER_BATCH_SIZE" envDefault:"5"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"15m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// Load reads configuration from the environment, honoring a local .env file
// if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
