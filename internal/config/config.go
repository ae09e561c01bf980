package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Vector index connection
	VectorStoreURL    string
	VectorStoreAPIKey string

	// Auth
	APIKey string

	// Color classification
	ColorConfigPath string
	ColorTolerance  float64

	// Section assembly
	TitleFontThresholdPt float64
	ParagraphsPerPage    int
	MinSectionChars      int

	// Chunking
	MaxTokens         int
	MinTokens         int
	OverlapTokens     int
	TokenizerEncoding string

	// Worker pool
	WorkerCount    int
	MaxQueueSize   int
	IndexBatchSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		VectorStoreURL:    envOr("VECTORSTORE_URL", "http://localhost:8080"),
		VectorStoreAPIKey: os.Getenv("VECTORSTORE_API_KEY"),

		APIKey: os.Getenv("METASYNTH_API_KEY"),

		ColorConfigPath: os.Getenv("COLOR_CONFIG_PATH"),
		ColorTolerance:  envFloat("COLOR_TOLERANCE", 10),

		TitleFontThresholdPt: envFloat("TITLE_FONT_THRESHOLD_PT", 12),
		ParagraphsPerPage:    envInt("PARAGRAPHS_PER_PAGE", 30),
		MinSectionChars:      envInt("MIN_SECTION_CHARS", 10),

		MaxTokens:         envInt("MAX_TOKENS", 500),
		MinTokens:         envInt("MIN_TOKENS", 50),
		OverlapTokens:     envInt("OVERLAP_TOKENS", 50),
		TokenizerEncoding: envOr("TOKENIZER_ENCODING", "cl100k_base"),

		WorkerCount:    envInt("WORKER_COUNT", 4),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 100),
		IndexBatchSize: envInt("INDEX_BATCH_SIZE", 64),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.ColorTolerance <= 0 {
		cfg.ColorTolerance = 10
	}
	if cfg.TitleFontThresholdPt <= 0 {
		cfg.TitleFontThresholdPt = 12
	}
	if cfg.ParagraphsPerPage <= 0 {
		cfg.ParagraphsPerPage = 30
	}
	if cfg.MinSectionChars <= 0 {
		cfg.MinSectionChars = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = 50
	}
	if cfg.OverlapTokens <= 0 {
		cfg.OverlapTokens = 50
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.IndexBatchSize <= 0 {
		cfg.IndexBatchSize = 64
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.VectorStoreAPIKey == "" {
		return fmt.Errorf("VECTORSTORE_API_KEY is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("METASYNTH_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
